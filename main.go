package main

import (
	"os"

	"github.com/apota/mydms-sub010/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
