package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if a service listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config services.<name>.port listening port can not be 0")

	// ErrDuplicatePort error if two services share the same listening port.
	ErrDuplicatePort = errors.New("toml config services.<name>.port is used twice")

	// ErrNoServices error if no service section was configured.
	ErrNoServices = errors.New("toml config services can not be empty")

	// ErrEmptyJWTKey error if jwt is enabled without a signing key.
	ErrEmptyJWTKey = errors.New("toml config auth.jwt.key can not be empty when jwt is enabled")

	// ErrUnknownDBEngine error if db.gormEngine is none of sqlite, postgres or mysql.
	ErrUnknownDBEngine = errors.New("toml config db.gormEngine is not supported")
)
