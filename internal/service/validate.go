package service

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator, field names are reported by their json name.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return f.Name
			}

			return name
		})
	})

	return validate
}

// Validate checks v against its validate struct tags and returns a *ValidationError.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fromValidator(err)
	}

	return nil
}
