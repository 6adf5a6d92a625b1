package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/apota/mydms-sub010/internal/repository"
)

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = repository.ErrNotFound

	// ErrConflict is returned when a unique key is already taken.
	ErrConflict = errors.New("conflict")
)

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError is returned for input failing validation, its messages
// are safe to return to clients.
type ValidationError struct {
	Fields []FieldError
}

// Error implements error.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}

	return "validation failed: " + strings.Join(msgs, "; ")
}

// Messages returns the client facing messages.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}

	return msgs
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, tag, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Tag: tag, Message: message}}}
}

// Conflictf wraps ErrConflict with a client facing message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a client facing message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Message returns the client facing part of an error built by Conflictf or
// NotFoundf, or fallback.
func Message(err error, fallback string) string {
	for _, sentinel := range []error{ErrNotFound, ErrConflict} {
		if prefix := sentinel.Error() + ": "; strings.HasPrefix(err.Error(), prefix) {
			return strings.TrimPrefix(err.Error(), prefix)
		}
	}

	return fallback
}

// fromValidator converts validator.ValidationErrors.
func fromValidator(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &ValidationError{Fields: make([]FieldError, len(ve))}
	for i, fe := range ve {
		out.Fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: "Field '" + fe.Field() + "' failed validation tag '" + fe.Tag() + "'",
		}
	}

	return out
}
