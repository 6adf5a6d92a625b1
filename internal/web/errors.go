package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/apota/mydms-sub010/internal/auth"
	"github.com/apota/mydms-sub010/internal/repository"
	"github.com/apota/mydms-sub010/internal/service"
)

// Client facing error messages.
const (
	MsgInternal         = "Internal server error"
	MsgValidationFailed = "Validation failed"
	MsgInvalidBody      = "Invalid request body"
	MsgNotFound         = "Resource not found"
	MsgConflict         = "Resource already exists"

	MsgSearchQueryRequired = "Search query required"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// ErrorHandler maps service errors to status codes. Unknown errors answer
// 500 without details, the cause is logged.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		verr *service.ValidationError
		ferr *fiber.Error
	)

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{Error: MsgValidationFailed, Details: verr.Messages()})
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorBody{Error: service.Message(err, MsgNotFound)})
	case errors.Is(err, service.ErrConflict), errors.Is(err, repository.ErrAlreadyExists),
		errors.Is(err, auth.ErrUserNameOrEmailExists):
		return c.Status(fiber.StatusConflict).JSON(ErrorBody{Error: service.Message(err, MsgConflict)})
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorBody{Error: "Invalid or expired token"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorBody{Error: "Invalid username or password"})
	case errors.Is(err, auth.ErrMFANotPending):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{Error: "No pending MFA setup"})
	case errors.Is(err, auth.ErrOIDCDisabled), errors.Is(err, auth.ErrLDAPDisabled):
		return c.Status(fiber.StatusNotFound).JSON(ErrorBody{Error: "Authentication method is not enabled"})
	case errors.Is(err, auth.ErrInvalidMFACode):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorBody{Error: "Invalid MFA code"})
	case errors.Is(err, auth.ErrInvalidOldPassword):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{Error: "Current password is incorrect"})
	case errors.As(err, &ferr):
		if ferr.Code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		}

		return c.Status(ferr.Code).JSON(ErrorBody{Error: ferr.Message})
	}

	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Interface("requestId", c.Locals("requestid")).
		Msg("request failed")

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorBody{Error: MsgInternal})
}

// BadRequest answers 400 with message.
func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{Error: message})
}
