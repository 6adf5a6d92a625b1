// Package logout serves POST /api/auth/logout.
package logout

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	loginsvc "github.com/apota/mydms-sub010/internal/service/login"
	"github.com/apota/mydms-sub010/internal/web/handler"
	"github.com/apota/mydms-sub010/internal/web/openapi"
)

// Path of the logout route below /api.
const Path = "/auth/logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	svc *loginsvc.Service
}

// New creates the handler.
func New(svc *loginsvc.Service) *Service {
	return &Service{svc: svc}
}

// Init registers the route.
func (s *Service) Init(api fiber.Router, doc *openapi.Doc) error {
	if api == nil || s.svc == nil {
		return handler.ErrNilRouter
	}

	api.Post(Path, s.Logout)

	doc.Add(openapi.Operation{
		Method: http.MethodPost, Path: handler.APIPrefix + Path, Tag: "auth", Summary: "Revoke a refresh token",
		Request: new(loginsvc.RefreshInput), Status: http.StatusNoContent,
	})

	return nil
}

// Logout revokes the refresh token of the body. Unknown tokens answer 204 too.
func (s *Service) Logout(c *fiber.Ctx) error {
	in, err := handler.Body[loginsvc.RefreshInput](c)
	if err != nil {
		return err
	}

	if err := s.svc.Logout(c.UserContext(), in); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
