// Package login serves the authentication API below /api/auth.
package login

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/apota/mydms-sub010/internal/auth"
	loginsvc "github.com/apota/mydms-sub010/internal/service/login"
	"github.com/apota/mydms-sub010/internal/service/users"
	"github.com/apota/mydms-sub010/internal/web"
	"github.com/apota/mydms-sub010/internal/web/handler"
	"github.com/apota/mydms-sub010/internal/web/openapi"
)

const (
	// Path is the group of the authentication routes below /api.
	Path = "/auth"

	tag = "auth"
)

// PublicPaths are served without a bearer token.
var PublicPaths = []string{
	handler.APIPrefix + Path + "/health",
	handler.APIPrefix + Path + "/login",
	handler.APIPrefix + Path + "/register",
	handler.APIPrefix + Path + "/refresh",
	handler.APIPrefix + Path + "/logout",
	handler.APIPrefix + Path + "/oidc",
}

// Service is the login handler service.
type Service struct {
	handler.Service
	svc *loginsvc.Service
}

// New creates the handler.
func New(svc *loginsvc.Service) *Service {
	return &Service{svc: svc}
}

// Init registers the routes.
func (s *Service) Init(api fiber.Router, doc *openapi.Doc) error {
	if api == nil || s.svc == nil {
		return handler.ErrNilRouter
	}

	api.Route(Path, func(router fiber.Router) {
		router.Get("/health", s.Health)
		router.Post("/login", s.Login)
		router.Post("/register", s.Register)
		router.Post("/refresh", s.Refresh)
		router.Post("/verify", s.Verify)
		router.Post("/mfa/enable", s.EnableMFA)
		router.Post("/mfa/confirm", s.ConfirmMFA)
	})

	base := handler.APIPrefix + Path

	doc.Add(openapi.Operation{
		Method: http.MethodPost, Path: base + "/login", Tag: tag, Summary: "Log in",
		Request: new(loginsvc.Input), Response: new(loginsvc.Result),
	})
	doc.Add(openapi.Operation{
		Method: http.MethodPost, Path: base + "/register", Tag: tag, Summary: "Register a local user",
		Request: new(loginsvc.RegisterInput), Response: new(users.UserDTO), Status: http.StatusCreated,
	})
	doc.Add(openapi.Operation{
		Method: http.MethodPost, Path: base + "/refresh", Tag: tag, Summary: "Rotate a refresh token",
		Request: new(loginsvc.RefreshInput), Response: new(loginsvc.Result),
	})
	doc.Add(openapi.Operation{
		Method: http.MethodPost, Path: base + "/verify", Tag: tag, Summary: "Describe the caller",
		Response: new(loginsvc.VerifyDTO),
	})
	doc.Add(openapi.Operation{
		Method: http.MethodPost, Path: base + "/mfa/enable", Tag: tag, Summary: "Start TOTP enrolment",
		Response: new(auth.MFASetup),
	})
	doc.Add(openapi.Operation{
		Method: http.MethodPost, Path: base + "/mfa/confirm", Tag: tag, Summary: "Finish TOTP enrolment",
		Request: new(loginsvc.MFACodeInput), Status: http.StatusNoContent,
	})

	return nil
}

// Health handles GET /api/auth/health.
func (s *Service) Health(c *fiber.Ctx) error {
	return c.JSON(web.HealthBody{Status: "healthy", Timestamp: time.Now().UTC(), Service: loginsvc.ServiceName})
}

// Login handles POST /api/auth/login.
func (s *Service) Login(c *fiber.Ctx) error {
	in, err := handler.Body[loginsvc.Input](c)
	if err != nil {
		return err
	}

	res, err := s.svc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}

	return c.JSON(res)
}

// Register handles POST /api/auth/register.
func (s *Service) Register(c *fiber.Ctx) error {
	in, err := handler.Body[loginsvc.RegisterInput](c)
	if err != nil {
		return err
	}

	dto, err := s.svc.Register(c.UserContext(), in)
	if err != nil {
		return err
	}

	return handler.Created(c, handler.APIPrefix+"/users", dto.ID, dto)
}

// Refresh handles POST /api/auth/refresh.
func (s *Service) Refresh(c *fiber.Ctx) error {
	in, err := handler.Body[loginsvc.RefreshInput](c)
	if err != nil {
		return err
	}

	res, err := s.svc.Refresh(c.UserContext(), in)
	if err != nil {
		return err
	}

	return c.JSON(res)
}

// Verify handles POST /api/auth/verify.
func (s *Service) Verify(c *fiber.Ctx) error {
	dto, err := s.svc.Verify(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(dto)
}

// EnableMFA handles POST /api/auth/mfa/enable.
func (s *Service) EnableMFA(c *fiber.Ctx) error {
	setup, err := s.svc.EnableMFA(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(setup)
}

// ConfirmMFA handles POST /api/auth/mfa/confirm.
func (s *Service) ConfirmMFA(c *fiber.Ctx) error {
	in, err := handler.Body[loginsvc.MFACodeInput](c)
	if err != nil {
		return err
	}

	if err := s.svc.ConfirmMFA(c.UserContext(), in); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
