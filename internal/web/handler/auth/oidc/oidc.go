package oidc

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/apota/mydms-sub010/internal/auth"
	loginsvc "github.com/apota/mydms-sub010/internal/service/login"
	"github.com/apota/mydms-sub010/internal/web"
	"github.com/apota/mydms-sub010/internal/web/handler"
	"github.com/apota/mydms-sub010/internal/web/openapi"
	"github.com/apota/mydms-sub010/internal/web/session"
)

const (
	// LoginPath initiates the OIDC login below /api.
	LoginPath = "/auth/oidc/login"

	// CallbackPath receives the provider redirect below /api.
	CallbackPath = "/auth/oidc/callback"

	// StateTTL bounds the time between login and callback.
	StateTTL = 5 * time.Minute
)

// Client facing messages.
const (
	MsgInvalidCallback = "Invalid callback parameters"
	MsgInvalidState    = "Invalid state token"
)

// Service is the OIDC handler service.
type Service struct {
	handler.Service
	svc      *loginsvc.Service
	sessions *session.Store
}

// New creates the handler, pending states live in sessions.
func New(svc *loginsvc.Service, sessions *session.Store) *Service {
	return &Service{svc: svc, sessions: sessions}
}

// Init registers the routes.
func (s *Service) Init(api fiber.Router, doc *openapi.Doc) error {
	if api == nil || s.svc == nil || s.sessions == nil {
		return handler.ErrNilRouter
	}

	api.Get(LoginPath, s.Login)
	api.Get(CallbackPath, s.Callback)

	doc.Add(openapi.Operation{
		Method: http.MethodGet, Path: handler.APIPrefix + LoginPath, Tag: "auth", Summary: "Start an OIDC login",
		Status: http.StatusFound,
	})
	doc.Add(openapi.Operation{
		Method: http.MethodGet, Path: handler.APIPrefix + CallbackPath, Tag: "auth", Summary: "Finish an OIDC login",
		Response: new(loginsvc.Result), Query: []string{"code", "state"},
	})

	return nil
}

// Login redirects to the provider.
func (s *Service) Login(c *fiber.Ctx) error {
	state, err := auth.GenerateStateToken()
	if err != nil {
		return err
	}

	target, err := s.svc.OIDCAuthURL(state)
	if err != nil {
		return err
	}

	if err := s.sessions.Save(state, session.Data{ReturnTo: c.Query("returnTo")}, StateTTL); err != nil {
		return err
	}

	return c.Redirect(target, fiber.StatusFound)
}

// Callback consumes the state and exchanges the code for DMS tokens.
func (s *Service) Callback(c *fiber.Ctx) error {
	code, state := c.Query("code"), c.Query("state")
	if code == "" || state == "" {
		return web.BadRequest(c, MsgInvalidCallback)
	}

	if _, err := s.sessions.Take(state); err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			return err
		}

		log.Ctx(c.UserContext()).Warn().Str("state", state).Msg("unknown oidc state")

		return web.BadRequest(c, MsgInvalidState)
	}

	res, err := s.svc.OIDCLogin(c.UserContext(), code)
	if err != nil {
		return err
	}

	return c.JSON(res)
}
