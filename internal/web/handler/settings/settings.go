// Package settings serves the settings management API below /api/settings.
package settings

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	settingsvc "github.com/apota/mydms-sub010/internal/service/settings"
	"github.com/apota/mydms-sub010/internal/web"
	"github.com/apota/mydms-sub010/internal/web/handler"
	"github.com/apota/mydms-sub010/internal/web/openapi"
)

const (
	// Path of the resource below /api.
	Path = "/settings"

	// HealthPath answers without a token.
	HealthPath = handler.APIPrefix + Path + "/health"
)

// Service is the settings handler service.
type Service struct {
	handler.Service
	svc *settingsvc.Service
}

// New creates the handler.
func New(svc *settingsvc.Service) *Service {
	return &Service{svc: svc}
}

// Init registers the routes.
func (s *Service) Init(api fiber.Router, doc *openapi.Doc) error {
	if api == nil || s.svc == nil {
		return handler.ErrNilRouter
	}

	// fixed segments first, they would match :key otherwise
	api.Get(Path+"/health", s.Health)
	api.Get(Path+"/categories", s.Categories)
	api.Get(Path+"/category/:category", s.ByCategory)

	doc.Add(openapi.Operation{Method: http.MethodGet, Path: HealthPath, Tag: "settings", Response: new(web.HealthBody)})
	doc.Add(openapi.Operation{
		Method: http.MethodGet, Path: handler.APIPrefix + Path + "/categories", Tag: "settings",
		Summary: "Distinct categories", Response: new([]string),
	})
	doc.Add(openapi.Operation{
		Method: http.MethodGet, Path: handler.APIPrefix + Path + "/category/:category", Tag: "settings",
		Summary: "Settings of one category", Response: new([]settingsvc.SettingDTO),
	})

	res := &handler.Resource[string, settingsvc.SettingDTO, settingsvc.CreateSettingDTO, settingsvc.UpdateSettingDTO]{
		Path:    Path,
		Param:   "key",
		Tag:     "settings",
		Service: s.svc,
		ParseID: handler.StringID,
		IDOf:    func(d settingsvc.SettingDTO) string { return d.Key },
	}

	return res.Register(api, doc)
}

// Health handles GET /api/settings/health.
func (s *Service) Health(c *fiber.Ctx) error {
	return c.JSON(web.HealthBody{Status: "healthy", Timestamp: time.Now().UTC(), Service: settingsvc.ServiceName})
}

// Categories handles GET /api/settings/categories.
func (s *Service) Categories(c *fiber.Ctx) error {
	out, err := s.svc.Categories(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// ByCategory handles GET /api/settings/category/:category.
func (s *Service) ByCategory(c *fiber.Ctx) error {
	category, err := handler.StringID(c.Params("category"))
	if err != nil {
		return web.BadRequest(c, "Invalid category")
	}

	out, err := s.svc.ListByCategory(c.UserContext(), category)
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// PublicPaths implements handler.Public.
func (s *Service) PublicPaths() []string {
	return []string{HealthPath}
}
