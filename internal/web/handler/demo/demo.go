// Package demo serves the in-memory customer API below /api/customers.
package demo

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/apota/mydms-sub010/internal/db/models"
	demosvc "github.com/apota/mydms-sub010/internal/service/demo"
	"github.com/apota/mydms-sub010/internal/web"
	"github.com/apota/mydms-sub010/internal/web/handler"
	"github.com/apota/mydms-sub010/internal/web/openapi"
)

// Paths of the resource.
const (
	Path       = "/customers"
	HealthPath = handler.APIPrefix + Path + "/health"
)

// Service is the demo handler service.
type Service struct {
	handler.Service
	svc *demosvc.Service
}

// New creates the handler.
func New(svc *demosvc.Service) *Service {
	return &Service{svc: svc}
}

// Init registers the routes.
func (s *Service) Init(api fiber.Router, doc *openapi.Doc) error {
	if api == nil || s.svc == nil {
		return handler.ErrNilRouter
	}

	api.Get(Path+"/health", func(c *fiber.Ctx) error {
		return c.JSON(web.HealthBody{Status: "healthy", Timestamp: time.Now().UTC(), Service: demosvc.ServiceName})
	})

	res := &handler.Resource[int, models.DemoCustomer, demosvc.CustomerInput, demosvc.CustomerInput]{
		Path:    Path,
		Tag:     "demo",
		Service: s.svc,
		ParseID: handler.IntID,
		IDOf:    func(c models.DemoCustomer) int { return c.ID },
	}

	return res.Register(api, doc)
}

// PublicPaths implements handler.Public.
func (s *Service) PublicPaths() []string {
	return []string{HealthPath}
}
