// Package crm serves the customer API below /api/customers.
package crm

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/apota/mydms-sub010/internal/db/models"
	crmsvc "github.com/apota/mydms-sub010/internal/service/crm"
	"github.com/apota/mydms-sub010/internal/web"
	"github.com/apota/mydms-sub010/internal/web/handler"
	"github.com/apota/mydms-sub010/internal/web/openapi"
)

// Paths of the resource.
const (
	Path       = "/customers"
	HealthPath = handler.APIPrefix + Path + "/health"
)

// Service is the CRM handler service.
type Service struct {
	handler.Service
	svc *crmsvc.Service
}

// New creates the handler.
func New(svc *crmsvc.Service) *Service {
	return &Service{svc: svc}
}

// Init registers the routes.
func (s *Service) Init(api fiber.Router, doc *openapi.Doc) error {
	if api == nil || s.svc == nil {
		return handler.ErrNilRouter
	}

	api.Get(Path+"/health", s.Health)
	api.Get(Path+"/search", s.Search)
	api.Get(Path+"/:id/interactions", s.Interactions)
	api.Post(Path+"/:id/interactions", s.AddInteraction)

	doc.Add(openapi.Operation{
		Method: http.MethodGet, Path: handler.APIPrefix + Path + "/search", Tag: "customers",
		Summary: "Search by name, email or phone", Query: []string{"q"}, Response: new([]models.Customer),
	})
	doc.Add(openapi.Operation{
		Method: http.MethodGet, Path: handler.APIPrefix + Path + "/:id/interactions", Tag: "customers",
		Summary: "Interactions, newest first", Response: new([]models.CustomerInteraction),
	})
	doc.Add(openapi.Operation{
		Method: http.MethodPost, Path: handler.APIPrefix + Path + "/:id/interactions", Tag: "customers",
		Summary: "Record an interaction", Request: new(crmsvc.InteractionInput),
		Response: new(models.CustomerInteraction), Status: http.StatusCreated,
	})

	res := &handler.Resource[string, models.Customer, crmsvc.CustomerInput, crmsvc.CustomerInput]{
		Path:    Path,
		Tag:     "customers",
		Service: s.svc,
		ParseID: handler.StringID,
		IDOf:    func(c models.Customer) string { return c.ID },
	}

	return res.Register(api, doc)
}

// Health handles GET /api/customers/health.
func (s *Service) Health(c *fiber.Ctx) error {
	return c.JSON(web.HealthBody{Status: "healthy", Timestamp: time.Now().UTC(), Service: crmsvc.ServiceName})
}

// Search handles GET /api/customers/search?q=.
func (s *Service) Search(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return web.BadRequest(c, web.MsgSearchQueryRequired)
	}

	found, err := s.svc.Search(c.UserContext(), q)
	if err != nil {
		return err
	}

	return c.JSON(found)
}

// Interactions handles GET /api/customers/:id/interactions.
func (s *Service) Interactions(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	out, err := s.svc.Interactions(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// AddInteraction handles POST /api/customers/:id/interactions.
func (s *Service) AddInteraction(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	in, err := handler.Body[crmsvc.InteractionInput](c)
	if err != nil {
		return err
	}

	added, err := s.svc.AddInteraction(c.UserContext(), id, in)
	if err != nil {
		return err
	}

	return handler.Created(c, handler.APIPrefix+Path+"/"+id+"/interactions", added.ID, added)
}

// PublicPaths implements handler.Public.
func (s *Service) PublicPaths() []string {
	return []string{HealthPath}
}
