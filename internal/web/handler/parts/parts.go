// Package parts serves the part and supplier APIs.
package parts

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/apota/mydms-sub010/internal/db/models"
	partssvc "github.com/apota/mydms-sub010/internal/service/parts"
	"github.com/apota/mydms-sub010/internal/web"
	"github.com/apota/mydms-sub010/internal/web/handler"
	"github.com/apota/mydms-sub010/internal/web/openapi"
)

// Paths below /api.
const (
	PartsPath     = "/parts"
	SuppliersPath = "/suppliers"
)

// HealthPath answers without a token.
const HealthPath = handler.APIPrefix + PartsPath + "/health"

// Service is the parts handler service.
type Service struct {
	handler.Service
	svc *partssvc.Service
}

// New creates the handler.
func New(svc *partssvc.Service) *Service {
	return &Service{svc: svc}
}

// Init registers the routes.
func (s *Service) Init(api fiber.Router, doc *openapi.Doc) error {
	if api == nil || s.svc == nil {
		return handler.ErrNilRouter
	}

	api.Get(PartsPath+"/health", s.Health)
	api.Get(PartsPath+"/search", s.Search)
	api.Get(PartsPath+"/low-stock", s.LowStock)
	api.Post(PartsPath+"/:id/adjust", s.Adjust)

	doc.Add(openapi.Operation{Method: http.MethodGet, Path: handler.APIPrefix + PartsPath + "/search", Tag: "parts",
		Summary: "Search by part number, name or manufacturer", Query: []string{"q"}, Response: new([]models.Part)})
	doc.Add(openapi.Operation{Method: http.MethodGet, Path: handler.APIPrefix + PartsPath + "/low-stock", Tag: "parts",
		Summary: "Parts at or below their reorder point", Response: new([]models.Part)})
	doc.Add(openapi.Operation{Method: http.MethodPost, Path: handler.APIPrefix + PartsPath + "/:id/adjust", Tag: "parts",
		Summary: "Adjust the stock", Request: new(partssvc.AdjustInput), Response: new(models.Part)})

	parts := &handler.Resource[string, models.Part, partssvc.PartInput, partssvc.PartInput]{
		Path:    PartsPath,
		Tag:     "parts",
		Service: s.svc.Parts,
		ParseID: handler.StringID,
		IDOf:    func(p models.Part) string { return p.ID },
	}
	if err := parts.Register(api, doc); err != nil {
		return err
	}

	suppliers := &handler.Resource[string, models.Supplier, partssvc.SupplierInput, partssvc.SupplierInput]{
		Path:    SuppliersPath,
		Tag:     "suppliers",
		Service: s.svc.Suppliers,
		ParseID: handler.StringID,
		IDOf:    func(sup models.Supplier) string { return sup.ID },
	}

	return suppliers.Register(api, doc)
}

// Health handles GET /api/parts/health.
func (s *Service) Health(c *fiber.Ctx) error {
	return c.JSON(web.HealthBody{Status: "healthy", Timestamp: time.Now().UTC(), Service: partssvc.ServiceName})
}

// Search handles GET /api/parts/search?q=.
func (s *Service) Search(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return web.BadRequest(c, web.MsgSearchQueryRequired)
	}

	found, err := s.svc.Parts.Search(c.UserContext(), q)
	if err != nil {
		return err
	}

	return c.JSON(found)
}

// LowStock handles GET /api/parts/low-stock.
func (s *Service) LowStock(c *fiber.Ctx) error {
	out, err := s.svc.Parts.LowStock(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// Adjust handles POST /api/parts/:id/adjust.
func (s *Service) Adjust(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	in, err := handler.Body[partssvc.AdjustInput](c)
	if err != nil {
		return err
	}

	part, err := s.svc.Parts.Adjust(c.UserContext(), id, in)
	if err != nil {
		return err
	}

	return c.JSON(part)
}

// PublicPaths implements handler.Public.
func (s *Service) PublicPaths() []string {
	return []string{HealthPath}
}
