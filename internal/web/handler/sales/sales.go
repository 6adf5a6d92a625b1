// Package sales serves the deal and lead APIs.
package sales

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/apota/mydms-sub010/internal/db/models"
	salessvc "github.com/apota/mydms-sub010/internal/service/sales"
	"github.com/apota/mydms-sub010/internal/web"
	"github.com/apota/mydms-sub010/internal/web/handler"
	"github.com/apota/mydms-sub010/internal/web/openapi"
)

// Paths below /api.
const (
	DealsPath = "/deals"
	LeadsPath = "/leads"
)

// HealthPath answers without a token.
const HealthPath = handler.APIPrefix + DealsPath + "/health"

// Service is the sales handler service.
type Service struct {
	handler.Service
	svc *salessvc.Service
}

// New creates the handler.
func New(svc *salessvc.Service) *Service {
	return &Service{svc: svc}
}

// Init registers the routes.
func (s *Service) Init(api fiber.Router, doc *openapi.Doc) error {
	if api == nil || s.svc == nil {
		return handler.ErrNilRouter
	}

	api.Get(DealsPath+"/health", s.Health)
	api.Post(DealsPath+"/calculate", s.Calculate)
	api.Post(DealsPath+"/:id/status", s.SetStatus)

	doc.Add(openapi.Operation{
		Method: http.MethodPost, Path: handler.APIPrefix + DealsPath + "/calculate", Tag: "deals",
		Summary: "Price a deal without storing it", Request: new(salessvc.CalculateInput), Response: new(salessvc.Calculation),
	})
	doc.Add(openapi.Operation{
		Method: http.MethodPost, Path: handler.APIPrefix + DealsPath + "/:id/status", Tag: "deals",
		Summary: "Change the deal status", Request: new(salessvc.StatusInput), Response: new(models.Deal),
	})

	deals := &handler.Resource[string, models.Deal, salessvc.DealInput, salessvc.DealInput]{
		Path:    DealsPath,
		Tag:     "deals",
		Service: s.svc.Deals,
		ParseID: handler.StringID,
		IDOf:    func(d models.Deal) string { return d.ID },
	}
	if err := deals.Register(api, doc); err != nil {
		return err
	}

	leads := &handler.Resource[string, models.Lead, salessvc.LeadInput, salessvc.LeadInput]{
		Path:    LeadsPath,
		Tag:     "leads",
		Service: s.svc.Leads,
		ParseID: handler.StringID,
		IDOf:    func(l models.Lead) string { return l.ID },
	}

	return leads.Register(api, doc)
}

// Health handles GET /api/deals/health.
func (s *Service) Health(c *fiber.Ctx) error {
	return c.JSON(web.HealthBody{Status: "healthy", Timestamp: time.Now().UTC(), Service: salessvc.ServiceName})
}

// Calculate handles POST /api/deals/calculate.
func (s *Service) Calculate(c *fiber.Ctx) error {
	in, err := handler.Body[salessvc.CalculateInput](c)
	if err != nil {
		return err
	}

	out, err := s.svc.Deals.Calculate(c.UserContext(), in)
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// SetStatus handles POST /api/deals/:id/status.
func (s *Service) SetStatus(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	in, err := handler.Body[salessvc.StatusInput](c)
	if err != nil {
		return err
	}

	deal, err := s.svc.Deals.SetStatus(c.UserContext(), id, in)
	if err != nil {
		return err
	}

	return c.JSON(deal)
}

// PublicPaths implements handler.Public.
func (s *Service) PublicPaths() []string {
	return []string{HealthPath}
}
