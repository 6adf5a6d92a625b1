// Package repair serves the repair order and service job APIs.
package repair

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/apota/mydms-sub010/internal/db/models"
	repairsvc "github.com/apota/mydms-sub010/internal/service/repair"
	"github.com/apota/mydms-sub010/internal/web"
	"github.com/apota/mydms-sub010/internal/web/handler"
	"github.com/apota/mydms-sub010/internal/web/openapi"
)

// Paths below /api.
const (
	OrdersPath = "/repair-orders"
	JobsPath   = "/service-jobs"
)

// HealthPath answers without a token.
const HealthPath = handler.APIPrefix + OrdersPath + "/health"

// Service is the service department handler service.
type Service struct {
	handler.Service
	svc *repairsvc.Service
}

// New creates the handler.
func New(svc *repairsvc.Service) *Service {
	return &Service{svc: svc}
}

// Init registers the routes.
func (s *Service) Init(api fiber.Router, doc *openapi.Doc) error {
	if api == nil || s.svc == nil {
		return handler.ErrNilRouter
	}

	api.Get(OrdersPath+"/health", s.Health)
	api.Get(OrdersPath+"/:id/jobs", s.Jobs)
	api.Post(OrdersPath+"/:id/jobs", s.AddJob)
	api.Get(OrdersPath+"/:id/total", s.Total)
	api.Put(JobsPath+"/:id", s.UpdateJob)
	api.Delete(JobsPath+"/:id", s.DeleteJob)

	orders := handler.APIPrefix + OrdersPath
	jobs := handler.APIPrefix + JobsPath

	doc.Add(openapi.Operation{Method: http.MethodGet, Path: orders + "/:id/jobs", Tag: "repair-orders",
		Summary: "Jobs of an order", Response: new([]models.ServiceJob)})
	doc.Add(openapi.Operation{Method: http.MethodPost, Path: orders + "/:id/jobs", Tag: "repair-orders",
		Summary: "Add a job", Request: new(repairsvc.JobInput), Response: new(models.ServiceJob), Status: http.StatusCreated})
	doc.Add(openapi.Operation{Method: http.MethodGet, Path: orders + "/:id/total", Tag: "repair-orders",
		Summary: "Order total", Response: new(repairsvc.TotalDTO)})
	doc.Add(openapi.Operation{Method: http.MethodPut, Path: jobs + "/:id", Tag: "service-jobs",
		Summary: "Update a job", Request: new(repairsvc.JobInput), Response: new(models.ServiceJob)})
	doc.Add(openapi.Operation{Method: http.MethodDelete, Path: jobs + "/:id", Tag: "service-jobs",
		Summary: "Delete a job", Status: http.StatusNoContent})

	res := &handler.Resource[string, repairsvc.OrderDTO, repairsvc.OrderInput, repairsvc.OrderInput]{
		Path:    OrdersPath,
		Tag:     "repair-orders",
		Service: s.svc,
		ParseID: handler.StringID,
		IDOf:    func(o repairsvc.OrderDTO) string { return o.ID },
	}

	return res.Register(api, doc)
}

// Health handles GET /api/repair-orders/health.
func (s *Service) Health(c *fiber.Ctx) error {
	return c.JSON(web.HealthBody{Status: "healthy", Timestamp: time.Now().UTC(), Service: repairsvc.ServiceName})
}

// Jobs handles GET /api/repair-orders/:id/jobs.
func (s *Service) Jobs(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	out, err := s.svc.Jobs(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// AddJob handles POST /api/repair-orders/:id/jobs.
func (s *Service) AddJob(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	in, err := handler.Body[repairsvc.JobInput](c)
	if err != nil {
		return err
	}

	job, err := s.svc.AddJob(c.UserContext(), id, in)
	if err != nil {
		return err
	}

	return handler.Created(c, handler.APIPrefix+JobsPath, job.ID, job)
}

// Total handles GET /api/repair-orders/:id/total.
func (s *Service) Total(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	out, err := s.svc.Total(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// UpdateJob handles PUT /api/service-jobs/:id.
func (s *Service) UpdateJob(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	in, err := handler.Body[repairsvc.JobInput](c)
	if err != nil {
		return err
	}

	job, err := s.svc.UpdateJob(c.UserContext(), id, in)
	if err != nil {
		return err
	}

	return c.JSON(job)
}

// DeleteJob handles DELETE /api/service-jobs/:id.
func (s *Service) DeleteJob(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	if err := s.svc.DeleteJob(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// PublicPaths implements handler.Public.
func (s *Service) PublicPaths() []string {
	return []string{HealthPath}
}
