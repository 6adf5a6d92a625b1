// Package inventory serves the vehicle and workflow APIs.
package inventory

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/apota/mydms-sub010/internal/db/models"
	inventorysvc "github.com/apota/mydms-sub010/internal/service/inventory"
	"github.com/apota/mydms-sub010/internal/web"
	"github.com/apota/mydms-sub010/internal/web/handler"
	"github.com/apota/mydms-sub010/internal/web/openapi"
)

// Paths below /api.
const (
	VehiclesPath  = "/vehicles"
	WorkflowsPath = "/workflows"
)

// HealthPath answers without a token.
const HealthPath = handler.APIPrefix + VehiclesPath + "/health"

// Service is the inventory handler service.
type Service struct {
	handler.Service
	svc *inventorysvc.Service
}

// New creates the handler.
func New(svc *inventorysvc.Service) *Service {
	return &Service{svc: svc}
}

// Init registers the routes.
func (s *Service) Init(api fiber.Router, doc *openapi.Doc) error {
	if api == nil || s.svc == nil {
		return handler.ErrNilRouter
	}

	api.Get(VehiclesPath+"/health", s.Health)
	api.Get(VehiclesPath+"/search", s.Search)
	api.Get(VehiclesPath+"/:id/workflows", s.VehicleTasks)
	api.Post(VehiclesPath+"/:id/workflows", s.CreateVehicleTask)

	api.Get(WorkflowsPath, s.Tasks)
	api.Post(WorkflowsPath, s.CreateTask)
	api.Get(WorkflowsPath+"/:id", s.Task)
	api.Delete(WorkflowsPath+"/:id", s.DeleteTask)
	api.Post(WorkflowsPath+"/:id/transition", s.Transition)

	s.document(doc)

	res := &handler.Resource[string, models.Vehicle, inventorysvc.VehicleInput, inventorysvc.VehicleInput]{
		Path:    VehiclesPath,
		Tag:     "vehicles",
		Service: s.svc,
		ParseID: handler.StringID,
		IDOf:    func(v models.Vehicle) string { return v.ID },
	}

	return res.Register(api, doc)
}

func (s *Service) document(doc *openapi.Doc) {
	vehicles := handler.APIPrefix + VehiclesPath
	workflows := handler.APIPrefix + WorkflowsPath

	for _, op := range []openapi.Operation{
		{Method: http.MethodGet, Path: vehicles + "/search", Tag: "vehicles", Summary: "Search by make, model, VIN or stock number",
			Query: []string{"q"}, Response: new([]models.Vehicle)},
		{Method: http.MethodGet, Path: vehicles + "/:id/workflows", Tag: "workflows", Summary: "Workflow tasks of a vehicle",
			Response: new([]models.WorkflowTask)},
		{Method: http.MethodPost, Path: vehicles + "/:id/workflows", Tag: "workflows", Summary: "Start a workflow on a vehicle",
			Request: new(inventorysvc.TaskInput), Response: new(models.WorkflowTask), Status: http.StatusCreated},
		{Method: http.MethodGet, Path: workflows, Tag: "workflows", Summary: "List workflow tasks",
			Response: new([]models.WorkflowTask)},
		{Method: http.MethodPost, Path: workflows, Tag: "workflows", Summary: "Start a workflow",
			Request: new(inventorysvc.TaskInput), Response: new(models.WorkflowTask), Status: http.StatusCreated},
		{Method: http.MethodGet, Path: workflows + "/:id", Tag: "workflows", Summary: "Get a workflow task",
			Response: new(models.WorkflowTask)},
		{Method: http.MethodDelete, Path: workflows + "/:id", Tag: "workflows", Summary: "Delete a workflow task",
			Status: http.StatusNoContent},
		{Method: http.MethodPost, Path: workflows + "/:id/transition", Tag: "workflows", Summary: "Move a task to another state",
			Request: new(inventorysvc.TransitionInput), Response: new(models.WorkflowTask)},
	} {
		doc.Add(op)
	}
}

// Health handles GET /api/vehicles/health.
func (s *Service) Health(c *fiber.Ctx) error {
	return c.JSON(web.HealthBody{Status: "healthy", Timestamp: time.Now().UTC(), Service: inventorysvc.ServiceName})
}

// Search handles GET /api/vehicles/search?q=.
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

// VehicleTasks handles GET /api/vehicles/:id/workflows.
func (s *Service) VehicleTasks(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	out, err := s.svc.VehicleTasks(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// CreateVehicleTask handles POST /api/vehicles/:id/workflows, the vehicle
// id of the path wins over the body.
func (s *Service) CreateVehicleTask(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	in, err := handler.Body[inventorysvc.TaskInput](c)
	if err != nil {
		return err
	}

	in.VehicleID = id

	return s.createTask(c, in)
}

// Tasks handles GET /api/workflows.
func (s *Service) Tasks(c *fiber.Ctx) error {
	out, err := s.svc.Tasks(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// CreateTask handles POST /api/workflows.
func (s *Service) CreateTask(c *fiber.Ctx) error {
	in, err := handler.Body[inventorysvc.TaskInput](c)
	if err != nil {
		return err
	}

	return s.createTask(c, in)
}

func (s *Service) createTask(c *fiber.Ctx, in *inventorysvc.TaskInput) error {
	task, err := s.svc.CreateTask(c.UserContext(), in)
	if err != nil {
		return err
	}

	return handler.Created(c, handler.APIPrefix+WorkflowsPath, task.ID, task)
}

// Task handles GET /api/workflows/:id.
func (s *Service) Task(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	task, err := s.svc.Task(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(task)
}

// DeleteTask handles DELETE /api/workflows/:id.
func (s *Service) DeleteTask(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	if err := s.svc.DeleteTask(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Transition handles POST /api/workflows/:id/transition.
func (s *Service) Transition(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	in, err := handler.Body[inventorysvc.TransitionInput](c)
	if err != nil {
		return err
	}

	task, err := s.svc.Transition(c.UserContext(), id, in)
	if err != nil {
		return err
	}

	return c.JSON(task)
}

// PublicPaths implements handler.Public.
func (s *Service) PublicPaths() []string {
	return []string{HealthPath}
}
