// Package reporting serves the report, schedule, data mart and dashboard APIs.
package reporting

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/service"
	reportingsvc "github.com/apota/mydms-sub010/internal/service/reporting"
	"github.com/apota/mydms-sub010/internal/web"
	"github.com/apota/mydms-sub010/internal/web/handler"
	"github.com/apota/mydms-sub010/internal/web/openapi"
)

// Paths below /api.
const (
	ReportsPath    = "/reports"
	SchedulesPath  = "/schedules"
	DataMartsPath  = "/datamarts"
	DashboardsPath = "/dashboards"
	ExecutionsPath = ReportsPath + "/executions"
)

// ParamWidgetID names the widget of a dashboard widget route.
const ParamWidgetID = "widgetId"

// HealthPath answers without a token.
const HealthPath = handler.APIPrefix + ReportsPath + "/health"

// Service is the reporting handler service.
type Service struct {
	handler.Service
	svc *reportingsvc.Service
}

// New creates the handler.
func New(svc *reportingsvc.Service) *Service {
	return &Service{svc: svc}
}

// Init registers the routes.
func (s *Service) Init(api fiber.Router, doc *openapi.Doc) error {
	if api == nil || s.svc == nil {
		return handler.ErrNilRouter
	}

	api.Get(ReportsPath+"/health", s.Health)
	api.Get(ReportsPath+"/categories", s.Categories)
	api.Get(ExecutionsPath+"/:id/status", s.Status)
	api.Get(ExecutionsPath+"/:id/results", s.Results)
	api.Get(ExecutionsPath+"/:id/export", s.Export)
	api.Post(ReportsPath+"/:id/execute", s.Execute)
	api.Get(ReportsPath+"/:id/executions", s.Executions)
	api.Post(DataMartsPath+"/:id/refresh", s.Refresh)
	api.Get(DashboardsPath+"/default", s.DefaultDashboard)
	api.Get(DashboardsPath+"/:id/widgets", s.Widgets)
	api.Post(DashboardsPath+"/:id/widgets", s.AddWidget)
	api.Delete(DashboardsPath+"/:id/widgets/:"+ParamWidgetID, s.DeleteWidget)

	tag := "reports"
	doc.Add(openapi.Operation{Method: http.MethodGet, Path: handler.APIPrefix + ReportsPath + "/categories", Tag: tag,
		Summary: "Distinct report categories", Response: new([]string)})
	doc.Add(openapi.Operation{Method: http.MethodPost, Path: handler.APIPrefix + ReportsPath + "/:id/execute", Tag: tag,
		Summary: "Run a report", Request: new(map[string]any), Response: new(reportingsvc.ExecuteDTO), Status: http.StatusAccepted})
	doc.Add(openapi.Operation{Method: http.MethodGet, Path: handler.APIPrefix + ReportsPath + "/:id/executions", Tag: tag,
		Summary: "Executions of a report", Response: new([]models.ReportExecution)})
	doc.Add(openapi.Operation{Method: http.MethodGet, Path: handler.APIPrefix + ExecutionsPath + "/:id/status", Tag: tag,
		Summary: "Execution status", Response: new(reportingsvc.StatusDTO)})
	doc.Add(openapi.Operation{Method: http.MethodGet, Path: handler.APIPrefix + ExecutionsPath + "/:id/results", Tag: tag,
		Summary: "Execution results", Response: new(reportingsvc.ResultsDTO)})
	doc.Add(openapi.Operation{Method: http.MethodGet, Path: handler.APIPrefix + ExecutionsPath + "/:id/export", Tag: tag,
		Summary: "Execution results as csv or json, ?format=csv|json", Response: new(string)})
	doc.Add(openapi.Operation{Method: http.MethodPost, Path: handler.APIPrefix + DataMartsPath + "/:id/refresh", Tag: "datamarts",
		Summary: "Refresh a data mart", Response: new(models.DataMart)})

	dashboards := handler.APIPrefix + DashboardsPath
	doc.Add(openapi.Operation{Method: http.MethodGet, Path: dashboards + "/default", Tag: "dashboards",
		Summary: "Default dashboard of the caller", Response: new(models.Dashboard)})
	doc.Add(openapi.Operation{Method: http.MethodGet, Path: dashboards + "/:id/widgets", Tag: "dashboards",
		Summary: "Widgets of a dashboard", Response: new([]models.DashboardWidget)})
	doc.Add(openapi.Operation{Method: http.MethodPost, Path: dashboards + "/:id/widgets", Tag: "dashboards",
		Summary: "Add a widget", Request: new(reportingsvc.WidgetInput), Response: new(models.DashboardWidget),
		Status: http.StatusCreated})
	doc.Add(openapi.Operation{Method: http.MethodDelete, Path: dashboards + "/:id/widgets/:" + ParamWidgetID, Tag: "dashboards",
		Summary: "Remove a widget", Status: http.StatusNoContent})

	reports := &handler.Resource[string, models.ReportDefinition, reportingsvc.ReportInput, reportingsvc.ReportInput]{
		Path:    ReportsPath,
		Tag:     tag,
		Service: s.svc.Reports,
		ParseID: handler.StringID,
		IDOf:    func(r models.ReportDefinition) string { return r.ID },
	}
	if err := reports.Register(api, doc); err != nil {
		return err
	}

	schedules := &handler.Resource[string, models.ReportSchedule, reportingsvc.ScheduleInput, reportingsvc.ScheduleInput]{
		Path:    SchedulesPath,
		Tag:     "schedules",
		Service: s.svc.Schedules,
		ParseID: handler.StringID,
		IDOf:    func(r models.ReportSchedule) string { return r.ID },
	}
	if err := schedules.Register(api, doc); err != nil {
		return err
	}

	marts := &handler.Resource[string, models.DataMart, reportingsvc.DataMartInput, reportingsvc.DataMartInput]{
		Path:    DataMartsPath,
		Tag:     "datamarts",
		Service: s.svc.DataMarts,
		ParseID: handler.StringID,
		IDOf:    func(m models.DataMart) string { return m.ID },
	}
	if err := marts.Register(api, doc); err != nil {
		return err
	}

	boards := &handler.Resource[string, models.Dashboard, reportingsvc.DashboardInput, reportingsvc.DashboardInput]{
		Path:    DashboardsPath,
		Tag:     "dashboards",
		Service: s.svc.Dashboards,
		ParseID: handler.StringID,
		IDOf:    func(d models.Dashboard) string { return d.ID },
	}

	return boards.Register(api, doc)
}

// Health handles GET /api/reports/health.
func (s *Service) Health(c *fiber.Ctx) error {
	return c.JSON(web.HealthBody{Status: "healthy", Timestamp: time.Now().UTC(), Service: reportingsvc.ServiceName})
}

// Categories handles GET /api/reports/categories.
func (s *Service) Categories(c *fiber.Ctx) error {
	out, err := s.svc.Reports.Categories(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// Execute handles POST /api/reports/:id/execute. The body, if any, is the
// parameter object of the run.
func (s *Service) Execute(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	var params map[string]any
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &params); err != nil {
			return web.BadRequest(c, web.MsgInvalidBody)
		}
	}

	ctx := c.UserContext()

	exec, err := s.svc.Reports.Execute(ctx, id, params, service.Actor(ctx, "anonymous"))
	if err != nil {
		return err
	}

	c.Location(handler.APIPrefix + ExecutionsPath + "/" + exec.ID + "/status")

	return c.Status(fiber.StatusAccepted).JSON(reportingsvc.ExecuteDTO{ExecutionID: exec.ID, Status: exec.Status})
}

// Executions handles GET /api/reports/:id/executions.
func (s *Service) Executions(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	out, err := s.svc.Reports.Executions(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// Status handles GET /api/reports/executions/:id/status.
func (s *Service) Status(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	out, err := s.svc.Reports.Status(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// Results handles GET /api/reports/executions/:id/results.
func (s *Service) Results(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	out, err := s.svc.Reports.Results(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// Export handles GET /api/reports/executions/:id/export?format=csv|json,
// csv by default.
func (s *Service) Export(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	out, err := s.svc.Reports.Export(c.UserContext(), id, c.Query("format", reportingsvc.FormatCSV))
	if err != nil {
		return err
	}

	c.Attachment(out.Name)
	c.Set(fiber.HeaderContentType, out.ContentType)

	return c.Send(out.Data)
}

// DefaultDashboard handles GET /api/dashboards/default.
func (s *Service) DefaultDashboard(c *fiber.Ctx) error {
	out, err := s.svc.Dashboards.Default(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// Widgets handles GET /api/dashboards/:id/widgets.
func (s *Service) Widgets(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	out, err := s.svc.Dashboards.Widgets(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// AddWidget handles POST /api/dashboards/:id/widgets.
func (s *Service) AddWidget(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	in := new(reportingsvc.WidgetInput)
	if err := c.BodyParser(in); err != nil {
		return web.BadRequest(c, web.MsgInvalidBody)
	}

	w, err := s.svc.Dashboards.AddWidget(c.UserContext(), id, in)
	if err != nil {
		return err
	}

	return handler.Created(c, handler.APIPrefix+DashboardsPath+"/"+id+"/widgets", w.ID, w)
}

// DeleteWidget handles DELETE /api/dashboards/:id/widgets/:widgetId.
func (s *Service) DeleteWidget(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	widgetID, err := handler.StringID(c.Params(ParamWidgetID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	if err := s.svc.Dashboards.DeleteWidget(c.UserContext(), id, widgetID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Refresh handles POST /api/datamarts/:id/refresh.
func (s *Service) Refresh(c *fiber.Ctx) error {
	id, err := handler.StringID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	mart, err := s.svc.DataMarts.Refresh(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(mart)
}

// PublicPaths implements handler.Public.
func (s *Service) PublicPaths() []string {
	return []string{HealthPath}
}
