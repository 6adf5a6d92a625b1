// Package reporting implements report definitions, their executions and
// schedules, and the data marts refreshed behind them.
package reporting

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/repository"
	"github.com/apota/mydms-sub010/internal/service"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "DMS Reporting & Analytics API"

// DefaultDataMartSchedule refreshes a data mart without its own schedule daily at 02:00.
const DefaultDataMartSchedule = "0 0 2 * * *"

// Service bundles the reporting services.
type Service struct {
	Reports    *Reports
	Schedules  *Schedules
	DataMarts  *DataMarts
	Dashboards *Dashboards

	// Exports stores the exports of scheduled runs, nil skips the export.
	Exports *Exporter
}

// New creates the reporting services on db. A nil engine uses StaticEngine.
func New(db *gorm.DB, engine Engine) (*Service, error) {
	if engine == nil {
		engine = StaticEngine{}
	}

	reports, err := repository.NewGorm[models.ReportDefinition, string](db, "id")
	if err != nil {
		return nil, err
	}

	executions, err := repository.NewGorm[models.ReportExecution, string](db, "id")
	if err != nil {
		return nil, err
	}

	schedules, err := repository.NewGorm[models.ReportSchedule, string](db, "id")
	if err != nil {
		return nil, err
	}

	marts, err := repository.NewGorm[models.DataMart, string](db, "id")
	if err != nil {
		return nil, err
	}

	dashboards, err := repository.NewGorm[models.Dashboard, string](db, "id")
	if err != nil {
		return nil, err
	}

	widgets, err := repository.NewGorm[models.DashboardWidget, string](db, "id")
	if err != nil {
		return nil, err
	}

	return &Service{
		Reports:    newReports(reports, executions, engine),
		Schedules:  newSchedules(schedules, reports),
		DataMarts:  newDataMarts(marts, engine),
		Dashboards: newDashboards(dashboards, widgets),
	}, nil
}

// Reports manages report definitions and runs them.
type Reports struct {
	service.CRUD[models.ReportDefinition, string, models.ReportDefinition, ReportInput, ReportInput]

	repo       *repository.Gorm[models.ReportDefinition, string]
	executions *repository.Gorm[models.ReportExecution, string]
	engine     Engine

	now func() time.Time
}

func newReports(
	repo *repository.Gorm[models.ReportDefinition, string],
	executions *repository.Gorm[models.ReportExecution, string],
	engine Engine,
) *Reports {
	r := &Reports{repo: repo, executions: executions, engine: engine, now: time.Now}

	r.CRUD = service.CRUD[models.ReportDefinition, string, models.ReportDefinition, ReportInput, ReportInput]{
		Repo:  repo,
		Name:  "Report",
		ToDTO: service.Identity[models.ReportDefinition],
		FromCreate: func(ctx context.Context, in *ReportInput) (*models.ReportDefinition, error) {
			def := &models.ReportDefinition{CreatedBy: service.Actor(ctx, "system")}

			return def, applyReport(ctx, def, in)
		},
		ApplyUpdate: applyReport,
	}

	return r
}

func applyReport(_ context.Context, def *models.ReportDefinition, in *ReportInput) error {
	def.Name = in.Name
	def.Description = in.Description
	def.Category = in.Category
	def.Query = in.Query
	def.Parameters = datatypes.JSONMap(in.Parameters)

	return nil
}

// Categories returns the distinct non empty report categories, sorted.
func (r *Reports) Categories(ctx context.Context) ([]string, error) {
	out := []string{}

	err := r.repo.DB(ctx).Model(&models.ReportDefinition{}).
		Where("category <> ''").
		Distinct("category").
		Order("category").
		Pluck("category", &out).Error
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Execute runs a report and records the execution. A failing engine yields
// an execution in state Failed, not an error.
func (r *Reports) Execute(ctx context.Context, reportID string, params map[string]any, user string) (models.ReportExecution, error) {
	def, err := r.Load(ctx, reportID)
	if err != nil {
		return models.ReportExecution{}, err
	}

	started := r.now().UTC()
	exec := &models.ReportExecution{
		ReportID:   def.ID,
		Status:     models.ExecutionRunning,
		Parameters: datatypes.JSONMap(params),
		ExecutedBy: user,
		StartedAt:  &started,
	}

	if _, err := r.executions.Add(ctx, exec); err != nil {
		return models.ReportExecution{}, err
	}

	rows, runErr := r.engine.Run(ctx, def, params)

	completed := r.now().UTC()
	exec.CompletedAt = &completed

	if runErr != nil {
		exec.Status = models.ExecutionFailed
		exec.Error = runErr.Error()
	} else {
		exec.Status = models.ExecutionSuccess
		exec.Results = datatypes.JSONSlice[map[string]any](rows)
		exec.RowCount = len(rows)
	}

	// the request context may be gone by now, the outcome is stored regardless
	if _, err := r.executions.Update(context.WithoutCancel(ctx), exec); err != nil {
		return models.ReportExecution{}, err
	}

	return *exec, nil
}

// Execution returns one execution.
func (r *Reports) Execution(ctx context.Context, id string) (*models.ReportExecution, error) {
	exec, err := r.executions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if exec == nil {
		return nil, service.NotFoundf("Report execution with id '%s' not found", id)
	}

	return exec, nil
}

// Status returns the state of an execution.
func (r *Reports) Status(ctx context.Context, id string) (StatusDTO, error) {
	exec, err := r.Execution(ctx, id)
	if err != nil {
		return StatusDTO{}, err
	}

	return StatusDTO{ExecutionID: exec.ID, Status: exec.Status, CompletedAt: exec.CompletedAt}, nil
}

// Results returns the rows of a successful execution.
func (r *Reports) Results(ctx context.Context, id string) (ResultsDTO, error) {
	exec, err := r.Execution(ctx, id)
	if err != nil {
		return ResultsDTO{}, err
	}

	if exec.Status != models.ExecutionSuccess {
		return ResultsDTO{}, service.NotFoundf("Results for execution '%s' not found", id)
	}

	rows := []map[string]any(exec.Results)
	if rows == nil {
		rows = []map[string]any{}
	}

	return ResultsDTO{ExecutionID: exec.ID, ReportID: exec.ReportID, RowCount: exec.RowCount, Rows: rows}, nil
}

// Executions returns the executions of a report, newest first.
func (r *Reports) Executions(ctx context.Context, reportID string) ([]models.ReportExecution, error) {
	if _, err := r.Load(ctx, reportID); err != nil {
		return nil, err
	}

	var out []models.ReportExecution

	err := r.executions.DB(ctx).
		Where("report_id = ?", reportID).
		Order("started_at DESC, created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}

	return out, nil
}
