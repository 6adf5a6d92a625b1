package reporting

import (
	"time"

	"github.com/apota/mydms-sub010/internal/db/models"
)

// ReportInput is the body of POST /api/reports and PUT /api/reports/:id.
type ReportInput struct {
	Name        string         `json:"name" validate:"required,max=200"`
	Description string         `json:"description" validate:"max=1000"`
	Category    string         `json:"category" validate:"max=100"`
	Query       string         `json:"query" validate:"max=4000"`
	Parameters  map[string]any `json:"parameters"`
}

// ScheduleInput is the body of POST /api/schedules and PUT /api/schedules/:id.
type ScheduleInput struct {
	ReportID       string         `json:"reportId" validate:"required"`
	CronExpression string         `json:"cronExpression" validate:"required,max=100"`
	Parameters     map[string]any `json:"parameters"`
	Format         string         `json:"format" validate:"omitempty,oneof=PDF CSV Excel JSON"`
	Recipients     string         `json:"recipients" validate:"max=1000"`
	Active         *bool          `json:"active"`
}

// DataMartInput is the body of POST /api/datamarts and PUT /api/datamarts/:id.
type DataMartInput struct {
	Name            string `json:"name" validate:"required,max=100"`
	Description     string `json:"description" validate:"max=1000"`
	RefreshSchedule string `json:"refreshSchedule" validate:"max=100"`
	Status          string `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

// StatusDTO answers GET /api/reports/executions/:id/status.
type StatusDTO struct {
	ExecutionID string                 `json:"executionId"`
	Status      models.ExecutionStatus `json:"status"`
	CompletedAt *time.Time             `json:"completedAt,omitempty"`
}

// ResultsDTO answers GET /api/reports/executions/:id/results.
type ResultsDTO struct {
	ExecutionID string           `json:"executionId"`
	ReportID    string           `json:"reportId"`
	RowCount    int              `json:"rowCount"`
	Rows        []map[string]any `json:"rows"`
}

// ExecuteDTO answers POST /api/reports/:id/execute.
type ExecuteDTO struct {
	ExecutionID string                 `json:"executionId"`
	Status      models.ExecutionStatus `json:"status"`
}

// DashboardInput is the body of POST /api/dashboards and PUT /api/dashboards/:id.
type DashboardInput struct {
	Name        string         `json:"name" validate:"required,max=200"`
	Description string         `json:"description" validate:"max=1000"`
	Layout      map[string]any `json:"layout"`
	IsDefault   bool           `json:"isDefault"`
	Status      string         `json:"status" validate:"omitempty,oneof=Active Archived"`
}

// WidgetInput is the body of POST /api/dashboards/:id/widgets.
type WidgetInput struct {
	Title           string         `json:"title" validate:"required,max=200"`
	WidgetType      string         `json:"widgetType" validate:"max=50"`
	DataSource      string         `json:"dataSource" validate:"max=200"`
	Position        map[string]any `json:"position"`
	Size            map[string]any `json:"size"`
	Configuration   map[string]any `json:"configuration"`
	RefreshInterval int            `json:"refreshInterval" validate:"min=0"`
}
