package models

import (
	"time"

	"gorm.io/datatypes"
)

// ExecutionStatus of a report execution.
type ExecutionStatus string

// Execution states.
const (
	ExecutionQueued   ExecutionStatus = "Queued"
	ExecutionRunning  ExecutionStatus = "Running"
	ExecutionSuccess  ExecutionStatus = "Success"
	ExecutionFailed   ExecutionStatus = "Failed"
	ExecutionCanceled ExecutionStatus = "Canceled"
)

// Finished reports whether the execution reached a final state.
func (s ExecutionStatus) Finished() bool {
	return s == ExecutionSuccess || s == ExecutionFailed || s == ExecutionCanceled
}

// ReportDefinition describes a report.
type ReportDefinition struct {
	Base
	Name        string            `gorm:"size:200;not null" json:"name"`
	Description string            `gorm:"size:1000" json:"description"`
	Category    string            `gorm:"size:100;index" json:"category"`
	Query       string            `gorm:"size:4000" json:"query"`
	Parameters  datatypes.JSONMap `json:"parameters,omitempty"`
	CreatedBy   string            `gorm:"size:100" json:"createdBy,omitempty"`

	Schedules []ReportSchedule `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"-"`
}

// ReportSchedule runs a report on a cron expression.
type ReportSchedule struct {
	Base
	ReportID       string            `gorm:"size:36;not null;index" json:"reportId"`
	CronExpression string            `gorm:"size:100;not null" json:"cronExpression"`
	Parameters     datatypes.JSONMap `json:"parameters,omitempty"`
	Format         string            `gorm:"size:20" json:"format"`
	Recipients     string            `gorm:"size:1000" json:"recipients,omitempty"`
	Active         bool              `json:"active"`
	LastRunAt      *time.Time        `json:"lastRunAt,omitempty"`
	NextRunAt      *time.Time        `gorm:"index" json:"nextRunAt,omitempty"`
}

// ReportExecution is one run of a report.
type ReportExecution struct {
	Base
	ReportID    string                              `gorm:"size:36;not null;index" json:"reportId"`
	Status      ExecutionStatus                     `gorm:"size:20;not null" json:"status"`
	Parameters  datatypes.JSONMap                   `json:"parameters,omitempty"`
	Results     datatypes.JSONSlice[map[string]any] `json:"-"`
	RowCount    int                                 `json:"rowCount"`
	ExecutedBy  string                              `gorm:"size:100" json:"executedBy"`
	StartedAt   *time.Time                          `json:"startedAt,omitempty"`
	CompletedAt *time.Time                          `json:"completedAt,omitempty"`
	Error       string                              `gorm:"size:2000" json:"error,omitempty"`
	// ExportKey locates the stored export of a scheduled run.
	ExportKey string `gorm:"size:300" json:"exportKey,omitempty"`
}

// DataMart is a pre-aggregated data set refreshed on a schedule.
type DataMart struct {
	Base
	Name            string     `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description     string     `gorm:"size:1000" json:"description"`
	RefreshSchedule string     `gorm:"size:100" json:"refreshSchedule"`
	Status          string     `gorm:"size:20" json:"status"`
	RowCount        int        `json:"rowCount"`
	LastRefreshedAt *time.Time `json:"lastRefreshedAt,omitempty"`
	NextRefreshAt   *time.Time `gorm:"index" json:"nextRefreshAt,omitempty"`
}

// Data mart states.
const (
	DataMartActive   = "Active"
	DataMartInactive = "Inactive"
	DataMartFailed   = "Failed"
)

// Dashboard states.
const (
	DashboardActive   = "Active"
	DashboardArchived = "Archived"
)

// Dashboard groups widgets for one owner.
type Dashboard struct {
	Base
	Name        string            `gorm:"size:200;not null" json:"name"`
	Description string            `gorm:"size:1000" json:"description"`
	Owner       string            `gorm:"size:100;not null;index" json:"owner"`
	Layout      datatypes.JSONMap `json:"layout,omitempty"`
	IsDefault   bool              `json:"isDefault"`
	Status      string            `gorm:"size:20" json:"status"`

	Widgets []DashboardWidget `gorm:"foreignKey:DashboardID;constraint:OnDelete:CASCADE" json:"-"`
}

// DashboardWidget is one tile of a dashboard.
type DashboardWidget struct {
	Base
	DashboardID     string            `gorm:"size:36;not null;index" json:"dashboardId"`
	Title           string            `gorm:"size:200;not null" json:"title"`
	WidgetType      string            `gorm:"size:50" json:"widgetType"`
	DataSource      string            `gorm:"size:200" json:"dataSource"`
	Position        datatypes.JSONMap `json:"position,omitempty"`
	Size            datatypes.JSONMap `json:"size,omitempty"`
	Configuration   datatypes.JSONMap `json:"configuration,omitempty"`
	RefreshInterval int               `json:"refreshInterval"`
}
