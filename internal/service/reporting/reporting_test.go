package reporting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apota/mydms-sub010/internal/db/dbtest"
	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/service"
	"github.com/apota/mydms-sub010/internal/service/reporting"
)

type failingEngine struct{}

func (failingEngine) Run(context.Context, *models.ReportDefinition, map[string]any) ([]map[string]any, error) {
	return nil, errors.New("warehouse offline")
}

func newService(t *testing.T, engine reporting.Engine) *reporting.Service {
	t.Helper()

	s, err := reporting.New(dbtest.New(t), engine)
	require.NoError(t, err)

	return s
}

func newReport(t *testing.T, s *reporting.Service, name, category string) models.ReportDefinition {
	t.Helper()

	def, err := s.Reports.Create(context.Background(), &reporting.ReportInput{Name: name, Category: category})
	require.NoError(t, err)

	return def
}

func TestReportsAndCategories(t *testing.T) {
	s := newService(t, nil)
	ctx := service.WithPrincipal(context.Background(), service.Principal{ID: "1", Username: "analyst"})

	def, err := s.Reports.Create(ctx, &reporting.ReportInput{
		Name: "Monthly sales", Category: "Sales", Parameters: map[string]any{"month": "2026-09"},
	})
	require.NoError(t, err)
	assert.Equal(t, "analyst", def.CreatedBy)

	newReport(t, s, "Open repair orders", "Service")
	newReport(t, s, "Sales by rep", "Sales")
	newReport(t, s, "Scratch", "")

	categories, err := s.Reports.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sales", "Service"}, categories)

	_, err = s.Reports.Create(ctx, &reporting.ReportInput{})

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestExecute(t *testing.T) {
	s := newService(t, nil)
	ctx := context.Background()
	def := newReport(t, s, "Inventory aging", "Inventory")

	exec, err := s.Reports.Execute(ctx, def.ID, map[string]any{"days": 90}, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionSuccess, exec.Status)
	assert.Equal(t, 3, exec.RowCount)
	assert.Equal(t, "jdoe", exec.ExecutedBy)
	require.NotNil(t, exec.StartedAt)
	require.NotNil(t, exec.CompletedAt)

	status, err := s.Reports.Status(ctx, exec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionSuccess, status.Status)

	results, err := s.Reports.Results(ctx, exec.ID)
	require.NoError(t, err)
	require.Len(t, results.Rows, 3)
	assert.Equal(t, "Value2", results.Rows[1]["column2"])

	_, err = s.Reports.Execute(ctx, def.ID, nil, "jdoe")
	require.NoError(t, err)

	history, err := s.Reports.Executions(ctx, def.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = s.Reports.Execute(ctx, "missing", nil, "jdoe")
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = s.Reports.Status(ctx, "missing")
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = s.Reports.Executions(ctx, "missing")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestExecuteFailure(t *testing.T) {
	s := newService(t, failingEngine{})
	ctx := context.Background()
	def := newReport(t, s, "Broken", "Ops")

	exec, err := s.Reports.Execute(ctx, def.ID, nil, "system")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionFailed, exec.Status)
	assert.Equal(t, "warehouse offline", exec.Error)

	_, err = s.Reports.Results(ctx, exec.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestSchedules(t *testing.T) {
	s := newService(t, nil)
	ctx := context.Background()
	def := newReport(t, s, "Daily stock", "Inventory")
	now := time.Now().UTC()

	sched, err := s.Schedules.Create(ctx, &reporting.ScheduleInput{ReportID: def.ID, CronExpression: "0 */5 * * * *"})
	require.NoError(t, err)
	assert.True(t, sched.Active)
	assert.Equal(t, "PDF", sched.Format)
	require.NotNil(t, sched.NextRunAt)
	assert.WithinDuration(t, now, *sched.NextRunAt, 6*time.Minute)

	due, err := s.Schedules.DueToRun(ctx, now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = s.Schedules.DueToRun(ctx, now.Add(10*time.Minute))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, sched.ID, due[0].ID)

	require.NoError(t, s.Schedules.UpdateRunDates(ctx, sched.ID, now, now.Add(time.Hour)))

	due, err = s.Schedules.DueToRun(ctx, now.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, due)

	got, err := s.Schedules.Get(ctx, sched.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastRunAt)

	require.ErrorIs(t, s.Schedules.UpdateRunDates(ctx, "missing", now, now), service.ErrNotFound)

	inactive := false
	paused, err := s.Schedules.Update(ctx, sched.ID, &reporting.ScheduleInput{
		ReportID: def.ID, CronExpression: "0 */5 * * * *", Active: &inactive,
	})
	require.NoError(t, err)
	assert.Nil(t, paused.NextRunAt)
}

func TestScheduleValidation(t *testing.T) {
	s := newService(t, nil)
	def := newReport(t, s, "Daily stock", "Inventory")

	tests := []struct {
		name string
		in   reporting.ScheduleInput
	}{
		{"unknown report", reporting.ScheduleInput{ReportID: "nope", CronExpression: "@daily"}},
		{"bad cron", reporting.ScheduleInput{ReportID: def.ID, CronExpression: "every tuesday"}},
		{"bad format", reporting.ScheduleInput{ReportID: def.ID, CronExpression: "@daily", Format: "DOCX"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Schedules.Create(context.Background(), &tt.in)

			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestScheduleCascade(t *testing.T) {
	s := newService(t, nil)
	ctx := context.Background()
	def := newReport(t, s, "Daily stock", "Inventory")

	sched, err := s.Schedules.Create(ctx, &reporting.ScheduleInput{ReportID: def.ID, CronExpression: "@hourly"})
	require.NoError(t, err)

	require.NoError(t, s.Reports.Delete(ctx, def.ID))

	_, err = s.Schedules.Get(ctx, sched.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestDataMarts(t *testing.T) {
	s := newService(t, nil)
	ctx := context.Background()

	mart, err := s.DataMarts.Create(ctx, &reporting.DataMartInput{Name: "sales_daily"})
	require.NoError(t, err)
	assert.Equal(t, models.DataMartActive, mart.Status)
	require.NotNil(t, mart.NextRefreshAt)

	_, err = s.DataMarts.Create(ctx, &reporting.DataMartInput{Name: "sales_daily"})
	require.ErrorIs(t, err, service.ErrConflict)

	_, err = s.DataMarts.Create(ctx, &reporting.DataMartInput{Name: "x", RefreshSchedule: "sometimes"})

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)

	refreshed, err := s.DataMarts.Refresh(ctx, mart.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, refreshed.RowCount)
	require.NotNil(t, refreshed.LastRefreshedAt)
	assert.True(t, refreshed.NextRefreshAt.After(*refreshed.LastRefreshedAt))

	// a daily mart is due a day later, not now
	n, err := s.DataMarts.RefreshDue(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.DataMarts.RefreshDue(ctx, time.Now().Add(25*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNextRun(t *testing.T) {
	from := time.Date(2026, 10, 16, 1, 30, 0, 0, time.UTC)

	tests := []struct {
		expr string
		want time.Time
	}{
		{"0 */5 * * * *", time.Date(2026, 10, 16, 1, 35, 0, 0, time.UTC)},
		{"0 0 2 * * *", time.Date(2026, 10, 16, 2, 0, 0, 0, time.UTC)},
		{"15 * * * *", time.Date(2026, 10, 16, 2, 15, 0, 0, time.UTC)},
		{"@daily", time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)},
		{"not a cron", from.Add(reporting.FallbackInterval)},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, reporting.NextRun(tt.expr, from))
		})
	}
}

func TestDashboards(t *testing.T) {
	s := newService(t, nil)
	ctx := service.WithPrincipal(context.Background(), service.Principal{ID: "4", Username: "manager"})

	_, err := s.Dashboards.Default(ctx)
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = s.Dashboards.Create(ctx, &reporting.DashboardInput{Name: "Service lane"})
	require.NoError(t, err)

	overview, err := s.Dashboards.Create(ctx, &reporting.DashboardInput{Name: "Overview", IsDefault: true})
	require.NoError(t, err)
	assert.Equal(t, "manager", overview.Owner)

	got, err := s.Dashboards.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, overview.ID, got.ID)

	_, err = s.Dashboards.Default(service.WithPrincipal(context.Background(), service.Principal{Username: "other"}))
	require.ErrorIs(t, err, service.ErrNotFound)

	w, err := s.Dashboards.AddWidget(ctx, overview.ID, &reporting.WidgetInput{
		Title: "Open deals", WidgetType: "table", Position: map[string]any{"x": 0, "y": 1},
	})
	require.NoError(t, err)

	widgets, err := s.Dashboards.Widgets(ctx, overview.ID)
	require.NoError(t, err)
	require.Len(t, widgets, 1)
	assert.Equal(t, w.ID, widgets[0].ID)
	assert.InDelta(t, 1, widgets[0].Position["y"], 0)

	_, err = s.Dashboards.AddWidget(ctx, overview.ID, &reporting.WidgetInput{RefreshInterval: -1})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)

	require.NoError(t, s.Dashboards.Delete(ctx, overview.ID))

	_, err = s.Dashboards.Widgets(ctx, overview.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
}
