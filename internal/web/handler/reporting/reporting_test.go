package reporting_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apota/mydms-sub010/internal/db/dbtest"
	"github.com/apota/mydms-sub010/internal/db/models"
	reportingsvc "github.com/apota/mydms-sub010/internal/service/reporting"
	"github.com/apota/mydms-sub010/internal/web/handler/reporting"
	"github.com/apota/mydms-sub010/internal/web/webtest"
)

func TestReportRoutes(t *testing.T) {
	svc, err := reportingsvc.New(dbtest.New(t), nil)
	require.NoError(t, err)

	s := webtest.New(t, "reporting")
	require.NoError(t, reporting.New(svc).Init(s.API, s.Doc))
	app := s.App

	resp := webtest.Do(t, app, http.MethodPost, "/api/reports", map[string]any{"name": "Gross profit", "category": "Finance"})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))

	var report models.ReportDefinition
	resp.JSON(t, &report)
	assert.Equal(t, "/api/reports/"+report.ID, resp.Header.Get("Location"))

	var categories []string
	webtest.Do(t, app, http.MethodGet, "/api/reports/categories", nil).JSON(t, &categories)
	assert.Equal(t, []string{"Finance"}, categories)

	resp = webtest.Do(t, app, http.MethodPost, "/api/reports/"+report.ID+"/execute", map[string]any{"year": 2026})
	require.Equal(t, http.StatusAccepted, resp.Status, string(resp.Body))

	var exec reportingsvc.ExecuteDTO
	resp.JSON(t, &exec)
	assert.Equal(t, models.ExecutionSuccess, exec.Status)
	assert.Equal(t, "/api/reports/executions/"+exec.ExecutionID+"/status", resp.Header.Get("Location"))

	var status reportingsvc.StatusDTO
	webtest.Do(t, app, http.MethodGet, "/api/reports/executions/"+exec.ExecutionID+"/status", nil).JSON(t, &status)
	assert.Equal(t, models.ExecutionSuccess, status.Status)

	var results reportingsvc.ResultsDTO
	webtest.Do(t, app, http.MethodGet, "/api/reports/executions/"+exec.ExecutionID+"/results", nil).JSON(t, &results)
	assert.Equal(t, 3, results.RowCount)
	assert.Len(t, results.Rows, 3)

	var history []models.ReportExecution
	webtest.Do(t, app, http.MethodGet, "/api/reports/"+report.ID+"/executions", nil).JSON(t, &history)
	require.Len(t, history, 1)
	assert.Equal(t, "anonymous", history[0].ExecutedBy)

	resp = webtest.Do(t, app, http.MethodPost, "/api/schedules", map[string]any{"reportId": report.ID, "cronExpression": "0 0 6 * * MON"})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))

	resp = webtest.Do(t, app, http.MethodPost, "/api/datamarts", map[string]any{"name": "inventory_snapshot", "refreshSchedule": "@hourly"})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))

	var mart models.DataMart
	resp.JSON(t, &mart)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"execute without body", http.MethodPost, "/api/reports/" + report.ID + "/execute", nil, 202},
		{"execute missing report", http.MethodPost, "/api/reports/nope/execute", nil, 404},
		{"status missing", http.MethodGet, "/api/reports/executions/nope/status", nil, 404},
		{"results missing", http.MethodGet, "/api/reports/executions/nope/results", nil, 404},
		{"bad cron", http.MethodPost, "/api/schedules", map[string]any{"reportId": report.ID, "cronExpression": "soon"}, 400},
		{"list schedules", http.MethodGet, "/api/schedules", nil, 200},
		{"refresh", http.MethodPost, "/api/datamarts/" + mart.ID + "/refresh", nil, 200},
		{"refresh missing", http.MethodPost, "/api/datamarts/nope/refresh", nil, 404},
		{"list datamarts", http.MethodGet, "/api/datamarts", nil, 200},
		{"health", http.MethodGet, "/api/reports/health", nil, 200},
		{"delete report", http.MethodDelete, "/api/reports/" + report.ID, nil, 204},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := webtest.Do(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.Status, string(resp.Body))
		})
	}
}

func newApp(t *testing.T) (*reportingsvc.Service, *fiber.App) {
	t.Helper()

	svc, err := reportingsvc.New(dbtest.New(t), nil)
	require.NoError(t, err)

	s := webtest.New(t, "reporting")
	require.NoError(t, reporting.New(svc).Init(s.API, s.Doc))

	return svc, s.App
}

func TestExportRoute(t *testing.T) {
	svc, app := newApp(t)
	ctx := context.Background()

	def, err := svc.Reports.Create(ctx, &reportingsvc.ReportInput{Name: "Stock"})
	require.NoError(t, err)

	exec, err := svc.Reports.Execute(ctx, def.ID, nil, "analyst")
	require.NoError(t, err)

	path := "/api/reports/executions/" + exec.ID + "/export"

	resp := webtest.Do(t, app, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), exec.ID+".csv")
	assert.Equal(t, "column1,column2,column3\n1,Value1,100\n2,Value2,200\n3,Value3,300\n", string(resp.Body))

	resp = webtest.Do(t, app, http.MethodGet, path+"?format=JSON", nil)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	assert.Equal(t, "application/json", resp.Header.Get(fiber.HeaderContentType))

	var rows []map[string]any
	resp.JSON(t, &rows)
	require.Len(t, rows, 3)
	assert.Equal(t, "Value2", rows[1]["column2"])

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"pdf is not rendered", path + "?format=pdf", 400},
		{"missing execution", "/api/reports/executions/nope/export", 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := webtest.Do(t, app, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.status, resp.Status, string(resp.Body))
		})
	}
}

func TestDashboardRoutes(t *testing.T) {
	_, app := newApp(t)

	resp := webtest.Do(t, app, http.MethodGet, "/api/dashboards/default", nil)
	assert.Equal(t, http.StatusNotFound, resp.Status)

	resp = webtest.Do(t, app, http.MethodPost, "/api/dashboards", map[string]any{
		"name": "Sales floor", "isDefault": true, "layout": map[string]any{"columns": 3},
	})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))

	var board models.Dashboard
	resp.JSON(t, &board)
	assert.Equal(t, "/api/dashboards/"+board.ID, resp.Header.Get("Location"))
	assert.Equal(t, models.DashboardActive, board.Status)
	assert.Equal(t, "system", board.Owner)

	var def models.Dashboard
	webtest.Do(t, app, http.MethodGet, "/api/dashboards/default", nil).JSON(t, &def)
	assert.Equal(t, board.ID, def.ID)

	widgets := "/api/dashboards/" + board.ID + "/widgets"

	resp = webtest.Do(t, app, http.MethodPost, widgets, map[string]any{
		"title": "Deals this month", "widgetType": "kpi", "refreshInterval": 300,
	})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))

	var widget models.DashboardWidget
	resp.JSON(t, &widget)
	assert.Equal(t, board.ID, widget.DashboardID)
	assert.Equal(t, widgets+"/"+widget.ID, resp.Header.Get("Location"))

	var list []models.DashboardWidget
	webtest.Do(t, app, http.MethodGet, widgets, nil).JSON(t, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Deals this month", list[0].Title)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"rename", http.MethodPut, "/api/dashboards/" + board.ID, map[string]any{"name": "Floor", "status": "Archived"}, 200},
		{"bad status", http.MethodPut, "/api/dashboards/" + board.ID, map[string]any{"name": "Floor", "status": "Gone"}, 400},
		{"name required", http.MethodPost, "/api/dashboards", map[string]any{"description": "x"}, 400},
		{"widget title required", http.MethodPost, widgets, map[string]any{"widgetType": "kpi"}, 400},
		{"widget on missing dashboard", http.MethodPost, "/api/dashboards/nope/widgets", map[string]any{"title": "x"}, 404},
		{"widget of another dashboard", http.MethodDelete, "/api/dashboards/nope/widgets/" + widget.ID, nil, 404},
		{"remove widget", http.MethodDelete, widgets + "/" + widget.ID, nil, 204},
		{"remove widget twice", http.MethodDelete, widgets + "/" + widget.ID, nil, 404},
		{"list dashboards", http.MethodGet, "/api/dashboards", nil, 200},
		{"delete dashboard", http.MethodDelete, "/api/dashboards/" + board.ID, nil, 204},
		{"widgets of deleted dashboard", http.MethodGet, widgets, nil, 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := webtest.Do(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.Status, string(resp.Body))
		})
	}
}
