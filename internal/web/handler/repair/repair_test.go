package repair_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apota/mydms-sub010/internal/db/dbtest"
	"github.com/apota/mydms-sub010/internal/db/models"
	repairsvc "github.com/apota/mydms-sub010/internal/service/repair"
	"github.com/apota/mydms-sub010/internal/web/handler/repair"
	"github.com/apota/mydms-sub010/internal/web/webtest"
)

func TestRepairOrderRoutes(t *testing.T) {
	svc, err := repairsvc.New(dbtest.New(t))
	require.NoError(t, err)

	s := webtest.New(t, "service")
	require.NoError(t, repair.New(svc).Init(s.API, s.Doc))
	app := s.App

	resp := webtest.Do(t, app, http.MethodPost, "/api/repair-orders", map[string]any{"customerId": "c1", "description": "Noise"})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))

	var order repairsvc.OrderDTO
	resp.JSON(t, &order)
	assert.Equal(t, "/api/repair-orders/"+order.ID, resp.Header.Get("Location"))

	resp = webtest.Do(t, app, http.MethodPost, "/api/repair-orders/"+order.ID+"/jobs",
		map[string]any{"description": "Diagnose", "laborHours": 1, "laborRate": 95.5})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))

	var job models.ServiceJob
	resp.JSON(t, &job)
	assert.Equal(t, "/api/service-jobs/"+job.ID, resp.Header.Get("Location"))

	resp = webtest.Do(t, app, http.MethodPut, "/api/service-jobs/"+job.ID,
		map[string]any{"description": "Diagnose", "laborHours": 1, "laborRate": 95.5, "partsCost": 10, "status": "Done"})
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))

	var total repairsvc.TotalDTO
	webtest.Do(t, app, http.MethodGet, "/api/repair-orders/"+order.ID+"/total", nil).JSON(t, &total)
	assert.InDelta(t, 105.5, total.Total, 0.001)

	webtest.Do(t, app, http.MethodGet, "/api/repair-orders/"+order.ID, nil).JSON(t, &order)
	require.Len(t, order.Jobs, 1)
	assert.InDelta(t, 105.5, order.Total, 0.001)

	var jobs []models.ServiceJob
	webtest.Do(t, app, http.MethodGet, "/api/repair-orders/"+order.ID+"/jobs", nil).JSON(t, &jobs)
	assert.Len(t, jobs, 1)

	assert.Equal(t, http.StatusNoContent, webtest.Do(t, app, http.MethodDelete, "/api/service-jobs/"+job.ID, nil).Status)
	assert.Equal(t, http.StatusNotFound, webtest.Do(t, app, http.MethodDelete, "/api/service-jobs/"+job.ID, nil).Status)
	assert.Equal(t, http.StatusNotFound, webtest.Do(t, app, http.MethodGet, "/api/repair-orders/nope/jobs", nil).Status)
	assert.Equal(t, http.StatusNoContent, webtest.Do(t, app, http.MethodDelete, "/api/repair-orders/"+order.ID, nil).Status)
}
