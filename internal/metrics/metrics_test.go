package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware("metrics-test"))
	app.Get("/api/things/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "missing" {
			return fiber.ErrNotFound
		}

		return c.SendString("ok")
	})
	app.Get("/metrics", Handler())

	for _, id := range []string{"1", "2", "missing"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/things/"+id, nil))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	assert.InDelta(t, 2, testutil.ToFloat64(HTTPRequests.WithLabelValues("metrics-test", "/api/things/:id", "GET", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(HTTPRequests.WithLabelValues("metrics-test", "/api/things/:id", "GET", "404")), 0)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "dms_http_requests_total")
}
