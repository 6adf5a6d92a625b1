package fiber_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/apota/mydms-sub010/internal/logger/adapter/fiber"

	"github.com/apota/mydms-sub010/internal/logger"
)

type accessLine struct {
	IP        string  `json:"IP"`
	Status    int     `json:"status"`
	Perf      float64 `json:"X-Performance"`
	URI       string  `json:"URI"`
	Method    string  `json:"method"`
	Host      string  `json:"host"`
	Service   string  `json:"service"`
	RequestID string  `json:"requestId"`
	Error     string  `json:"error"`
}

func newApp(cfg adapter.Config) *fiber.App {
	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		c.Locals(adapter.LocalsRequestID, "req-1")

		return c.Next()
	})
	app.Use(adapter.New(cfg))

	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("alive") })
	app.Get("/fail", func(_ *fiber.Ctx) error { return errors.New("boom") }) //nolint:goerr113

	return app
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		disable   bool
		wantLine  bool
		wantURI   string
		wantCode  int
		wantError string
	}{
		{name: "get root", target: "/", wantLine: true, wantURI: "/", wantCode: fiber.StatusOK},
		{name: "query kept", target: "/?test=123", wantLine: true, wantURI: "/?test=123", wantCode: fiber.StatusOK},
		{name: "multiple slashes unchanged", target: "//test", wantLine: true, wantURI: "//test", wantCode: fiber.StatusNotFound, wantError: "Cannot GET //test"},
		{name: "handler error", target: "/fail", wantLine: true, wantURI: "/fail", wantCode: fiber.StatusInternalServerError, wantError: "boom"},
		{name: "health logged", target: "/health", wantLine: true, wantURI: "/health", wantCode: fiber.StatusOK},
		{name: "health skipped", target: "/health", disable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			app := newApp(adapter.Config{
				Config:  logger.Log{DisableCheckAlive: tt.disable},
				Service: "settings",
				Output:  &out,
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.target, nil))
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Header.Get("X-Performance"))

			if !tt.wantLine {
				assert.Empty(t, out.String())

				return
			}

			var line accessLine

			require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out.String())), &line))
			assert.Equal(t, tt.wantURI, line.URI)
			assert.Equal(t, tt.wantCode, line.Status)
			assert.Equal(t, fiber.MethodGet, line.Method)
			assert.Equal(t, "example.com", line.Host)
			assert.Equal(t, "settings", line.Service)
			assert.Equal(t, "req-1", line.RequestID)
			assert.Equal(t, tt.wantError, line.Error)
		})
	}
}

func TestNextSkips(t *testing.T) {
	var out bytes.Buffer

	app := newApp(adapter.Config{
		Next:   func(_ *fiber.Ctx) bool { return true },
		Output: &out,
	})

	_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Empty(t, out.String())
}
