// Package webtest builds DMS services for handler tests.
package webtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/apota/mydms-sub010/internal/config"
	"github.com/apota/mydms-sub010/internal/web"
)

// Config returns a config without log output and with fast shutdown.
func Config() *config.Config {
	return &config.Config{
		Services: map[string]config.Service{"test": {Port: 1}},
		Auth: config.Auth{JWT: config.JWT{
			Enabled: true, Key: "test-signing-key-with-enough-bytes",
		}},
	}
}

// New creates a service without authentication.
func New(t testing.TB, name string) *web.Service {
	t.Helper()

	return NewWithOptions(t, web.Options{Name: name})
}

// NewWithOptions creates a service with opts.
func NewWithOptions(t testing.TB, opts web.Options) *web.Service {
	t.Helper()

	s := web.New(Config(), opts)
	s.SetFastShutdown(true)

	return s
}

// Response of Do.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// JSON decodes the body into v.
func (r Response) JSON(t testing.TB, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, v), string(r.Body))
}

// Do sends a request to app, body is JSON encoded unless it is a string.
func Do(t testing.TB, app *fiber.App, method, path string, body any, headers ...string) Response {
	t.Helper()

	var reader io.Reader

	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return Response{Status: resp.StatusCode, Header: resp.Header, Body: raw}
}
