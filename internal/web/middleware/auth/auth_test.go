package auth_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dmsauth "github.com/apota/mydms-sub010/internal/auth"
	"github.com/apota/mydms-sub010/internal/config"
	"github.com/apota/mydms-sub010/internal/service"
	"github.com/apota/mydms-sub010/internal/web/middleware/auth"
	"github.com/apota/mydms-sub010/internal/web/webtest"
)

func TestStripPrefix(t *testing.T) {
	tests := map[string]string{
		"/crm/customers/1": "/customers/1",
		"/crm":             "/",
		"/crm/":            "/",
		"/login/health":    "/health",
		"/":                "/",
	}

	for in, want := range tests {
		assert.Equal(t, want, auth.StripPrefix(in), in)
	}

	assert.True(t, auth.IsPublic("/crm/health", auth.DefaultPublicPaths))
	assert.True(t, auth.IsPublic("/login/login", auth.DefaultPublicPaths))
	assert.True(t, auth.IsPublic("/login/docs/index.html", auth.DefaultPublicPaths))
	assert.False(t, auth.IsPublic("/crm/customers", auth.DefaultPublicPaths))
	assert.False(t, auth.IsPublic("/health", auth.DefaultPublicPaths))

	assert.True(t, auth.IsPublic("/settings/settings/health", auth.DefaultPublicPaths))
	assert.True(t, auth.IsPublic("/service/repair-orders/health", auth.DefaultPublicPaths))
	assert.False(t, auth.IsPublic("/crm/customers/1/health", auth.DefaultPublicPaths))
	assert.False(t, auth.IsPublic("/crm/customers/health-report", auth.DefaultPublicPaths))
}

func TestMiddleware(t *testing.T) {
	tokens := dmsauth.NewTokenService(config.JWT{Key: "test-signing-key-with-enough-bytes"}, dmsauth.NewMemoryStore())

	app := fiber.New()
	app.All("/:service/*", auth.Middleware(tokens, auth.DefaultPublicPaths), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"id":          c.Get(auth.HeaderUserID),
			"role":        c.Get(auth.HeaderUserRole),
			"permissions": c.Get(auth.HeaderUserPermissions),
			"actor":       service.Actor(c.UserContext(), ""),
		})
	})

	token, err := tokens.AccessToken(service.Principal{
		ID: "7", Username: "sam", Role: "sales", Permissions: []string{"crm.read"},
	})
	require.NoError(t, err)

	resp := webtest.Do(t, app, http.MethodGet, "/crm/customers", nil,
		fiber.HeaderAuthorization, "Bearer "+token, auth.HeaderUserRole, "admin")
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	assert.JSONEq(t, `{"id":"7","role":"sales","permissions":"[\"crm.read\"]","actor":"sam"}`, string(resp.Body))

	resp = webtest.Do(t, app, http.MethodGet, "/crm/health", nil, auth.HeaderUserID, "1")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"id":"","role":"","permissions":"","actor":""}`, string(resp.Body))

	resp = webtest.Do(t, app, http.MethodGet, "/crm/customers", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Contains(t, string(resp.Body), auth.MsgTokenRequired)

	resp = webtest.Do(t, app, http.MethodGet, "/crm/health", nil, fiber.HeaderAuthorization, "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Contains(t, string(resp.Body), auth.MsgInvalidToken)
}
