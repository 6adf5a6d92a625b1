package settings_test

import (
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apota/mydms-sub010/internal/auth"
	"github.com/apota/mydms-sub010/internal/db/dbtest"
	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/repository"
	settingsvc "github.com/apota/mydms-sub010/internal/service/settings"
	"github.com/apota/mydms-sub010/internal/web"
	"github.com/apota/mydms-sub010/internal/web/handler/settings"
	"github.com/apota/mydms-sub010/internal/web/webtest"
)

func newApp(t *testing.T) *web.Service {
	t.Helper()

	repo, err := repository.NewGorm[models.Setting, string](dbtest.New(t), "key")
	require.NoError(t, err)

	s := webtest.New(t, "settings")
	require.NoError(t, settings.New(settingsvc.New(settingsvc.GormStore{Gorm: repo})).Init(s.API, s.Doc))

	return s
}

// tick makes every stored timestamp one second later than the previous one.
func tick(t *testing.T) {
	t.Helper()

	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	var n atomic.Int64

	t.Cleanup(repository.SetClock(func() time.Time {
		return start.Add(time.Duration(n.Add(1)) * time.Second)
	}))
}

func TestThemeScenario(t *testing.T) {
	tick(t)

	app := newApp(t).App

	resp := webtest.Do(t, app, http.MethodPost, "/api/settings", map[string]any{"key": "theme", "value": "dark"})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	assert.Equal(t, "/api/settings/theme", resp.Header.Get("Location"))

	var created settingsvc.SettingDTO
	resp.JSON(t, &created)
	require.False(t, created.UpdatedAt.IsZero())

	resp = webtest.Do(t, app, http.MethodGet, "/api/settings/theme", nil)
	require.Equal(t, http.StatusOK, resp.Status)

	var got settingsvc.SettingDTO
	resp.JSON(t, &got)
	assert.Equal(t, "dark", got.Value)
	assert.Equal(t, "General", got.Category)

	resp = webtest.Do(t, app, http.MethodPut, "/api/settings/theme", map[string]any{"value": "light"})
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	resp.JSON(t, &got)
	assert.Equal(t, "light", got.Value)
	assert.Equal(t, "theme", got.Key)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt), "updatedAt %s not after %s", got.UpdatedAt, created.UpdatedAt)

	resp = webtest.Do(t, app, http.MethodGet, "/api/settings/theme", nil)
	require.Equal(t, http.StatusOK, resp.Status)

	var stored settingsvc.SettingDTO
	resp.JSON(t, &stored)
	assert.True(t, stored.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, stored.UpdatedAt.After(created.UpdatedAt))

	resp = webtest.Do(t, app, http.MethodDelete, "/api/settings/theme", nil)
	assert.Equal(t, http.StatusNoContent, resp.Status)

	resp = webtest.Do(t, app, http.MethodGet, "/api/settings/theme", nil)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Contains(t, string(resp.Body), "Setting with key 'theme' not found")
}

func TestErrors(t *testing.T) {
	app := newApp(t).App

	resp := webtest.Do(t, app, http.MethodPost, "/api/settings", map[string]any{"key": "theme", "value": "dark"})
	require.Equal(t, http.StatusCreated, resp.Status)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		substr string
	}{
		{"duplicate key", http.MethodPost, "/api/settings", map[string]any{"key": "theme", "value": "x"}, 409, "already exists"},
		{"missing value", http.MethodPost, "/api/settings", map[string]any{"key": "lang"}, 400, "Field 'value'"},
		{"bad data type", http.MethodPost, "/api/settings", map[string]any{"key": "a", "value": "b", "dataType": "date"}, 400, "dataType"},
		{"broken json", http.MethodPost, "/api/settings", "{", 400, "Invalid request body"},
		{"update missing", http.MethodPut, "/api/settings/nope", map[string]any{"value": "x"}, 404, "not found"},
		{"delete missing", http.MethodDelete, "/api/settings/nope", nil, 404, "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := webtest.Do(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.Status, string(resp.Body))
			assert.Contains(t, string(resp.Body), tt.substr)
		})
	}

	// the duplicate did not overwrite the stored value
	resp = webtest.Do(t, app, http.MethodGet, "/api/settings/theme", nil)

	var got settingsvc.SettingDTO
	resp.JSON(t, &got)
	assert.Equal(t, "dark", got.Value)
}

func TestCategoriesAndHealth(t *testing.T) {
	app := newApp(t).App

	for _, body := range []map[string]any{
		{"key": "theme", "value": "dark", "category": "UI"},
		{"key": "font", "value": "mono", "category": "UI"},
		{"key": "currency", "value": "USD"},
	} {
		require.Equal(t, http.StatusCreated, webtest.Do(t, app, http.MethodPost, "/api/settings", body).Status)
	}

	var categories []string
	webtest.Do(t, app, http.MethodGet, "/api/settings/categories", nil).JSON(t, &categories)
	assert.Equal(t, []string{"General", "UI"}, categories)

	var ui []settingsvc.SettingDTO
	webtest.Do(t, app, http.MethodGet, "/api/settings/category/UI", nil).JSON(t, &ui)
	require.Len(t, ui, 2)
	assert.Equal(t, "font", ui[0].Key)

	var health web.HealthBody
	resp := webtest.Do(t, app, http.MethodGet, "/api/settings/health", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	resp.JSON(t, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, settingsvc.ServiceName, health.Service)

	resp = webtest.Do(t, app, http.MethodGet, "/swagger/doc.json", nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Body), "/api/settings/{key}")
}

func TestHealthWithVerifier(t *testing.T) {
	repo, err := repository.NewGorm[models.Setting, string](dbtest.New(t), "key")
	require.NoError(t, err)

	h := settings.New(settingsvc.New(settingsvc.GormStore{Gorm: repo}))
	tokens := auth.NewTokenService(webtest.Config().Auth.JWT, auth.NewMemoryStore())

	s := webtest.NewWithOptions(t, web.Options{
		Name:        "settings",
		Verifier:    tokens,
		Module:      auth.ModuleSettings,
		PublicPaths: h.PublicPaths(),
	})
	require.NoError(t, h.Init(s.API, s.Doc))

	resp := webtest.Do(t, s.App, http.MethodGet, settings.HealthPath, nil)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))

	var health web.HealthBody
	resp.JSON(t, &health)
	assert.Equal(t, settingsvc.ServiceName, health.Service)

	resp = webtest.Do(t, s.App, http.MethodGet, "/api/settings/categories", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}
