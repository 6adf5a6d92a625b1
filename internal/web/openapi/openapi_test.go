package openapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func TestPath(t *testing.T) {
	tests := []struct {
		route  string
		want   string
		params []string
	}{
		{"/api/settings", "/api/settings", nil},
		{"/api/settings/:key", "/api/settings/{key}", []string{"key"}},
		{"/api/customers/:id/interactions/:iid?", "/api/customers/{id}/interactions/{iid}", []string{"id", "iid"}},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			got, params := Path(tt.route)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestDoc(t *testing.T) {
	d := New("DMS Settings Management API", "1.0.0")

	d.Add(Operation{Method: http.MethodGet, Path: "/api/settings", Tag: "settings", Response: new([]sample)})
	d.Add(Operation{
		Method: http.MethodPost, Path: "/api/settings", Tag: "settings",
		Request: new(sample), Response: new(sample), Status: http.StatusCreated,
	})
	d.Add(Operation{Method: http.MethodDelete, Path: "/api/settings/:key", Status: http.StatusNoContent})

	raw, err := d.JSON()
	require.NoError(t, err)

	var doc struct {
		Openapi string `json:"openapi"`
		Info    struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}

	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "3.0.3", doc.Openapi)
	assert.Equal(t, "DMS Settings Management API", doc.Info.Title)
	assert.Contains(t, doc.Paths["/api/settings"], "get")
	assert.Contains(t, doc.Paths["/api/settings"], "post")
	assert.Contains(t, doc.Paths["/api/settings/{key}"], "delete")
}

func TestNilDoc(t *testing.T) {
	var d *Doc

	assert.NotPanics(t, func() {
		d.Add(Operation{Method: http.MethodGet, Path: "/x"})
	})
}
