// Package openapi collects the OpenAPI 3 document of a DMS service while its
// handlers register their routes. The document is served at /swagger/doc.json.
package openapi

import (
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

var isRequired = true

// ErrorBody is the body of every error response.
type ErrorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// Operation describes one route.
type Operation struct {
	Method  string
	Path    string // fiber syntax, ":id" parameters
	Tag     string
	Summary string
	Request any
	// Response is written with Status, nil means no body.
	Response any
	Status   int
	// Query lists optional query parameters.
	Query []string
}

// Doc is the OpenAPI document of one service, safe for concurrent use.
type Doc struct {
	mu sync.Mutex
	r  openapi3.Reflector
}

// New creates an empty document.
func New(title, version string) *Doc {
	d := &Doc{
		r: openapi3.Reflector{Reflector: jsonschema.Reflector{}},
	}

	d.r.Spec = &openapi3.Spec{Openapi: "3.0.3"}
	d.r.Spec.Info.WithTitle(title).WithVersion(version)
	d.r.Spec.SetHTTPBearerTokenSecurity("bearer", "JWT", "DMS access token")

	return d
}

// Add documents op. Failures are logged, a broken document never stops a service.
func (d *Doc) Add(op Operation) {
	if d == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.add(op); err != nil {
		log.Warn().Err(err).Str("method", op.Method).Str("path", op.Path).Msg("can't document operation")
	}
}

func (d *Doc) add(op Operation) error {
	path, params := Path(op.Path)

	oc, err := d.r.NewOperationContext(op.Method, path)
	if err != nil {
		return err
	}

	if op.Tag != "" {
		oc.SetTags(op.Tag)
	}

	if op.Summary != "" {
		oc.SetSummary(op.Summary)
	}

	if op.Request != nil {
		oc.AddReqStructure(op.Request)
	}

	status := op.Status
	if status == 0 {
		status = http.StatusOK
	}

	oc.AddRespStructure(op.Response, openapi.WithHTTPStatus(status))

	switch op.Method {
	case http.MethodPost, http.MethodPut:
		oc.AddRespStructure(new(ErrorBody), openapi.WithHTTPStatus(http.StatusBadRequest))
	}

	if len(params) > 0 {
		oc.AddRespStructure(new(ErrorBody), openapi.WithHTTPStatus(http.StatusNotFound))
	}

	o3, ok := oc.(openapi3.OperationExposer)
	if ok {
		o3.Operation().WithParameters(parameters(params, op.Query)...)
	}

	return d.r.AddOperation(oc)
}

func parameters(path, query []string) []openapi3.ParameterOrRef {
	stringType := openapi3.SchemaTypeString
	schema := &openapi3.SchemaOrRef{Schema: &openapi3.Schema{Type: &stringType}}

	out := make([]openapi3.ParameterOrRef, 0, len(path)+len(query))

	for _, name := range path {
		out = append(out, openapi3.Parameter{
			In: openapi3.ParameterInPath, Name: name, Required: &isRequired, Schema: schema,
		}.ToParameterOrRef())
	}

	for _, name := range query {
		out = append(out, openapi3.Parameter{
			In: openapi3.ParameterInQuery, Name: name, Schema: schema,
		}.ToParameterOrRef())
	}

	return out
}

// JSON returns the document.
func (d *Doc) JSON() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.r.Spec.MarshalJSON()
}

// Path converts a fiber route to an OpenAPI path pattern and returns its
// parameter names, "/api/settings/:key" becomes "/api/settings/{key}".
func Path(route string) (string, []string) {
	var params []string

	segments := strings.Split(route, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}

		name := strings.TrimSuffix(strings.TrimPrefix(seg, ":"), "?")
		params = append(params, name)
		segments[i] = "{" + name + "}"
	}

	return strings.Join(segments, "/"), params
}
