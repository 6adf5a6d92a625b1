package handler

import "errors"

const (
	// APIPrefix is the group every handler is mounted on.
	APIPrefix = "/api"

	// ParamID is the default path parameter of a resource.
	ParamID = "id"

	// MsgInvalidID is returned for ids that do not parse.
	MsgInvalidID = "Invalid id"
)

// ErrNilRouter is returned by Init without router or service.
var ErrNilRouter = errors.New("router or service is nil")
