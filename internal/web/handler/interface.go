package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/apota/mydms-sub010/internal/web/openapi"
)

// Service is the interface for a web handler service. Init registers the
// routes below the /api group and documents them.
type Service interface {
	Init(api fiber.Router, doc *openapi.Doc) error
}

// Public is implemented by handlers that serve routes without a token.
// PublicPaths returns full paths including the /api prefix.
type Public interface {
	PublicPaths() []string
}

// PublicPaths collects the public paths of the handlers.
func PublicPaths(handlers ...Service) []string {
	var paths []string

	for _, h := range handlers {
		if p, ok := h.(Public); ok {
			paths = append(paths, p.PublicPaths()...)
		}
	}

	return paths
}
