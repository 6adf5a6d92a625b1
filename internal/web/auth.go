package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/apota/mydms-sub010/internal/auth"
)

// Authenticate requires a bearer token for every /api request except the
// public paths.
func Authenticate(v auth.Verifier, public ...string) fiber.Handler {
	requireToken := auth.Middleware(v)

	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions || IsPublic(c.Path(), public) {
			return c.Next()
		}

		return requireToken(c)
	}
}

// Authorize enforces module access on every non public /api request.
func Authorize(module string, public ...string) fiber.Handler {
	requireAccess := auth.RequireModuleAccess(module)

	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions || IsPublic(c.Path(), public) {
			return c.Next()
		}

		return requireAccess(c)
	}
}

// IsPublic reports whether path equals or lies below one of the public paths.
func IsPublic(path string, public []string) bool {
	path = strings.ToLower(path)

	for _, p := range public {
		p = strings.ToLower(strings.TrimSuffix(p, "/"))
		if p == "" {
			continue
		}

		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}

	return false
}
