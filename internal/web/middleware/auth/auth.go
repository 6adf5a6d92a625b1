package auth

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	dmsauth "github.com/apota/mydms-sub010/internal/auth"
	"github.com/apota/mydms-sub010/internal/service"
	"github.com/apota/mydms-sub010/internal/web"
)

// Headers set for the backends.
const (
	HeaderUserID          = "X-User-ID"
	HeaderUserRole        = "X-User-Role"
	HeaderUserPermissions = "X-User-Permissions"
)

// Client facing messages.
const (
	MsgTokenRequired = "Access token required"
	MsgInvalidToken  = "Invalid token"
)

// DefaultPublicPaths are open below every service prefix.
var DefaultPublicPaths = []string{"/login", "/register", "/verify", "/health", "/docs"}

// Middleware requires a valid bearer token unless the path below the service
// prefix is one of public.
func Middleware(v dmsauth.Verifier, public []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := &c.Request().Header
		h.Del(HeaderUserID)
		h.Del(HeaderUserRole)
		h.Del(HeaderUserPermissions)

		token := dmsauth.BearerToken(c)
		if token == "" {
			if IsPublic(c.Path(), public) {
				return c.Next()
			}

			return c.Status(fiber.StatusUnauthorized).JSON(web.ErrorBody{Error: MsgTokenRequired})
		}

		claims, err := v.Verify(token)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("gateway rejected token")

			return c.Status(fiber.StatusUnauthorized).JSON(web.ErrorBody{Error: MsgInvalidToken})
		}

		p := claims.Principal()

		perms := p.Permissions
		if perms == nil {
			perms = []string{}
		}

		raw, err := json.Marshal(perms)
		if err != nil {
			return err
		}

		h.Set(HeaderUserID, p.ID)
		h.Set(HeaderUserRole, p.Role)
		h.SetBytesV(HeaderUserPermissions, raw)

		c.Locals(dmsauth.LocalsPrincipal, p)
		c.SetUserContext(service.WithPrincipal(c.UserContext(), p))

		return c.Next()
	}
}

// IsPublic reports whether the path below the service prefix is public.
func IsPublic(path string, public []string) bool {
	rest := StripPrefix(path)

	return web.IsPublic(rest, public) || IsModuleHealth(rest)
}

// IsModuleHealth reports whether the path below the service prefix is the
// health route of a module resource, such as /customers/health.
func IsModuleHealth(rest string) bool {
	resource, last, ok := strings.Cut(strings.Trim(strings.ToLower(rest), "/"), "/")

	return ok && resource != "" && last == "health"
}

// StripPrefix drops the first path segment: /crm/customers/1 becomes
// /customers/1 and /crm becomes /.
func StripPrefix(path string) string {
	trimmed := strings.TrimPrefix(path, "/")

	_, rest, ok := strings.Cut(trimmed, "/")
	if !ok {
		return "/"
	}

	return "/" + rest
}
