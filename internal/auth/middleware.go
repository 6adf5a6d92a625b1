package auth

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/apota/mydms-sub010/internal/service"
)

// LocalsPrincipal is the fiber.Locals key holding the service.Principal.
const LocalsPrincipal = "principal"

// Verifier verifies access tokens, implemented by TokenService.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(c *fiber.Ctx) string {
	scheme, token, ok := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}

// Middleware requires a valid bearer token and stores the principal in the
// request context and in fiber.Locals.
func Middleware(v Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		claims, err := v.Verify(token)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("rejected bearer token")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		p := claims.Principal()
		c.Locals(LocalsPrincipal, p)
		c.SetUserContext(service.WithPrincipal(c.UserContext(), p))

		return c.Next()
	}
}

// PrincipalFrom returns the principal stored by Middleware.
func PrincipalFrom(c *fiber.Ctx) (service.Principal, bool) {
	p, ok := c.Locals(LocalsPrincipal).(service.Principal)

	return p, ok
}

// Allowed reports whether p holds permission, admin holds all.
func Allowed(p service.Principal, permission string) bool {
	return slices.Contains(p.Permissions, PermAdmin) || slices.Contains(p.Permissions, permission)
}

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return check(c, permission)
	}
}

// RequireModuleAccess requires module.read for GET, HEAD and OPTIONS and
// module.write for every other method.
func RequireModuleAccess(module string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		action := ActionWrite

		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			action = ActionRead
		}

		return check(c, Perm(module, action))
	}
}

func check(c *fiber.Ctx, permission string) error {
	p, ok := PrincipalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if !Allowed(p, permission) {
		log.Warn().Str("user_id", p.ID).Str("permission", permission).
			Msg("User lacks required permission")

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	return c.Next()
}
