// Package auth provides authentication and authorization for the DMS services.
//
// Users authenticate against one of three sources:
//   - LocalProvider: username/password checked against an Argon2id hash
//   - LDAPProvider: bind against an LDAP or Active Directory server
//   - OIDCProvider: OAuth2 code flow with an external OpenID Connect provider
//
// A successful login yields a TokenPair: a short lived HS256 JWT access token
// carrying the user's role and permissions, and an opaque refresh token kept
// in a TokenStore (Redis or in-process).
//
// # Authorization
//
// Every user has exactly one role, roles hold permissions named
// "<module>.read" and "<module>.write" plus "admin". Directory users get the
// role mapped from their LDAP or OIDC groups (see Service.RoleForGroups).
//
// # Middleware
//
// Fiber middleware protects the service APIs:
//   - Middleware: verifies the bearer token and stores the principal in the request context
//   - RequirePermission: requires one permission
//   - RequireModuleAccess: requires module.read for safe methods and module.write otherwise
//
// Example usage:
//
//	tokens := auth.NewTokenService(cfg.Auth.JWT, auth.NewMemoryStore())
//	api := app.Group("/api", auth.Middleware(tokens), auth.RequireModuleAccess("inventory"))
package auth
