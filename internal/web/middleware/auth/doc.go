// Package auth guards the gateway routes.
//
// Middleware verifies the bearer token of a proxied request locally with the
// shared JWT key and hands the caller to the backend as headers:
//
//	X-User-ID           subject of the token
//	X-User-Role         role name
//	X-User-Permissions  JSON array of permissions
//
// Headers of the same name sent by the client are always dropped. Requests
// without a token pass only when the path below the service prefix is
// public, e.g. /crm/health.
package auth
