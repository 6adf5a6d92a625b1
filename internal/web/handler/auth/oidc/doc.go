// Package oidc serves the OpenID Connect login below /api/auth/oidc.
//
// GET /api/auth/oidc/login stores a random state in the session store and
// redirects to the provider. The provider sends the browser back to
// GET /api/auth/oidc/callback with the state and an authorization code;
// the state is consumed, the code exchanged and DMS tokens are returned as
// JSON, exactly like a password login.
//
// Both routes answer 404 when OIDC is not configured.
package oidc
