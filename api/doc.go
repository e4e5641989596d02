// Package api serves the authentication endpoints under /v1/auth and the
// small public surfaces around them:
//
//	POST /v1/auth/login     credentials -> token pair (200) | 401 "Invalid credentials"
//	POST /v1/auth/register  new record (201) | 400 USERNAME_TAKEN
//	POST /v1/auth/refresh   refresh token -> rotated pair (200) | 401
//	POST /v1/auth/logout    always 200, reports the caller or "unknown"
//	GET  /login             HTML login page, the gate's redirect target
//	GET  /                  plain-text banner
//	GET  /v1/me             caller identity, requires a valid access token
//
// Handlers are thin: they decode and validate the body, call the credential
// validator or the token issuer, and map failures to the boundary messages.
package api
