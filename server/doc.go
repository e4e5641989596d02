// Package server is the HTTP front of the authentication service: a gin
// engine behind a chain of net/http middleware, served with h2c.
//
// Server-level middleware (server/middleware) runs before routing, so the
// request gate also covers paths no route matches:
//
//	Recovery -> RequestID -> CORS -> BodySizeLimit -> RequestLogger -> Authenticate -> gin
//
// Route-level middleware: RequireIdentity, RateLimit and Observe.
//
// Built-in endpoints (server/endpoint): GET /health and GET /version.
package server
