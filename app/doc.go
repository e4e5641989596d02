// Package app assembles authgate from its parts: it reads the combined
// configuration, builds the token codec, issuer, credential validator and
// request gate, selects the user store backend, and mounts the auth
// endpoints behind the gate on the HTTP server.
package app
