// Package errors holds AppError, the error type HTTP handlers render, and
// the catalog of failures the auth endpoints and gate can answer with.
package errors
