// Package userstore implements credential.Store over three backends:
// an in-process map, a SQL table through gorm, and Redis through SETNX.
// Each backend enforces username uniqueness atomically.
package userstore
