// Package util holds small parsing and display helpers shared by the
// configuration of several packages.
package util
