// Package version exposes the build identity of the authgate binary.
//
// Version, commit and build time are injected at link time and fall back to
// the VCS stamps the Go toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/authgate/version.Version=1.2.0" ./cmd/authgate
package version
