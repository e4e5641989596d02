package gate

import (
	"path"

	"github.com/bmatcuk/doublestar/v4"
)

// PathMatcher classifies request paths as public or protected.
type PathMatcher struct {
	patterns []string
}

// NewPathMatcher creates a matcher over the given glob patterns.
func NewPathMatcher(patterns ...string) *PathMatcher {
	return &PathMatcher{patterns: patterns}
}

// IsPublic reports whether p matches any public pattern. The path is
// cleaned first so "/v1/auth/../me" is judged as "/v1/me".
func (m *PathMatcher) IsPublic(p string) bool {
	if p == "" {
		p = "/"
	}
	clean := path.Clean(p)
	for _, pattern := range m.patterns {
		if ok, _ := doublestar.Match(pattern, clean); ok {
			return true
		}
	}
	return false
}

// Patterns returns the configured patterns.
func (m *PathMatcher) Patterns() []string {
	return append([]string(nil), m.patterns...)
}
