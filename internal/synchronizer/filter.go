package synchronizer

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileFilter defines the interface for filtering remote file listings
type FileFilter interface {
	// ShouldInclude returns true if the remote file with the given name should be fetched
	ShouldInclude(name string) bool
}

// GlobFilter implements FileFilter using glob patterns
type GlobFilter struct {
	normalizedPattern string
	isEmpty           bool
}

// NewGlobFilter creates a new GlobFilter with the given pattern
// Empty pattern matches all files
func NewGlobFilter(pattern string) *GlobFilter {
	normalized := strings.ToLower(pattern)

	return &GlobFilter{
		normalizedPattern: normalized,
		isEmpty:           pattern == "",
	}
}

// ShouldInclude returns true if the file should be fetched based on the glob pattern
// Case-insensitive matching
func (f *GlobFilter) ShouldInclude(name string) bool {
	// Empty pattern matches all files
	if f.isEmpty {
		return true
	}

	// Convert name to lowercase for case-insensitive matching
	normalizedName := strings.ToLower(name)

	matched, err := doublestar.Match(f.normalizedPattern, normalizedName)
	if err != nil {
		// If pattern is invalid, don't match
		return false
	}

	return matched
}
