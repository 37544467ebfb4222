package errors

import "strings"

// PatternMatcher matches error messages to categories using string patterns.
type PatternMatcher interface {
	Match(errorMsg string) ErrorCategory
}

// NewPatternMatcher creates a new PatternMatcher with predefined patterns.
func NewPatternMatcher() PatternMatcher {
	return &patternMatcher{
		patterns: map[ErrorCategory][]string{
			CategoryAuth: {
				"unable to authenticate",
				"no ssh authentication methods",
				"handshake failed",
				"auth methods",
			},
			CategoryConnection: {
				"connection refused",
				"connection reset",
				"no route to host",
				"network is unreachable",
				"no such host",
				"i/o timeout",
				"ssh connection failed",
			},
			CategoryPermission: {
				"permission denied",
				"access denied",
				"operation not permitted",
			},
			CategoryPath: {
				"no such file or directory",
				"file does not exist",
				"does not exist",
				"not a directory",
			},
		},
	}
}

// patternMatcher is the concrete implementation of PatternMatcher.
type patternMatcher struct {
	patterns map[ErrorCategory][]string
}

// Match returns the error category based on pattern matching.
// Auth patterns are checked before connection patterns: an SSH handshake
// failure mentions the connection too, but the fix is an auth fix.
func (m *patternMatcher) Match(errorMsg string) ErrorCategory {
	lowerMsg := strings.ToLower(errorMsg)

	for _, category := range []ErrorCategory{CategoryAuth, CategoryConnection, CategoryPermission, CategoryPath} {
		for _, pattern := range m.patterns[category] {
			if strings.Contains(lowerMsg, pattern) {
				return category
			}
		}
	}

	// No match found
	return CategoryUnknown
}
