package generator

import (
	"path/filepath"
	"regexp"
	"strings"
)

// RegexPrefix marks a pattern as a regular expression instead of a glob.
const RegexPrefix = "regex:"

// DefaultIgnorePatterns are template-tree entries skipped unless configured otherwise.
func DefaultIgnorePatterns() []string {
	return []string{".DS_Store", "Thumbs.db", "*.swp", "*.swo", "*~"}
}

// ShouldIgnoreFile reports whether a template path matches any ignore pattern.
func ShouldIgnoreFile(path string, ignorePatterns []string) bool {
	for _, pattern := range ignorePatterns {
		if MatchesPattern(path, pattern) {
			return true
		}
	}
	return false
}

// MatchesPattern checks if a path matches a glob pattern, or a regular
// expression when the pattern starts with "regex:". Globs without a slash are
// also tried against the base name. An invalid pattern matches nothing.
func MatchesPattern(path, pattern string) bool {
	path = filepath.ToSlash(path)

	if expr, ok := strings.CutPrefix(pattern, RegexPrefix); ok {
		re, err := regexp.Compile(expr)
		if err != nil {
			return false
		}
		return re.MatchString(path)
	}

	pattern = filepath.ToSlash(pattern)
	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	if !strings.Contains(pattern, "/") {
		matched, err := filepath.Match(pattern, filepath.Base(path))
		if err == nil && matched {
			return true
		}
	}

	return false
}
