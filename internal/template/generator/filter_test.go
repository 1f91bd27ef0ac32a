package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		pattern  string
		expected bool
	}{
		{"exact match", "test.txt", "test.txt", true},
		{"wildcard extension", "file.txt", "*.txt", true},
		{"wildcard all", "anything", "*", true},
		{"subdir wildcard", "dir/file.txt", "*.txt", true},
		{"pattern with slash", "dir/file.txt", "dir/*.txt", true},
		{"pattern with slash other dir", "other/file.txt", "dir/*.txt", false},
		{"no match", "file.go", "*.txt", false},
		{"case sensitive", "FILE.txt", "file.txt", false},
		{"backup suffix", "main.go~", "*~", true},
		{"regex", "api_service", "regex:^api_", true},
		{"regex no match", "web_service", "regex:^api_", false},
		{"regex on full path", "dir/file.gen.go", `regex:\.gen\.go$`, true},
		{"invalid regex", "anything", "regex:(", false},
		{"invalid glob", "file", "[", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchesPattern(tt.path, tt.pattern))
		})
	}
}

func TestShouldIgnoreFile(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		ignorePatterns []string
		expected       bool
	}{
		{"default DS_Store", "sub/.DS_Store", DefaultIgnorePatterns(), true},
		{"default swap file", "main.go.swp", DefaultIgnorePatterns(), true},
		{"default keeps templates", "main.go.j2", DefaultIgnorePatterns(), false},
		{"ignored by pattern", "test.log", []string{"*.log"}, true},
		{"not ignored", "main.go", []string{"*.txt"}, false},
		{"multiple patterns match", "temp.tmp", []string{"*.log", "*.tmp"}, true},
		{"multiple patterns no match", "main.go", []string{"*.log", "*.tmp"}, false},
		{"no patterns", "anything", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldIgnoreFile(tt.path, tt.ignorePatterns))
		})
	}
}
