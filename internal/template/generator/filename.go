package generator

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateOutputName checks a rendered file or directory name before it is
// joined onto the output directory. Names may contain "/" to create nested
// paths, but must stay inside the output directory.
func ValidateOutputName(rendered, original string) error {
	if strings.TrimSpace(rendered) == "" {
		return newGeneratorError(PathError,
			fmt.Sprintf("name %q rendered to an empty value", original), original, nil)
	}

	if strings.ContainsRune(rendered, 0) {
		return newGeneratorError(PathError,
			fmt.Sprintf("name %q rendered to a value containing a null byte", original), original, nil)
	}

	slashed := filepath.ToSlash(rendered)
	if filepath.IsAbs(rendered) || strings.HasPrefix(slashed, "/") {
		return newGeneratorError(PathError,
			fmt.Sprintf("name %q rendered to absolute path %q", original, rendered), original, nil)
	}

	cleaned := filepath.ToSlash(filepath.Clean(rendered))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return newGeneratorError(PathError,
			fmt.Sprintf("name %q rendered to %q, which escapes the output directory", original, rendered), original, nil)
	}

	if cleaned == "." {
		return newGeneratorError(PathError,
			fmt.Sprintf("name %q rendered to the current directory", original), original, nil)
	}

	return nil
}
