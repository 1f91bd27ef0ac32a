package generator

import (
	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff returns a unified diff from before to after, labelled with path.
// A nil before diffs against an empty file. Identical inputs yield "".
func UnifiedDiff(path string, before *string, after string) string {
	from := "/dev/null"
	old := ""
	if before != nil {
		from = path
		old = *before
	}
	if before != nil && old == after {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(old),
		B:        splitLines(after),
		FromFile: from,
		ToFile:   path,
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return difflib.SplitLines(s)
}
