package inject

import "regexp"

// Pattern is a compiled locator with named capture groups.
type Pattern interface {
	// HasGroup reports whether the pattern declares a capture group called name.
	HasGroup(name string) bool
	// GroupSpans returns the [start, end) byte range of group name for every
	// non-overlapping match in text, in order. Matches where the group did not
	// participate are omitted.
	GroupSpans(text, name string) [][2]int
	// String returns the source expression.
	String() string
}

// Compiler compiles a locator expression into a Pattern.
type Compiler func(expr string) (Pattern, error)

// CompileRegexp is the default Compiler, backed by Go's RE2 engine.
// Both (?P<name>...) and (?<name>...) group syntaxes are accepted.
func CompileRegexp(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return regexpPattern{re: re}, nil
}

type regexpPattern struct {
	re *regexp.Regexp
}

func (p regexpPattern) HasGroup(name string) bool {
	return p.re.SubexpIndex(name) >= 0
}

func (p regexpPattern) GroupSpans(text, name string) [][2]int {
	idx := p.re.SubexpIndex(name)
	if idx < 0 {
		return nil
	}
	var spans [][2]int
	for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[2*idx], loc[2*idx+1]
		if start < 0 {
			continue
		}
		spans = append(spans, [2]int{start, end})
	}
	return spans
}

func (p regexpPattern) String() string {
	return p.re.String()
}
