// Package inject splices generated text into existing files at regex-located anchors.
//
// A rendered injection template holds zero or more blocks:
//
//	<!-- injection-pattern: register-routes -->
//	(?m)^\s*// routes(?P<injection>\n)
//	<!-- injection-string-start -->
//	router.Handle("/users", users)
//	<!-- injection-string-end -->
//
// Each locator must declare a capture group named "injection". Only that group's
// range is replaced, so the rest of the pattern can anchor on surrounding text
// without deleting it.
package inject

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
)

// Fixed block tags.
const (
	StringStartTag = "<!-- injection-string-start -->"
	StringEndTag   = "<!-- injection-string-end -->"

	// GroupName is the capture group whose range each edit replaces.
	GroupName = "injection"
)

var headerPattern = regexp.MustCompile(`<!-- injection-pattern: (?P<name>[a-zA-Z0-9_-]+) -->`)

// Point is one injection block declared by a rendered template.
type Point struct {
	// Name is the block's tag name.
	Name string
	// Pattern is the locator expression.
	Pattern string
	// Replacement is the literal text spliced in place of the injection group.
	Replacement string
}

// Edit is a resolved replacement of prior[Start:End].
type Edit struct {
	Point       string
	Start       int
	End         int
	Replacement string
}

// Result is the outcome of Apply.
type Result struct {
	// Content is the merged text, or the rendered text when there was no prior file.
	Content string
	// Edits lists the applied edits in offset order.
	Edits []Edit
	// Unmatched lists points whose locator matched nothing; they are warnings, not errors.
	Unmatched []string
}

// Options configures a Merger.
type Options struct {
	// Compile compiles locators. Defaults to CompileRegexp.
	Compile Compiler
	// Logger receives warnings for unmatched points. Defaults to discarding.
	Logger *slog.Logger
}

// Merger resolves injection points against prior file content.
type Merger struct {
	compile Compiler
	logger  *slog.Logger
}

// NewMerger creates a Merger.
func NewMerger(opts Options) *Merger {
	if opts.Compile == nil {
		opts.Compile = CompileRegexp
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Merger{compile: opts.Compile, logger: opts.Logger}
}

// ParsePoints extracts the injection blocks declared in rendered.
// A block's start tag must come before the next block header, and scanning for the
// next header resumes after the block's end tag.
func ParsePoints(rendered string) ([]Point, error) {
	nameIdx := headerPattern.SubexpIndex("name")

	var points []Point
	for pos := 0; pos < len(rendered); {
		loc := headerPattern.FindStringSubmatchIndex(rendered[pos:])
		if loc == nil {
			break
		}
		name := rendered[pos+loc[2*nameIdx] : pos+loc[2*nameIdx+1]]
		bodyStart := pos + loc[1]
		body := rendered[bodyStart:]

		header := body
		if next := headerPattern.FindStringIndex(body); next != nil {
			header = body[:next[0]]
		}
		start := strings.Index(header, StringStartTag)
		if start < 0 {
			return nil, newInjectionError(MalformedInjectionBlock, name, "",
				"missing "+StringStartTag+" before the next injection block", nil)
		}
		rest := body[start+len(StringStartTag):]
		end := strings.Index(rest, StringEndTag)
		if end < 0 {
			return nil, newInjectionError(MalformedInjectionBlock, name, "",
				"missing "+StringEndTag, nil)
		}

		points = append(points, Point{
			Name:        name,
			Pattern:     strings.TrimSpace(body[:start]),
			Replacement: rest[:end],
		})
		pos = bodyStart + start + len(StringStartTag) + end + len(StringEndTag)
	}
	return points, nil
}

// Apply resolves every block in rendered against prior and splices the
// replacements in. With a nil prior the blocks are still validated and rendered
// is returned unchanged.
func (m *Merger) Apply(source, rendered string, prior *string) (*Result, error) {
	points, err := ParsePoints(rendered)
	if err != nil {
		return nil, err
	}

	patterns := make([]Pattern, len(points))
	for i, pt := range points {
		p, err := m.compile(pt.Pattern)
		if err != nil {
			return nil, newInjectionError(InvalidInjectionPattern, pt.Name, pt.Pattern,
				"invalid locator pattern", err)
		}
		if !p.HasGroup(GroupName) {
			return nil, newInjectionError(MissingInjectionGroup, pt.Name, pt.Pattern,
				fmt.Sprintf("locator has no %q named capture group", GroupName), nil)
		}
		patterns[i] = p
	}

	if prior == nil {
		return &Result{Content: rendered}, nil
	}

	result := &Result{}
	var edits []Edit
	for i, pt := range points {
		spans := patterns[i].GroupSpans(*prior, GroupName)
		if len(spans) == 0 {
			m.logger.Warn("injection point matched nothing",
				"file", source, "point", pt.Name, "pattern", pt.Pattern)
			result.Unmatched = append(result.Unmatched, pt.Name)
			continue
		}
		for _, span := range spans {
			edits = append(edits, Edit{
				Point:       pt.Name,
				Start:       span[0],
				End:         span[1],
				Replacement: pt.Replacement,
			})
		}
	}

	sort.SliceStable(edits, func(i, j int) bool { return edits[i].Start < edits[j].Start })

	for i := 1; i < len(edits); i++ {
		prev, cur := edits[i-1], edits[i]
		if cur.Start < prev.End || cur.Start == prev.Start {
			return nil, newInjectionError(OverlappingInjection, cur.Point, "",
				fmt.Sprintf("edit [%d,%d) overlaps edit [%d,%d) from %q",
					cur.Start, cur.End, prev.Start, prev.End, prev.Point), nil)
		}
	}

	result.Content = splice(*prior, edits)
	result.Edits = edits
	return result, nil
}

// splice rebuilds text with each edit's replacement in place of its range.
// Edits must be sorted and non-overlapping.
func splice(text string, edits []Edit) string {
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, e := range edits {
		b.WriteString(text[last:e.Start])
		b.WriteString(e.Replacement)
		last = e.End
	}
	b.WriteString(text[last:])
	return b.String()
}
