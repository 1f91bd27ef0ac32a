package inject

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(name, pattern, replacement string) string {
	return "<!-- injection-pattern: " + name + " -->\n" +
		pattern + "\n" +
		StringStartTag + replacement + StringEndTag + "\n"
}

func ptr(s string) *string { return &s }

func TestParsePoints(t *testing.T) {
	rendered := "header text\n" +
		block("first", `(?P<injection>a)`, "A") +
		"between\n" +
		block("second-2", `  (?P<injection>b)  `, "\nB\n")

	points, err := ParsePoints(rendered)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, Point{Name: "first", Pattern: "(?P<injection>a)", Replacement: "A"}, points[0])
	assert.Equal(t, Point{Name: "second-2", Pattern: "(?P<injection>b)", Replacement: "\nB\n"}, points[1])
}

func TestParsePoints_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		rendered string
	}{
		{
			name:     "missing start tag",
			rendered: "<!-- injection-pattern: x -->\n(?P<injection>a)\n",
		},
		{
			name:     "missing end tag",
			rendered: "<!-- injection-pattern: x -->\n(?P<injection>a)\n" + StringStartTag + "A",
		},
		{
			name:     "tags only in the following block",
			rendered: "<!-- injection-pattern: x -->\n(?P<injection>foo)\n" + block("b", `(?P<injection>bar)`, "B"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePoints(tt.rendered)
			require.Error(t, err)

			var ie *InjectionError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, MalformedInjectionBlock, ie.Type)
			assert.Equal(t, "x", ie.Point)
		})
	}
}

func TestParsePoints_HeaderInsideReplacement(t *testing.T) {
	rendered := block("outer", `(?P<injection>a)`, "<!-- injection-pattern: inner -->\n") +
		block("next", `(?P<injection>b)`, "B")

	points, err := ParsePoints(rendered)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "outer", points[0].Name)
	assert.Equal(t, "<!-- injection-pattern: inner -->\n", points[0].Replacement)
	assert.Equal(t, "next", points[1].Name)
}

func TestParsePoints_NoBlocks(t *testing.T) {
	points, err := ParsePoints("plain text only")
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestApply(t *testing.T) {
	tests := []struct {
		name      string
		rendered  string
		prior     string
		want      string
		edits     int
		unmatched []string
	}{
		{
			name:     "whole line replaced",
			rendered: block("id", `(?m)^(?P<injection>id=\d+;)$`, "id=99;"),
			prior:    "a\nid=1;\nb\n",
			want:     "a\nid=99;\nb\n",
			edits:    1,
		},
		{
			name:     "only group range replaced",
			rendered: block("id", `id=(?P<injection>\d+);`, "99"),
			prior:    "id=1; id=22;",
			want:     "id=99; id=99;",
			edits:    2,
		},
		{
			name:     "insertion after anchor",
			rendered: block("routes", `// routes\n(?P<injection>)`, "r.Handle(\"/x\")\n"),
			prior:    "func setup() {\n// routes\n}\n",
			want:     "func setup() {\n// routes\nr.Handle(\"/x\")\n}\n",
			edits:    1,
		},
		{
			name: "edits from several points applied in offset order",
			rendered: block("late", `(?P<injection>zzz)`, "Z") +
				block("early", `(?P<injection>aaa)`, "A"),
			prior: "aaa-mmm-zzz",
			want:  "A-mmm-Z",
			edits: 2,
		},
		{
			name:      "no matches leaves prior unchanged",
			rendered:  block("missing", `(?P<injection>nothing here)`, "X"),
			prior:     "original\n",
			want:      "original\n",
			unmatched: []string{"missing"},
		},
		{
			name:     "no blocks leaves prior unchanged",
			rendered: "nothing to inject",
			prior:    "original\n",
			want:     "original\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMerger(Options{})
			res, err := m.Apply("file.go.inj", tt.rendered, ptr(tt.prior))
			require.NoError(t, err)

			assert.Equal(t, tt.want, res.Content)
			assert.Len(t, res.Edits, tt.edits)
			assert.Equal(t, tt.unmatched, res.Unmatched)
		})
	}
}

func TestApply_EditsSorted(t *testing.T) {
	m := NewMerger(Options{})
	rendered := block("b", `(?P<injection>b)`, "B") + block("a", `(?P<injection>a)`, "A")

	res, err := m.Apply("x.inj", rendered, ptr("ab"))
	require.NoError(t, err)
	require.Len(t, res.Edits, 2)

	assert.Equal(t, Edit{Point: "a", Start: 0, End: 1, Replacement: "A"}, res.Edits[0])
	assert.Equal(t, Edit{Point: "b", Start: 1, End: 2, Replacement: "B"}, res.Edits[1])
}

func TestApply_Errors(t *testing.T) {
	tests := []struct {
		name     string
		rendered string
		prior    *string
		wantType InjectionErrorType
	}{
		{
			name:     "invalid pattern",
			rendered: block("bad", `(?P<injection>(`, "X"),
			prior:    ptr("text"),
			wantType: InvalidInjectionPattern,
		},
		{
			name:     "invalid pattern without prior",
			rendered: block("bad", `(`, "X"),
			prior:    nil,
			wantType: InvalidInjectionPattern,
		},
		{
			name:     "missing injection group",
			rendered: block("nogroup", `id=\d+`, "X"),
			prior:    ptr("id=1"),
			wantType: MissingInjectionGroup,
		},
		{
			name:     "wrongly named group",
			rendered: block("other", `(?P<inject>id)`, "X"),
			prior:    ptr("id"),
			wantType: MissingInjectionGroup,
		},
		{
			name:     "overlapping edits",
			rendered: block("a", `(?P<injection>abc)`, "1") + block("b", `(?P<injection>bcd)`, "2"),
			prior:    ptr("abcd"),
			wantType: OverlappingInjection,
		},
		{
			name:     "two edits at the same offset",
			rendered: block("a", `x(?P<injection>)`, "1") + block("b", `x(?P<injection>)`, "2"),
			prior:    ptr("x"),
			wantType: OverlappingInjection,
		},
		{
			name:     "malformed block",
			rendered: "<!-- injection-pattern: broken -->\nno tags",
			prior:    ptr("text"),
			wantType: MalformedInjectionBlock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMerger(Options{})
			_, err := m.Apply("file.inj", tt.rendered, tt.prior)
			require.Error(t, err)

			var ie *InjectionError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.wantType, ie.Type)
		})
	}
}

func TestApply_AngleGroupSyntax(t *testing.T) {
	m := NewMerger(Options{})
	res, err := m.Apply("x.inj", block("n", `v=(?<injection>\d+)`, "7"), ptr("v=1"))
	require.NoError(t, err)
	assert.Equal(t, "v=7", res.Content)
}

func TestApply_NilPrior(t *testing.T) {
	m := NewMerger(Options{})
	rendered := block("id", `(?P<injection>id)`, "X")

	res, err := m.Apply("new.inj", rendered, nil)
	require.NoError(t, err)
	assert.Equal(t, rendered, res.Content)
	assert.Empty(t, res.Edits)
}

func TestApply_WarnsOnUnmatched(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	m := NewMerger(Options{Logger: logger})

	_, err := m.Apply("routes.go.inj", block("routes", `(?P<injection>absent)`, "X"), ptr("present"))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "injection point matched nothing")
	assert.Contains(t, out, "point=routes")
	assert.Contains(t, out, "file=routes.go.inj")
}

func TestApply_CustomCompiler(t *testing.T) {
	var seen []string
	compile := func(expr string) (Pattern, error) {
		seen = append(seen, expr)
		return CompileRegexp(expr)
	}
	m := NewMerger(Options{Compile: compile})

	_, err := m.Apply("x.inj", block("a", `(?P<injection>a)`, "A"), ptr("a"))
	require.NoError(t, err)
	assert.Equal(t, []string{"(?P<injection>a)"}, seen)
}

func TestRegexpPattern_GroupSpans(t *testing.T) {
	p, err := CompileRegexp(`(?P<injection>x)|y`)
	require.NoError(t, err)

	assert.True(t, p.HasGroup("injection"))
	assert.False(t, p.HasGroup("other"))
	// "y" matches without the group participating.
	assert.Equal(t, [][2]int{{0, 1}, {4, 5}}, p.GroupSpans("x-y-x", "injection"))
	assert.Nil(t, p.GroupSpans("x", "other"))
	assert.Equal(t, `(?P<injection>x)|y`, p.String())
}

func TestInjectionErrorType_String(t *testing.T) {
	assert.Equal(t, "OverlappingInjection", OverlappingInjection.String())
	assert.Equal(t, "InjectionErrorType(42)", InjectionErrorType(42).String())
}
