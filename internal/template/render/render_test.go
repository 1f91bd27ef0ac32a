package render

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, globals map[string]any) *Engine {
	t.Helper()
	e, err := NewEngine(Options{Globals: globals})
	require.NoError(t, err)
	return e
}

func TestEngine_Render(t *testing.T) {
	e := newTestEngine(t, map[string]any{"version": "1.0.0"})

	tests := []struct {
		name string
		text string
		ctx  Context
		want string
	}{
		{"variable", "Hello, {{ name }}!", Context{"name": "World"}, "Hello, World!"},
		{"global", "{{ name }} v{{ version }}", Context{"name": "Test"}, "Test v1.0.0"},
		{"context wins over global", "{{ version }}", Context{"version": "2"}, "2"},
		{"loop", "{% for s in items %}{{ s }};{% endfor %}", Context{"items": []any{"a", "b"}}, "a;b;"},
		{"nested map", "{{ item.name }}", Context{"item": map[string]any{"name": "svc"}}, "svc"},
		{"camelcase", "{{ n|camelcase }}", Context{"n": "user_account"}, "userAccount"},
		{"pascalcase", "{{ n|pascalcase }}", Context{"n": "user_account"}, "UserAccount"},
		{"snakecase", "{{ n|snakecase }}", Context{"n": "UserAccount"}, "user_account"},
		{"kebabcase", "{{ n|kebabcase }}", Context{"n": "UserAccount"}, "user-account"},
		{"screamingsnakecase", "{{ n|screamingsnakecase }}", Context{"n": "userAccount"}, "USER_ACCOUNT"},
		{"no directives", "plain text\n", nil, "plain text\n"},
		{"no html escaping", "{{ v }}", Context{"v": `a < b && c > "d"`}, `a < b && c > "d"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Render(tt.name, tt.text, tt.ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_RenderIgnoresInvalidKeys(t *testing.T) {
	e := newTestEngine(t, nil)
	got, err := e.Render("t", "{{ ok }}", Context{"ok": "yes", "not-valid": 1})
	require.NoError(t, err)
	assert.Equal(t, "yes", got)
}

func TestEngine_RenderError(t *testing.T) {
	e := newTestEngine(t, nil)
	_, err := e.Render("broken.j2", "line one\n{% if %}\n", nil)
	require.Error(t, err)

	var rerr *RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "broken.j2", rerr.Template)
	assert.NotEmpty(t, rerr.Message)
	if rerr.Line > 0 {
		assert.Equal(t, "{% if %}", rerr.SourceLine)
	}
}

func TestEngine_RenderStrictUndefined(t *testing.T) {
	e := newTestEngine(t, map[string]any{"version": "1.0.0"})

	tests := []struct {
		name     string
		text     string
		ctx      Context
		wantErr  bool
		variable string
		line     int
	}{
		{name: "missing root", text: "Hello, {{ name }}!", wantErr: true, variable: "name", line: 1},
		{name: "missing on later line", text: "a\nb {{ x }}\n", ctx: Context{"y": 1}, wantErr: true, variable: "x", line: 2},
		{name: "missing in if", text: "{% if flag %}y{% endif %}", wantErr: true, variable: "flag", line: 1},
		{name: "missing loop source", text: "{% for s in items %}{{ s }}{% endfor %}", wantErr: true, variable: "items", line: 1},
		{name: "missing filter argument", text: "{{ a|add:b }}", ctx: Context{"a": 1}, wantErr: true, variable: "b", line: 1},
		{name: "missing map key", text: "{{ item.nmae }}", ctx: Context{"item": map[string]any{"name": "svc"}}, wantErr: true, variable: "item.nmae", line: 1},
		{name: "trimmed tag", text: "{%- if flag -%}y{%- endif -%}", wantErr: true, variable: "flag", line: 1},
		{name: "loop variable", text: "{% for k, v in m %}{{ k }}{{ v.x }}{{ forloop.Counter }}{% endfor %}", ctx: Context{"m": map[string]any{}}},
		{name: "set variable", text: "{% set greeting = \"hi\" %}{{ greeting }}", ctx: nil},
		{name: "with variable", text: "{% with total=n %}{{ total }}{% endwith %}", ctx: Context{"n": 2}},
		{name: "macro parameters", text: "{% macro tag(label, size=1) %}{{ label }}{{ size }}{% endmacro %}{{ tag(\"x\") }}", ctx: nil},
		{name: "global", text: "{{ version }}", ctx: nil},
		{name: "default filter", text: "{{ missing|default:\"none\" }}", ctx: nil},
		{name: "names in strings and comments", text: "{{ \"nope\" }}{# {{ nope }} #}{% comment %}{{ nope }}{% endcomment %}", ctx: nil},
		{name: "verbatim block", text: "{% verbatim %}{{ nope }}{% endverbatim %}", ctx: nil},
		{name: "attribute of non-map", text: "{{ items.0 }}", ctx: Context{"items": []any{"a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Render("t.j2", tt.text, tt.ctx)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUndefined)

			var rerr *RenderError
			require.True(t, errors.As(err, &rerr))
			assert.Equal(t, "t.j2", rerr.Template)
			assert.Contains(t, rerr.Message, `"`+tt.variable+`"`)
			assert.Equal(t, tt.line, rerr.Line)
		})
	}
}

func TestGenerateUUID(t *testing.T) {
	a := GenerateUUID("service-a")
	b := GenerateUUID("service-a")
	c := GenerateUUID("service-b")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())

	// Seeded values are stable across releases; generated files depend on them.
	assert.Equal(t, "18466ff7-a9a5-58b1-bd44-31b31efec788", vendorNamespace.String())
	assert.Equal(t, "42820f15-b586-5dc0-89fa-f78dc769760e", GenerateUUID("seed"))
	assert.Equal(t, "1d443c46-ac04-5a38-adc1-bc59ed890175", a)

	random, err := uuid.Parse(GenerateUUID(""))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), random.Version())
	assert.NotEqual(t, GenerateUUID(""), GenerateUUID(""))
}

func TestEngine_RenderUUID(t *testing.T) {
	e := newTestEngine(t, nil)

	got, err := e.Render("t", `{{ "seed"|uuid_generate }}`, nil)
	require.NoError(t, err)
	assert.Equal(t, GenerateUUID("seed"), got)

	got, err = e.Render("t", `{{ uuid_generate("seed") }}`, nil)
	require.NoError(t, err)
	assert.Equal(t, GenerateUUID("seed"), got)

	got, err = e.Render("t", `{{ uuid_generate() }}`, nil)
	require.NoError(t, err)
	_, err = uuid.Parse(got)
	assert.NoError(t, err)
}

func TestContext_Immutable(t *testing.T) {
	base := Context{"a": 1}
	next := base.With("b", 2)
	merged := next.Merge(map[string]any{"a": 3})

	assert.Equal(t, Context{"a": 1}, base)
	assert.Equal(t, Context{"a": 1, "b": 2}, next)
	assert.Equal(t, Context{"a": 3, "b": 2}, merged)
}
