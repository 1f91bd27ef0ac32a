package iteration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimple(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		want    Clause
		wantErr bool
	}{
		{
			name: "plain loop",
			expr: "item in items",
			want: Clause{Var: "item", Expr: "items"},
		},
		{
			name: "with condition",
			expr: "item in items if item.active",
			want: Clause{Var: "item", Expr: "items", Condition: "item.active"},
		},
		{
			name: "dotted expression and padding",
			expr: "  service in dd.services  ",
			want: Clause{Var: "service", Expr: "dd.services"},
		},
		{
			name: "condition keeps inner spacing",
			expr: "s in services if s.enabled and s.port > 80",
			want: Clause{Var: "s", Expr: "services", Condition: "s.enabled and s.port > 80"},
		},
		{name: "missing in", expr: "items", wantErr: true},
		{name: "two in separators", expr: "a in b in c", wantErr: true},
		{name: "empty variable", expr: " in items", wantErr: true},
		{name: "empty string", expr: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSimple(tt.expr)
			if tt.wantErr {
				require.Error(t, err)
				var iterErr *IterationError
				require.True(t, errors.As(err, &iterErr))
				assert.Equal(t, InvalidIterationSyntax, iterErr.Type)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Condition != "", got.HasCondition())
		})
	}
}

func TestParseNested(t *testing.T) {
	clauses, err := ParseNested("module in modules >> component in module.components")
	require.NoError(t, err)
	require.Len(t, clauses, 2)
	assert.Equal(t, Clause{Var: "module", Expr: "modules"}, clauses[0])
	assert.Equal(t, Clause{Var: "component", Expr: "module.components"}, clauses[1])

	_, err = ParseNested("a in as >> broken")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	plan, err := Parse("item in items")
	require.NoError(t, err)
	assert.False(t, plan.Nested)
	assert.Len(t, plan.Clauses, 1)

	plan, err = Parse("a in as >> b in a.bs if b.on")
	require.NoError(t, err)
	assert.True(t, plan.Nested)
	require.Len(t, plan.Clauses, 2)
	assert.Equal(t, "a", plan.Clauses[0].Var)
	assert.Equal(t, "b", plan.Clauses[1].Var)
	assert.Equal(t, "a.bs", plan.Clauses[1].Expr)
	assert.Equal(t, "b.on", plan.Clauses[1].Condition)

	_, err = Parse("nonsense")
	assert.Error(t, err)
}

func TestEvaluatePath(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"dd.services", "/services"},
		{"services", "/services"},
		{"modules.core", "/modules/core"},
		{"dd.modules.components", "/modules/components"},
		{" dd.a ", "/a"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluatePath(tt.expr))
		})
	}
}

func TestToJSONPath(t *testing.T) {
	assert.Equal(t, "$", toJSONPath("/"))
	assert.Equal(t, `$["a"]["b"]`, toJSONPath("/a/b"))
	assert.Equal(t, `$["items"][0]["name"]`, toJSONPath("/items/0/name"))
	assert.Equal(t, `$["a/b"]`, toJSONPath("/a~1b"))
}

func TestLookupArray(t *testing.T) {
	data := map[string]any{
		"services": []any{
			map[string]any{"name": "api"},
			map[string]any{"name": "web"},
		},
		"modules": map[string]any{
			"core": []any{"x", "y", "z"},
		},
		"title": "not a list",
	}

	items, err := LookupArray(data, EvaluatePath("dd.services"))
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = LookupArray(data, EvaluatePath("modules.core"))
	require.NoError(t, err)
	assert.Equal(t, []any{"x", "y", "z"}, items)

	_, err = LookupArray(data, EvaluatePath("title"))
	var iterErr *IterationError
	require.True(t, errors.As(err, &iterErr))
	assert.Equal(t, NotAnArray, iterErr.Type)

	_, err = LookupArray(data, EvaluatePath("missing.path"))
	require.True(t, errors.As(err, &iterErr))
	assert.Equal(t, DataPathNotFound, iterErr.Type)
}
