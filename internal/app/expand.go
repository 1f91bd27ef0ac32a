package app

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/tacogips/regen/internal/template/iteration"
	"github.com/tacogips/regen/internal/template/render"
)

// Binding maps loop variable names to the values of one expansion.
type Binding map[string]any

// Expand evaluates plan against data and returns one Binding per combination
// of loop values, outermost loop varying slowest.
//
// The first clause ranges over a path from the data root. A later clause whose
// expression starts with an earlier loop variable ranges over that variable's
// value. Conditions see scope overlaid with the bindings made so far; a nil
// result counts as false and any other non-bool result is an error.
func Expand(plan *iteration.Plan, data any, scope render.Context) ([]Binding, error) {
	if plan == nil || len(plan.Clauses) == 0 {
		return []Binding{{}}, nil
	}

	programs := make([]*vm.Program, len(plan.Clauses))
	for i, clause := range plan.Clauses {
		if !clause.HasCondition() {
			continue
		}
		program, err := expr.Compile(clause.Condition, expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("invalid condition %q: %w", clause.Condition, err)
		}
		programs[i] = program
	}

	e := &expander{plan: plan, programs: programs, data: data, scope: scope}
	var out []Binding
	if err := e.expand(0, Binding{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type expander struct {
	plan     *iteration.Plan
	programs []*vm.Program
	data     any
	scope    render.Context
}

func (e *expander) expand(depth int, bound Binding, out *[]Binding) error {
	if depth == len(e.plan.Clauses) {
		*out = append(*out, bound)
		return nil
	}

	clause := e.plan.Clauses[depth]
	items, err := iteration.LookupArray(e.source(clause.Expr, bound))
	if err != nil {
		return err
	}

	for _, item := range items {
		next := make(Binding, len(bound)+1)
		for k, v := range bound {
			next[k] = v
		}
		next[clause.Var] = item

		if program := e.programs[depth]; program != nil {
			keep, err := e.test(program, clause.Condition, next)
			if err != nil {
				return err
			}
			if !keep {
				continue
			}
		}

		if err := e.expand(depth+1, next, out); err != nil {
			return err
		}
	}
	return nil
}

// source picks the value an expression ranges over and the pointer into it.
func (e *expander) source(path string, bound Binding) (any, string) {
	head, rest, _ := strings.Cut(strings.TrimSpace(path), ".")
	if value, ok := bound[head]; ok {
		if rest == "" {
			return value, "/"
		}
		return value, iteration.EvaluatePath(rest)
	}
	return e.data, iteration.EvaluatePath(path)
}

func (e *expander) test(program *vm.Program, condition string, bound Binding) (bool, error) {
	env := make(map[string]any, len(e.scope)+len(bound))
	for k, v := range e.scope {
		env[k] = v
	}
	for k, v := range bound {
		env[k] = v
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate condition %q: %w", condition, err)
	}
	switch v := result.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	default:
		return false, fmt.Errorf("condition %q evaluated to %T, expected bool", condition, result)
	}
}
