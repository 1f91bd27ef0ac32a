// Package iteration parses the loop micro-language that expands one template set
// into many outputs.
//
// Grammar:
//
//	clause := <var> " in " <expr> [ " if " <condition> ]
//	plan   := clause { ">>" clause }
//
// Conditions are carried through verbatim; evaluating them is left to the caller.
package iteration

import (
	"strings"
)

const (
	inSeparator     = " in "
	ifSeparator     = " if "
	nestedSeparator = ">>"

	// dataPrefix is the optional root qualifier for the full data tree.
	dataPrefix = "dd."
)

// Clause is a single "<var> in <expr> [if <condition>]" loop.
type Clause struct {
	// Var is the loop variable name.
	Var string
	// Expr is the dotted data path the loop ranges over.
	Expr string
	// Condition is the raw filter expression, empty if the clause has none.
	Condition string
}

// HasCondition reports whether the clause carries an "if" filter.
func (c Clause) HasCondition() bool {
	return c.Condition != ""
}

// Plan is a parsed iteration expression.
type Plan struct {
	// Clauses holds the loops from outermost to innermost. A simple plan has one.
	Clauses []Clause
	// Nested is true when the expression used the ">>" chaining form.
	Nested bool
}

// ParseSimple parses "<var> in <expr>" with an optional " if <condition>" suffix.
func ParseSimple(expr string) (Clause, error) {
	iterPart, condition := expr, ""
	if strings.Contains(expr, ifSeparator) {
		parts := strings.SplitN(expr, ifSeparator, 2)
		iterPart, condition = parts[0], strings.TrimSpace(parts[1])
	}

	parts := strings.Split(iterPart, inSeparator)
	if len(parts) != 2 {
		return Clause{}, newIterationError(InvalidIterationSyntax,
			"invalid iteration syntax, expected '<var> in <expr>'", expr, nil)
	}

	clause := Clause{
		Var:       strings.TrimSpace(parts[0]),
		Expr:      strings.TrimSpace(parts[1]),
		Condition: condition,
	}
	if clause.Var == "" || clause.Expr == "" {
		return Clause{}, newIterationError(InvalidIterationSyntax,
			"invalid iteration syntax, variable and expression must be non-empty", expr, nil)
	}

	return clause, nil
}

// ParseNested parses a ">>"-chained expression into ordered clauses.
func ParseNested(expr string) ([]Clause, error) {
	parts := strings.Split(expr, nestedSeparator)
	clauses := make([]Clause, 0, len(parts))
	for _, part := range parts {
		clause, err := ParseSimple(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}

// Parse dispatches to ParseNested or ParseSimple depending on the presence of ">>".
func Parse(expr string) (*Plan, error) {
	if strings.Contains(expr, nestedSeparator) {
		clauses, err := ParseNested(expr)
		if err != nil {
			return nil, err
		}
		return &Plan{Clauses: clauses, Nested: true}, nil
	}

	clause, err := ParseSimple(expr)
	if err != nil {
		return nil, err
	}
	return &Plan{Clauses: []Clause{clause}}, nil
}

// EvaluatePath converts dotted notation into a root-relative pointer path.
// "dd.services" becomes "/services" and "modules.core" becomes "/modules/core".
func EvaluatePath(expr string) string {
	path := strings.TrimSpace(expr)
	path = strings.TrimPrefix(path, dataPrefix)
	return "/" + strings.ReplaceAll(path, ".", "/")
}
