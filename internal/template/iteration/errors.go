package iteration

import "fmt"

// IterationErrorType categorizes iteration errors.
type IterationErrorType int

const (
	// InvalidIterationSyntax indicates a loop expression that is not "<var> in <expr>".
	InvalidIterationSyntax IterationErrorType = iota
	// DataPathNotFound indicates a data path that does not resolve to any value.
	DataPathNotFound
	// NotAnArray indicates a data path that resolved to something other than an array.
	NotAnArray
)

// String returns the name of the error type.
func (t IterationErrorType) String() string {
	switch t {
	case InvalidIterationSyntax:
		return "InvalidIterationSyntax"
	case DataPathNotFound:
		return "DataPathNotFound"
	case NotAnArray:
		return "NotAnArray"
	default:
		return fmt.Sprintf("IterationErrorType(%d)", int(t))
	}
}

// IterationError represents a failure to parse or resolve an iteration expression.
type IterationError struct {
	// Type categorizes the error.
	Type IterationErrorType
	// Expr is the offending expression or data path.
	Expr string
	// Message is the error message.
	Message string
	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *IterationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %q: %v", e.Message, e.Expr, e.Cause)
	}
	return fmt.Sprintf("%s: %q", e.Message, e.Expr)
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *IterationError) Unwrap() error {
	return e.Cause
}

func newIterationError(typ IterationErrorType, message, expr string, cause error) *IterationError {
	return &IterationError{
		Type:    typ,
		Expr:    expr,
		Message: message,
		Cause:   cause,
	}
}
