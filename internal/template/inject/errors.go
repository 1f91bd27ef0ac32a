package inject

import "fmt"

// InjectionErrorType categorizes injection failures.
type InjectionErrorType int

const (
	// InvalidInjectionPattern indicates a locator that does not compile.
	InvalidInjectionPattern InjectionErrorType = iota
	// MissingInjectionGroup indicates a locator without the "injection" named group.
	MissingInjectionGroup
	// MalformedInjectionBlock indicates a block missing its string start or end tag.
	MalformedInjectionBlock
	// OverlappingInjection indicates two pending edits whose ranges overlap.
	OverlappingInjection
)

// String returns the name of the error type.
func (t InjectionErrorType) String() string {
	switch t {
	case InvalidInjectionPattern:
		return "InvalidInjectionPattern"
	case MissingInjectionGroup:
		return "MissingInjectionGroup"
	case MalformedInjectionBlock:
		return "MalformedInjectionBlock"
	case OverlappingInjection:
		return "OverlappingInjection"
	default:
		return fmt.Sprintf("InjectionErrorType(%d)", int(t))
	}
}

// InjectionError is a blocking failure while resolving injection points.
type InjectionError struct {
	// Type categorizes the error.
	Type InjectionErrorType
	// Point is the injection point name.
	Point string
	// Pattern is the locator expression, if relevant.
	Pattern string
	// Message is the error message.
	Message string
	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *InjectionError) Error() string {
	msg := fmt.Sprintf("injection %q: %s", e.Point, e.Message)
	if e.Pattern != "" {
		msg += fmt.Sprintf(" (pattern: %s)", e.Pattern)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *InjectionError) Unwrap() error {
	return e.Cause
}

func newInjectionError(typ InjectionErrorType, point, pattern, message string, cause error) *InjectionError {
	return &InjectionError{
		Type:    typ,
		Point:   point,
		Pattern: pattern,
		Message: message,
		Cause:   cause,
	}
}
