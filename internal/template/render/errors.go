package render

import "fmt"

// RenderError is returned when a template fails to parse or execute.
type RenderError struct {
	// Template names the template being rendered (file path or "<name>").
	Template string
	// Message is the renderer's error message.
	Message string
	// Line is the 1-indexed template line of the failure, 0 if unknown.
	Line int
	// SourceLine is the template text of Line, empty if unknown.
	SourceLine string
	// Cause is the underlying renderer error.
	Cause error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	loc := e.Template
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Template, e.Line)
	}
	if e.SourceLine != "" {
		return fmt.Sprintf("%s: %s\n%s", loc, e.Message, e.SourceLine)
	}
	return fmt.Sprintf("%s: %s", loc, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *RenderError) Unwrap() error {
	return e.Cause
}
