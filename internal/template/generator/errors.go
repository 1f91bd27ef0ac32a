package generator

import "fmt"

// GeneratorErrorType categorizes generator errors.
type GeneratorErrorType int

const (
	// TemplateNotFound indicates the template root does not exist or is not a directory.
	TemplateNotFound GeneratorErrorType = iota
	// RenderFailed indicates a template, file name, or directory name failed to render.
	RenderFailed
	// ValidationFailed indicates manual-section validation blocked a write.
	ValidationFailed
	// InjectionFailed indicates injection blocks could not be applied.
	InjectionFailed
	// FilesystemFailed indicates a read, write, or directory creation failed.
	FilesystemFailed
	// PathError indicates a rendered name that is empty or escapes the output root.
	PathError
)

// String returns the name of the error type.
func (t GeneratorErrorType) String() string {
	switch t {
	case TemplateNotFound:
		return "TemplateNotFound"
	case RenderFailed:
		return "RenderFailed"
	case ValidationFailed:
		return "ValidationFailed"
	case InjectionFailed:
		return "InjectionFailed"
	case FilesystemFailed:
		return "FilesystemFailed"
	case PathError:
		return "PathError"
	default:
		return fmt.Sprintf("GeneratorErrorType(%d)", int(t))
	}
}

// GeneratorError represents generator-specific errors.
type GeneratorError struct {
	// Type categorizes the error.
	Type GeneratorErrorType
	// Message is the error message.
	Message string
	// File is the file path related to the error (if applicable).
	File string
	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *GeneratorError) Error() string {
	if e.File != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s (file: %s): %v", e.Message, e.File, e.Cause)
		}
		return fmt.Sprintf("%s (file: %s)", e.Message, e.File)
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *GeneratorError) Unwrap() error {
	return e.Cause
}

// newGeneratorError creates a new GeneratorError.
func newGeneratorError(typ GeneratorErrorType, message, file string, cause error) *GeneratorError {
	return &GeneratorError{
		Type:    typ,
		Message: message,
		File:    file,
		Cause:   cause,
	}
}
