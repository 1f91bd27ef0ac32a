package app

import "fmt"

// AppErrorType represents the type of application error.
type AppErrorType int

const (
	// ConfigLoadFailed indicates the project configuration could not be loaded or validated.
	ConfigLoadFailed AppErrorType = iota
	// DataLoadFailed indicates a data or required extra-data file could not be loaded.
	DataLoadFailed
	// IterationFailed indicates an iteration expression could not be expanded.
	IterationFailed
	// GenerationFailed indicates a template set failed to generate.
	GenerationFailed
	// InitFailed indicates project initialization failed.
	InitFailed
)

// String returns the name of the error type.
func (t AppErrorType) String() string {
	switch t {
	case ConfigLoadFailed:
		return "ConfigLoadFailed"
	case DataLoadFailed:
		return "DataLoadFailed"
	case IterationFailed:
		return "IterationFailed"
	case GenerationFailed:
		return "GenerationFailed"
	case InitFailed:
		return "InitFailed"
	default:
		return fmt.Sprintf("AppErrorType(%d)", int(t))
	}
}

// AppError represents an application-layer error.
type AppError struct {
	// Type is the error type.
	Type AppErrorType
	// Message is the error message.
	Message string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError.
func NewAppError(errType AppErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigLoadError creates a config load error.
func NewConfigLoadError(message string, cause error) *AppError {
	return NewAppError(ConfigLoadFailed, message, cause)
}

// NewDataLoadError creates a data load error.
func NewDataLoadError(message string, cause error) *AppError {
	return NewAppError(DataLoadFailed, message, cause)
}

// NewIterationError creates an iteration error.
func NewIterationError(message string, cause error) *AppError {
	return NewAppError(IterationFailed, message, cause)
}

// NewGenerationError creates a generation error.
func NewGenerationError(message string, cause error) *AppError {
	return NewAppError(GenerationFailed, message, cause)
}

// NewInitError creates an init error.
func NewInitError(message string, cause error) *AppError {
	return NewAppError(InitFailed, message, cause)
}
