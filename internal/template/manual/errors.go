package manual

import "fmt"

// SectionErrorType categorizes manual-section validation failures.
type SectionErrorType int

const (
	// DuplicateSectionID indicates the same section id appears more than once in one text.
	DuplicateSectionID SectionErrorType = iota
	// UnbalancedMarkers indicates the number of start and end markers differ.
	UnbalancedMarkers
	// NestedSection indicates a start marker inside an open section.
	NestedSection
	// DanglingEnd indicates an end marker with no open section.
	DanglingEnd
	// LostSection indicates a section in the prior output that the new render dropped.
	LostSection
	// MalformedHeader indicates a start marker not followed by ": <id>" and whitespace.
	MalformedHeader
)

// String returns the name of the error type.
func (t SectionErrorType) String() string {
	switch t {
	case DuplicateSectionID:
		return "DuplicateSectionId"
	case UnbalancedMarkers:
		return "UnbalancedMarkers"
	case NestedSection:
		return "NestedSection"
	case DanglingEnd:
		return "DanglingEnd"
	case LostSection:
		return "LostSection"
	case MalformedHeader:
		return "MalformedHeader"
	default:
		return fmt.Sprintf("SectionErrorType(%d)", int(t))
	}
}

// SectionError is a blocking manual-section validation failure.
type SectionError struct {
	// Type categorizes the error.
	Type SectionErrorType
	// Source names the text being validated (template path or "existing file").
	Source string
	// IDs lists the offending section ids, if any.
	IDs []string
	// Message is the error message.
	Message string
}

// Error implements the error interface.
func (e *SectionError) Error() string {
	if len(e.IDs) > 0 {
		return fmt.Sprintf("%s in %s: %v", e.Message, e.Source, e.IDs)
	}
	return fmt.Sprintf("%s in %s", e.Message, e.Source)
}

func newSectionError(typ SectionErrorType, source, message string, ids ...string) *SectionError {
	return &SectionError{
		Type:    typ,
		Source:  source,
		IDs:     ids,
		Message: message,
	}
}
