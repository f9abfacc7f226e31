package codec

import "errors"

var (
	// ErrContentNotFound is returned when no extraction strategy yields prompt content
	ErrContentNotFound = errors.New("prompt content not found")

	// ErrUnsupportedFormat is returned for files that are neither markdown nor JSON
	ErrUnsupportedFormat = errors.New("unsupported file format, use .json or .md")
)

// ValidationError represents a structurally invalid import document
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
