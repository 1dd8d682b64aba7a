package content

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmitInFlight is returned when a second submit races an active
	// one on the same editor. Nothing in the backend enforces this, so the
	// editor does.
	ErrSubmitInFlight = errors.New("submit already in flight")

	ErrUnknownSchema = errors.New("unknown content type")

	// ErrWriteOnce is returned when a merge targets an existing document
	// of a write-once content type (contact messages).
	ErrWriteOnce = errors.New("document is write once")
)

// ValidationError reports a missing required field. It is raised before any
// network call, so a failed validation never uploads or writes.
type ValidationError struct {
	Schema string
	Field  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: required field %q is empty", e.Schema, e.Field)
}

// UploadError wraps a blob upload failure. The submit is aborted before the
// document write, so no record ever references a failed upload.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string { return fmt.Sprintf("upload %s: %v", e.Key, e.Err) }
func (e *UploadError) Unwrap() error { return e.Err }

// WriteError wraps a document store failure. When it follows a successful
// upload the asset is orphaned; orphans are an accepted operational cost
// and cleaned up manually.
type WriteError struct {
	Op         string
	Collection string
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}
func (e *WriteError) Unwrap() error { return e.Err }
