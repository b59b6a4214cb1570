package catalog

import (
	"errors"
	"fmt"
)

// ValidationError reports a rejected input field. The request performed no
// writes when this is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation that targeted a missing record.
type NotFoundError struct {
	Kind string // "tool" or "submission"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ErrDuplicateID is returned by stores when an insert collides with an
// existing identifier. The workflow retries with a fresh identifier.
var ErrDuplicateID = errors.New("duplicate id")

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
