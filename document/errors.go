package document

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("rtf: invalid argument")
	// ErrNotAllowed is returned when a block kind is added to a container
	// that cannot hold it, such as a table inside a table cell.
	ErrNotAllowed = errors.New("rtf: block not allowed in this container")
	// ErrDetached is returned when an operation needs the font or color
	// table of a document but the node was not created from one.
	ErrDetached = errors.New("rtf: node is not attached to a document")
	// ErrUnsupportedImage is returned for images that cannot be embedded.
	ErrUnsupportedImage = errors.New("rtf: unsupported image")
)

// ValidationError reports an argument rejected by a builder method. The
// model is left unchanged when one is returned.
type ValidationError struct {
	// Op is the rejecting operation, for example "Table.Merge".
	Op string
	// Field names the offending argument.
	Field string
	// Value is the rejected value.
	Value any
	// Reason is a short description of the violated constraint.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rtf: %s: invalid %s %v: %s", e.Op, e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) true for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(op, field string, value any, reason string) error {
	return &ValidationError{Op: op, Field: field, Value: value, Reason: reason}
}
