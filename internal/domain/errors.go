// Package domain provides core domain types shared across modules.
package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced vessel, loadcase or geometry
// does not resolve. Handlers translate it to a 404 response.
var ErrNotFound = errors.New("not found")

// ArgumentError reports malformed caller input: non-positive drafts or
// densities, inverted ranges, too few sample points. It is never retried
// internally.
type ArgumentError struct {
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Reason)
}

// NewArgumentError creates an ArgumentError for the given field.
func NewArgumentError(field, reason string) *ArgumentError {
	return &ArgumentError{Field: field, Reason: reason}
}

// GeometryIncompleteError reports hull geometry that is insufficient to
// integrate: a station with no offsets, or fewer than two stations or
// waterlines.
type GeometryIncompleteError struct {
	Reason string
}

func (e *GeometryIncompleteError) Error() string {
	return fmt.Sprintf("geometry incomplete: %s", e.Reason)
}

// NewGeometryIncompleteError creates a GeometryIncompleteError.
func NewGeometryIncompleteError(format string, args ...interface{}) *GeometryIncompleteError {
	return &GeometryIncompleteError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidOperationError reports an operation that cannot be carried out at
// the requested condition, e.g. a draft outside the defined waterline range
// at every station, or a stability curve too short to evaluate.
type InvalidOperationError struct {
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("invalid operation: %s", e.Reason)
}

// NewInvalidOperationError creates an InvalidOperationError.
func NewInvalidOperationError(format string, args ...interface{}) *InvalidOperationError {
	return &InvalidOperationError{Reason: fmt.Sprintf(format, args...)}
}

// IsBadRequest reports whether err belongs to the 400-class of the error
// taxonomy (bad arguments or geometry insufficient for the request).
func IsBadRequest(err error) bool {
	var argErr *ArgumentError
	var geomErr *GeometryIncompleteError
	var opErr *InvalidOperationError
	return errors.As(err, &argErr) || errors.As(err, &geomErr) || errors.As(err, &opErr)
}
