package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPath is returned for an empty path or a path with an empty segment.
	ErrMalformedPath = errors.New("malformed attribute path")

	// ErrFieldNotFound reports that a segment names no field in the type chain.
	ErrFieldNotFound = errors.New("field not found")

	// ErrAccessDenied reports a field that exists but cannot be read.
	ErrAccessDenied = errors.New("field access denied")
)

// ResolutionError describes a failed lookup of one path segment.
type ResolutionError struct {
	Path    string
	Segment string
	Type    string
	Err     error
}

// Error implements the error interface
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q: segment %q on %s: %v", e.Path, e.Segment, e.Type, e.Err)
}

// Unwrap allows errors.Is and errors.As to see the underlying cause
func (e *ResolutionError) Unwrap() error {
	return e.Err
}
