package codecollab

import "errors"

var (
	// ErrNotFound is returned by outer layers when a path or key does not
	// resolve. Tree mutations treat a missing path as a no-op instead.
	ErrNotFound = errors.New("not found")

	// ErrParentNotFound is returned when a create targets a parent path that
	// does not resolve to an existing directory
	ErrParentNotFound = errors.New("parent directory not found")

	// ErrInvalidName is returned for empty names or names that are not a
	// single path segment
	ErrInvalidName = errors.New("invalid name")

	// ErrPathExists is returned when a create or rename would produce a path
	// already present in the forest
	ErrPathExists = errors.New("path already exists")
)
