package catalog

import "errors"

var (
	// ErrPropertyNotFound is returned when no property has the requested id.
	ErrPropertyNotFound = errors.New("catalog: property not found")
	// ErrDuplicateID rejects documents that list the same id twice.
	ErrDuplicateID = errors.New("catalog: duplicate property id")
)
