package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	// Raised before any ontology store mutation takes place.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown input document type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUnsupportedFormat indicates an unknown ontology serialization format.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrStoreClosed indicates the triple store has been closed.
	ErrStoreClosed = errors.New("store closed")
)
