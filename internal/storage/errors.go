package storage

import "errors"

// Shared errors of the fit-result, property-table and reading stores.
// All three stores are append-only: rows are written once per dataset
// and never updated in place.
var (
	// ErrNotFound is returned when the requested dataset or row was
	// never stored.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned on an insert whose key is already
	// taken. Re-fitting a dataset requires a new dataset name.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
