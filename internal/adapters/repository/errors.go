package repository

import "errors"

// Sentinel kinds for catalog errors.
var (
	// ErrLoad covers malformed or incomplete source tables. Fatal at
	// construction; never produced after a catalog is built.
	ErrLoad = errors.New("catalog load failed")

	// ErrNotFound marks lookups of unknown item or user ids.
	ErrNotFound = errors.New("not found in catalog")
)
