package knn

import "errors"

var (
	// ErrInvalidK is returned when k is outside [1, number of rows].
	ErrInvalidK = errors.New("k must be between 1 and the number of indexed rows")
	// ErrDimensionMismatch is returned when a query vector does not match
	// the dimensionality of the indexed rows.
	ErrDimensionMismatch = errors.New("query dimensionality does not match index")
	// ErrEmptyIndex is returned when an index is built over zero rows.
	ErrEmptyIndex = errors.New("index requires at least one row")
)
