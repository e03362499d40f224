// Package knn provides a brute-force k-nearest-neighbor index over dense
// float vectors using Euclidean distance. Row counts in this service stay
// in the low thousands, so an exact linear scan beats the bookkeeping cost
// of an approximate structure.
package knn

import (
	"fmt"
	"math"
	"sort"
)

const defaultK = 10

// Neighbor is a single result of a nearest-neighbor query. Pos is the
// row's position in the slice the index was built from.
type Neighbor struct {
	Pos      int
	Distance float64
}

// Index is an immutable nearest-neighbor index. It is safe for concurrent
// queries once built.
type Index struct {
	rows [][]float64
	dim  int
	k    int
}

// Option configures an Index.
type Option func(*Index)

// WithDefaultK sets the k used by Nearest when no explicit k is given.
func WithDefaultK(k int) Option {
	return func(ix *Index) {
		if k > 0 {
			ix.k = k
		}
	}
}

// New builds an index over rows. The rows slice is retained, not copied;
// callers must not mutate it afterwards. All rows must share one
// dimensionality.
func New(rows [][]float64, opts ...Option) (*Index, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyIndex
	}
	dim := len(rows[0])
	for i, r := range rows {
		if len(r) != dim {
			return nil, fmt.Errorf("row %d has %d dimensions, want %d: %w", i, len(r), dim, ErrDimensionMismatch)
		}
	}

	ix := &Index{rows: rows, dim: dim, k: defaultK}
	for _, opt := range opts {
		opt(ix)
	}
	return ix, nil
}

// Len returns the number of indexed rows.
func (ix *Index) Len() int { return len(ix.rows) }

// Dim returns the dimensionality of the indexed rows.
func (ix *Index) Dim() int { return ix.dim }

// Nearest is KNearest with the index's default k, clamped to the row count.
func (ix *Index) Nearest(vec []float64) ([]Neighbor, error) {
	k := ix.k
	if k > len(ix.rows) {
		k = len(ix.rows)
	}
	return ix.KNearest(vec, k)
}

// KNearest returns the k rows closest to vec in ascending distance order.
// Ties are broken by row position, lowest first, so results are stable
// across runs. k outside [1, Len()] is an error; callers that want a
// best-effort pool should clamp before calling.
func (ix *Index) KNearest(vec []float64, k int) ([]Neighbor, error) {
	if k < 1 || k > len(ix.rows) {
		return nil, fmt.Errorf("k=%d with %d rows: %w", k, len(ix.rows), ErrInvalidK)
	}
	if len(vec) != ix.dim {
		return nil, fmt.Errorf("query has %d dimensions, want %d: %w", len(vec), ix.dim, ErrDimensionMismatch)
	}

	all := make([]Neighbor, len(ix.rows))
	for i, row := range ix.rows {
		all[i] = Neighbor{Pos: i, Distance: euclidean(vec, row)}
	}
	sort.SliceStable(all, func(a, b int) bool {
		if all[a].Distance != all[b].Distance {
			return all[a].Distance < all[b].Distance
		}
		return all[a].Pos < all[b].Pos
	})
	return all[:k], nil
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
