package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Named item columns; every other header is treated as a genre flag, in
// table order. The scaling parameters computed here are fixed for the
// process lifetime.
const (
	colID       = "id"
	colTitle    = "title"
	colOverview = "overview"
	colRuntime  = "runtime"
	colVote     = "vote_average"
	colRatio    = "rb_ratio"
	colPopBin   = "pop_bin"
	colUserID   = "user_id"
)

// LoadCSV reads the item and user tables, min-max scales the numeric item
// columns to [0,1], and returns an immutable Catalog. Any malformed or
// missing column fails with ErrLoad.
func LoadCSV(ctx context.Context, itemsPath, usersPath string, opts ...Option) (Catalog, error) {
	items, err := loadItems(ctx, itemsPath)
	if err != nil {
		return nil, err
	}
	users, err := loadUsers(ctx, usersPath, items)
	if err != nil {
		return nil, err
	}
	return NewStatic(items, users, opts...)
}

func loadItems(ctx context.Context, path string) ([]Item, error) {
	records, err := readTable(ctx, path)
	if err != nil {
		return nil, err
	}

	header := records[0]
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	named := []string{colID, colTitle, colOverview, colRuntime, colVote, colRatio, colPopBin}
	for _, name := range named {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s missing required column %q", ErrLoad, path, name)
		}
	}

	// Genre flags are every remaining column, kept in table order.
	namedSet := make(map[string]struct{}, len(named))
	for _, name := range named {
		namedSet[name] = struct{}{}
	}
	var genreCols []int
	for i, name := range header {
		if _, ok := namedSet[name]; !ok {
			genreCols = append(genreCols, i)
		}
	}
	if len(genreCols) == 0 {
		return nil, fmt.Errorf("%w: %s has no genre flag columns", ErrLoad, path)
	}

	rows := records[1:]
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no item rows", ErrLoad, path)
	}

	runtimes := make([]float64, len(rows))
	votes := make([]float64, len(rows))
	ratios := make([]float64, len(rows))
	popBins := make([]float64, len(rows))
	for i, row := range rows {
		if runtimes[i], err = parseFloat(path, row, cols[colRuntime]); err != nil {
			return nil, err
		}
		if votes[i], err = parseFloat(path, row, cols[colVote]); err != nil {
			return nil, err
		}
		if ratios[i], err = parseFloat(path, row, cols[colRatio]); err != nil {
			return nil, err
		}
		if popBins[i], err = parseFloat(path, row, cols[colPopBin]); err != nil {
			return nil, err
		}
	}
	scaleMinMax(runtimes)
	scaleMinMax(votes)
	scaleMinMax(ratios)
	scaleMinMax(popBins)

	items := make([]Item, len(rows))
	for i, row := range rows {
		id, err := strconv.Atoi(row[cols[colID]])
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: bad item id %q", ErrLoad, path, i+1, row[cols[colID]])
		}

		features := make([]float64, 0, 4+len(genreCols))
		features = append(features, runtimes[i], votes[i])
		for _, g := range genreCols {
			flag, err := parseFloat(path, row, g)
			if err != nil {
				return nil, err
			}
			features = append(features, flag)
		}
		features = append(features, ratios[i], popBins[i])

		items[i] = Item{
			ID:       id,
			Title:    row[cols[colTitle]],
			Overview: row[cols[colOverview]],
			Features: features,
		}
	}
	return items, nil
}

func loadUsers(ctx context.Context, path string, items []Item) ([]User, error) {
	records, err := readTable(ctx, path)
	if err != nil {
		return nil, err
	}

	header := records[0]
	if len(header) < 2 || header[0] != colUserID {
		return nil, fmt.Errorf("%w: %s missing required column %q", ErrLoad, path, colUserID)
	}

	// Rating columns are keyed by item id; resolve each to its item
	// position once so every user row lands in a fixed-size vector.
	posByID := make(map[int]int, len(items))
	for pos, it := range items {
		posByID[it.ID] = pos
	}
	colToPos := make([]int, len(header))
	for i := 1; i < len(header); i++ {
		id, err := strconv.Atoi(header[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %s column %q is not an item id", ErrLoad, path, header[i])
		}
		pos, ok := posByID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s column %d references unknown item %d", ErrLoad, path, i, id)
		}
		colToPos[i] = pos
	}

	rows := records[1:]
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no user rows", ErrLoad, path)
	}

	users := make([]User, len(rows))
	for i, row := range rows {
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: bad user id %q", ErrLoad, path, i+1, row[0])
		}

		// Missing cells mean "no opinion" and stay zero.
		ratings := make([]float64, len(items))
		for col := 1; col < len(row); col++ {
			if row[col] == "" {
				continue
			}
			v, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s row %d col %d: bad rating %q", ErrLoad, path, i+1, col, row[col])
			}
			ratings[colToPos[col]] = v
		}
		users[i] = User{ID: id, Ratings: ratings}
	}
	return users, nil
}

func readTable(ctx context.Context, path string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrLoad, path)
	}
	return records, nil
}

func parseFloat(path string, row []string, col int) (float64, error) {
	v, err := strconv.ParseFloat(row[col], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: bad numeric value %q", ErrLoad, path, row[col])
	}
	return v, nil
}

// scaleMinMax rescales values to [0,1] in place. A constant column
// collapses to zero rather than dividing by zero.
func scaleMinMax(values []float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	for i, v := range values {
		if span == 0 {
			values[i] = 0
			continue
		}
		values[i] = (v - lo) / span
	}
}
