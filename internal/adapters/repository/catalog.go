package repository

import (
	"fmt"
	"math/rand"
	"sync"
)

// catalog is the in-memory Catalog implementation shared by the CSV loader
// and the static constructor used in tests.
type catalog struct {
	items     []Item
	users     []User
	posByID   map[int]int
	userByID  map[int]int
	itemRows  [][]float64
	userRows  [][]float64
	seed      int64
	rngMu     sync.Mutex
	rng       *rand.Rand
}

const defaultRandSeed = 42

// NewStatic builds a Catalog from already-normalized rows. Feature vectors
// must share one dimensionality and rating vectors must span the item count.
// An empty item or user table is a load error, never discovered later.
func NewStatic(items []Item, users []User, opts ...Option) (Catalog, error) {
	c := &catalog{seed: defaultRandSeed}
	for _, opt := range opts {
		opt(c)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty item table", ErrLoad)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: empty user table", ErrLoad)
	}

	dim := len(items[0].Features)
	c.posByID = make(map[int]int, len(items))
	c.itemRows = make([][]float64, len(items))
	for pos, it := range items {
		if len(it.Features) != dim {
			return nil, fmt.Errorf("%w: item %d has %d features, want %d", ErrLoad, it.ID, len(it.Features), dim)
		}
		if _, dup := c.posByID[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate item id %d", ErrLoad, it.ID)
		}
		c.posByID[it.ID] = pos
		c.itemRows[pos] = it.Features
	}

	c.userByID = make(map[int]int, len(users))
	c.userRows = make([][]float64, len(users))
	for pos, u := range users {
		if len(u.Ratings) != len(items) {
			return nil, fmt.Errorf("%w: user %d has %d ratings, want %d", ErrLoad, u.ID, len(u.Ratings), len(items))
		}
		if _, dup := c.userByID[u.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate user id %d", ErrLoad, u.ID)
		}
		c.userByID[u.ID] = pos
		c.userRows[pos] = u.Ratings
	}

	c.items = items
	c.users = users
	c.rng = rand.New(rand.NewSource(c.seed)) //nolint:gosec // uniform draws, not security
	return c, nil
}

func (c *catalog) ItemByID(id int) (Item, error) {
	pos, ok := c.posByID[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: item %d", ErrNotFound, id)
	}
	return c.items[pos], nil
}

func (c *catalog) UserByID(id int) (User, error) {
	pos, ok := c.userByID[id]
	if !ok {
		return User{}, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return c.users[pos], nil
}

func (c *catalog) RandomItemID() int {
	c.rngMu.Lock()
	pos := c.rng.Intn(len(c.items))
	c.rngMu.Unlock()
	return c.items[pos].ID
}

func (c *catalog) ItemIDAt(pos int) (int, error) {
	if pos < 0 || pos >= len(c.items) {
		return 0, fmt.Errorf("%w: item position %d", ErrNotFound, pos)
	}
	return c.items[pos].ID, nil
}

func (c *catalog) ItemPosOf(id int) (int, bool) {
	pos, ok := c.posByID[id]
	return pos, ok
}

func (c *catalog) ItemFeatures() [][]float64 { return c.itemRows }

func (c *catalog) UserRatings() [][]float64 { return c.userRows }

func (c *catalog) ItemCount() int { return len(c.items) }

func (c *catalog) UserCount() int { return len(c.users) }
