// Package repository defines the read-only movie catalog store and errors.
package repository

// Item is one movie row with its normalized feature vector.
// Features are ordered: scaled runtime, scaled average vote, the genre
// flags in table order, scaled popularity ratio, scaled popularity bin.
type Item struct {
	ID       int
	Title    string
	Overview string
	Features []float64
}

// User is one rating profile. Ratings is indexed by item position
// (see Catalog.ItemIDAt); a zero entry means "no opinion", not "disliked".
type User struct {
	ID      int
	Ratings []float64
}

// Catalog provides read-only access to the loaded item and user tables.
// Implementations are immutable after construction and safe for
// concurrent reads.
type Catalog interface {
	// ItemByID returns the item with the given id, or ErrNotFound.
	ItemByID(id int) (Item, error)

	// UserByID returns the rating profile with the given id, or ErrNotFound.
	UserByID(id int) (User, error)

	// RandomItemID draws an item id uniformly over the whole catalog.
	RandomItemID() int

	// ItemIDAt converts an item row position to its stable id.
	ItemIDAt(pos int) (int, error)

	// ItemPosOf converts a stable item id to its row position.
	ItemPosOf(id int) (int, bool)

	// ItemFeatures returns all item feature rows in position order.
	// Callers must not mutate the returned rows.
	ItemFeatures() [][]float64

	// UserRatings returns all user rating rows in position order.
	// Callers must not mutate the returned rows.
	UserRatings() [][]float64

	// ItemCount and UserCount report table sizes.
	ItemCount() int
	UserCount() int
}
