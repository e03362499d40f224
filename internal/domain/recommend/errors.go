package recommend

import "errors"

var (
	// ErrInvalidArgument is returned for a slot index outside {0,1,2} or a
	// rating outside [1,5]. Session state is unchanged when it is returned.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrCatalogTooSmall is returned at construction when the catalog
	// cannot fill a triple of distinct recommendations.
	ErrCatalogTooSmall = errors.New("catalog needs at least three items")
)
