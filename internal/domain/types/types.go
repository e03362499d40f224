// Package types contains common types used across the application
package types

// Strategy names the source that produced a recommendation slot.
type Strategy string

const (
	StrategyRandom Strategy = "random"
	StrategyItem   Strategy = "item"
	StrategyUser   Strategy = "user"
	StrategyJoint  Strategy = "joint"
)

// Recommendation is one filled slot of a recommendation triple.
type Recommendation struct {
	Slot     int      `json:"slot"`
	Strategy Strategy `json:"strategy"`
	ItemID   int      `json:"item_id"`
	Title    string   `json:"title"`
	Overview string   `json:"overview"`
}

// MovieInfo is the public description of a catalog item.
type MovieInfo struct {
	ItemID   int    `json:"item_id"`
	Title    string `json:"title"`
	Overview string `json:"overview"`
}
