// Package model contains domain models passed between layers.
package model

// Pick is a visitor's rating of one recommendation slot.
// Fields mirror the OpenAPI schema for /sessions/{id}/picks.
type Pick struct {
	Slot   int     // slot index in the current triple, 0..2
	Rating float64 // star rating, 1..5
}

// SessionStats summarizes one session for the stats endpoint.
type SessionStats struct {
	SessionID string `json:"session_id"`
	Picks     int    `json:"picks"`
	SeenItems int    `json:"seen_items"`
}

// ServiceStats is a point-in-time snapshot of the whole service.
type ServiceStats struct {
	ActiveSessions int            `json:"active_sessions"`
	CatalogItems   int            `json:"catalog_items"`
	CatalogUsers   int            `json:"catalog_users"`
	Sessions       []SessionStats `json:"sessions"`
}
