package sim

import "time"

// Config holds configuration for the session simulation.
type Config struct {
	BaseURL  string        // Base URL of the service
	Sessions int           // Number of sessions to run
	Picks    int           // Picks per session
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Seed     int64         // Seed for slot and rating draws
	Verbose  bool          // Enable verbose logging
}

// Recommendation mirrors one slot of the API's recommendation triple.
type Recommendation struct {
	Slot     int     `json:"slot"`
	Strategy string  `json:"strategy"`
	ItemID   int     `json:"item_id"`
	Title    string  `json:"title"`
	Overview string  `json:"overview"`
}

// sessionResponse mirrors POST /sessions.
type sessionResponse struct {
	SessionID       string           `json:"session_id"`
	Recommendations []Recommendation `json:"recommendations"`
}

// pickResponse mirrors POST /sessions/{id}/picks.
type pickResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// Stats holds simulation statistics.
type Stats struct {
	SessionsRun      int64
	SessionsFailed   int64
	PicksSubmitted   int64
	PicksFailed      int64
	LikedPicks       int64
	RepeatViolations int64
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
