// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, optional file, and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ItemsPath and UsersPath point to the static catalog tables.
	ItemsPath string `koanf:"items_path"`
	UsersPath string `koanf:"users_path"`

	// Seed seeds the engine's random source (cold-start and fallback picks).
	Seed int64 `koanf:"seed"`

	// ItemIndexNeighbors is the item index's construction-time neighbor hint.
	ItemIndexNeighbors int `koanf:"item_index_neighbors"`

	// UserPoolSize is the neighbor pool for the user-based strategy.
	UserPoolSize int `koanf:"user_pool_size"`

	// JointUserPool is the neighbor-user pool for the joint strategy.
	JointUserPool int `koanf:"joint_user_pool"`

	// NeighborProbeAttempts caps argmax retries per neighbor user.
	NeighborProbeAttempts int `koanf:"neighbor_probe_attempts"`

	// MaxSessions bounds concurrently live sessions.
	MaxSessions int `koanf:"max_sessions"`

	// MaxDescribeIDs caps GET /movies?ids=... list length.
	MaxDescribeIDs int `koanf:"max_describe_ids"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9090",
		ItemsPath:             "./data/items.csv",
		UsersPath:             "./data/users.csv",
		Seed:                  42,
		ItemIndexNeighbors:    10,
		UserPoolSize:          25,
		JointUserPool:         10,
		NeighborProbeAttempts: 3,
		MaxSessions:           10_000,
		MaxDescribeIDs:        100,
	}
}
