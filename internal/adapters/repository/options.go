package repository

// Option applies a configuration option to a catalog under construction.
type Option func(*catalog)

// WithRandSeed seeds the uniform random item draw. The default seed is 42
// so cold-start behavior is reproducible in tests.
func WithRandSeed(seed int64) Option {
	return func(c *catalog) {
		c.seed = seed
	}
}
