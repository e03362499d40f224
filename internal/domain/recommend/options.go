package recommend

import "github.com/ssbakh07/reelpick/pkg/logger"

// Option configures an Engine.
type Option func(*Engine)

// WithUserPoolSize sets the neighbor-user pool queried by the user
// strategy.
func WithUserPoolSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.userPool = n
		}
	}
}

// WithJointUserPool sets the neighbor-user pool queried by the joint
// strategy.
func WithJointUserPool(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.jointUserPool = n
		}
	}
}

// WithProbeAttempts caps how many argmax probes the user strategy spends
// on a single neighbor before moving on.
func WithProbeAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.probeAttempts = n
		}
	}
}

// WithItemIndexNeighbors sets the item index's default neighbor count.
func WithItemIndexNeighbors(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.itemIndexK = n
		}
	}
}

// WithLogger sets the logger used by the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}
