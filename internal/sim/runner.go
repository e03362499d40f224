// Package sim drives simulated recommendation sessions against a running
// service over HTTP. It exercises the full pick loop and checks that no
// similarity-backed slot ever repeats an item the session already rated.
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ssbakh07/reelpick/pkg/logger"
)

// Strategies whose picks must never repeat a rated item. Random slots are
// allowed to collide, and the joint scorer's abstain path can re-surface a
// rated item when every candidate lacks voters.
var checkedStrategies = map[string]bool{
	"item": true,
	"user": true,
}

// Run executes the complete session simulation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting session simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("sessions", config.Sessions),
		logger.Int("picksPerSession", config.Picks),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	if err := runSessions(ctx, config, stats); err != nil {
		return fmt.Errorf("session run failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	logger.Get().Info(ctx, "simulation finished",
		logger.Int("sessionsRun", int(stats.SessionsRun)),
		logger.Int("sessionsFailed", int(stats.SessionsFailed)),
		logger.Int("picksSubmitted", int(stats.PicksSubmitted)),
		logger.Int("picksFailed", int(stats.PicksFailed)),
		logger.Int("likedPicks", int(stats.LikedPicks)),
		logger.Int("repeatViolations", int(stats.RepeatViolations)),
		logger.String("duration", stats.Duration.String()))

	if stats.RepeatViolations > 0 {
		return fmt.Errorf("%d repeat violations detected", stats.RepeatViolations)
	}
	if stats.SessionsFailed > 0 {
		return fmt.Errorf("%d of %d sessions failed", stats.SessionsFailed, config.Sessions)
	}
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.do(ctx, http.MethodGet, config.BaseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	return decodeResponse(resp, http.StatusOK, nil)
}

// runSessions fans the configured session count out over a worker pool.
func runSessions(ctx context.Context, config *Config, stats *Stats) error {
	client := newHTTPClient(config.Timeout)

	sessionChan := make(chan int64, config.Workers)
	var wg sync.WaitGroup

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for seq := range sessionChan {
				// Per-session source keeps draws reproducible under concurrency.
				rng := rand.New(rand.NewSource(config.Seed + seq))
				if err := runOneSession(ctx, client, config, rng, stats); err != nil {
					atomic.AddInt64(&stats.SessionsFailed, 1)
					logger.Get().Warn(ctx, "session failed",
						logger.Int("worker", worker),
						logger.Error(err))
					continue
				}
				atomic.AddInt64(&stats.SessionsRun, 1)
			}
		}(w)
	}

	var i int64
	for i = 0; i < int64(config.Sessions); i++ {
		select {
		case <-ctx.Done():
			close(sessionChan)
			wg.Wait()
			return ctx.Err()
		case sessionChan <- i:
		}
	}
	close(sessionChan)
	wg.Wait()
	return nil
}

// runOneSession walks one session through its pick loop and ends it.
func runOneSession(ctx context.Context, client *httpClient, config *Config, rng *rand.Rand, stats *Stats) error {
	resp, err := client.do(ctx, http.MethodPost, config.BaseURL+"/sessions", nil)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	var created sessionResponse
	if err := decodeResponse(resp, http.StatusCreated, &created); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	rated := make(map[int]struct{}, config.Picks)
	triple := created.Recommendations

	for p := 0; p < config.Picks; p++ {
		slot := rng.Intn(3)
		// Half-star ratings over [1,5].
		rating := 1 + float64(rng.Intn(9))*0.5

		rated[triple[slot].ItemID] = struct{}{}
		if rating > 2.5 {
			atomic.AddInt64(&stats.LikedPicks, 1)
		}

		body := map[string]any{"slot": slot, "rating": rating}
		url := fmt.Sprintf("%s/sessions/%s/picks", config.BaseURL, created.SessionID)
		resp, err := client.do(ctx, http.MethodPost, url, body)
		if err != nil {
			atomic.AddInt64(&stats.PicksFailed, 1)
			return fmt.Errorf("pick %d: %w", p, err)
		}
		var picked pickResponse
		if err := decodeResponse(resp, http.StatusOK, &picked); err != nil {
			atomic.AddInt64(&stats.PicksFailed, 1)
			return fmt.Errorf("pick %d: %w", p, err)
		}
		atomic.AddInt64(&stats.PicksSubmitted, 1)

		if len(picked.Recommendations) != 3 {
			return fmt.Errorf("pick %d: got %d slots, want 3", p, len(picked.Recommendations))
		}
		for _, rec := range picked.Recommendations {
			if !checkedStrategies[rec.Strategy] {
				continue
			}
			if _, seen := rated[rec.ItemID]; seen {
				atomic.AddInt64(&stats.RepeatViolations, 1)
				logger.Get().Warn(ctx, "repeat recommendation detected",
					logger.String("sessionID", created.SessionID),
					logger.String("strategy", rec.Strategy),
					logger.Int("itemID", rec.ItemID))
			}
		}
		triple = picked.Recommendations

		if config.Verbose {
			logger.Get().Debug(ctx, "pick accepted",
				logger.String("sessionID", created.SessionID),
				logger.Int("slot", slot),
				logger.Float64("rating", rating))
		}
	}

	resp, err = client.do(ctx, http.MethodDelete, config.BaseURL+"/sessions/"+created.SessionID, nil)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return decodeResponse(resp, http.StatusNoContent, nil)
}
