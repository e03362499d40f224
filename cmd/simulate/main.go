package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/ssbakh07/reelpick/internal/sim"
	"github.com/ssbakh07/reelpick/pkg/logger"
)

// Default configuration constants.
const (
	defaultSessions   = 100
	defaultPicks      = 20
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 10 * time.Minute
	defaultSeed       = 42
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9090", "Base URL of the service")
		sessions = flag.Int("sessions", defaultSessions, "Number of sessions to simulate")
		picks    = flag.Int("picks", defaultPicks, "Picks per session")
		workers  = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed     = flag.Int64("seed", defaultSeed, "Seed for slot and rating draws")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &sim.Config{
		BaseURL:  *baseURL,
		Sessions: *sessions,
		Picks:    *picks,
		Workers:  *workers,
		Timeout:  *timeout,
		Seed:     *seed,
		Verbose:  *verbose,
	}

	if err := sim.Run(ctx, config); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
