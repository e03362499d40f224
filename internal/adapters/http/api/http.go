// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ssbakh07/reelpick/internal/domain/model"
	"github.com/ssbakh07/reelpick/internal/domain/recommend"
	"github.com/ssbakh07/reelpick/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// CreateSession opens a session and returns its id plus the seed triple.
	CreateSession(ctx context.Context) (string, []types.Recommendation, error)

	// Pick rates one slot of a session's triple and returns the refreshed triple.
	Pick(ctx context.Context, sessionID string, slot int, rating float64) ([]types.Recommendation, error)

	// EndSession drops a session.
	EndSession(ctx context.Context, sessionID string) error

	// Describe resolves item ids to display text.
	Describe(ctx context.Context, ids []int) ([]types.MovieInfo, error)

	// GetStats reports the live registry and catalog sizes.
	GetStats(ctx context.Context) (model.ServiceStats, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	sessionsHandler *SessionsHandler
	moviesHandler   *MoviesHandler
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxDescribeIDs caps how many ids one /movies query may list.
func WithMaxDescribeIDs(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.moviesHandler.maxIDs = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		sessionsHandler: NewSessionsHandler(deps),
		moviesHandler:   NewMoviesHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/movies", MetricsMiddleware(s.moviesHandler.HandleGetMovies, "movies"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionsHandler.HandleSessions, "sessions"))
	mux.HandleFunc("/sessions/", MetricsMiddleware(s.sessionsHandler.HandleSessionByID, "sessions"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDependencyError translates upstream errors to HTTP statuses without
// importing the packages that produce them.
func writeDependencyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err)
	case isLimit(err):
		writeError(w, http.StatusTooManyRequests, "too_many_sessions", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// isNotFound allows the API to translate upstream not-found errors to 404.
// Best-effort string check to avoid tight coupling with specific packages.
func isNotFound(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "not found")
}

// isLimit spots capacity errors so they map to 429.
func isLimit(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "limit")
}
