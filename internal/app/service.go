// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	repository "github.com/ssbakh07/reelpick/internal/adapters/repository"
	"github.com/ssbakh07/reelpick/internal/domain/model"
	"github.com/ssbakh07/reelpick/internal/domain/recommend"
	"github.com/ssbakh07/reelpick/internal/domain/types"
	"github.com/ssbakh07/reelpick/pkg/logger"
	"github.com/ssbakh07/reelpick/pkg/metrics"
)

const likedThreshold = 2.5

// Service owns the catalog, the recommendation engine and the registry
// of live sessions. It implements the API dependencies.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog repository.Catalog
	engine  *recommend.Engine

	// Configuration
	itemsPath     string
	usersPath     string
	seed          int64
	maxSessions   int
	itemIndexK    int
	userPool      int
	jointUserPool int
	probeAttempts int

	// Session registry
	sessMu   sync.RWMutex
	sessions map[string]*sessionHandle

	// State
	started bool

	// Logging
	logger logger.Logger
}

// sessionHandle serializes access to one session's mutable state.
type sessionHandle struct {
	mu        sync.Mutex
	sess      *recommend.Session
	createdAt time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithItemsPath sets the item table CSV path.
func WithItemsPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.itemsPath = path
		}
	}
}

// WithUsersPath sets the user table CSV path.
func WithUsersPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.usersPath = path
		}
	}
}

// WithRandSeed sets the seed for random item draws.
func WithRandSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithMaxSessions caps the number of concurrently live sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithItemIndexNeighbors sets the item index's default neighbor count.
func WithItemIndexNeighbors(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.itemIndexK = n
		}
	}
}

// WithUserPoolSize sets the user strategy's neighbor pool.
func WithUserPoolSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.userPool = n
		}
	}
}

// WithJointUserPool sets the joint strategy's neighbor-user pool.
func WithJointUserPool(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.jointUserPool = n
		}
	}
}

// WithProbeAttempts sets the user strategy's per-neighbor probe budget.
func WithProbeAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.probeAttempts = n
		}
	}
}

// WithCatalog injects a prebuilt catalog, skipping the CSV load.
func WithCatalog(cat repository.Catalog) Option {
	return func(s *Service) {
		s.catalog = cat
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		itemsPath:     "./data/items.csv",
		usersPath:     "./data/users.csv",
		seed:          42,
		maxSessions:   10_000,
		itemIndexK:    10,
		userPool:      25,
		jointUserPool: 10,
		probeAttempts: 3,
		sessions:      make(map[string]*sessionHandle),
		logger:        nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the catalog (unless one was injected) and builds the
// recommendation engine.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting recommender service...")

	if s.catalog == nil {
		cat, err := repository.LoadCSV(ctx, s.itemsPath, s.usersPath,
			repository.WithRandSeed(s.seed),
		)
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		s.catalog = cat
	}

	engine, err := recommend.NewEngine(s.catalog,
		recommend.WithItemIndexNeighbors(s.itemIndexK),
		recommend.WithUserPoolSize(s.userPool),
		recommend.WithJointUserPool(s.jointUserPool),
		recommend.WithProbeAttempts(s.probeAttempts),
		recommend.WithLogger(s.logger),
	)
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}
	s.engine = engine

	metrics.UpdateCatalogSize(s.catalog.ItemCount(), s.catalog.UserCount())

	s.started = true
	s.logger.Info(ctx, "recommender service started",
		logger.Int("items", s.catalog.ItemCount()),
		logger.Int("users", s.catalog.UserCount()),
		logger.Int("maxSessions", s.maxSessions),
	)

	return nil
}

// Stop drops all live sessions.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.sessMu.Lock()
	n := len(s.sessions)
	s.sessions = make(map[string]*sessionHandle)
	s.sessMu.Unlock()
	metrics.UpdateActiveSessions(0)

	s.started = false
	s.logger.Info(context.Background(), "recommender service stopped",
		logger.Int("droppedSessions", n),
	)
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// CreateSession opens a new session and returns its id with the seed
// recommendation triple.
func (s *Service) CreateSession(ctx context.Context) (string, []types.Recommendation, error) {
	if err := s.ready(); err != nil {
		return "", nil, err
	}

	s.sessMu.Lock()
	if len(s.sessions) >= s.maxSessions {
		s.sessMu.Unlock()
		metrics.RecordError("service", "session_limit")
		return "", nil, fmt.Errorf("%d live: %w", s.maxSessions, ErrTooManySessions)
	}
	id := uuid.NewString()
	h := &sessionHandle{sess: s.engine.NewSession(), createdAt: time.Now()}
	s.sessions[id] = h
	active := len(s.sessions)
	s.sessMu.Unlock()

	metrics.RecordSessionCreated()
	metrics.UpdateActiveSessions(active)

	recs, err := h.sess.Recommendations()
	if err != nil {
		return "", nil, err
	}

	s.logger.Debug(ctx, "session created",
		logger.String("sessionID", id),
		logger.Int("active", active),
	)
	return id, recs, nil
}

// Pick records a rating for one slot of a session's current triple and
// returns the refreshed triple.
func (s *Service) Pick(ctx context.Context, sessionID string, slot int, rating float64) ([]types.Recommendation, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	h, err := s.handle(sessionID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	recs, err := h.sess.Pick(slot, rating)
	h.mu.Unlock()
	if err != nil {
		metrics.RecordError("service", "invalid_pick")
		return nil, err
	}

	metrics.RecordPick()
	if rating > likedThreshold {
		metrics.RecordLikedPick()
	}

	s.logger.Debug(ctx, "pick recorded",
		logger.String("sessionID", sessionID),
		logger.Int("slot", slot),
		logger.Float64("rating", rating),
	)
	return recs, nil
}

// EndSession removes a session from the registry.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	if err := s.ready(); err != nil {
		return err
	}

	s.sessMu.Lock()
	_, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	active := len(s.sessions)
	s.sessMu.Unlock()

	if !ok {
		return fmt.Errorf("session %q: %w", sessionID, ErrSessionNotFound)
	}

	metrics.RecordSessionEnded()
	metrics.UpdateActiveSessions(active)
	s.logger.Debug(ctx, "session ended", logger.String("sessionID", sessionID))
	return nil
}

// Describe resolves item ids to their display text.
func (s *Service) Describe(ctx context.Context, ids []int) ([]types.MovieInfo, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.engine.Describe(ids)
}

// GetStats reports the live session registry and catalog sizes.
func (s *Service) GetStats(ctx context.Context) (model.ServiceStats, error) {
	if err := s.ready(); err != nil {
		return model.ServiceStats{}, err
	}

	s.sessMu.RLock()
	st := model.ServiceStats{
		ActiveSessions: len(s.sessions),
		CatalogItems:   s.catalog.ItemCount(),
		CatalogUsers:   s.catalog.UserCount(),
		Sessions:       make([]model.SessionStats, 0, len(s.sessions)),
	}
	for id, h := range s.sessions {
		h.mu.Lock()
		st.Sessions = append(st.Sessions, model.SessionStats{
			SessionID: id,
			Picks:     h.sess.Picks(),
			SeenItems: h.sess.SeenCount(),
		})
		h.mu.Unlock()
	}
	s.sessMu.RUnlock()

	return st, nil
}

func (s *Service) handle(sessionID string) (*sessionHandle, error) {
	s.sessMu.RLock()
	h, ok := s.sessions[sessionID]
	s.sessMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %q: %w", sessionID, ErrSessionNotFound)
	}
	return h, nil
}
