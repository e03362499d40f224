// Package recommend implements the recommendation session engine: three
// similarity strategies over a static movie catalog, and the per-session
// protocol that records a rating and refreshes the full triple of
// recommendations after every pick.
package recommend

import (
	"context"
	"fmt"
	"time"

	repository "github.com/ssbakh07/reelpick/internal/adapters/repository"
	"github.com/ssbakh07/reelpick/internal/domain/knn"
	"github.com/ssbakh07/reelpick/internal/domain/types"
	"github.com/ssbakh07/reelpick/pkg/logger"
	"github.com/ssbakh07/reelpick/pkg/metrics"
)

const (
	defaultItemIndexK    = 10
	defaultUserPool      = 25
	defaultJointUserPool = 10
	defaultProbeAttempts = 3

	// qualifyingRating is the exclusive bound a neighbor's rating must clear
	// before the user strategy will recommend that item.
	qualifyingRating = 2.5

	// abstainScore marks a joint candidate with no qualifying voters. It can
	// still win the argmax when every candidate abstains.
	abstainScore = -1
)

// Catalog is the read-only slice of the catalog store the engine needs.
// repository.Catalog satisfies it.
type Catalog interface {
	ItemByID(id int) (repository.Item, error)
	RandomItemID() int
	ItemIDAt(pos int) (int, error)
	ItemPosOf(id int) (int, bool)
	ItemFeatures() [][]float64
	UserRatings() [][]float64
	ItemCount() int
	UserCount() int
}

// Engine holds the immutable similarity indexes and the strategy
// parameters. It is safe for concurrent use by independent sessions;
// each Session owns its own mutable state.
type Engine struct {
	catalog   Catalog
	itemIndex *knn.Index
	userIndex *knn.Index

	itemIndexK    int
	userPool      int
	jointUserPool int
	probeAttempts int

	log logger.Logger
}

// NewEngine builds both nearest-neighbor indexes from the catalog and
// returns an engine ready to open sessions.
func NewEngine(cat Catalog, opts ...Option) (*Engine, error) {
	e := &Engine{
		catalog:       cat,
		itemIndexK:    defaultItemIndexK,
		userPool:      defaultUserPool,
		jointUserPool: defaultJointUserPool,
		probeAttempts: defaultProbeAttempts,
		log:           logger.Get(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if cat.ItemCount() < 3 {
		return nil, fmt.Errorf("%d items: %w", cat.ItemCount(), ErrCatalogTooSmall)
	}

	itemIndex, err := knn.New(cat.ItemFeatures(), knn.WithDefaultK(e.itemIndexK))
	if err != nil {
		return nil, fmt.Errorf("building item index: %w", err)
	}
	userIndex, err := knn.New(cat.UserRatings())
	if err != nil {
		return nil, fmt.Errorf("building user index: %w", err)
	}
	e.itemIndex = itemIndex
	e.userIndex = userIndex

	e.log.Info(context.Background(), "similarity indexes built",
		logger.Int("items", cat.ItemCount()),
		logger.Int("users", cat.UserCount()))
	return e, nil
}

// Describe resolves ids to their display text in input order.
func (e *Engine) Describe(ids []int) ([]types.MovieInfo, error) {
	out := make([]types.MovieInfo, 0, len(ids))
	for _, id := range ids {
		item, err := e.catalog.ItemByID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, types.MovieInfo{ItemID: item.ID, Title: item.Title, Overview: item.Overview})
	}
	return out, nil
}

// timed runs a strategy and records its latency under name.
func (e *Engine) timed(name types.Strategy, fn func() (int, types.Strategy)) (int, types.Strategy) {
	start := time.Now()
	id, src := fn()
	metrics.RecordStrategyLatency(string(name), float64(time.Since(start).Microseconds())/1000.0)
	return id, src
}

// randomFallback draws a uniform random id and records the fallback.
func (e *Engine) randomFallback(strategy types.Strategy) int {
	metrics.RecordFallback(string(strategy))
	return e.catalog.RandomItemID()
}

// nextByItemSimilarity walks the items nearest to the session's average
// liked features and returns the closest unseen one. The pool grows with
// the number of rated items so a fresh neighbor stays reachable.
func (e *Engine) nextByItemSimilarity(st sessionView) (int, types.Strategy) {
	target, ok := st.AverageLikedFeatures()
	if !ok {
		return e.randomFallback(types.StrategyItem), types.StrategyRandom
	}

	n := st.SeenCount()
	if n > e.catalog.ItemCount() {
		n = e.catalog.ItemCount()
	}
	neighbors, err := e.itemIndex.KNearest(target, n)
	if err != nil {
		e.log.Warn(context.Background(), "item neighbor query failed", logger.Error(err))
		return e.randomFallback(types.StrategyItem), types.StrategyRandom
	}

	for _, nb := range neighbors {
		id, err := e.catalog.ItemIDAt(nb.Pos)
		if err != nil {
			continue
		}
		if !st.Seen(id) {
			return id, types.StrategyItem
		}
	}
	return e.randomFallback(types.StrategyItem), types.StrategyRandom
}

// nextByUserSimilarity finds rating profiles close to the session's own
// and returns the nearest neighbor's favorite unseen item, provided the
// neighbor actually liked it.
func (e *Engine) nextByUserSimilarity(st sessionView) (int, types.Strategy) {
	if !st.HasAnyLiked() {
		return e.randomFallback(types.StrategyUser), types.StrategyRandom
	}

	k := e.userPool
	if k > e.catalog.UserCount() {
		k = e.catalog.UserCount()
	}
	neighbors, err := e.userIndex.KNearest(st.Preferences(), k)
	if err != nil {
		e.log.Warn(context.Background(), "user neighbor query failed", logger.Error(err))
		return e.randomFallback(types.StrategyUser), types.StrategyRandom
	}

	ratings := e.catalog.UserRatings()
	for _, nb := range neighbors {
		row := ratings[nb.Pos]
		excluded := make(map[int]struct{}, e.probeAttempts)
		for attempt := 0; attempt < e.probeAttempts; attempt++ {
			pos, rating := argmax(row, excluded)
			if pos < 0 {
				break
			}
			id, err := e.catalog.ItemIDAt(pos)
			if err != nil {
				break
			}
			if st.Seen(id) {
				excluded[pos] = struct{}{}
				continue
			}
			if rating > qualifyingRating {
				return id, types.StrategyUser
			}
			// The neighbor's best unseen item is not a true like; a weaker
			// one will not be either.
			break
		}
	}
	return e.randomFallback(types.StrategyUser), types.StrategyRandom
}

// nextByJointSimilarity scores the items nearest to the session's liked
// average by the mean rating of the session's nearest neighbor users,
// counting only voters with a real opinion. Candidates without voters,
// and already-seen candidates, score as abstainScore yet remain eligible
// for the argmax when nothing else qualifies.
func (e *Engine) nextByJointSimilarity(st sessionView) (int, types.Strategy) {
	target, ok := st.AverageLikedFeatures()
	if !ok {
		return e.randomFallback(types.StrategyJoint), types.StrategyRandom
	}

	ku := e.jointUserPool
	if ku > e.catalog.UserCount() {
		ku = e.catalog.UserCount()
	}
	userNbs, err := e.userIndex.KNearest(st.Preferences(), ku)
	if err != nil {
		e.log.Warn(context.Background(), "joint user query failed", logger.Error(err))
		return e.randomFallback(types.StrategyJoint), types.StrategyRandom
	}

	n := st.SeenCount()
	if n > e.catalog.ItemCount() {
		n = e.catalog.ItemCount()
	}
	itemNbs, err := e.itemIndex.KNearest(target, n)
	if err != nil {
		e.log.Warn(context.Background(), "joint item query failed", logger.Error(err))
		return e.randomFallback(types.StrategyJoint), types.StrategyRandom
	}

	ratings := e.catalog.UserRatings()
	bestID := -1
	bestScore := 0.0
	first := true
	for _, nb := range itemNbs {
		id, err := e.catalog.ItemIDAt(nb.Pos)
		if err != nil {
			continue
		}
		score := float64(abstainScore)
		if !st.Seen(id) {
			var sum float64
			var voters int
			for _, u := range userNbs {
				if r := ratings[u.Pos][nb.Pos]; r != 0 {
					sum += r
					voters++
				}
			}
			if voters > 0 {
				score = sum / float64(voters)
			}
		}
		// Strict comparison keeps the first occurrence on ties.
		if first || score > bestScore {
			bestID = id
			bestScore = score
			first = false
		}
	}
	if first {
		return e.randomFallback(types.StrategyJoint), types.StrategyRandom
	}
	return bestID, types.StrategyJoint
}

// argmax returns the position and value of the largest entry in row that
// is not excluded, keeping the first occurrence on ties. It returns
// pos=-1 when every position is excluded.
func argmax(row []float64, excluded map[int]struct{}) (int, float64) {
	best := -1
	var bestVal float64
	for i, v := range row {
		if _, skip := excluded[i]; skip {
			continue
		}
		if best < 0 || v > bestVal {
			best = i
			bestVal = v
		}
	}
	return best, bestVal
}
