package recommend

import (
	"fmt"

	"github.com/ssbakh07/reelpick/internal/domain/session"
	"github.com/ssbakh07/reelpick/internal/domain/types"
)

// sessionView is the read side of session state the strategies consume.
type sessionView interface {
	HasAnyLiked() bool
	AverageLikedFeatures() ([]float64, bool)
	Preferences() []float64
	Seen(id int) bool
	SeenCount() int
}

// Session is one visitor's live recommendation state plus the current
// triple of slot ids. It is not safe for concurrent use; callers
// serialize access per session.
type Session struct {
	eng        *Engine
	state      *session.State
	triple     [3]int
	strategies [3]types.Strategy
}

// NewSession opens a session with a cold-start triple of three distinct
// uniformly drawn item ids.
func (e *Engine) NewSession() *Session {
	s := &Session{
		eng:        e,
		state:      session.NewState(e.catalog.ItemCount()),
		strategies: [3]types.Strategy{types.StrategyRandom, types.StrategyRandom, types.StrategyRandom},
	}
	seen := make(map[int]struct{}, 3)
	for i := 0; i < 3; {
		id := e.catalog.RandomItemID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		s.triple[i] = id
		i++
	}
	return s
}

// Triple returns the current slot ids in order: item, user, joint.
func (s *Session) Triple() [3]int { return s.triple }

// Picks returns the number of ratings recorded so far.
func (s *Session) Picks() int { return s.state.Picks() }

// SeenCount returns the number of distinct rated items.
func (s *Session) SeenCount() int { return s.state.SeenCount() }

// Recommendations resolves the current triple to displayable slots.
func (s *Session) Recommendations() ([]types.Recommendation, error) {
	out := make([]types.Recommendation, 0, 3)
	for slot, id := range s.triple {
		item, err := s.eng.catalog.ItemByID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, types.Recommendation{
			Slot:     slot,
			Strategy: s.strategies[slot],
			ItemID:   item.ID,
			Title:    item.Title,
			Overview: item.Overview,
		})
	}
	return out, nil
}

// Pick records a rating for the item in the given slot and recomputes
// all three slots against the updated state. Validation happens before
// any mutation: on error the session is unchanged.
func (s *Session) Pick(slot int, rating float64) ([]types.Recommendation, error) {
	if slot < 0 || slot > 2 {
		return nil, fmt.Errorf("slot %d: %w", slot, ErrInvalidArgument)
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating %g: %w", rating, ErrInvalidArgument)
	}

	itemID := s.triple[slot]
	pos, ok := s.eng.catalog.ItemPosOf(itemID)
	if !ok {
		return nil, fmt.Errorf("slot item %d: %w", itemID, ErrInvalidArgument)
	}
	item, err := s.eng.catalog.ItemByID(itemID)
	if err != nil {
		return nil, err
	}

	s.state.RecordRating(itemID, pos, rating, item.Features)

	s.triple[0], s.strategies[0] = s.eng.timed(types.StrategyItem, func() (int, types.Strategy) {
		return s.eng.nextByItemSimilarity(s.state)
	})
	s.triple[1], s.strategies[1] = s.eng.timed(types.StrategyUser, func() (int, types.Strategy) {
		return s.eng.nextByUserSimilarity(s.state)
	})
	s.triple[2], s.strategies[2] = s.eng.timed(types.StrategyJoint, func() (int, types.Strategy) {
		return s.eng.nextByJointSimilarity(s.state)
	})

	return s.Recommendations()
}
