// Package session holds the per-session taste state that the recommender
// strategies read: the preference vector, the liked-item feature rows and
// the set of items the visitor has already rated.
package session

// likedThreshold is the exclusive rating bound above which a pick counts
// as liked and contributes its features to the taste profile.
const likedThreshold = 2.5

// State is a single visitor's accumulated ratings. It is not safe for
// concurrent use; callers serialize access per session.
type State struct {
	prefs     []float64
	liked     [][]float64
	seen      map[int]struct{}
	seenOrder []int
	picks     int
}

// NewState returns empty state sized for a catalog of numItems items.
// The preference vector is indexed by item position, not item id.
func NewState(numItems int) *State {
	return &State{
		prefs: make([]float64, numItems),
		seen:  make(map[int]struct{}),
	}
}

// RecordRating is the only mutation point. It marks itemID as seen,
// stores rating at the item's position in the preference vector and, when
// the rating clears the liked threshold, appends the item's feature row
// to the liked set.
func (s *State) RecordRating(itemID, pos int, rating float64, features []float64) {
	if _, ok := s.seen[itemID]; !ok {
		s.seen[itemID] = struct{}{}
		s.seenOrder = append(s.seenOrder, itemID)
	}
	s.prefs[pos] = rating
	if rating > likedThreshold {
		row := make([]float64, len(features))
		copy(row, features)
		s.liked = append(s.liked, row)
	}
	s.picks++
}

// Seen reports whether itemID has been rated in this session.
func (s *State) Seen(itemID int) bool {
	_, ok := s.seen[itemID]
	return ok
}

// SeenIDs returns the rated item ids in rating order.
func (s *State) SeenIDs() []int {
	out := make([]int, len(s.seenOrder))
	copy(out, s.seenOrder)
	return out
}

// SeenCount returns the number of distinct rated items.
func (s *State) SeenCount() int { return len(s.seen) }

// Picks returns the total number of ratings recorded, including repeats.
func (s *State) Picks() int { return s.picks }

// HasAnyLiked reports whether at least one rating cleared the liked
// threshold.
func (s *State) HasAnyLiked() bool { return len(s.liked) > 0 }

// Preferences returns the preference vector indexed by item position.
// Unrated positions stay zero. Callers must not mutate the result.
func (s *State) Preferences() []float64 { return s.prefs }

// AverageLikedFeatures returns the elementwise mean of the liked feature
// rows. The second return is false when nothing has been liked yet.
func (s *State) AverageLikedFeatures() ([]float64, bool) {
	if len(s.liked) == 0 {
		return nil, false
	}
	avg := make([]float64, len(s.liked[0]))
	for _, row := range s.liked {
		for i, v := range row {
			avg[i] += v
		}
	}
	n := float64(len(s.liked))
	for i := range avg {
		avg[i] /= n
	}
	return avg, true
}
