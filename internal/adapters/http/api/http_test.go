package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/ssbakh07/reelpick/internal/adapters/http/api"
	"github.com/ssbakh07/reelpick/internal/domain/model"
	"github.com/ssbakh07/reelpick/internal/domain/recommend"
	"github.com/ssbakh07/reelpick/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDeps is a controllable Dependencies implementation.
type mockDeps struct {
	createErr error
	pickErr   error
	endErr    error
	descErr   error

	lastSessionID string
	lastSlot      int
	lastRating    float64
}

func (m *mockDeps) triple() []types.Recommendation {
	return []types.Recommendation{
		{Slot: 0, Strategy: types.StrategyItem, ItemID: 1, Title: "Movie 1"},
		{Slot: 1, Strategy: types.StrategyUser, ItemID: 2, Title: "Movie 2"},
		{Slot: 2, Strategy: types.StrategyJoint, ItemID: 3, Title: "Movie 3"},
	}
}

func (m *mockDeps) CreateSession(ctx context.Context) (string, []types.Recommendation, error) {
	if m.createErr != nil {
		return "", nil, m.createErr
	}
	return "sess-1", m.triple(), nil
}

func (m *mockDeps) Pick(ctx context.Context, sessionID string, slot int, rating float64) ([]types.Recommendation, error) {
	if m.pickErr != nil {
		return nil, m.pickErr
	}
	m.lastSessionID = sessionID
	m.lastSlot = slot
	m.lastRating = rating
	return m.triple(), nil
}

func (m *mockDeps) EndSession(ctx context.Context, sessionID string) error {
	m.lastSessionID = sessionID
	return m.endErr
}

func (m *mockDeps) Describe(ctx context.Context, ids []int) ([]types.MovieInfo, error) {
	if m.descErr != nil {
		return nil, m.descErr
	}
	out := make([]types.MovieInfo, 0, len(ids))
	for _, id := range ids {
		out = append(out, types.MovieInfo{ItemID: id, Title: fmt.Sprintf("Movie %d", id)})
	}
	return out, nil
}

func (m *mockDeps) GetStats(ctx context.Context) (model.ServiceStats, error) {
	return model.ServiceStats{ActiveSessions: 1, CatalogItems: 5, CatalogUsers: 3}, nil
}

func newTestServer(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	return mux
}

func TestCreateSessionRoute(t *testing.T) {
	Convey("Given the API routes", t, func() {
		deps := &mockDeps{}
		mux := newTestServer(deps)

		Convey("POST /sessions creates a session", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", nil))

			So(rec.Code, ShouldEqual, http.StatusCreated)
			var resp struct {
				SessionID       string                 `json:"session_id"`
				Recommendations []types.Recommendation `json:"recommendations"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.SessionID, ShouldEqual, "sess-1")
			So(len(resp.Recommendations), ShouldEqual, 3)
		})

		Convey("GET /sessions is not a route", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("A capacity error maps to 429", func() {
			deps.createErr = fmt.Errorf("10 live: %w", fmt.Errorf("session limit reached"))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", nil))
			So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
		})
	})
}

func TestPickRoute(t *testing.T) {
	Convey("Given the API routes", t, func() {
		deps := &mockDeps{}
		mux := newTestServer(deps)

		post := func(path, body string) *httptest.ResponseRecorder {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
			mux.ServeHTTP(rec, req)
			return rec
		}

		Convey("POST /sessions/{id}/picks records a pick", func() {
			rec := post("/sessions/sess-1/picks", `{"slot":1,"rating":4.5}`)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.lastSessionID, ShouldEqual, "sess-1")
			So(deps.lastSlot, ShouldEqual, 1)
			So(deps.lastRating, ShouldEqual, 4.5)
		})

		Convey("A slot of zero is passed through, not treated as missing", func() {
			rec := post("/sessions/sess-1/picks", `{"slot":0,"rating":1}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.lastSlot, ShouldEqual, 0)
		})

		Convey("A body without slot is a 400", func() {
			rec := post("/sessions/sess-1/picks", `{"rating":4.5}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Malformed JSON is a 400", func() {
			rec := post("/sessions/sess-1/picks", `{`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("An invalid-argument error maps to 400", func() {
			deps.pickErr = fmt.Errorf("slot 3: %w", recommend.ErrInvalidArgument)
			rec := post("/sessions/sess-1/picks", `{"slot":3,"rating":4}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("An unknown session maps to 404", func() {
			deps.pickErr = fmt.Errorf("session %q: %w", "nope", fmt.Errorf("session not found"))
			rec := post("/sessions/nope/picks", `{"slot":0,"rating":4}`)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestEndSessionRoute(t *testing.T) {
	Convey("Given the API routes", t, func() {
		deps := &mockDeps{}
		mux := newTestServer(deps)

		Convey("DELETE /sessions/{id} ends the session", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/sessions/sess-1", nil))
			So(rec.Code, ShouldEqual, http.StatusNoContent)
			So(deps.lastSessionID, ShouldEqual, "sess-1")
		})

		Convey("DELETE on an unknown session maps to 404", func() {
			deps.endErr = fmt.Errorf("session not found")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/sessions/ghost", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestMoviesRoute(t *testing.T) {
	Convey("Given the API routes", t, func() {
		deps := &mockDeps{}
		mux := newTestServer(deps)

		get := func(path string) *httptest.ResponseRecorder {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			return rec
		}

		Convey("GET /movies?ids= resolves the listed ids", func() {
			rec := get("/movies?ids=1,2,3")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var infos []types.MovieInfo
			So(json.Unmarshal(rec.Body.Bytes(), &infos), ShouldBeNil)
			So(len(infos), ShouldEqual, 3)
			So(infos[2].Title, ShouldEqual, "Movie 3")
		})

		Convey("Missing ids is a 400", func() {
			So(get("/movies").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Non-numeric ids are a 400", func() {
			So(get("/movies?ids=1,abc").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("An unknown id maps to 404", func() {
			deps.descErr = fmt.Errorf("item 99: %w", fmt.Errorf("not found"))
			So(get("/movies?ids=99").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("The id cap applies", func() {
			capped := http.NewServeMux()
			api.NewServer(deps, api.WithMaxDescribeIDs(2)).Register(context.Background(), capped)

			rec := httptest.NewRecorder()
			capped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movies?ids=1,2,3", nil))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHealthAndStatsRoutes(t *testing.T) {
	Convey("Given the API routes", t, func() {
		mux := newTestServer(&mockDeps{})

		Convey("GET /healthz reports ok", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"ok"`)
		})

		Convey("GET /stats reports the snapshot", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)

			var st model.ServiceStats
			So(json.Unmarshal(rec.Body.Bytes(), &st), ShouldBeNil)
			So(st.CatalogItems, ShouldEqual, 5)
		})
	})
}
