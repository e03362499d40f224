// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// defaultMaxDescribeIDs caps one /movies query so a single request stays
// bounded.
const defaultMaxDescribeIDs = 100

// MoviesHandler handles movie description requests.
type MoviesHandler struct {
	deps   Dependencies
	maxIDs int
}

// NewMoviesHandler creates a new movies handler.
func NewMoviesHandler(deps Dependencies) *MoviesHandler {
	return &MoviesHandler{deps: deps, maxIDs: defaultMaxDescribeIDs}
}

// HandleGetMovies handles GET /movies?ids=1,2,3 requests.
func (h *MoviesHandler) HandleGetMovies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	raw := r.URL.Query().Get("ids")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing ids parameter"))
		return
	}

	parts := strings.Split(raw, ",")
	if len(parts) > h.maxIDs {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("too many ids"))
		return
	}

	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("ids must be integers"))
			return
		}
		ids = append(ids, id)
	}

	infos, err := h.deps.Describe(r.Context(), ids)
	if err != nil {
		writeDependencyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}
