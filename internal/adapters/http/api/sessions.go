// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ssbakh07/reelpick/internal/domain/types"
)

// SessionsHandler handles the session lifecycle and pick routes.
type SessionsHandler struct {
	deps Dependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// sessionResponse mirrors the OpenAPI schema for POST /sessions.
type sessionResponse struct {
	SessionID       string                 `json:"session_id"`
	Recommendations []types.Recommendation `json:"recommendations"`
}

// pickRequest mirrors the OpenAPI schema for POST /sessions/{id}/picks.
type pickRequest struct {
	Slot   *int     `json:"slot"`
	Rating *float64 `json:"rating"`
}

func (p pickRequest) validate() error {
	switch {
	case p.Slot == nil:
		return errors.New("missing slot")
	case p.Rating == nil:
		return errors.New("missing rating")
	}
	return nil
}

type pickResponse struct {
	Recommendations []types.Recommendation `json:"recommendations"`
}

// HandleSessions handles POST /sessions requests.
func (h *SessionsHandler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	id, recs, err := h.deps.CreateSession(r.Context())
	if err != nil {
		writeDependencyError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: id, Recommendations: recs})
}

// HandleSessionByID handles POST /sessions/{id}/picks and DELETE /sessions/{id}.
func (h *SessionsHandler) HandleSessionByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if rest == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(rest, "/picks"):
		h.handlePick(w, r, strings.TrimSuffix(rest, "/picks"))
	case r.Method == http.MethodDelete && !strings.Contains(rest, "/"):
		h.handleEnd(w, r, rest)
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionsHandler) handlePick(w http.ResponseWriter, r *http.Request, sessionID string) {
	if sessionID == "" || strings.Contains(sessionID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	var req pickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	recs, err := h.deps.Pick(r.Context(), sessionID, *req.Slot, *req.Rating)
	if err != nil {
		writeDependencyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pickResponse{Recommendations: recs})
}

func (h *SessionsHandler) handleEnd(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.deps.EndSession(r.Context(), sessionID); err != nil {
		writeDependencyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
