package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/rangoli/internal/store"
)

// defaultSessionLimit caps the session list when no limit is given.
const defaultSessionLimit = 20

// SessionsHandler handles HTTP requests for session statistics.
type SessionsHandler struct {
	sessions *store.SessionRepository
}

// NewSessionsHandler creates a new SessionsHandler with the given repository.
func NewSessionsHandler(sessions *store.SessionRepository) *SessionsHandler {
	return &SessionsHandler{sessions: sessions}
}

type listSessionsResponse struct {
	Sessions []*store.Session `json:"sessions"`
}

// ServeHTTP handles GET /api/sessions?limit=N.
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := defaultSessionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	sessions, err := h.sessions.Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []*store.Session{}
	}
	writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: sessions})
}
