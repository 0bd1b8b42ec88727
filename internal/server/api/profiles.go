package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/rangoli/internal/pointer"
	"github.com/ayusman/rangoli/internal/store"
)

// ProfilesHandler handles HTTP requests for per-mode tuning profiles.
type ProfilesHandler struct {
	profiles *store.ProfileRepository
}

// NewProfilesHandler creates a new ProfilesHandler with the given repository.
func NewProfilesHandler(profiles *store.ProfileRepository) *ProfilesHandler {
	return &ProfilesHandler{profiles: profiles}
}

type profileResponse struct {
	Mode      string                 `json:"mode"`
	Effective pointer.Profile        `json:"effective"`
	Override  *store.ProfileOverride `json:"override,omitempty"`
}

// ServeHTTP routes /api/profiles/{mode} requests.
func (h *ProfilesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/profiles/")
	mode, err := pointer.ParseMode(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown mode")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, mode)
	case http.MethodPut:
		h.put(w, r, mode)
	case http.MethodDelete:
		h.delete(w, mode)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// get handles GET /api/profiles/{mode}: the effective profile plus the
// stored override, if any.
func (h *ProfilesHandler) get(w http.ResponseWriter, mode pointer.Mode) {
	effective, err := h.profiles.Effective(mode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	resp := profileResponse{Mode: mode.String(), Effective: effective}
	if override, err := h.profiles.Get(mode); err == nil {
		resp.Override = override
	}
	writeJSON(w, http.StatusOK, resp)
}

// put handles PUT /api/profiles/{mode} with a partial override body.
func (h *ProfilesHandler) put(w http.ResponseWriter, r *http.Request, mode pointer.Mode) {
	var override store.ProfileOverride
	if err := json.NewDecoder(r.Body).Decode(&override); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.profiles.Save(mode, &override); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.get(w, mode)
}

// delete handles DELETE /api/profiles/{mode}, reverting to defaults.
func (h *ProfilesHandler) delete(w http.ResponseWriter, mode pointer.Mode) {
	if err := h.profiles.Delete(mode); err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
