package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/rangoli/internal/store"
)

// SettingsHandler handles HTTP requests for application settings.
type SettingsHandler struct {
	settings *store.SettingsRepository

	// OnChange, when set, is called after each saved key so the
	// running pipeline picks the change up without a restart.
	OnChange func(key, value string)
}

// NewSettingsHandler creates a new SettingsHandler with the given repository.
func NewSettingsHandler(settings *store.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// ServeHTTP implements the http.Handler interface.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.put(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// get handles GET /api/settings and returns all stored settings.
func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// put handles PUT /api/settings with a flat key/value object. Every
// key in the body is saved; unknown keys are stored as-is.
func (h *SettingsHandler) put(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "No settings provided")
		return
	}

	for key, value := range body {
		if err := h.settings.Set(key, value); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save setting")
			return
		}
		if h.OnChange != nil {
			h.OnChange(key, value)
		}
	}

	h.get(w, r)
}
