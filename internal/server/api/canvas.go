package api

import (
	"net/http"
	"strings"
)

// Canvas is the slice of the ink engine the action endpoints drive.
type Canvas interface {
	Clear()
	Undo() bool
	Redo() bool
}

// CanvasHandler handles canvas action requests: clear, undo, redo.
type CanvasHandler struct {
	canvas Canvas
}

// NewCanvasHandler creates a new CanvasHandler over the canvas.
func NewCanvasHandler(canvas Canvas) *CanvasHandler {
	return &CanvasHandler{canvas: canvas}
}

type actionResponse struct {
	Action  string `json:"action"`
	Applied bool   `json:"applied"`
}

// ServeHTTP routes POST /api/canvas/{action}.
func (h *CanvasHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	action := strings.TrimPrefix(r.URL.Path, "/api/canvas/")
	switch action {
	case "clear":
		h.canvas.Clear()
		writeJSON(w, http.StatusOK, actionResponse{Action: action, Applied: true})
	case "undo":
		writeJSON(w, http.StatusOK, actionResponse{Action: action, Applied: h.canvas.Undo()})
	case "redo":
		writeJSON(w, http.StatusOK, actionResponse{Action: action, Applied: h.canvas.Redo()})
	default:
		writeError(w, http.StatusNotFound, "Unknown action")
	}
}
