// Package server provides the HTTP surface of the air-drawing
// pipeline: the camera preview stream, the pointer diagnostics socket,
// and the settings/profile/session APIs.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ayusman/rangoli/internal/ink"
	"github.com/ayusman/rangoli/internal/perf"
	"github.com/ayusman/rangoli/internal/pointer"
	"github.com/ayusman/rangoli/internal/server/api"
	"github.com/ayusman/rangoli/internal/store"

	"gocv.io/x/gocv"
)

// Pipeline is the slice of the running app the server reads from and
// steers. Implemented by *app.App.
type Pipeline interface {
	LatestState() pointer.State
	ComposeFrame(debug bool) (gocv.Mat, error)
	CanvasPNG() ([]byte, error)
	PerfStats() perf.Stats
	Mode() pointer.Mode
	SetMode(mode pointer.Mode)
	Engine() *ink.Engine
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Pipeline  Pipeline
}

// Server represents the HTTP server for the drawing application.
type Server struct {
	config  Config
	mux     *http.ServeMux
	start   time.Time
	pointer *PointerHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if p := s.config.Pipeline; p != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(p))
		s.pointer = NewPointerHandler(p)
		s.mux.Handle("/api/pointer", s.pointer)
		s.mux.HandleFunc("/api/canvas.png", s.handleCanvasPNG)
		s.mux.HandleFunc("/api/perf", s.handlePerf)
		s.mux.Handle("/api/canvas/", api.NewCanvasHandler(p.Engine()))
	}

	if s.config.Store != nil {
		settingsHandler := api.NewSettingsHandler(store.NewSettingsRepository(s.config.Store))
		if s.config.Pipeline != nil {
			settingsHandler.OnChange = s.applySetting
		}
		s.mux.Handle("/api/settings", settingsHandler)

		profilesHandler := api.NewProfilesHandler(store.NewProfileRepository(s.config.Store))
		s.mux.Handle("/api/profiles/", profilesHandler)

		s.mux.Handle("/api/sessions", api.NewSessionsHandler(store.NewSessionRepository(s.config.Store)))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// applySetting pushes a saved setting into the running pipeline.
func (s *Server) applySetting(key, value string) {
	switch key {
	case store.SettingMode:
		if mode, err := pointer.ParseMode(value); err == nil {
			s.config.Pipeline.SetMode(mode)
		}
	case store.SettingBrushWidth:
		if w, err := strconv.ParseFloat(value, 64); err == nil {
			s.config.Pipeline.Engine().SetWidth(w)
		}
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Pipeline != nil {
		response["mode"] = s.config.Pipeline.Mode().String()
		response["tier"] = s.config.Pipeline.PerfStats().Tier
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleCanvasPNG serves the committed drawing as a PNG snapshot.
func (s *Server) handleCanvasPNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	png, err := s.config.Pipeline.CanvasPNG()
	if err != nil {
		http.Error(w, "Failed to encode canvas", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handlePerf serves the adaptive quality controller's snapshot.
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.config.Pipeline.PerfStats())
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

// Close stops the server's background work. Safe to call more than
// once.
func (s *Server) Close() {
	if s.pointer != nil {
		s.pointer.Close()
	}
}
