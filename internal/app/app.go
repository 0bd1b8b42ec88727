// Package app wires the camera, detector, tracker, ink engine, and
// renderer into the running air-drawing pipeline.
package app

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/rangoli/internal/capture"
	"github.com/ayusman/rangoli/internal/detector"
	"github.com/ayusman/rangoli/internal/ink"
	"github.com/ayusman/rangoli/internal/mapper"
	"github.com/ayusman/rangoli/internal/perf"
	"github.com/ayusman/rangoli/internal/pointer"
	"github.com/ayusman/rangoli/internal/store"
	"github.com/ayusman/rangoli/internal/trace"

	"gocv.io/x/gocv"
)

// Pipeline timing constants.
const (
	// IdleFPS is the detection frame rate when no motion is seen.
	IdleFPS = 5
	// ActiveFPS is the detection frame rate while the scene is moving.
	ActiveFPS = 30
	// IdleTimeout is how long the scene must stay still before the
	// detection loop drops back to the idle rate.
	IdleTimeout = 2 * time.Second
	// DefaultRenderFPS is the render loop rate. The render loop never
	// waits on detection; it repaints from the latest snapshot.
	DefaultRenderFPS = 60
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	Width        int
	Height       int
	Mirror       bool
	Mode         pointer.Mode
	MotionThresh float64
	RenderFPS    int
}

// App owns the two pipeline loops and every stage between them. The
// detection loop runs at camera cadence and publishes pointer
// snapshots; the render loop consumes the latest snapshot at its own
// fixed rate.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	tracker  *pointer.Tracker
	engine   *ink.Engine
	canvas   *ink.Canvas
	renderer *ink.Renderer
	mapper   *mapper.Mapper
	perf     *perf.Controller

	// latest is the single-slot handoff between the loops: the
	// detection loop stores, the render loop loads. Stale snapshots
	// are overwritten, never queued.
	latest atomic.Pointer[pointer.State]

	enabled     bool
	mode        pointer.Mode
	pendingMode *pointer.Mode
	mu          sync.RWMutex
	stopCh      chan struct{}
	wg          sync.WaitGroup

	previewMu  sync.Mutex
	preview    gocv.Mat
	hasPreview bool

	traceMu    sync.Mutex
	traceGoal  []trace.Point
	traceScore float64

	sessionID string
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.Width <= 0 {
		config.Width = capture.DefaultWidth
	}
	if config.Height <= 0 {
		config.Height = capture.DefaultHeight
	}
	if config.MotionThresh <= 0 {
		config.MotionThresh = 1.0 // 1% pixel change
	}
	if config.RenderFPS <= 0 {
		config.RenderFPS = DefaultRenderFPS
	}

	m := mapper.New(mapper.Config{
		DisplayWidth:  config.Width,
		DisplayHeight: config.Height,
		PixelRatio:    1.0,
	})
	w, h := m.DeviceSize()

	a := &App{
		config:   config,
		camera:   capture.NewCamera(capture.Config{DeviceID: config.CameraID, Width: config.Width, Height: config.Height}),
		motion:   capture.NewMotionDetector(config.MotionThresh),
		tracker:  pointer.NewTracker(config.Mode, config.Mirror),
		engine:   ink.NewEngine(),
		canvas:   ink.NewCanvas(w, h),
		renderer: ink.NewRenderer(ink.DefaultSpacing),
		mapper:   m,
		perf:     perf.NewController(perf.DefaultConfig()),
		enabled:  true,
		mode:     config.Mode,
	}

	// Tier flips resize the backing surface; the tier callback fires
	// from inside the render loop's Evaluate, so the renderer and
	// canvas are touched from their owning goroutine.
	a.perf.OnTierChange(a.applyTier)

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// LoadSettings applies stored settings and the active mode's stored
// tuning override. Missing keys keep their defaults.
func (a *App) LoadSettings() error {
	if a.config.Store == nil {
		return nil
	}

	settings := store.NewSettingsRepository(a.config.Store)

	if mode, err := pointer.ParseMode(settings.GetOrDefault(store.SettingMode, a.config.Mode.String())); err == nil {
		a.SetMode(mode)
	}
	a.engine.SetWidth(settings.GetFloat(store.SettingBrushWidth, ink.DefaultWidth))

	profiles := store.NewProfileRepository(a.config.Store)
	p, err := profiles.Effective(a.Mode())
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.tracker.SetProfile(p)
	a.mu.Unlock()

	log.Printf("Loaded settings for mode %s", a.Mode())
	return nil
}

// SetEnabled enables or disables detection and drawing. While
// disabled, frames are still captured for the preview but the tracker
// is not advanced.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Mode returns the active interaction mode.
func (a *App) Mode() pointer.Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

// SetMode requests a mode switch. The detection loop applies it before
// the next tick so the tracker is never touched from two goroutines.
func (a *App) SetMode(mode pointer.Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode = mode
	a.pendingMode = &mode
}

// Engine returns the ink engine, for clear/undo/brush control.
func (a *App) Engine() *ink.Engine {
	return a.engine
}

// Mapper returns the coordinate mapper.
func (a *App) Mapper() *mapper.Mapper {
	return a.mapper
}

// LatestState returns the most recent pointer snapshot, or a zero
// state before the first detection tick.
func (a *App) LatestState() pointer.State {
	if st := a.latest.Load(); st != nil {
		return *st
	}
	return pointer.State{}
}

// PerfStats returns a snapshot of the adaptive quality controller.
func (a *App) PerfStats() perf.Stats {
	return a.perf.Snapshot()
}

// CanvasPNG encodes the committed drawing as PNG bytes.
func (a *App) CanvasPNG() ([]byte, error) {
	return a.canvas.EncodePNG()
}

// SetTraceTarget installs the path the tracing mode scores strokes
// against. A nil path disables scoring.
func (a *App) SetTraceTarget(path []trace.Point) {
	a.traceMu.Lock()
	defer a.traceMu.Unlock()
	a.traceGoal = path
	a.traceScore = 0
}

// TraceScore returns the score of the last completed stroke in tracing
// mode, in (0,1], or 0 when nothing has been scored yet.
func (a *App) TraceScore() float64 {
	a.traceMu.Lock()
	defer a.traceMu.Unlock()
	return a.traceScore
}

// Start opens the camera and launches the detection and render loops.
// Starting a running app is a no-op.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	if a.config.Store != nil {
		id, err := store.NewSessionRepository(a.config.Store).Begin(a.mode.String(), time.Now())
		if err != nil {
			log.Printf("Failed to record session start: %v", err)
		} else {
			a.sessionID = id
		}
	}

	a.stopCh = make(chan struct{})
	a.wg.Add(2)
	go a.detectLoop(a.stopCh)
	go a.renderLoop(a.stopCh)

	log.Println("Drawing pipeline started")
	return nil
}

// Stop halts both loops and releases resources. Safe to call twice.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh := a.stopCh
	a.stopCh = nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	a.wg.Wait()

	if a.config.Store != nil && a.sessionID != "" {
		err := store.NewSessionRepository(a.config.Store).End(
			a.sessionID, time.Now(), int(a.engine.StrokesDrawn()))
		if err != nil {
			log.Printf("Failed to record session end: %v", err)
		}
		a.sessionID = ""
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	a.previewMu.Lock()
	if a.hasPreview {
		a.preview.Close()
		a.hasPreview = false
	}
	a.previewMu.Unlock()

	log.Println("Drawing pipeline stopped")
}

// applyTier reacts to a quality tier change: the surface density is
// re-derived and the ink layer queued for one full repaint.
func (a *App) applyTier(tier perf.Tier) {
	cfg := a.mapper.Config()
	cfg.PixelRatio = a.perf.PixelRatio()
	a.mapper.Reconfigure(cfg)

	w, h := a.mapper.DeviceSize()
	a.canvas.Resize(w, h)
	a.renderer.SetPixelRatio(cfg.PixelRatio)
	a.renderer.Invalidate()

	log.Printf("Quality tier changed to %s (pixel ratio %.2f)", tier, cfg.PixelRatio)
}
