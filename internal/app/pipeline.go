package app

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"time"

	"github.com/ayusman/rangoli/internal/detector"
	"github.com/ayusman/rangoli/internal/ink"
	"github.com/ayusman/rangoli/internal/pointer"
	"github.com/ayusman/rangoli/internal/store"
	"github.com/ayusman/rangoli/internal/trace"

	"gocv.io/x/gocv"
)

// detectLoop is the capture-side loop. It runs at camera cadence with
// motion gating: idle rate while the scene is still, active rate while
// it moves. Each tick ends by publishing one pointer snapshot for the
// render loop to pick up.
//
// Loop logic:
// 1. Start in idle mode (IdleFPS)
// 2. On motion detected, switch to active mode (ActiveFPS)
// 3. Run hand detection and advance the tracker
// 4. Publish the snapshot to the latest-state slot
// 5. After 2s of no motion with no hand tracked, switch back to idle
func (a *App) detectLoop(stopCh chan struct{}) {
	defer a.wg.Done()

	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			a.applyPendingMode()

			frame, err := a.camera.ReadFrame()
			if err != nil {
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode && shouldIdle(time.Since(lastMotionTime), a.tracker.State().HandPresent) {
				activeMode = false
				a.camera.SetFPS(IdleFPS)
				frameInterval = time.Second / time.Duration(IdleFPS)
				ticker.Reset(frameInterval)
				log.Println("Switched to idle mode")
			}

			a.storePreview(frame)

			if !a.IsEnabled() {
				frame.Close()
				continue
			}

			now := time.Now()
			if !activeMode {
				frame.Close()
				// No motion means no hand worth detecting; the tracker
				// still ticks so held state decays.
				st := a.tracker.Advance(nil, now)
				a.latest.Store(&st)
				continue
			}

			start := time.Now()
			hands, err := a.Detector().Detect(frame)
			latency := time.Since(start)
			frame.Close()

			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			a.perf.ObserveDetection(now, latency)
			st := a.tracker.Advance(hands, now)
			a.latest.Store(&st)
		}
	}
}

// renderLoop repaints at a fixed rate from whatever snapshot is
// current. It owns the stroke lifecycle: pen transitions in the
// snapshot stream become Begin/Extend/End calls on the engine.
func (a *App) renderLoop(stopCh chan struct{}) {
	defer a.wg.Done()

	interval := time.Second / time.Duration(a.config.RenderFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastSeq uint64

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			now := time.Now()

			st := a.latest.Load()
			if st != nil && st.Seq != lastSeq {
				lastSeq = st.Seq
				a.applyPen(*st)
			}

			a.renderer.Paint(a.canvas, a.engine, a.mapper)
			a.paintOverlay(st)

			a.perf.ObserveRender(now)
			a.perf.Evaluate(now)
		}
	}
}

// shouldIdle reports whether the detection loop may drop to the idle
// rate. A tracked hand holds the loop active even when it is perfectly
// still; idling on scene motion alone would decay a hovering hand's
// confidence and lift its pen.
func shouldIdle(sinceMotion time.Duration, handPresent bool) bool {
	return sinceMotion > IdleTimeout && !handPresent
}

// applyPen turns one new snapshot into at most one engine call. Pen
// transitions act on the tick they are observed; there is no queue to
// fall behind on.
func (a *App) applyPen(st pointer.State) {
	p := ink.Point{X: st.Tip.X, Y: st.Tip.Y, Press: st.Press, T: st.Timestamp}

	switch {
	case st.PenDown && !a.engine.Drawing():
		a.engine.BeginStroke(p)
	case st.PenDown:
		a.engine.ExtendStroke(p)
	case a.engine.Drawing():
		if s := a.engine.EndStroke(); s != nil {
			a.scoreStroke(s)
		}
	}
}

// scoreStroke scores a completed stroke against the tracing target, if
// one is installed and tracing mode is active.
func (a *App) scoreStroke(s *ink.Stroke) {
	if a.Mode() != pointer.ModeTracing {
		return
	}

	a.traceMu.Lock()
	defer a.traceMu.Unlock()
	if a.traceGoal == nil {
		return
	}
	a.traceScore = trace.Score(trace.FromStroke(s), a.traceGoal)
	log.Printf("Trace score: %.3f", a.traceScore)
}

// paintOverlay redraws the per-frame cursor layer.
func (a *App) paintOverlay(st *pointer.State) {
	a.canvas.Clear(ink.LayerOverlay)
	if st == nil || !st.HandPresent {
		return
	}

	x, y := a.mapper.ToDevice(st.Tip.X, st.Tip.Y)
	center := image.Pt(int(x+0.5), int(y+0.5))

	cursor := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if st.PenDown {
		cursor = a.engine.Color()
	}

	// The ring tightens as the pinch closes.
	ring := 14 - int(8*st.Press)
	a.canvas.Circle(ink.LayerOverlay, center, ring, cursor, 2)
	a.canvas.Circle(ink.LayerOverlay, center, 2, cursor, -1)

	// Prediction ghost, dropped in the reduced tier.
	if a.perf.Effects() && !st.Stable {
		px, py := a.mapper.ToDevice(st.Predicted.X, st.Predicted.Y)
		a.canvas.Circle(ink.LayerOverlay, image.Pt(int(px+0.5), int(py+0.5)), 3,
			color.RGBA{R: 160, G: 160, B: 160, A: 255}, 1)
	}
}

// applyPendingMode applies a requested mode switch from the loop that
// owns the tracker.
func (a *App) applyPendingMode() {
	a.mu.Lock()
	mode := a.pendingMode
	a.pendingMode = nil
	a.mu.Unlock()

	if mode == nil {
		return
	}
	a.tracker.SetMode(*mode)

	if a.config.Store != nil {
		profiles := store.NewProfileRepository(a.config.Store)
		if p, err := profiles.Effective(*mode); err == nil {
			a.tracker.SetProfile(p)
		}
	}
	log.Printf("Switched to %s mode", *mode)
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// storePreview keeps a copy of the newest camera frame for the preview
// stream.
func (a *App) storePreview(frame *gocv.Mat) {
	a.previewMu.Lock()
	defer a.previewMu.Unlock()
	if a.hasPreview {
		a.preview.Close()
	}
	a.preview = frame.Clone()
	a.hasPreview = true
}

// ComposeFrame returns the camera preview with the drawing composited
// on top, sized to the current backing surface. The caller owns the
// returned Mat. With debug set, the diagnostic readout is drawn in the
// corner.
func (a *App) ComposeFrame(debug bool) (gocv.Mat, error) {
	a.previewMu.Lock()
	if !a.hasPreview {
		a.previewMu.Unlock()
		return gocv.Mat{}, errors.New("no frame captured yet")
	}
	frame := a.preview.Clone()
	a.previewMu.Unlock()

	w, h := a.canvas.Size()
	if frame.Cols() != w || frame.Rows() != h {
		gocv.Resize(frame, &frame, image.Pt(w, h), 0, 0, gocv.InterpolationLinear)
	}

	if err := a.canvas.Composite(&frame); err != nil {
		frame.Close()
		return gocv.Mat{}, err
	}

	if debug {
		a.drawDebug(&frame)
	}
	return frame, nil
}

// drawDebug paints the diagnostic readout onto a composed frame.
func (a *App) drawDebug(frame *gocv.Mat) {
	st := a.LatestState()
	stats := a.perf.Snapshot()

	lines := []string{
		fmt.Sprintf("fps %.1f  latency %dms  tier %s", stats.RenderFPS, stats.DetectionLatency.Milliseconds(), stats.Tier),
		fmt.Sprintf("conf %.2f  pinch %.2f  press %.2f", st.Confidence, st.PinchRatio, st.Press),
		fmt.Sprintf("pen %v  stable %v  strokes %d", st.PenDown, st.Stable, a.engine.StrokesDrawn()),
	}

	green := color.RGBA{R: 0, G: 220, B: 80, A: 255}
	for i, line := range lines {
		gocv.PutText(frame, line, image.Pt(8, 18+16*i), gocv.FontHersheySimplex, 0.45, green, 1)
	}
}
