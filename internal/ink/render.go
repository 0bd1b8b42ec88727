package ink

import (
	"image"
	"math"

	"github.com/ayusman/rangoli/internal/mapper"
)

// DefaultSpacing is the resampled point spacing in device pixels.
// Stroke density stays independent of the detector's sample rate.
const DefaultSpacing = 3.0

// penStream resamples a growing sequence of raw points to fixed
// device-pixel spacing and remembers where it left off, so each frame
// only the newly appended tail gets drawn.
type penStream struct {
	strokeID string
	consumed int
	lastEmit pointF
	started  bool
}

type pointF struct{ x, y float64 }

// Renderer paints an Engine's strokes onto a Canvas. The ink layer is
// append-only: per frame it receives only the active stroke's new
// segments. A generation change (commit, undo, redo, clear) or an
// Invalidate (resize, density change) triggers the one expensive
// full repaint.
type Renderer struct {
	spacing    float64
	pixelRatio float64
	lastGen    uint64
	painted    bool
	active     penStream
}

// NewRenderer creates a renderer with the given resample spacing in
// device pixels.
func NewRenderer(spacing float64) *Renderer {
	if spacing <= 0 {
		spacing = DefaultSpacing
	}
	return &Renderer{spacing: spacing, pixelRatio: 1.0}
}

// SetPixelRatio records the density factor widths are scaled by. The
// caller is expected to Invalidate after changing it.
func (r *Renderer) SetPixelRatio(ratio float64) {
	if ratio > 0 {
		r.pixelRatio = ratio
	}
}

// Invalidate forces a full ink-layer repaint on the next Paint.
func (r *Renderer) Invalidate() {
	r.painted = false
}

// Paint brings the canvas's ink layer up to date with the engine.
// Called once per render tick by the render loop.
func (r *Renderer) Paint(c *Canvas, e *Engine, m *mapper.Mapper) {
	gen := e.Generation()
	if !r.painted || gen != r.lastGen {
		r.repaint(c, e, m)
		r.lastGen = gen
		r.painted = true
	}

	active, ok := e.ActiveStroke()
	if !ok {
		r.active = penStream{}
		return
	}

	if active.ID != r.active.strokeID {
		r.active = penStream{strokeID: active.ID}
	}
	r.appendPoints(c, &active, &r.active, m)
}

// repaint redraws every committed stroke from scratch. Rare by
// contract: only commit/undo/redo/clear/resize land here.
func (r *Renderer) repaint(c *Canvas, e *Engine, m *mapper.Mapper) {
	c.Clear(LayerInk)
	for _, s := range e.Committed() {
		stream := penStream{strokeID: s.ID}
		snapshot := s.clone()
		r.appendPoints(c, &snapshot, &stream, m)
	}
	r.active = penStream{}
}

// appendPoints feeds the stroke's unconsumed points through the
// stream's resampler and draws the resulting segments.
func (r *Renderer) appendPoints(c *Canvas, s *Stroke, stream *penStream, m *mapper.Mapper) {
	for ; stream.consumed < len(s.Points); stream.consumed++ {
		p := s.Points[stream.consumed]
		dx, dy := m.ToDevice(p.X, p.Y)
		dev := pointF{x: dx, y: dy}

		if !stream.started {
			stream.lastEmit = dev
			stream.started = true
			// A dot marks the stroke start so taps leave ink.
			c.Circle(LayerInk, image.Pt(int(dev.x+0.5), int(dev.y+0.5)),
				r.thickness(s, p)/2, s.Color, -1)
			continue
		}

		// Walk from the last emitted point toward the new sample,
		// emitting a segment every spacing pixels. Near-duplicate
		// samples inside one spacing step are skipped outright.
		for {
			ex := dev.x - stream.lastEmit.x
			ey := dev.y - stream.lastEmit.y
			d := math.Sqrt(ex*ex + ey*ey)
			if d < r.spacing {
				break
			}
			t := r.spacing / d
			next := pointF{
				x: stream.lastEmit.x + ex*t,
				y: stream.lastEmit.y + ey*t,
			}
			c.Line(LayerInk,
				image.Pt(int(stream.lastEmit.x+0.5), int(stream.lastEmit.y+0.5)),
				image.Pt(int(next.x+0.5), int(next.y+0.5)),
				s.Color, r.thickness(s, p))
			stream.lastEmit = next
		}
	}
}

// thickness derives the device-pixel line width for a sample.
func (r *Renderer) thickness(s *Stroke, p Point) int {
	w := s.Width * r.pixelRatio
	if s.PressWidth {
		w *= 0.3 + 0.7*p.Press
	}
	t := int(math.Round(w))
	if t < 1 {
		t = 1
	}
	return t
}
