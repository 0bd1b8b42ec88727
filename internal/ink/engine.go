package ink

import (
	"image/color"
	"sync"

	"github.com/google/uuid"
)

// Engine defaults.
const (
	// DefaultMinSpacing is the normalized distance a new sample must
	// clear before it extends the active stroke.
	DefaultMinSpacing = 0.002
	// DefaultWidth is the base stroke width in display pixels.
	DefaultWidth = 6.0
)

// DefaultColor is the initial brush color.
var DefaultColor = color.RGBA{R: 235, G: 90, B: 54, A: 255}

// Engine owns the ink model: the in-progress stroke and the committed
// collection, plus the brush settings new strokes freeze at creation.
// Pen transitions are driven externally; the engine holds no gesture
// logic.
//
// All methods are safe for concurrent use; the render loop drives the
// stroke lifecycle while tray/API callers may clear or undo.
type Engine struct {
	mu         sync.Mutex
	committed  []*Stroke
	redo       []*Stroke
	active     *Stroke
	width      float64
	color      color.RGBA
	pressWidth bool
	minSpacing float64

	// generation counts changes to the committed collection. The
	// renderer repaints the ink surface from scratch only when it
	// observes a new generation.
	generation uint64

	// strokesDrawn counts every committed stroke for session stats,
	// surviving undo and clear.
	strokesDrawn uint64
}

// NewEngine creates an Engine with default brush settings.
func NewEngine() *Engine {
	return &Engine{
		width:      DefaultWidth,
		color:      DefaultColor,
		minSpacing: DefaultMinSpacing,
	}
}

// BeginStroke starts a new in-progress stroke at the given point,
// freezing the current brush settings into it. Any previous active
// stroke is committed first; the redo stack is discarded.
func (e *Engine) BeginStroke(p Point) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		e.commitLocked()
	}

	e.redo = nil
	e.active = &Stroke{
		ID:         uuid.NewString(),
		Points:     []Point{p},
		Width:      e.width,
		Color:      e.color,
		PressWidth: e.pressWidth,
		StartedAt:  p.T,
	}
}

// ExtendStroke appends a point to the active stroke. It is a no-op
// when no stroke is in progress, when the sample is closer than the
// minimum spacing to the previous point, or when its timestamp does
// not advance.
func (e *Engine) ExtendStroke(p Point) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return
	}

	last := e.active.Points[len(e.active.Points)-1]
	if !p.T.After(last.T) {
		return
	}
	dx := p.X - last.X
	dy := p.Y - last.Y
	if dx*dx+dy*dy < e.minSpacing*e.minSpacing {
		return
	}

	e.active.Points = append(e.active.Points, p)
}

// EndStroke commits the in-progress stroke and returns it. Returns nil
// when no stroke is in progress.
func (e *Engine) EndStroke() *Stroke {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commitLocked()
}

func (e *Engine) commitLocked() *Stroke {
	if e.active == nil {
		return nil
	}

	s := e.active
	s.EndedAt = s.Points[len(s.Points)-1].T
	e.active = nil
	e.committed = append(e.committed, s)
	e.generation++
	e.strokesDrawn++
	return s
}

// Clear drops all committed strokes, the redo stack, and any stroke in
// progress. Safe to call repeatedly.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.committed) == 0 && e.active == nil && len(e.redo) == 0 {
		return
	}
	e.committed = nil
	e.redo = nil
	e.active = nil
	e.generation++
}

// Undo moves the most recent committed stroke onto the redo stack.
// Returns false when there is nothing to undo.
func (e *Engine) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.committed) == 0 {
		return false
	}
	last := e.committed[len(e.committed)-1]
	e.committed = e.committed[:len(e.committed)-1]
	e.redo = append(e.redo, last)
	e.generation++
	return true
}

// Redo restores the most recently undone stroke. Returns false when
// the redo stack is empty.
func (e *Engine) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.redo) == 0 {
		return false
	}
	last := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	e.committed = append(e.committed, last)
	e.generation++
	return true
}

// Committed returns a snapshot of the committed collection. The
// strokes themselves are immutable once committed.
func (e *Engine) Committed() []*Stroke {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*Stroke, len(e.committed))
	copy(out, e.committed)
	return out
}

// ActiveStroke returns a deep copy of the in-progress stroke, if any.
func (e *Engine) ActiveStroke() (Stroke, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return Stroke{}, false
	}
	return e.active.clone(), true
}

// Drawing reports whether a stroke is currently in progress.
func (e *Engine) Drawing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active != nil
}

// Generation returns the committed-collection change counter.
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// StrokesDrawn returns the total number of strokes committed this
// session, including ones since undone or cleared.
func (e *Engine) StrokesDrawn() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.strokesDrawn
}

// SetWidth sets the base width for strokes begun after the call.
// Values <= 0 are ignored.
func (e *Engine) SetWidth(w float64) {
	if w <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.width = w
}

// Width returns the current base stroke width.
func (e *Engine) Width() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width
}

// SetColor sets the brush color for strokes begun after the call.
func (e *Engine) SetColor(c color.RGBA) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.color = c
}

// Color returns the current brush color.
func (e *Engine) Color() color.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.color
}

// SetPressWidth toggles press-scaled stroke width for strokes begun
// after the call.
func (e *Engine) SetPressWidth(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pressWidth = on
}
