// Package ink owns the stroke model and its rendering onto layered
// drawing surfaces.
package ink

import (
	"image/color"
	"time"
)

// Point is one ink sample: a normalized position, the press scalar it
// was drawn with, and its capture time.
type Point struct {
	X     float64
	Y     float64
	Press float64
	T     time.Time
}

// Stroke is an ordered, append-only sequence of points. While in
// progress it is owned and mutated by the Engine; once committed it is
// immutable and its render output is stable for a given surface size,
// which is what makes undo/redo deterministic.
type Stroke struct {
	ID     string
	Points []Point

	// Visual parameters, frozen when the stroke begins.
	Width      float64 // base width in display pixels
	Color      color.RGBA
	PressWidth bool // scale width by the per-sample press value

	StartedAt time.Time
	EndedAt   time.Time
}

// Duration returns the wall time the stroke took to draw.
func (s *Stroke) Duration() time.Duration {
	if s.EndedAt.IsZero() || len(s.Points) == 0 {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// clone returns a deep copy, so callers can hold a snapshot while the
// engine keeps appending.
func (s *Stroke) clone() Stroke {
	c := *s
	c.Points = make([]Point, len(s.Points))
	copy(c.Points, s.Points)
	return c
}
