package filter

import "time"

// PointFilter smooths a 2D point with an independent OneEuro instance
// per axis.
type PointFilter struct {
	x *OneEuro
	y *OneEuro
}

// NewPointFilter creates a point filter with shared parameters for
// both axes.
func NewPointFilter(minCutoff, beta float64) *PointFilter {
	return &PointFilter{
		x: NewOneEuro(minCutoff, beta),
		y: NewOneEuro(minCutoff, beta),
	}
}

// SetParams replaces the cutoff parameters on both axes.
func (p *PointFilter) SetParams(minCutoff, beta float64) {
	p.x.SetParams(minCutoff, beta)
	p.y.SetParams(minCutoff, beta)
}

// Filter consumes one raw point sample and returns the smoothed point.
func (p *PointFilter) Filter(x, y float64, t time.Time) (float64, float64) {
	return p.x.Filter(x, t), p.y.Filter(y, t)
}

// Value returns the most recent smoothed point.
func (p *PointFilter) Value() (float64, float64) {
	return p.x.Value(), p.y.Value()
}

// Velocity returns the smoothed velocity estimate in units per second.
func (p *PointFilter) Velocity() (float64, float64) {
	return p.x.Velocity(), p.y.Velocity()
}

// Reset clears both axes.
func (p *PointFilter) Reset() {
	p.x.Reset()
	p.y.Reset()
}
