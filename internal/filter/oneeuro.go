// Package filter provides temporal low-pass filtering for noisy landmark streams.
package filter

import (
	"math"
	"time"
)

// Default One Euro parameters, tuned for fingertip tracking at 15-30 Hz.
const (
	// DefaultMinCutoff is the cutoff frequency in Hz applied when the
	// signal is nearly still. Lower values kill more jitter.
	DefaultMinCutoff = 1.0
	// DefaultBeta scales the cutoff with estimated speed. Higher values
	// reduce lag behind fast movement.
	DefaultBeta = 0.007
	// DefaultDerivCutoff is the fixed cutoff used to smooth the
	// derivative estimate itself.
	DefaultDerivCutoff = 1.0
)

// lowPass is a single exponential smoothing stage.
type lowPass struct {
	value       float64
	initialized bool
}

// filter applies one smoothing step with the given coefficient.
func (l *lowPass) filter(x, alpha float64) float64 {
	if !l.initialized {
		l.value = x
		l.initialized = true
		return x
	}
	l.value = alpha*x + (1-alpha)*l.value
	return l.value
}

func (l *lowPass) reset() {
	l.value = 0
	l.initialized = false
}

// OneEuro filters a scalar signal with a speed-adaptive cutoff.
// When the signal is nearly still the cutoff stays at MinCutoff and
// jitter is suppressed; when the signal moves fast the cutoff rises
// with the estimated speed so the output does not trail behind.
type OneEuro struct {
	minCutoff   float64
	beta        float64
	derivCutoff float64

	position   lowPass
	derivative lowPass
	lastTime   time.Time
	lastValue  float64
	hasSample  bool
}

// NewOneEuro creates a filter with the given still-signal cutoff (Hz)
// and speed coefficient. Non-positive arguments fall back to defaults.
func NewOneEuro(minCutoff, beta float64) *OneEuro {
	if minCutoff <= 0 {
		minCutoff = DefaultMinCutoff
	}
	if beta < 0 {
		beta = DefaultBeta
	}
	return &OneEuro{
		minCutoff:   minCutoff,
		beta:        beta,
		derivCutoff: DefaultDerivCutoff,
	}
}

// SetParams replaces the cutoff parameters. Takes effect on the next
// sample; accumulated state is kept so switching profiles mid-stream
// does not cause a jump.
func (f *OneEuro) SetParams(minCutoff, beta float64) {
	if minCutoff > 0 {
		f.minCutoff = minCutoff
	}
	if beta >= 0 {
		f.beta = beta
	}
}

// alpha converts a cutoff frequency and a sample duration into an
// exponential smoothing coefficient.
func alpha(cutoff, dt float64) float64 {
	tau := 1.0 / (2 * math.Pi * cutoff)
	return 1.0 / (1.0 + tau/dt)
}

// Filter consumes one raw sample with its timestamp and returns the
// smoothed value.
//
// The first sample initializes the filter and is returned unchanged,
// so startup never produces a jump from zero. A timestamp older than
// or equal to the previous one is invalid input; the sample is
// rejected and the previous output returned.
func (f *OneEuro) Filter(x float64, t time.Time) float64 {
	if !f.hasSample {
		f.hasSample = true
		f.lastTime = t
		f.lastValue = f.position.filter(x, 1)
		f.derivative.filter(0, 1)
		return f.lastValue
	}

	dt := t.Sub(f.lastTime).Seconds()
	if dt <= 0 {
		return f.lastValue
	}
	f.lastTime = t

	rawDeriv := (x - f.position.value) / dt
	deriv := f.derivative.filter(rawDeriv, alpha(f.derivCutoff, dt))

	cutoff := f.minCutoff + f.beta*math.Abs(deriv)
	f.lastValue = f.position.filter(x, alpha(cutoff, dt))
	return f.lastValue
}

// Value returns the most recent output without consuming a sample.
func (f *OneEuro) Value() float64 {
	return f.lastValue
}

// Velocity returns the smoothed derivative estimate in units per
// second. Zero until at least two samples have been consumed.
func (f *OneEuro) Velocity() float64 {
	return f.derivative.value
}

// Reset clears all state so the next sample re-initializes the filter.
func (f *OneEuro) Reset() {
	f.position.reset()
	f.derivative.reset()
	f.lastValue = 0
	f.hasSample = false
	f.lastTime = time.Time{}
}
