package filter

import (
	"math"
	"testing"
	"time"
)

func TestOneEuro_FirstSampleNoJump(t *testing.T) {
	f := NewOneEuro(1.0, 0.007)

	now := time.Now()
	out := f.Filter(0.73, now)

	if out != 0.73 {
		t.Errorf("first sample should pass through unchanged, got %f", out)
	}
	if f.Velocity() != 0 {
		t.Errorf("velocity after first sample should be 0, got %f", f.Velocity())
	}
}

func TestOneEuro_ConvergesToConstant(t *testing.T) {
	f := NewOneEuro(1.0, 0.007)

	now := time.Now()
	// Start somewhere else, then hold a constant input.
	f.Filter(0.0, now)

	var out float64
	for i := 1; i <= 200; i++ {
		now = now.Add(33 * time.Millisecond)
		out = f.Filter(0.5, now)
	}

	if math.Abs(out-0.5) > 1e-3 {
		t.Errorf("expected convergence to 0.5, got %f", out)
	}
}

func TestOneEuro_RejectsNonIncreasingTimestamp(t *testing.T) {
	f := NewOneEuro(1.0, 0.007)

	now := time.Now()
	f.Filter(0.2, now)
	second := f.Filter(0.4, now.Add(33*time.Millisecond))

	// Same timestamp: rejected, previous output reused.
	out := f.Filter(0.9, now.Add(33*time.Millisecond))
	if out != second {
		t.Errorf("same-timestamp sample should reuse previous output %f, got %f", second, out)
	}

	// Older timestamp: also rejected.
	out = f.Filter(0.9, now)
	if out != second {
		t.Errorf("older-timestamp sample should reuse previous output %f, got %f", second, out)
	}
}

func TestOneEuro_SmoothsJitter(t *testing.T) {
	f := NewOneEuro(1.0, 0.0)

	now := time.Now()
	f.Filter(0.5, now)

	// Alternate tiny jitter around 0.5 and verify the output stays
	// closer to the center than the raw input does.
	var maxDeviation float64
	for i := 1; i <= 100; i++ {
		now = now.Add(33 * time.Millisecond)
		raw := 0.5
		if i%2 == 0 {
			raw += 0.01
		} else {
			raw -= 0.01
		}
		out := f.Filter(raw, now)
		if d := math.Abs(out - 0.5); d > maxDeviation && i > 10 {
			maxDeviation = d
		}
	}

	if maxDeviation >= 0.01 {
		t.Errorf("filtered jitter %f should be smaller than raw jitter 0.01", maxDeviation)
	}
}

func TestOneEuro_FastMotionTracksCloser(t *testing.T) {
	slow := NewOneEuro(1.0, 0.0)   // no speed adaptation
	fast := NewOneEuro(1.0, 100.0) // strong speed adaptation

	now := time.Now()
	slow.Filter(0, now)
	fast.Filter(0, now)

	// A fast ramp: the speed-adaptive filter should lag less.
	var slowOut, fastOut float64
	for i := 1; i <= 30; i++ {
		now = now.Add(33 * time.Millisecond)
		x := float64(i) * 0.03
		slowOut = slow.Filter(x, now)
		fastOut = fast.Filter(x, now)
	}

	target := 30 * 0.03
	if math.Abs(fastOut-target) >= math.Abs(slowOut-target) {
		t.Errorf("speed-adaptive filter should lag less: fast=%f slow=%f target=%f",
			fastOut, slowOut, target)
	}
}

func TestOneEuro_Reset(t *testing.T) {
	f := NewOneEuro(1.0, 0.007)

	now := time.Now()
	f.Filter(0.9, now)
	f.Filter(0.8, now.Add(33*time.Millisecond))
	f.Reset()

	// After reset the next sample re-initializes without smoothing.
	out := f.Filter(0.1, now.Add(66*time.Millisecond))
	if out != 0.1 {
		t.Errorf("first sample after reset should pass through, got %f", out)
	}
}

func TestPointFilter_Axes(t *testing.T) {
	p := NewPointFilter(1.0, 0.007)

	now := time.Now()
	x, y := p.Filter(0.3, 0.7, now)
	if x != 0.3 || y != 0.7 {
		t.Errorf("first point should pass through, got (%f, %f)", x, y)
	}

	for i := 1; i <= 100; i++ {
		now = now.Add(33 * time.Millisecond)
		x, y = p.Filter(0.6, 0.2, now)
	}

	if math.Abs(x-0.6) > 1e-2 || math.Abs(y-0.2) > 1e-2 {
		t.Errorf("point filter should converge per-axis, got (%f, %f)", x, y)
	}
}
