package mapper

import (
	"math"
	"testing"
)

func TestMapper_RoundTrip(t *testing.T) {
	m := New(Config{DisplayWidth: 640, DisplayHeight: 480, PixelRatio: 2.0})

	points := [][2]float64{
		{0, 0},
		{1, 1},
		{0.5, 0.5},
		{0.123, 0.987},
		{0.333333, 0.666667},
	}

	for _, p := range points {
		px, py := m.ToDevice(p[0], p[1])
		nx, ny := m.FromDevice(px, py)
		if math.Abs(nx-p[0]) > 1e-9 || math.Abs(ny-p[1]) > 1e-9 {
			t.Errorf("round trip (%f, %f) -> (%f, %f)", p[0], p[1], nx, ny)
		}
	}
}

func TestMapper_PixelRatio(t *testing.T) {
	m := New(Config{DisplayWidth: 640, DisplayHeight: 480, PixelRatio: 1.5})

	w, h := m.DeviceSize()
	if w != 960 || h != 720 {
		t.Errorf("device size = %dx%d, want 960x720", w, h)
	}

	px, py := m.ToDevice(1, 1)
	if px != 960 || py != 720 {
		t.Errorf("ToDevice(1,1) = (%f, %f), want (960, 720)", px, py)
	}
}

func TestMapper_ReconfigureIdempotent(t *testing.T) {
	cfg := Config{DisplayWidth: 800, DisplayHeight: 600, PixelRatio: 1.0}
	m := New(cfg)

	before, _ := m.ToDevice(0.5, 0.5)
	m.Reconfigure(cfg)
	m.Reconfigure(cfg)
	after, _ := m.ToDevice(0.5, 0.5)

	if before != after {
		t.Errorf("repeated reconfigure changed mapping: %f != %f", before, after)
	}
}

func TestMapper_ReconfigureTakesEffect(t *testing.T) {
	m := New(Config{DisplayWidth: 640, DisplayHeight: 480, PixelRatio: 1.0})

	m.Reconfigure(Config{DisplayWidth: 1280, DisplayHeight: 960, PixelRatio: 1.0})
	px, py := m.ToDevice(1, 1)
	if px != 1280 || py != 960 {
		t.Errorf("ToDevice after resize = (%f, %f), want (1280, 960)", px, py)
	}
}

func TestMapper_IgnoresInvalidConfig(t *testing.T) {
	m := New(Config{DisplayWidth: 640, DisplayHeight: 480, PixelRatio: 1.0})

	m.Reconfigure(Config{DisplayWidth: 0, DisplayHeight: 480, PixelRatio: 1.0})
	w, h := m.DeviceSize()
	if w != 640 || h != 480 {
		t.Errorf("invalid reconfigure should be ignored, got %dx%d", w, h)
	}
}

func TestMapper_ZeroPixelRatioDefaults(t *testing.T) {
	m := New(Config{DisplayWidth: 640, DisplayHeight: 480})

	w, h := m.DeviceSize()
	if w != 640 || h != 480 {
		t.Errorf("zero pixel ratio should default to 1.0, got %dx%d", w, h)
	}
}
