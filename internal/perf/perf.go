// Package perf observes pipeline timing and degrades render quality to
// keep latency bounded on weak hardware.
package perf

import (
	"sync"
	"time"
)

// Tier is a discrete quality level. Two coarse tiers, time-gated, keep
// the behavior predictable and testable.
type Tier int

const (
	// TierNormal renders at full pixel density with visual effects.
	TierNormal Tier = iota
	// TierReduced caps pixel density and disables expensive effects.
	TierReduced
)

// String returns the tier name used in diagnostics.
func (t Tier) String() string {
	if t == TierReduced {
		return "reduced"
	}
	return "normal"
}

// Controller defaults.
const (
	// DefaultFPSFloor is the render rate below which conditions count
	// as bad.
	DefaultFPSFloor = 24.0
	// DefaultLatencyCeiling is the detection latency above which
	// conditions count as bad.
	DefaultLatencyCeiling = 120 * time.Millisecond
	// DefaultDegradeAfter is how long conditions must stay bad before
	// quality drops.
	DefaultDegradeAfter = 500 * time.Millisecond
	// ReducedPixelRatio is the density cap applied in TierReduced.
	ReducedPixelRatio = 0.6

	// meterAlpha is the smoothing coefficient for the rolling meters.
	meterAlpha = 0.15
)

// Config holds controller thresholds.
type Config struct {
	FPSFloor       float64
	LatencyCeiling time.Duration
	DegradeAfter   time.Duration
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		FPSFloor:       DefaultFPSFloor,
		LatencyCeiling: DefaultLatencyCeiling,
		DegradeAfter:   DefaultDegradeAfter,
	}
}

// Stats is a read-only snapshot for diagnostics.
type Stats struct {
	RenderFPS        float64       `json:"renderFps"`
	DetectionFPS     float64       `json:"detectionFps"`
	DetectionLatency time.Duration `json:"detectionLatencyNs"`
	Tier             string        `json:"tier"`
	BadFor           time.Duration `json:"badForNs"`
}

// meter is a rolling exponential average.
type meter struct {
	value       float64
	initialized bool
}

func (m *meter) observe(x float64) {
	if !m.initialized {
		m.value = x
		m.initialized = true
		return
	}
	m.value += (x - m.value) * meterAlpha
}

// Controller tracks rolling render frame rate and detection latency
// and flips between the two quality tiers with hysteresis.
//
// Degradation requires the bad condition to persist for DegradeAfter.
// Restoration requires the bad-duration timer to drain fully back to
// zero: good ticks subtract elapsed time rather than resetting it, so
// a single good frame after a long bad spell does not flap the tier.
type Controller struct {
	mu     sync.Mutex
	config Config

	renderRate  meter
	detectRate  meter
	detectLat   meter
	lastRender  time.Time
	lastDetect  time.Time
	lastEval    time.Time
	badFor      time.Duration
	tier        Tier
	tierChanged func(Tier)
}

// NewController creates a controller in TierNormal.
func NewController(config Config) *Controller {
	if config.FPSFloor <= 0 {
		config.FPSFloor = DefaultFPSFloor
	}
	if config.LatencyCeiling <= 0 {
		config.LatencyCeiling = DefaultLatencyCeiling
	}
	if config.DegradeAfter <= 0 {
		config.DegradeAfter = DefaultDegradeAfter
	}
	return &Controller{config: config}
}

// OnTierChange registers a callback invoked whenever the tier flips.
// The callback runs outside the controller's lock, so it may query the
// controller.
func (c *Controller) OnTierChange(fn func(Tier)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tierChanged = fn
}

// ObserveRender records one render tick at the given time.
func (c *Controller) ObserveRender(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastRender.IsZero() {
		if dt := now.Sub(c.lastRender).Seconds(); dt > 0 {
			c.renderRate.observe(1.0 / dt)
		}
	}
	c.lastRender = now
}

// ObserveDetection records one detection tick and its latency.
func (c *Controller) ObserveDetection(now time.Time, latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastDetect.IsZero() {
		if dt := now.Sub(c.lastDetect).Seconds(); dt > 0 {
			c.detectRate.observe(1.0 / dt)
		}
	}
	c.lastDetect = now
	c.detectLat.observe(float64(latency))
}

// Evaluate advances the tier state machine. Called once per render
// tick; returns the current tier.
func (c *Controller) Evaluate(now time.Time) Tier {
	c.mu.Lock()

	if c.lastEval.IsZero() {
		c.lastEval = now
		tier := c.tier
		c.mu.Unlock()
		return tier
	}
	dt := now.Sub(c.lastEval)
	if dt < 0 {
		dt = 0
	}
	c.lastEval = now

	bad := false
	if c.renderRate.initialized && c.renderRate.value < c.config.FPSFloor {
		bad = true
	}
	if c.detectLat.initialized && time.Duration(c.detectLat.value) > c.config.LatencyCeiling {
		bad = true
	}

	if bad {
		c.badFor += dt
	} else if c.badFor > 0 {
		c.badFor -= dt
		if c.badFor < 0 {
			c.badFor = 0
		}
	}

	prev := c.tier
	switch c.tier {
	case TierNormal:
		if c.badFor >= c.config.DegradeAfter {
			c.tier = TierReduced
		}
	case TierReduced:
		if c.badFor == 0 {
			c.tier = TierNormal
		}
	}

	tier := c.tier
	var notify func(Tier)
	if tier != prev {
		notify = c.tierChanged
	}
	c.mu.Unlock()

	// The callback fires after the lock is released so it can call
	// back into the controller without deadlocking.
	if notify != nil {
		notify(tier)
	}
	return tier
}

// Tier returns the current quality tier.
func (c *Controller) Tier() Tier {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tier
}

// PixelRatio returns the density cap for the current tier.
func (c *Controller) PixelRatio() float64 {
	if c.Tier() == TierReduced {
		return ReducedPixelRatio
	}
	return 1.0
}

// Effects reports whether expensive visual embellishments are allowed.
func (c *Controller) Effects() bool {
	return c.Tier() == TierNormal
}

// Snapshot returns current metrics for the diagnostic surfaces.
func (c *Controller) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		RenderFPS:        c.renderRate.value,
		DetectionFPS:     c.detectRate.value,
		DetectionLatency: time.Duration(c.detectLat.value),
		Tier:             c.tier.String(),
		BadFor:           c.badFor,
	}
}
