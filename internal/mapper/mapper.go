// Package mapper converts between normalized tracking coordinates and
// device-pixel drawing surface coordinates.
package mapper

import "sync"

// Config describes the drawing surface geometry. Device size is the
// backing pixel size; display size is the layout size the surface is
// shown at. PixelRatio ties the two together: device = display * ratio.
type Config struct {
	DisplayWidth  int
	DisplayHeight int
	PixelRatio    float64
}

// DefaultConfig returns a 640x480 surface at full pixel density.
func DefaultConfig() Config {
	return Config{
		DisplayWidth:  640,
		DisplayHeight: 480,
		PixelRatio:    1.0,
	}
}

// Mapper is a pure linear scale between the normalized [0,1] tracking
// space and device pixels. No rotation or skew. Reconfiguration is
// idempotent and only affects subsequent mapping calls.
type Mapper struct {
	mu     sync.RWMutex
	config Config
}

// New creates a Mapper with the given configuration.
func New(config Config) *Mapper {
	m := &Mapper{}
	m.Reconfigure(config)
	return m
}

// Reconfigure replaces the surface geometry. Call on resize or when
// the pixel-density cap changes. Invalid dimensions are ignored.
func (m *Mapper) Reconfigure(config Config) {
	if config.DisplayWidth <= 0 || config.DisplayHeight <= 0 {
		return
	}
	if config.PixelRatio <= 0 {
		config.PixelRatio = 1.0
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
}

// Config returns the current configuration.
func (m *Mapper) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// DeviceSize returns the backing pixel dimensions of the surface.
func (m *Mapper) DeviceSize() (int, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w := float64(m.config.DisplayWidth) * m.config.PixelRatio
	h := float64(m.config.DisplayHeight) * m.config.PixelRatio
	return int(w + 0.5), int(h + 0.5)
}

// ToDevice maps a normalized point to device pixels.
func (m *Mapper) ToDevice(nx, ny float64) (float64, float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w := float64(m.config.DisplayWidth) * m.config.PixelRatio
	h := float64(m.config.DisplayHeight) * m.config.PixelRatio
	return nx * w, ny * h
}

// FromDevice maps a device-pixel point back to normalized coordinates.
func (m *Mapper) FromDevice(px, py float64) (float64, float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w := float64(m.config.DisplayWidth) * m.config.PixelRatio
	h := float64(m.config.DisplayHeight) * m.config.PixelRatio
	if w == 0 || h == 0 {
		return 0, 0
	}
	return px / w, py / h
}
