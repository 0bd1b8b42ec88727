package ink

import (
	"errors"
	"image"
	"image/color"
	"sync"

	"gocv.io/x/gocv"
)

// Layer names the two drawing surfaces of a Canvas.
type Layer int

const (
	// LayerInk holds committed and in-progress ink. It is only ever
	// appended to, and repainted from scratch on the rare structural
	// events (commit, undo, redo, clear, resize).
	LayerInk Layer = iota
	// LayerOverlay holds the cursor and other per-frame decorations.
	// It is cleared and redrawn every render tick.
	LayerOverlay
)

// Canvas is a pair of same-sized BGR surfaces the renderer and game
// modes paint onto. Black pixels count as transparent when the canvas
// is composited over the camera preview.
type Canvas struct {
	mu      sync.Mutex
	ink     gocv.Mat
	overlay gocv.Mat
	width   int
	height  int
}

// NewCanvas creates a canvas with the given device-pixel size.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		ink:     gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3),
		overlay: gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3),
		width:   width,
		height:  height,
	}
}

// Size returns the device-pixel dimensions.
func (c *Canvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Resize recreates both surfaces at a new size. Returns true if the
// size actually changed; the caller must then trigger a full repaint.
// Already-rendered pixels are not rescaled.
func (c *Canvas) Resize(width, height int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if width <= 0 || height <= 0 || (width == c.width && height == c.height) {
		return false
	}

	c.ink.Close()
	c.overlay.Close()
	c.ink = gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	c.overlay = gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	c.width = width
	c.height = height
	return true
}

// Clear fills a layer with transparent black.
func (c *Canvas) Clear(layer Layer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.layer(layer)
	m.SetTo(gocv.NewScalar(0, 0, 0, 0))
}

// Line draws a line segment on a layer.
func (c *Canvas) Line(layer Layer, p1, p2 image.Point, col color.RGBA, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.layer(layer)
	gocv.Line(m, p1, p2, col, thickness)
}

// Circle draws a circle on a layer. A negative thickness fills it.
func (c *Canvas) Circle(layer Layer, center image.Point, radius int, col color.RGBA, thickness int) {
	if radius < 1 {
		radius = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.layer(layer)
	gocv.Circle(m, center, radius, col, thickness)
}

// PutText draws small diagnostic text on a layer.
func (c *Canvas) PutText(layer Layer, text string, org image.Point, col color.RGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.layer(layer)
	gocv.PutText(m, text, org, gocv.FontHersheySimplex, 0.5, col, 1)
}

// Composite paints the ink layer and then the overlay layer onto dst,
// which must have the canvas's size. Black source pixels are treated
// as transparent.
func (c *Canvas) Composite(dst *gocv.Mat) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if dst == nil || dst.Cols() != c.width || dst.Rows() != c.height {
		return errors.New("composite target size mismatch")
	}

	if err := blitNonBlack(c.ink, dst); err != nil {
		return err
	}
	return blitNonBlack(c.overlay, dst)
}

// EncodePNG returns the ink layer (committed drawing) as PNG bytes.
func (c *Canvas) EncodePNG() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf, err := gocv.IMEncode(".png", c.ink)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// InkNonZero estimates how many ink-layer pixels carry paint, for the
// diagnostic overlay's memory/coverage readout.
func (c *Canvas) InkNonZero() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(c.ink, &gray, gocv.ColorBGRToGray)
	return gocv.CountNonZero(gray)
}

// Close releases both surfaces.
func (c *Canvas) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ink.Close()
	c.overlay.Close()
}

func (c *Canvas) layer(layer Layer) *gocv.Mat {
	if layer == LayerOverlay {
		return &c.overlay
	}
	return &c.ink
}

// blitNonBlack copies the non-black pixels of src over dst.
func blitNonBlack(src gocv.Mat, dst *gocv.Mat) error {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(gray, &mask, 0, 255, gocv.ThresholdBinary)

	src.CopyToWithMask(dst, mask)
	return nil
}
