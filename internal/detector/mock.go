package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to script a sequence of detection results.
type MockDetector struct {
	hands [][]HandLandmarks
	index int
	hold  bool
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets a single result returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = [][]HandLandmarks{hands}
	m.index = 0
	m.hold = true
}

// SetSequence sets a per-call sequence of results. After the sequence
// is exhausted, Detect keeps returning the final entry.
func (m *MockDetector) SetSequence(seq [][]HandLandmarks) {
	m.hands = seq
	m.index = 0
	m.hold = false
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.hands) == 0 {
		return nil, nil
	}
	result := m.hands[m.index]
	if !m.hold && m.index < len(m.hands)-1 {
		m.index++
	}
	return result, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PinchHandLandmarks returns a preset hand with the index and thumb
// tips touching, as seen mid-pinch. The wrist-to-knuckle span is 0.2
// so the pinch ratio is far below any sensible threshold.
func PinchHandLandmarks(score float64) HandLandmarks {
	h := openHandBase(score)

	// Bring thumb and index tips together near the hand center.
	h.Points[IndexTip] = Point3D{X: 0.52, Y: 0.48, Z: -0.02}
	h.Points[ThumbTip] = Point3D{X: 0.525, Y: 0.485, Z: -0.02}
	h.Points[IndexDIP] = Point3D{X: 0.53, Y: 0.52, Z: -0.01}
	h.Points[ThumbIP] = Point3D{X: 0.54, Y: 0.53, Z: -0.01}

	return h
}

// OpenHandLandmarks returns a preset hand with all fingers spread, as
// seen while hovering without pinching.
func OpenHandLandmarks(score float64) HandLandmarks {
	return openHandBase(score)
}

// openHandBase builds a plausible spread hand around (0.5, 0.6).
func openHandBase(score float64) HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      score,
	}

	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side.
	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	h.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	h.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	h.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward.
	h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	h.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	h.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	h.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle finger extended upward.
	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.61, Z: 0.0}
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	h.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	h.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring finger extended upward.
	h.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	h.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	h.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	h.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky finger extended upward.
	h.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	h.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	h.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	h.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return h
}
