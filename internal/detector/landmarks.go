// Package detector provides hand landmark detection for the tracking pipeline.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a landmark position. X and Y are normalized to [0,1] in
// frame coordinates; Z is a rough depth estimate relative to the wrist.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one detected hand: 21 ordered landmarks plus the
// detector's overall confidence. Treated as untrusted, arbitrarily
// noisy input by everything downstream.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Scale estimates the hand's apparent size as the planar distance from
// the wrist to the middle finger knuckle. Distance thresholds divided
// by this value become invariant to camera distance and resolution.
func (h *HandLandmarks) Scale() float64 {
	if h == nil {
		return 0
	}
	dx := h.Points[MiddleMCP].X - h.Points[Wrist].X
	dy := h.Points[MiddleMCP].Y - h.Points[Wrist].Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Mirror returns a copy with X coordinates flipped around the frame
// center, so a front-facing camera maps the user's right hand to the
// right side of the drawing surface.
func (h *HandLandmarks) Mirror() HandLandmarks {
	m := *h
	for i := range m.Points {
		m.Points[i].X = 1.0 - m.Points[i].X
	}
	switch m.Handedness {
	case "Left":
		m.Handedness = "Right"
	case "Right":
		m.Handedness = "Left"
	}
	return m
}

// PinchDistance is the planar distance between the index and thumb
// tips, the raw signal behind the pinch gesture.
func (h *HandLandmarks) PinchDistance() float64 {
	dx := h.Points[IndexTip].X - h.Points[ThumbTip].X
	dy := h.Points[IndexTip].Y - h.Points[ThumbTip].Y
	return math.Sqrt(dx*dx + dy*dy)
}
