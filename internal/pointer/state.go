package pointer

import "time"

// Point is a normalized [0,1] position on the tracking surface.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// State is the authoritative per-tick pointer snapshot. The tracker
// writes exactly one State per detection tick; readers treat it as
// immutable.
type State struct {
	// Tip is the filtered fingertip position; RawTip is the unfiltered
	// detector output for the same tick (diagnostics only).
	Tip    Point `json:"tip"`
	RawTip Point `json:"rawTip"`

	// Thumb is the filtered secondary contact point.
	Thumb    Point `json:"thumb"`
	RawThumb Point `json:"rawThumb"`

	// Predicted extrapolates Tip a short horizon ahead along the
	// current velocity, for latency-hiding cursor display.
	Predicted Point `json:"predicted"`

	// HandScale is the apparent hand size used to normalize distance
	// thresholds.
	HandScale float64 `json:"handScale"`

	// HandPresent reports whether a hand is considered tracked. It
	// survives brief dropouts via confidence decay.
	HandPresent bool `json:"handPresent"`

	// PenDown is the debounced drawing gesture: raw pinch and
	// confidence at or above the floor, simultaneously.
	PenDown bool `json:"penDown"`

	// Pinching is the raw pre-debounce pinch signal.
	Pinching bool `json:"pinching"`

	// PinchRatio is the fingertip gap divided by hand scale.
	PinchRatio float64 `json:"pinchRatio"`

	// Confidence is the detector confidence, decayed smoothly across
	// missed-hand ticks.
	Confidence float64 `json:"confidence"`

	// Press maps the pinch depth to [0,1]; 0 at the pinch threshold,
	// 1 when the fingertips fully meet.
	Press float64 `json:"press"`

	// Stable reports that the filtered pointer has held within a small
	// radius long enough for hover interactions.
	Stable bool `json:"stable"`

	// NoHandFor is how long the hand has been missing. Zero while
	// tracked. Callers surface a "show your hand" affordance when this
	// grows large; the tracker itself keeps the last known position.
	NoHandFor time.Duration `json:"noHandForNs"`

	// Timestamp is the detection tick time; Seq increments by one per
	// published snapshot.
	Timestamp time.Time `json:"timestamp"`
	Seq       uint64    `json:"seq"`
}
