// Package pointer turns raw hand detections into a filtered pen cursor
// with debounced gesture state.
package pointer

import (
	"fmt"
	"time"
)

// Mode selects a tuning profile for the tracker. Different activities
// tolerate different trade-offs between responsiveness and jitter, so
// each mode carries its own filter cutoffs and pinch thresholds.
type Mode int

const (
	// ModeFreePaint favors responsiveness for freehand drawing.
	ModeFreePaint Mode = iota
	// ModeTracing favors smoothness for following a guide path.
	ModeTracing
	// ModeSelection favors stability for hover-based picking.
	ModeSelection
)

// String returns the mode name used in settings and the API.
func (m Mode) String() string {
	switch m {
	case ModeFreePaint:
		return "free-paint"
	case ModeTracing:
		return "tracing"
	case ModeSelection:
		return "selection"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a mode name back to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "free-paint":
		return ModeFreePaint, nil
	case "tracing":
		return ModeTracing, nil
	case "selection":
		return ModeSelection, nil
	default:
		return ModeFreePaint, fmt.Errorf("unknown mode %q", s)
	}
}

// Modes lists all selectable modes.
func Modes() []Mode {
	return []Mode{ModeFreePaint, ModeTracing, ModeSelection}
}

// Profile holds the per-mode tuning of the tracker.
type Profile struct {
	// MinCutoff and Beta parameterize the temporal filter: the cutoff
	// frequency applied when still, and how fast it rises with speed.
	MinCutoff float64
	Beta      float64

	// PinchEnter and PinchRelease are pinch-ratio thresholds as
	// fractions of hand scale. Enter must be below Release so the raw
	// pinch signal has hysteresis and does not flicker on the boundary.
	PinchEnter   float64
	PinchRelease float64

	// ConfidenceFloor is the minimum detector confidence for pen-down.
	// Dropping below it forces pen-up immediately.
	ConfidenceFloor float64

	// StableRadius is the normalized movement radius within which the
	// pointer counts as holding still; StableAfter is how long it must
	// hold before being flagged stable.
	StableRadius float64
	StableAfter  time.Duration

	// PredictHorizon is how far ahead the predicted point extrapolates
	// along the current velocity.
	PredictHorizon time.Duration
}

// Profile returns the tuning for the mode. The switch is exhaustive
// over all declared modes.
func (m Mode) Profile() Profile {
	switch m {
	case ModeTracing:
		return Profile{
			MinCutoff:       0.8,
			Beta:            0.004,
			PinchEnter:      0.40,
			PinchRelease:    0.55,
			ConfidenceFloor: 0.5,
			StableRadius:    0.015,
			StableAfter:     300 * time.Millisecond,
			PredictHorizon:  40 * time.Millisecond,
		}
	case ModeSelection:
		return Profile{
			MinCutoff:       0.6,
			Beta:            0.002,
			PinchEnter:      0.35,
			PinchRelease:    0.55,
			ConfidenceFloor: 0.5,
			StableRadius:    0.025,
			StableAfter:     450 * time.Millisecond,
			PredictHorizon:  0,
		}
	default: // ModeFreePaint
		return Profile{
			MinCutoff:       1.0,
			Beta:            0.007,
			PinchEnter:      0.40,
			PinchRelease:    0.55,
			ConfidenceFloor: 0.5,
			StableRadius:    0.015,
			StableAfter:     350 * time.Millisecond,
			PredictHorizon:  50 * time.Millisecond,
		}
	}
}
