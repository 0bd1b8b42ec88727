package pointer

import (
	"math"
	"time"

	"github.com/ayusman/rangoli/internal/detector"
	"github.com/ayusman/rangoli/internal/filter"
)

// Tracker tuning shared across modes.
const (
	// confidenceDecay multiplies the held confidence on every tick the
	// hand is missing, so a one-frame dropout does not abort a stroke.
	confidenceDecay = 0.7
	// presenceFloor is the decayed confidence below which the hand is
	// declared gone.
	presenceFloor = 0.15
	// pressFullFraction is the share of the pinch-enter ratio at which
	// the press scalar saturates at 1.
	pressFullFraction = 0.25
)

// Tracker is the gesture/interaction state machine. It consumes raw
// detections once per tick, filters the tracked points, derives pinch
// and pen state, and produces one State snapshot.
//
// A Tracker is owned by the detection loop; Advance must not be called
// concurrently.
type Tracker struct {
	mode    Mode
	profile Profile
	mirror  bool

	tip   *filter.PointFilter
	thumb *filter.PointFilter

	state    State
	pinching bool

	lastSeen   time.Time
	hasSeen    bool
	anchor     Point
	anchorTime time.Time
	hasAnchor  bool
}

// NewTracker creates a tracker for the given mode. With mirror set,
// landmark X coordinates are flipped for a front-facing camera.
func NewTracker(mode Mode, mirror bool) *Tracker {
	t := &Tracker{mirror: mirror}
	t.applyMode(mode)
	return t
}

// Mode returns the active mode.
func (t *Tracker) Mode() Mode {
	return t.mode
}

// SetMode switches the tuning profile. Filter state is kept so the
// cursor does not jump when the mode changes mid-session.
func (t *Tracker) SetMode(mode Mode) {
	t.applyMode(mode)
}

func (t *Tracker) applyMode(mode Mode) {
	t.mode = mode
	t.profile = mode.Profile()
	if t.tip == nil {
		t.tip = filter.NewPointFilter(t.profile.MinCutoff, t.profile.Beta)
		t.thumb = filter.NewPointFilter(t.profile.MinCutoff, t.profile.Beta)
	} else {
		t.tip.SetParams(t.profile.MinCutoff, t.profile.Beta)
		t.thumb.SetParams(t.profile.MinCutoff, t.profile.Beta)
	}
}

// SetProfile overrides the active profile, e.g. with stored per-mode
// tuning. Zero-valued fields keep the mode defaults.
func (t *Tracker) SetProfile(p Profile) {
	if p.MinCutoff > 0 {
		t.profile.MinCutoff = p.MinCutoff
	}
	if p.Beta > 0 {
		t.profile.Beta = p.Beta
	}
	if p.PinchEnter > 0 {
		t.profile.PinchEnter = p.PinchEnter
	}
	if p.PinchRelease > 0 {
		t.profile.PinchRelease = p.PinchRelease
	}
	if p.ConfidenceFloor > 0 {
		t.profile.ConfidenceFloor = p.ConfidenceFloor
	}
	if p.StableRadius > 0 {
		t.profile.StableRadius = p.StableRadius
	}
	if p.StableAfter > 0 {
		t.profile.StableAfter = p.StableAfter
	}
	t.tip.SetParams(t.profile.MinCutoff, t.profile.Beta)
	t.thumb.SetParams(t.profile.MinCutoff, t.profile.Beta)
}

// Profile returns the active (possibly overridden) profile.
func (t *Tracker) Profile() Profile {
	return t.profile
}

// State returns the last published snapshot.
func (t *Tracker) State() State {
	return t.state
}

// Advance consumes the detections for one tick and returns the new
// snapshot. With no hand in view, position fields keep their last
// values while confidence decays; pen-up is forced the instant
// confidence falls below the floor.
func (t *Tracker) Advance(hands []detector.HandLandmarks, now time.Time) State {
	hand := canonicalHand(hands)
	if hand == nil {
		return t.advanceMissing(now)
	}

	h := *hand
	if t.mirror {
		h = h.Mirror()
	}

	st := t.state
	st.RawTip = Point{X: h.Points[detector.IndexTip].X, Y: h.Points[detector.IndexTip].Y}
	st.RawThumb = Point{X: h.Points[detector.ThumbTip].X, Y: h.Points[detector.ThumbTip].Y}

	st.Tip.X, st.Tip.Y = t.tip.Filter(st.RawTip.X, st.RawTip.Y, now)
	st.Thumb.X, st.Thumb.Y = t.thumb.Filter(st.RawThumb.X, st.RawThumb.Y, now)

	scale := h.Scale()
	if scale > 1e-9 {
		st.HandScale = scale
	}
	st.Confidence = h.Score
	st.HandPresent = true
	st.NoHandFor = 0

	// Pinch ratio over the raw points so gesture onset is never
	// delayed by filter lag; enter/release hysteresis absorbs the
	// jitter instead.
	ratio := 1.0
	if st.HandScale > 1e-9 {
		dx := st.RawTip.X - st.RawThumb.X
		dy := st.RawTip.Y - st.RawThumb.Y
		ratio = dist(dx, dy) / st.HandScale
	}
	st.PinchRatio = ratio

	if t.pinching {
		if ratio > t.profile.PinchRelease {
			t.pinching = false
		}
	} else if ratio < t.profile.PinchEnter {
		t.pinching = true
	}
	st.Pinching = t.pinching

	// Pen-down requires the raw pinch and the confidence floor to hold
	// at the same time. Both directions take effect on this very tick;
	// a confidence drop never waits out a timeout.
	st.PenDown = t.pinching && st.Confidence >= t.profile.ConfidenceFloor

	st.Press = t.press(ratio)
	st.Stable = t.updateStability(st.Tip, now)
	st.Predicted = t.predict(st.Tip)

	st.Timestamp = now
	st.Seq++

	t.lastSeen = now
	t.hasSeen = true
	t.state = st
	return st
}

// advanceMissing handles a tick with no detected hand.
func (t *Tracker) advanceMissing(now time.Time) State {
	st := t.state

	st.Confidence *= confidenceDecay
	if st.Confidence < presenceFloor {
		st.Confidence = 0
		st.HandPresent = false
	}

	if t.hasSeen {
		st.NoHandFor = now.Sub(t.lastSeen)
	}

	// Position fields keep their last values; a snapped-to-origin
	// cursor is worse than a briefly frozen one.
	if st.Confidence < t.profile.ConfidenceFloor {
		st.PenDown = false
		t.pinching = false
		st.Pinching = false
		st.Press = 0
	}

	st.Stable = false
	t.hasAnchor = false

	st.Timestamp = now
	st.Seq++
	t.state = st
	return st
}

// Reset returns the tracker to the no-hand state with cleared filters.
func (t *Tracker) Reset() {
	t.tip.Reset()
	t.thumb.Reset()
	t.pinching = false
	t.hasSeen = false
	t.hasAnchor = false
	t.state = State{}
}

// press maps the pinch ratio to a [0,1] press scalar: 0 at the enter
// threshold, saturating at 1 when the fingertips fully meet.
func (t *Tracker) press(ratio float64) float64 {
	enter := t.profile.PinchEnter
	full := enter * pressFullFraction
	if enter <= full {
		return 0
	}
	p := (enter - ratio) / (enter - full)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// updateStability tracks whether the filtered pointer has stayed
// within StableRadius of an anchor point for StableAfter. Movement
// beyond the radius re-anchors the window.
func (t *Tracker) updateStability(p Point, now time.Time) bool {
	if !t.hasAnchor || dist(p.X-t.anchor.X, p.Y-t.anchor.Y) > t.profile.StableRadius {
		t.anchor = p
		t.anchorTime = now
		t.hasAnchor = true
		return false
	}
	return now.Sub(t.anchorTime) >= t.profile.StableAfter
}

// predict extrapolates the filtered tip along the current filtered
// velocity, clamped to the tracking surface.
func (t *Tracker) predict(tip Point) Point {
	horizon := t.profile.PredictHorizon.Seconds()
	if horizon <= 0 {
		return tip
	}
	vx, vy := t.tip.Velocity()
	return Point{
		X: clamp01(tip.X + vx*horizon),
		Y: clamp01(tip.Y + vy*horizon),
	}
}

// canonicalHand picks the single hand the pipeline tracks: the first
// detection, unless a later one has a strictly higher score.
func canonicalHand(hands []detector.HandLandmarks) *detector.HandLandmarks {
	if len(hands) == 0 {
		return nil
	}
	best := &hands[0]
	for i := 1; i < len(hands); i++ {
		if hands[i].Score > best.Score {
			best = &hands[i]
		}
	}
	return best
}

func dist(dx, dy float64) float64 {
	return math.Sqrt(dx*dx + dy*dy)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
