package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ayusman/rangoli/internal/pointer"
)

// ProfileOverride holds stored tuning overrides for one interaction
// mode. Zero fields mean "use the mode default".
type ProfileOverride struct {
	Mode            string  `json:"mode"`
	MinCutoff       float64 `json:"minCutoff"`
	Beta            float64 `json:"beta"`
	PinchEnter      float64 `json:"pinchEnter"`
	PinchRelease    float64 `json:"pinchRelease"`
	ConfidenceFloor float64 `json:"confidenceFloor"`
}

// Apply merges the override into a mode's default profile. Zero fields
// leave the default untouched.
func (o *ProfileOverride) Apply(p pointer.Profile) pointer.Profile {
	if o.MinCutoff > 0 {
		p.MinCutoff = o.MinCutoff
	}
	if o.Beta > 0 {
		p.Beta = o.Beta
	}
	if o.PinchEnter > 0 {
		p.PinchEnter = o.PinchEnter
	}
	if o.PinchRelease > 0 {
		p.PinchRelease = o.PinchRelease
	}
	if o.ConfidenceFloor > 0 {
		p.ConfidenceFloor = o.ConfidenceFloor
	}
	return p
}

// ProfileRepository handles per-mode tuning override storage.
type ProfileRepository struct {
	store *Store
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(store *Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

// Get retrieves the stored override for a mode.
func (r *ProfileRepository) Get(mode pointer.Mode) (*ProfileOverride, error) {
	o := &ProfileOverride{}
	err := r.store.db.QueryRow(
		`SELECT mode, min_cutoff, beta, pinch_enter, pinch_release, confidence_floor
		 FROM profiles WHERE mode = ?`, mode.String(),
	).Scan(&o.Mode, &o.MinCutoff, &o.Beta, &o.PinchEnter, &o.PinchRelease, &o.ConfidenceFloor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile for %s: %w", mode, err)
	}
	return o, nil
}

// Save stores an override for a mode, replacing any existing one. The
// pinch band must stay ordered: a non-zero release at or below a
// non-zero enter threshold is rejected.
func (r *ProfileRepository) Save(mode pointer.Mode, o *ProfileOverride) error {
	if o.PinchEnter > 0 && o.PinchRelease > 0 && o.PinchRelease <= o.PinchEnter {
		return fmt.Errorf("pinch release %.3f must exceed enter %.3f", o.PinchRelease, o.PinchEnter)
	}

	_, err := r.store.db.Exec(
		`INSERT INTO profiles (mode, min_cutoff, beta, pinch_enter, pinch_release, confidence_floor, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(mode) DO UPDATE SET
			min_cutoff = excluded.min_cutoff,
			beta = excluded.beta,
			pinch_enter = excluded.pinch_enter,
			pinch_release = excluded.pinch_release,
			confidence_floor = excluded.confidence_floor,
			updated_at = CURRENT_TIMESTAMP`,
		mode.String(), o.MinCutoff, o.Beta, o.PinchEnter, o.PinchRelease, o.ConfidenceFloor,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile for %s: %w", mode, err)
	}
	return nil
}

// Delete removes a mode's override, reverting it to defaults.
func (r *ProfileRepository) Delete(mode pointer.Mode) error {
	_, err := r.store.db.Exec("DELETE FROM profiles WHERE mode = ?", mode.String())
	if err != nil {
		return fmt.Errorf("failed to delete profile for %s: %w", mode, err)
	}
	return nil
}

// Effective returns the mode's default profile with any stored
// override applied.
func (r *ProfileRepository) Effective(mode pointer.Mode) (pointer.Profile, error) {
	base := mode.Profile()
	o, err := r.Get(mode)
	if errors.Is(err, ErrNotFound) {
		return base, nil
	}
	if err != nil {
		return base, err
	}
	return o.Apply(base), nil
}
