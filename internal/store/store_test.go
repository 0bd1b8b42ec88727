package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/rangoli/internal/pointer"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSettings_SetGet(t *testing.T) {
	r := NewSettingsRepository(testStore(t))

	if err := r.Set(SettingMode, "tracing"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := r.Get(SettingMode)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "tracing" {
		t.Errorf("value = %q, want tracing", got)
	}

	// Overwrite.
	if err := r.Set(SettingMode, "free-paint"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := r.Get(SettingMode); got != "free-paint" {
		t.Errorf("value after overwrite = %q", got)
	}
}

func TestSettings_GetMissing(t *testing.T) {
	r := NewSettingsRepository(testStore(t))

	if _, err := r.Get("no-such-key"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if got := r.GetOrDefault("no-such-key", "fallback"); got != "fallback" {
		t.Errorf("GetOrDefault = %q", got)
	}
	if got := r.GetBool(SettingMirror, true); !got {
		t.Error("GetBool should fall back to default")
	}
	if got := r.GetFloat(SettingBrushWidth, 6.0); got != 6.0 {
		t.Errorf("GetFloat = %f", got)
	}
}

func TestSettings_TypedGetters(t *testing.T) {
	r := NewSettingsRepository(testStore(t))

	r.Set(SettingMirror, "true")
	r.Set(SettingBrushWidth, "4.5")
	r.Set(SettingCameraID, "not-a-number")

	if !r.GetBool(SettingMirror, false) {
		t.Error("GetBool should parse stored true")
	}
	if got := r.GetFloat(SettingBrushWidth, 0); got != 4.5 {
		t.Errorf("GetFloat = %f, want 4.5", got)
	}
	// Unparseable values fall back.
	if got := r.GetFloat(SettingCameraID, 0); got != 0 {
		t.Errorf("GetFloat on garbage = %f, want default", got)
	}
}

func TestSettings_AllAndDelete(t *testing.T) {
	r := NewSettingsRepository(testStore(t))

	r.Set("a", "1")
	r.Set("b", "2")

	all, err := r.All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 || all["a"] != "1" || all["b"] != "2" {
		t.Errorf("All = %v", all)
	}

	if err := r.Delete("a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := r.Get("a"); !errors.Is(err, ErrNotFound) {
		t.Error("deleted key should be gone")
	}
	// Deleting again is fine.
	if err := r.Delete("a"); err != nil {
		t.Errorf("deleting missing key: %v", err)
	}
}

func TestProfiles_SaveGetDelete(t *testing.T) {
	r := NewProfileRepository(testStore(t))

	o := &ProfileOverride{MinCutoff: 0.5, PinchEnter: 0.35, PinchRelease: 0.5}
	if err := r.Save(pointer.ModeTracing, o); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := r.Get(pointer.ModeTracing)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MinCutoff != 0.5 || got.PinchEnter != 0.35 || got.PinchRelease != 0.5 {
		t.Errorf("override = %+v", got)
	}
	if got.Beta != 0 {
		t.Errorf("unset field should stay zero, got %f", got.Beta)
	}

	// Other modes are untouched.
	if _, err := r.Get(pointer.ModeFreePaint); !errors.Is(err, ErrNotFound) {
		t.Error("free-paint should have no override")
	}

	if err := r.Delete(pointer.ModeTracing); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := r.Get(pointer.ModeTracing); !errors.Is(err, ErrNotFound) {
		t.Error("deleted override should be gone")
	}
}

func TestProfiles_RejectsInvertedPinchBand(t *testing.T) {
	r := NewProfileRepository(testStore(t))

	o := &ProfileOverride{PinchEnter: 0.5, PinchRelease: 0.4}
	if err := r.Save(pointer.ModeFreePaint, o); err == nil {
		t.Error("release below enter should be rejected")
	}
}

func TestProfiles_Effective(t *testing.T) {
	r := NewProfileRepository(testStore(t))

	// No override: the mode defaults come through unchanged.
	base := pointer.ModeFreePaint.Profile()
	got, err := r.Effective(pointer.ModeFreePaint)
	if err != nil {
		t.Fatalf("effective: %v", err)
	}
	if got != base {
		t.Errorf("effective without override = %+v, want defaults", got)
	}

	// Partial override: only the set fields change.
	if err := r.Save(pointer.ModeFreePaint, &ProfileOverride{Beta: 0.02}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err = r.Effective(pointer.ModeFreePaint)
	if err != nil {
		t.Fatalf("effective: %v", err)
	}
	if got.Beta != 0.02 {
		t.Errorf("beta = %f, want override 0.02", got.Beta)
	}
	if got.MinCutoff != base.MinCutoff || got.PinchEnter != base.PinchEnter {
		t.Error("fields without an override should keep mode defaults")
	}
}

func TestSessions_Lifecycle(t *testing.T) {
	r := NewSessionRepository(testStore(t))
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := r.Begin("free-paint", start)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	s, err := r.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.Mode != "free-paint" || s.EndedAt != nil || s.Strokes != 0 {
		t.Errorf("open session = %+v", s)
	}

	if err := r.End(id, start.Add(5*time.Minute), 12); err != nil {
		t.Fatalf("end: %v", err)
	}
	s, err = r.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.EndedAt == nil || s.Strokes != 12 {
		t.Errorf("ended session = %+v", s)
	}
}

func TestSessions_EndMissing(t *testing.T) {
	r := NewSessionRepository(testStore(t))

	err := r.End("no-such-session", time.Now(), 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessions_RecentOrder(t *testing.T) {
	r := NewSessionRepository(testStore(t))
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first, _ := r.Begin("free-paint", base)
	second, _ := r.Begin("tracing", base.Add(time.Hour))
	third, _ := r.Begin("selection", base.Add(2*time.Hour))

	sessions, err := r.Recent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != third || sessions[1].ID != second {
		t.Errorf("order = [%s %s], want newest first", sessions[0].ID, sessions[1].ID)
	}
	_ = first
}
