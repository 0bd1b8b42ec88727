package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/rangoli/internal/app"
	"github.com/ayusman/rangoli/internal/capture"
	"github.com/ayusman/rangoli/internal/detector"
	"github.com/ayusman/rangoli/internal/server"
	"github.com/ayusman/rangoli/internal/store"
	"github.com/ayusman/rangoli/testdata"
)

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	// Pipeline over a synthetic camera: a moving dot keeps the motion
	// gate active, the mock detector supplies a pinching hand.
	application := app.New(app.Config{
		Store:        s,
		Width:        64,
		Height:       48,
		MotionThresh: 0.1,
		RenderFPS:    120,
	})

	frames := testdata.MovingDotSequence(64, 48, 8)
	defer testdata.CloseFrames(frames)
	application.SetCamera(capture.NewMockCamera(frames, true))

	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.PinchHandLandmarks(0.9)})
	application.SetDetector(mock)

	if err := application.Start(); err != nil {
		t.Fatalf("app.Start() error = %v", err)
	}
	defer application.Stop()

	srv := server.New(server.Config{Store: s, Pipeline: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("HealthReportsMode", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health error = %v", err)
		}
		defer resp.Body.Close()

		var health map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&health)
		if health["status"] != "ok" {
			t.Errorf("status = %v", health["status"])
		}
		if health["mode"] != "free-paint" {
			t.Errorf("mode = %v, want free-paint", health["mode"])
		}
	})

	t.Run("PinchDrawsStroke", func(t *testing.T) {
		// Let the pipeline reach active mode and put the pen down.
		deadline := time.Now().Add(3 * time.Second)
		for time.Now().Before(deadline) {
			if application.LatestState().PenDown {
				break
			}
			time.Sleep(50 * time.Millisecond)
		}
		if !application.LatestState().PenDown {
			t.Fatal("pinch never became a pen-down")
		}

		mock.SetHands([]detector.HandLandmarks{detector.OpenHandLandmarks(0.9)})
		deadline = time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if application.Engine().StrokesDrawn() > 0 {
				break
			}
			time.Sleep(50 * time.Millisecond)
		}
		if application.Engine().StrokesDrawn() == 0 {
			t.Fatal("releasing the pinch should commit a stroke")
		}
	})

	t.Run("CanvasSnapshot", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/canvas.png")
		if err != nil {
			t.Fatalf("canvas.png error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("Content-Type = %q", ct)
		}
	})

	t.Run("SwitchModeViaSettings", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/settings",
			strings.NewReader(`{"mode": "tracing"}`))
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("settings error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}

		if application.Mode().String() != "tracing" {
			t.Errorf("pipeline mode = %s, want tracing", application.Mode())
		}
	})

	t.Run("TuneProfile", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/profiles/tracing",
			strings.NewReader(`{"minCutoff": 0.5}`))
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("profiles error = %v", err)
		}
		defer resp.Body.Close()

		var profile struct {
			Effective struct {
				MinCutoff float64 `json:"MinCutoff"`
			} `json:"effective"`
		}
		json.NewDecoder(resp.Body).Decode(&profile)
		if profile.Effective.MinCutoff != 0.5 {
			t.Errorf("effective minCutoff = %f, want 0.5", profile.Effective.MinCutoff)
		}
	})

	t.Run("ClearCanvas", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/canvas/clear", "application/json", nil)
		if err != nil {
			t.Fatalf("clear error = %v", err)
		}
		resp.Body.Close()

		if len(application.Engine().Committed()) != 0 {
			t.Error("clear should drop all committed strokes")
		}
		// The per-session counter survives the clear.
		if application.Engine().StrokesDrawn() == 0 {
			t.Error("stroke counter should survive a clear")
		}
	})
}

func TestE2E_SessionPersistedAcrossRuns(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	dbPath := filepath.Join(t.TempDir(), "data.db")

	run := func() {
		s, err := store.New(dbPath)
		if err != nil {
			t.Fatalf("store.New() error = %v", err)
		}
		defer s.Close()

		a := app.New(app.Config{Store: s, Width: 64, Height: 48})
		a.SetCamera(capture.NewBlankMockCamera(64, 48))
		a.SetDetector(detector.NewMockDetector())

		if err := a.Start(); err != nil {
			t.Fatalf("app.Start() error = %v", err)
		}
		time.Sleep(250 * time.Millisecond)
		a.Stop()
	}

	run()
	run()

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	sessions, err := store.NewSessionRepository(s).Recent(10)
	if err != nil {
		t.Fatalf("listing sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	for _, sess := range sessions {
		if sess.EndedAt == nil {
			t.Error("every session should be closed")
		}
	}
}
