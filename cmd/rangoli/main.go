package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/rangoli/internal/app"
	"github.com/ayusman/rangoli/internal/pointer"
	"github.com/ayusman/rangoli/internal/server"
	"github.com/ayusman/rangoli/internal/store"
	"github.com/ayusman/rangoli/internal/tray"
)

func main() {
	fmt.Println("Rangoli - Draw in the Air")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".rangoli")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dbDir, "rangoli.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	settings := store.NewSettingsRepository(st)

	mode := pointer.ModeFreePaint
	if m, err := pointer.ParseMode(settings.GetOrDefault(store.SettingMode, "free-paint")); err == nil {
		mode = m
	}

	a := app.New(app.Config{
		Store:    st,
		CameraID: int(settings.GetFloat(store.SettingCameraID, 0)),
		Mirror:   settings.GetBool(store.SettingMirror, true),
		Mode:     mode,
	})
	if err := a.LoadSettings(); err != nil {
		log.Printf("Failed to load settings: %v", err)
	}

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer a.Stop()

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Pipeline:  a,
	})
	defer srv.Close()

	addr := ":8080"
	go func() {
		fmt.Printf("Starting server on %s\n", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	t := tray.New()
	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
	})
	t.OnClear(func() {
		a.Engine().Clear()
	})
	t.OnUndo(func() {
		a.Engine().Undo()
		t.SetStrokeCount(a.Engine().StrokesDrawn())
	})
	t.OnSettings(func() {
		log.Printf("Settings UI: http://localhost%s", addr)
	})
	t.OnQuit(func() {
		a.Stop()
	})

	// Blocks until the quit menu item is clicked.
	t.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.rangoli/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".rangoli", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
