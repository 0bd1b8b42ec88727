package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - application settings as key-value pairs
		// (brush width/color, camera device, mirroring, active mode).
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Profiles table - per-mode tracker tuning overrides. A zero
		// value means "use the mode default".
		`CREATE TABLE IF NOT EXISTS profiles (
			mode TEXT PRIMARY KEY CHECK(mode IN ('free-paint', 'tracing', 'selection')),
			min_cutoff REAL NOT NULL DEFAULT 0,
			beta REAL NOT NULL DEFAULT 0,
			pinch_enter REAL NOT NULL DEFAULT 0,
			pinch_release REAL NOT NULL DEFAULT 0,
			confidence_floor REAL NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Sessions table - per-run statistics. No stroke geometry is
		// ever stored here.
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			strokes INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
