// Package progress persists onboarding completion state in SQLite.
// The engine itself is persistence-free; only the host application
// records which scenes a user has finished.
package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrInvalidScene indicates an empty scene name.
var ErrInvalidScene = errors.New("scene name is required")

// Completion records one finished scene.
type Completion struct {
	Scene       string
	SessionID   string
	CompletedAt time.Time
}

// Store wraps the progress database.
type Store struct {
	db *sql.DB
}

// migrations run in order; schema_version tracks the applied count.
var migrations = []string{
	`CREATE TABLE scene_completions (
		scene        TEXT PRIMARY KEY,
		session_id   TEXT NOT NULL,
		completed_at TEXT NOT NULL
	)`,
}

// Open creates or opens the progress database at path, applying any
// pending migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open progress db %s: %w", path, err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// MarkCompleted records a scene as finished, replacing any earlier
// completion of the same scene.
func (s *Store) MarkCompleted(ctx context.Context, scene, sessionID string) error {
	if scene == "" {
		return ErrInvalidScene
	}

	completedAt := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scene_completions (scene, session_id, completed_at)
		VALUES (?, ?, ?)
		ON CONFLICT(scene) DO UPDATE SET
			session_id = excluded.session_id,
			completed_at = excluded.completed_at
	`, scene, sessionID, completedAt)
	if err != nil {
		return fmt.Errorf("mark scene %q completed: %w", scene, err)
	}
	return nil
}

// Completions returns every recorded completion keyed by scene name.
func (s *Store) Completions(ctx context.Context) (map[string]Completion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT scene, session_id, completed_at FROM scene_completions
	`)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Completion)
	for rows.Next() {
		var c Completion
		var completedAt string
		if err := rows.Scan(&c.Scene, &c.SessionID, &completedAt); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		ts, err := time.Parse(time.RFC3339, completedAt)
		if err != nil {
			return nil, fmt.Errorf("parse completion time %q: %w", completedAt, err)
		}
		c.CompletedAt = ts
		out[c.Scene] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completions: %w", err)
	}
	return out, nil
}

// Reset deletes all recorded progress.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scene_completions`); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		return fmt.Errorf("checking schema_version: %w", err)
	}
	if count == 0 {
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("initializing schema version: %w", err)
		}
	}

	var current int
	if err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := tx.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("updating schema version to %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", i+1, err)
		}
	}
	return nil
}
