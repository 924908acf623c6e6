// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/tuiread/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for reading history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reading_sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			document TEXT NOT NULL,
			total_words INTEGER NOT NULL,
			words_shown INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			smart_pacing INTEGER NOT NULL,
			completed INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reading_sessions_ended_at ON reading_sessions(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished reading run.
func (s *Store) InsertSession(ctx context.Context, rs model.ReadingSession) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reading_sessions (started_at, ended_at, document, total_words, words_shown, wpm, smart_pacing, completed, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rs.StartedAt.UTC().Format(time.RFC3339Nano),
		rs.EndedAt.UTC().Format(time.RFC3339Nano),
		rs.Document,
		rs.TotalWords,
		rs.WordsShown,
		rs.WPM,
		boolToInt(rs.SmartPacing),
		boolToInt(rs.Completed),
		rs.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSessions returns sessions matching the filter, oldest first.
func (s *Store) ListSessions(ctx context.Context, filter model.HistoryFilter) ([]model.ReadingSession, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, filter.Since.UTC().Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, document, total_words, words_shown, wpm, smart_pacing, completed, duration_ms
		FROM reading_sessions
		WHERE %s
		ORDER BY ended_at DESC, id DESC`, strings.Join(clauses, " AND "))
	if filter.Last > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.ReadingSession
	for rows.Next() {
		var (
			rs               model.ReadingSession
			startedAt        string
			endedAt          string
			smart, completed int
		)
		if err := rows.Scan(&rs.ID, &startedAt, &endedAt, &rs.Document, &rs.TotalWords, &rs.WordsShown,
			&rs.WPM, &smart, &completed, &rs.DurationMs); err != nil {
			return nil, err
		}
		if rs.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if rs.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		rs.SmartPacing = smart != 0
		rs.Completed = completed != 0
		sessions = append(sessions, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Newest rows were selected so LIMIT keeps the latest; report oldest first.
	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}
	return sessions, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
