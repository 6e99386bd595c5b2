package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/justyntemme/comics-t/pkg/models"
)

// timeLayout is fixed width so stored timestamps sort as text in time order
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Journal is a local sqlite log of finished reading sessions. It keeps
// statistics available when the server cannot be reached.
type Journal struct {
	db *sql.DB
}

// OpenJournal opens or creates the journal database at path
func OpenJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the database
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reading_sessions (
			id TEXT PRIMARY KEY,
			comic_slug TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT,
			start_page INTEGER NOT NULL,
			end_page INTEGER,
			pages_read INTEGER NOT NULL DEFAULT 0,
			duration_minutes REAL NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reading_sessions_comic ON reading_sessions (comic_slug, started_at);`,
	}

	for i, s := range stmts {
		if _, err := j.db.Exec(s); err != nil {
			return fmt.Errorf("journal: migrate stmt %d: %w", i, err)
		}
	}
	return nil
}

// Record inserts or replaces a session
func (j *Journal) Record(ctx context.Context, s models.ReadingSession) error {
	var endedAt sql.NullString
	if s.EndedAt != nil {
		endedAt = sql.NullString{String: s.EndedAt.UTC().Format(timeLayout), Valid: true}
	}
	var endPage sql.NullInt64
	if s.EndPage != nil {
		endPage = sql.NullInt64{Int64: int64(*s.EndPage), Valid: true}
	}

	_, err := j.db.ExecContext(ctx, `
	INSERT INTO reading_sessions(id, comic_slug, started_at, ended_at, start_page, end_page, pages_read, duration_minutes, is_active)
	VALUES(?,?,?,?,?,?,?,?,?)
	ON CONFLICT(id)
	DO UPDATE SET ended_at=excluded.ended_at,
	              end_page=excluded.end_page,
	              pages_read=excluded.pages_read,
	              duration_minutes=excluded.duration_minutes,
	              is_active=excluded.is_active
	`, s.ID, s.ComicSlug, s.StartedAt.UTC().Format(timeLayout), endedAt, s.StartPage, endPage, s.PagesRead, s.DurationMinutes, s.IsActive)
	if err != nil {
		return fmt.Errorf("journal: record %s: %w", s.ID, err)
	}
	return nil
}

// List returns sessions newest first. An empty slug lists every comic.
func (j *Journal) List(ctx context.Context, slug string) ([]models.ReadingSession, error) {
	query := `SELECT id, comic_slug, started_at, ended_at, start_page, end_page, pages_read, duration_minutes, is_active
		FROM reading_sessions`
	var args []interface{}
	if slug != "" {
		query += ` WHERE comic_slug=?`
		args = append(args, slug)
	}
	query += ` ORDER BY started_at DESC`

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: list: %w", err)
	}
	defer rows.Close()

	var results []models.ReadingSession
	for rows.Next() {
		var (
			s         models.ReadingSession
			startedAt string
			endedAt   sql.NullString
			endPage   sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.ComicSlug, &startedAt, &endedAt, &s.StartPage, &endPage, &s.PagesRead, &s.DurationMinutes, &s.IsActive); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		if s.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("journal: parse started_at: %w", err)
		}
		if endedAt.Valid {
			t, err := time.Parse(time.RFC3339Nano, endedAt.String)
			if err != nil {
				return nil, fmt.Errorf("journal: parse ended_at: %w", err)
			}
			s.EndedAt = &t
		}
		if endPage.Valid {
			p := int(endPage.Int64)
			s.EndPage = &p
		}
		results = append(results, s)
	}
	return results, rows.Err()
}
