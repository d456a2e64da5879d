// Package journal keeps a SQLite history of reconcile moves so partially
// completed batches can be inspected after the fact.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"imgsort/internal/organize"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded move.
type Entry struct {
	ID int64
	organize.MoveRecord
}

// Journal records moves in a SQLite database.
// It implements organize.Recorder.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal database at path and migrates it.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}
	return &Journal{db: db}, nil
}

// migrate is idempotent.
func migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS moves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id TEXT NOT NULL,
			source TEXT NOT NULL,
			destination TEXT NOT NULL,
			grp TEXT NOT NULL,
			mode TEXT NOT NULL,
			moved_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_moves_batch ON moves(batch_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record implements organize.Recorder.
func (j *Journal) Record(rec organize.MoveRecord) error {
	return j.RecordContext(context.Background(), rec)
}

// RecordContext stores rec.
func (j *Journal) RecordContext(ctx context.Context, rec organize.MoveRecord) error {
	if rec.MovedAt.IsZero() {
		rec.MovedAt = time.Now()
	}
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO moves (batch_id, source, destination, grp, mode, moved_at) VALUES (?, ?, ?, ?, ?, ?)",
		rec.BatchID, rec.Source, rec.Destination, rec.Group, string(rec.Mode), rec.MovedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record move: %w", err)
	}
	return nil
}

// Recent returns up to limit moves, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT id, batch_id, source, destination, grp, mode, moved_at FROM moves ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query moves: %w", err)
	}
	return scanEntries(rows)
}

// Batch returns the moves of one reconcile run in the order they happened.
func (j *Journal) Batch(ctx context.Context, batchID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT id, batch_id, source, destination, grp, mode, moved_at FROM moves WHERE batch_id = ? ORDER BY id",
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch: %w", err)
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			mode    string
			movedAt int64
		)
		if err := rows.Scan(&e.ID, &e.BatchID, &e.Source, &e.Destination, &e.Group, &mode, &movedAt); err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		e.Mode = organize.Mode(mode)
		e.MovedAt = time.UnixMilli(movedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate moves: %w", err)
	}
	return entries, nil
}

var _ organize.Recorder = (*Journal)(nil)
