// Package repository persists an audit trail of batch runs. The store is
// optional; the batch driver works identically without it.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/syllabus-tools/syllabus-audit/constants"
)

// Schema for the run-history tables. Applied by Init.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_runs (
	id TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	finished_at INTEGER,
	status TEXT NOT NULL,
	template_path TEXT NOT NULL,
	total_documents INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS audit_documents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES audit_runs(id),
	path TEXT NOT NULL,
	status TEXT NOT NULL,
	notes TEXT,
	processed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_documents_run ON audit_documents(run_id);
`

// RunHistory records batch runs and per-document outcomes.
type RunHistory interface {
	StartRun(ctx context.Context, runID uuid.UUID, templatePath string, totalDocuments int) error
	RecordDocument(ctx context.Context, runID uuid.UUID, path string, status constants.DocStatus, notes string) error
	FinishRun(ctx context.Context, runID uuid.UUID, status constants.RunStatus) error
}

// Store is a SQLite-backed RunHistory.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	s := &Store{db: db}
	if err := s.Init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Init creates the history tables if they don't exist.
func (s *Store) Init() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) StartRun(ctx context.Context, runID uuid.UUID, templatePath string, totalDocuments int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_runs (id, started_at, status, template_path, total_documents) VALUES (?, ?, ?, ?, ?)`,
		runID.String(), time.Now().Unix(), string(constants.RunStatusRunning), templatePath, totalDocuments,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *Store) RecordDocument(ctx context.Context, runID uuid.UUID, path string, status constants.DocStatus, notes string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_documents (run_id, path, status, notes, processed_at) VALUES (?, ?, ?, ?, ?)`,
		runID.String(), path, string(status), notes, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert document outcome: %w", err)
	}
	return nil
}

func (s *Store) FinishRun(ctx context.Context, runID uuid.UUID, status constants.RunStatus) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE audit_runs SET finished_at = ?, status = ? WHERE id = ?`,
		time.Now().Unix(), string(status), runID.String(),
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}
