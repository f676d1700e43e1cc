// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite log of extraction runs so past conversions
// can be listed and exported.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf2md/pkg/types"
)

const (
	dbFile       = "history.db"
	defaultLimit = 20

	// timeLayout is fixed width so extracted_at sorts as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNotFound is returned by Get when no record has the requested ID.
var ErrNotFound = errors.New("extraction record not found")

// Store manages the history SQLite database.
type Store struct {
	db      *sql.DB
	dataDir string
}

// Open opens or creates dataDir/history.db and its schema.
func Open(cfg types.HistoryConfig) (*Store, error) {
	if cfg.DataDir == "" {
		return nil, errors.New("history data directory not configured")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: cfg.DataDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DataDir returns the directory holding the database.
func (s *Store) DataDir() string {
	return s.dataDir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS extractions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			source_path TEXT NOT NULL,
			title TEXT,
			backend TEXT,
			pages INTEGER,
			words INTEGER,
			characters INTEGER,
			output_path TEXT,
			status TEXT NOT NULL,
			error TEXT,
			extracted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_extractions_status ON extractions(status)`,
		`CREATE INDEX IF NOT EXISTS idx_extractions_extracted_at ON extractions(extracted_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores rec, replacing any record with the same ID. A missing ID or
// timestamp is filled in.
func (s *Store) Record(ctx context.Context, rec types.ExtractionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.ExtractedAt.IsZero() {
		rec.ExtractedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extractions (id, source_path, title, backend, pages, words, characters, output_path, status, error, extracted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source_path=excluded.source_path, title=excluded.title, backend=excluded.backend,
			pages=excluded.pages, words=excluded.words, characters=excluded.characters,
			output_path=excluded.output_path, status=excluded.status, error=excluded.error,
			extracted_at=excluded.extracted_at`,
		rec.ID, rec.SourcePath, rec.Title, string(rec.Backend),
		rec.Pages, rec.Words, rec.Characters, rec.OutputPath,
		string(rec.Status), rec.Error, rec.ExtractedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting record %s: %w", rec.ID, err)
	}
	return nil
}

// ListOptions filters and limits List results.
type ListOptions struct {
	// Limit caps the number of records. Zero means 20; negative means no limit.
	Limit int

	// Status keeps only records with this status when set.
	Status types.ExtractionStatus
}

const selectColumns = `SELECT id, source_path, title, backend, pages, words, characters, output_path, status, error, extracted_at FROM extractions`

// List returns records newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.ExtractionRecord, error) {
	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(selectColumns)
	if opts.Status != "" {
		query.WriteString(` WHERE status = ?`)
		args = append(args, string(opts.Status))
	}
	query.WriteString(` ORDER BY extracted_at DESC, rowid DESC`)

	limit := opts.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > 0 {
		query.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var records []types.ExtractionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get returns the record with the given ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (types.ExtractionRecord, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ExtractionRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (types.ExtractionRecord, error) {
	var (
		rec                        types.ExtractionRecord
		title, backend, outputPath sql.NullString
		errText                    sql.NullString
		pages, words, characters   sql.NullInt64
		status, extractedAt        string
	)
	err := row.Scan(&rec.ID, &rec.SourcePath, &title, &backend,
		&pages, &words, &characters, &outputPath, &status, &errText, &extractedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scanning record: %w", err)
	}

	rec.Title = title.String
	rec.Backend = types.Backend(backend.String)
	rec.Pages = int(pages.Int64)
	rec.Words = int(words.Int64)
	rec.Characters = int(characters.Int64)
	rec.OutputPath = outputPath.String
	rec.Status = types.ExtractionStatus(status)
	rec.Error = errText.String
	if t, err := time.Parse(timeLayout, extractedAt); err == nil {
		rec.ExtractedAt = t
	}
	return rec, nil
}
