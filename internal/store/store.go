// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps a history of scans in SQLite: every citation found,
// its table-ready long and short forms, and the user's inclusion toggle.
// Citation text is indexed with FTS5 for search across scans.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/toa-engine/internal/pincite"
	"github.com/pdiddy/toa-engine/pkg/types"
)

const (
	dbFile            = "toa.db"
	defaultMaxResults = 20

	// timeLayout is fixed width so created_at sorts as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// ErrNotFound is returned for unknown scan or citation IDs.
var ErrNotFound = errors.New("store: not found")

// Store manages the scan history database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// ScanRecord describes one saved scan.
type ScanRecord struct {
	ID         string    `json:"id" yaml:"id"`
	Source     string    `json:"source" yaml:"source"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	TotalPages int       `json:"total_pages" yaml:"total_pages"`
	Citations  int       `json:"citations" yaml:"citations"`
}

// Open opens or creates DataDir/toa.db and its schema.
func Open(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
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

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS scans (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			created_at TEXT NOT NULL,
			total_pages INTEGER NOT NULL,
			full_text TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS citations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			original_text TEXT,
			normalized_text TEXT,
			category TEXT NOT NULL,
			category_code INTEGER NOT NULL,
			pages TEXT NOT NULL,
			is_short_form INTEGER NOT NULL,
			parent_id TEXT,
			is_included INTEGER NOT NULL,
			long_cite TEXT,
			short_cite TEXT,
			UNIQUE(scan_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_scan_id ON citations(scan_id)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_category ON citations(category)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='citations_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE citations_fts USING fts5(text, normalized_text, content=citations, content_rowid=rowid)`,
		`CREATE TRIGGER citations_ai AFTER INSERT ON citations BEGIN
			INSERT INTO citations_fts(rowid, text, normalized_text) VALUES (new.rowid, new.text, new.normalized_text);
		END`,
		`CREATE TRIGGER citations_ad AFTER DELETE ON citations BEGIN
			INSERT INTO citations_fts(citations_fts, rowid, text, normalized_text) VALUES('delete', old.rowid, old.text, old.normalized_text);
		END`,
		`CREATE TRIGGER citations_au AFTER UPDATE OF text, normalized_text ON citations BEGIN
			INSERT INTO citations_fts(citations_fts, rowid, text, normalized_text) VALUES('delete', old.rowid, old.text, old.normalized_text);
			INSERT INTO citations_fts(rowid, text, normalized_text) VALUES (new.rowid, new.text, new.normalized_text);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// Save stores doc under a new scan ID. Each citation is stored with its
// pin-cite stripped long and short forms.
func (s *Store) Save(ctx context.Context, source string, doc *types.ParsedDocument) (ScanRecord, error) {
	rec := ScanRecord{
		ID:         uuid.NewString(),
		Source:     source,
		CreatedAt:  time.Now().UTC(),
		TotalPages: doc.TotalPages,
		Citations:  len(doc.Citations),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ScanRecord{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO scans (id, source, created_at, total_pages, full_text) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Source, rec.CreatedAt.Format(timeLayout), rec.TotalPages, doc.FullText,
	); err != nil {
		return ScanRecord{}, fmt.Errorf("inserting scan: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO citations (scan_id, id, position, text, original_text, normalized_text,
			category, category_code, pages, is_short_form, parent_id, is_included, long_cite, short_cite)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return ScanRecord{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range doc.Citations {
		stripped := pincite.Strip(c.Text, c.Category)
		pagesJSON, _ := json.Marshal(c.Pages)
		if _, err := stmt.ExecContext(ctx,
			rec.ID, c.ID, i, c.Text, c.OriginalText, c.NormalizedText,
			string(c.Category), stripped.CategoryCode, string(pagesJSON),
			c.IsShortForm, c.ParentCitationID, c.IsIncluded,
			stripped.LongCite, stripped.ShortCite,
		); err != nil {
			return ScanRecord{}, fmt.Errorf("inserting citation %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ScanRecord{}, fmt.Errorf("committing scan: %w", err)
	}
	return rec, nil
}

// Scan loads a saved scan with its citations in their original order and
// current inclusion toggles.
func (s *Store) Scan(ctx context.Context, id string) (*types.ParsedDocument, error) {
	var (
		doc      types.ParsedDocument
		fullText sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT total_pages, full_text FROM scans WHERE id = ?`, id,
	).Scan(&doc.TotalPages, &fullText)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scan %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up scan: %w", err)
	}
	doc.FullText = fullText.String

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+citationColumns+` FROM citations c WHERE c.scan_id = ? ORDER BY c.position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying citations: %w", err)
	}
	defer rows.Close()

	doc.Citations = []types.Citation{}
	for rows.Next() {
		row, err := scanCitation(rows)
		if err != nil {
			return nil, err
		}
		doc.Citations = append(doc.Citations, row.Citation)
	}
	return &doc, rows.Err()
}

// Record returns the summary of one saved scan.
func (s *Store) Record(ctx context.Context, id string) (ScanRecord, error) {
	recs, err := s.listWhere(ctx, `WHERE s.id = ?`, id, 1)
	if err != nil {
		return ScanRecord{}, err
	}
	if len(recs) == 0 {
		return ScanRecord{}, fmt.Errorf("scan %s: %w", id, ErrNotFound)
	}
	return recs[0], nil
}

// List returns the most recent scans first. A non-positive limit uses the
// store default.
func (s *Store) List(ctx context.Context, limit int) ([]ScanRecord, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	return s.listWhere(ctx, "", nil, limit)
}

func (s *Store) listWhere(ctx context.Context, where string, arg any, limit int) ([]ScanRecord, error) {
	args := []any{}
	if arg != nil {
		args = append(args, arg)
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.source, s.created_at, s.total_pages,
			(SELECT count(*) FROM citations c WHERE c.scan_id = s.id)
		 FROM scans s `+where+`
		 ORDER BY s.created_at DESC, s.rowid DESC
		 LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	defer rows.Close()

	var recs []ScanRecord
	for rows.Next() {
		var (
			rec     ScanRecord
			created string
		)
		if err := rows.Scan(&rec.ID, &rec.Source, &created, &rec.TotalPages, &rec.Citations); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(timeLayout, created)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// SetIncluded records the user's inclusion toggle for one citation of a
// saved scan.
func (s *Store) SetIncluded(ctx context.Context, scanID, citationID string, included bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE citations SET is_included = ? WHERE scan_id = ? AND id = ?`,
		included, scanID, citationID)
	if err != nil {
		return fmt.Errorf("updating citation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating citation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("citation %s in scan %s: %w", citationID, scanID, ErrNotFound)
	}
	return nil
}
