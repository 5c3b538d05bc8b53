// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/pdiddy/toa-engine/pkg/types"
)

// QueryOptions holds parameters for citation searches.
type QueryOptions struct {
	// Query is free text matched against citation text with FTS5. Each
	// word must appear; punctuation is ignored.
	Query string

	// Category filters by category.
	Category types.Category

	// ScanID filters by scan.
	ScanID string

	// ShortForms includes short-form citations, which are omitted by
	// default.
	ShortForms bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Result is a stored citation with its table forms and scan.
type Result struct {
	types.Citation
	ScanID       string `json:"scan_id" yaml:"scan_id"`
	Source       string `json:"source" yaml:"source"`
	LongCite     string `json:"long_cite" yaml:"long_cite"`
	ShortCite    string `json:"short_cite" yaml:"short_cite"`
	CategoryCode int    `json:"category_code" yaml:"category_code"`
}

const citationColumns = `c.id, c.text, c.original_text, c.normalized_text, c.category,
	c.pages, c.is_short_form, c.parent_id, c.is_included,
	c.scan_id, c.long_cite, c.short_cite, c.category_code`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCitation(rows rowScanner) (Result, error) {
	var (
		r                           Result
		category, pagesJSON         string
		original, normalized        sql.NullString
		parent, longCite, shortCite sql.NullString
	)
	if err := rows.Scan(
		&r.ID, &r.Text, &original, &normalized, &category,
		&pagesJSON, &r.IsShortForm, &parent, &r.IsIncluded,
		&r.ScanID, &longCite, &shortCite, &r.CategoryCode,
	); err != nil {
		return Result{}, fmt.Errorf("scanning row: %w", err)
	}
	r.Category = types.Category(category)
	r.OriginalText = original.String
	r.NormalizedText = normalized.String
	r.ParentCitationID = parent.String
	r.LongCite = longCite.String
	r.ShortCite = shortCite.String
	if err := json.Unmarshal([]byte(pagesJSON), &r.Pages); err != nil {
		return Result{}, fmt.Errorf("decoding pages of %s: %w", r.ID, err)
	}
	return r, nil
}

// Search finds stored citations. Full-text queries are ranked by
// relevance; filter-only queries are ordered by scan recency and position.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]Result, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb    strings.Builder
		args  []any
		match = ftsQuery(opts.Query)
	)

	if match != "" {
		qb.WriteString(`SELECT ` + citationColumns + `, sc.source
			FROM citations_fts
			JOIN citations c ON c.rowid = citations_fts.rowid
			JOIN scans sc ON sc.id = c.scan_id
			WHERE citations_fts MATCH ?`)
		args = append(args, match)
	} else {
		qb.WriteString(`SELECT ` + citationColumns + `, sc.source
			FROM citations c
			JOIN scans sc ON sc.id = c.scan_id
			WHERE 1=1`)
	}

	if opts.Category != "" {
		qb.WriteString(` AND c.category = ?`)
		args = append(args, string(opts.Category))
	}
	if opts.ScanID != "" {
		qb.WriteString(` AND c.scan_id = ?`)
		args = append(args, opts.ScanID)
	}
	if !opts.ShortForms {
		qb.WriteString(` AND c.is_short_form = 0`)
	}

	if match != "" {
		qb.WriteString(` ORDER BY citations_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY sc.created_at DESC, sc.rowid DESC, c.position`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching citations: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var source string
		r, err := scanCitation(trailing{rows, &source})
		if err != nil {
			return nil, err
		}
		r.Source = source
		results = append(results, r)
	}
	return results, rows.Err()
}

// trailing appends extra destinations after the citation columns.
type trailing struct {
	rows  *sql.Rows
	extra *string
}

func (t trailing) Scan(dest ...any) error {
	return t.rows.Scan(append(dest, t.extra)...)
}

// ftsQuery turns free text into an FTS5 query that requires every word.
// Words are quoted so punctuation in citations ("U.S.C.") cannot break
// the query syntax.
func ftsQuery(q string) string {
	words := strings.FieldsFunc(q, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, w := range words {
		words[i] = `"` + w + `"`
	}
	return strings.Join(words, " ")
}
