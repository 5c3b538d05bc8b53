// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one citation of an exported scan.
type ExportEntry struct {
	ID           string `json:"id" yaml:"id"`
	Text         string `json:"text" yaml:"text"`
	Category     string `json:"category" yaml:"category"`
	CategoryCode int    `json:"category_code" yaml:"category_code"`
	Pages        []int  `json:"pages" yaml:"pages,flow"`
	LongCite     string `json:"long_cite" yaml:"long_cite"`
	ShortCite    string `json:"short_cite" yaml:"short_cite"`
	IsShortForm  bool   `json:"is_short_form" yaml:"is_short_form"`
	ParentID     string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	IsIncluded   bool   `json:"is_included" yaml:"is_included"`
}

// Export is a saved scan in portable form.
type Export struct {
	Scan      ScanRecord    `json:"scan" yaml:"scan"`
	Citations []ExportEntry `json:"citations" yaml:"citations"`
}

// ExportYAML writes the scan and all its citations to w as YAML.
func (s *Store) ExportYAML(ctx context.Context, scanID string, w io.Writer) error {
	exp, err := s.export(ctx, scanID)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(exp); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the scan and all its citations to w as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, scanID string, w io.Writer) error {
	exp, err := s.export(ctx, scanID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(exp); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *Store) export(ctx context.Context, scanID string) (*Export, error) {
	rec, err := s.Record(ctx, scanID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+citationColumns+` FROM citations c WHERE c.scan_id = ? ORDER BY c.position`, scanID)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	defer rows.Close()

	exp := &Export{Scan: rec, Citations: []ExportEntry{}}
	for rows.Next() {
		r, err := scanCitation(rows)
		if err != nil {
			return nil, err
		}
		exp.Citations = append(exp.Citations, ExportEntry{
			ID:           r.ID,
			Text:         r.Text,
			Category:     string(r.Category),
			CategoryCode: r.CategoryCode,
			Pages:        r.Pages,
			LongCite:     r.LongCite,
			ShortCite:    r.ShortCite,
			IsShortForm:  r.IsShortForm,
			ParentID:     r.ParentCitationID,
			IsIncluded:   r.IsIncluded,
		})
	}
	return exp, rows.Err()
}
