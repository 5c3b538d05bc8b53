// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PageMap maps a 1-based page number to the raw text of that page.
type PageMap map[int]string

// Citation is one deduplicated authority found in a document.
type Citation struct {
	// ID is stable for a given category and dedup identifier, so the same
	// authority receives the same ID on every scan of the same text.
	ID string `json:"id" yaml:"id"`

	// Text is the current best display form (the longest contributing match).
	Text string `json:"text" yaml:"text"`

	// OriginalText is the match text of the first occurrence in document order.
	OriginalText string `json:"original_text" yaml:"original_text"`

	// NormalizedText is the canonicalized form of Text.
	NormalizedText string `json:"normalized_text" yaml:"normalized_text"`

	Category Category `json:"category" yaml:"category"`

	// Pages is sorted ascending with no duplicates.
	Pages []int `json:"pages" yaml:"pages"`

	// IsShortForm marks "Id.", "X, supra" and "X, 347 U.S. at 485" forms.
	IsShortForm bool `json:"is_short_form" yaml:"is_short_form"`

	// ParentCitationID names the full-form citation a short form refers to.
	// It is a lookup key only; empty when unresolved.
	ParentCitationID string `json:"parent_citation_id,omitempty" yaml:"parent_citation_id,omitempty"`

	// IsIncluded is the user's toggle for inclusion in the table.
	IsIncluded bool `json:"is_included" yaml:"is_included"`
}

// CitationMatch is a raw match produced by the extractor. It only lives
// between extraction and conversion to Citation.
type CitationMatch struct {
	Text        string   `json:"text"`
	Category    Category `json:"category"`
	Start       int      `json:"start"`
	End         int      `json:"end"`
	Page        int      `json:"page"`
	IsShortForm bool     `json:"is_short_form"`
}

// ParsedDocument is the result of a single scan. It is never merged with
// the result of another scan.
type ParsedDocument struct {
	Citations  []Citation `json:"citations" yaml:"citations"`
	TotalPages int        `json:"total_pages" yaml:"total_pages"`
	FullText   string     `json:"full_text,omitempty" yaml:"full_text,omitempty"`
}

// StrippedCitation holds the table-ready long form, the back-reference
// short form, and the numeric category code for one citation.
type StrippedCitation struct {
	LongCite     string `json:"long_cite" yaml:"long_cite"`
	ShortCite    string `json:"short_cite" yaml:"short_cite"`
	CategoryCode int    `json:"category_code" yaml:"category_code"`
}

// Stats summarizes a citation list.
type Stats struct {
	Total      int              `json:"total" yaml:"total"`
	ByCategory map[Category]int `json:"by_category" yaml:"by_category"`
	ShortForms int              `json:"short_forms" yaml:"short_forms"`
	Included   int              `json:"included" yaml:"included"`
}
