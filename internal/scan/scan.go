// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan runs the citation pipeline over a document: extraction,
// normalization, deduplication and short-form resolution. Every call is a
// pure function of its inputs; nothing is shared between scans.
package scan

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/toa-engine/internal/extract"
	"github.com/pdiddy/toa-engine/internal/normalize"
	"github.com/pdiddy/toa-engine/internal/pattern"
	"github.com/pdiddy/toa-engine/pkg/types"
)

// DefaultCharsPerPage is the slice size Text uses to estimate pages.
const DefaultCharsPerPage = 3000

// ErrNoPageMap is returned when Document is called without a page map.
var ErrNoPageMap = errors.New("scan: no page map")

// Options controls a single scan.
type Options struct {
	// IncludeFootnotes is accepted for compatibility and has no effect.
	IncludeFootnotes bool

	// MinConfidence is accepted for compatibility and has no effect.
	MinConfidence float64

	// Patterns are caller rules layered after the built-in library.
	Patterns []pattern.Pattern

	// CharsPerPage sets the slice size for Text (default 3000).
	CharsPerPage int
}

// OptionsFrom builds scan options from parser configuration, loading the
// custom patterns file when one is named.
func OptionsFrom(cfg types.ParserConfig) (Options, error) {
	opts := Options{
		IncludeFootnotes: cfg.IncludeFootnotes,
		MinConfidence:    cfg.MinConfidence,
	}
	if cfg.PatternsFile != "" {
		patterns, err := pattern.LoadFile(cfg.PatternsFile)
		if err != nil {
			return Options{}, err
		}
		opts.Patterns = patterns
	}
	return opts, nil
}

// Document scans a page map. Pages are processed in ascending page order;
// totalPages is the number of entries in the map and FullText is the page
// texts joined by newlines in page order.
func Document(pages types.PageMap, opts Options) (*types.ParsedDocument, error) {
	if pages == nil {
		return nil, ErrNoPageMap
	}
	doc := scanPages(pages, opts)

	nums := extract.PageNumbers(pages)
	texts := make([]string, len(nums))
	for i, n := range nums {
		texts[i] = pages[n]
	}
	doc.FullText = strings.Join(texts, "\n")
	return doc, nil
}

// Text scans unpaged text, estimating page boundaries with fixed-size
// slices. Empty text yields no citations and zero pages.
func Text(text string, opts Options) *types.ParsedDocument {
	doc := scanPages(Paginate(text, opts.CharsPerPage), opts)
	doc.FullText = text
	return doc
}

func scanPages(pages types.PageMap, opts Options) *types.ParsedDocument {
	lib := pattern.Default().With(opts.Patterns...)
	matches := extract.New(lib).Pages(pages)
	citations := normalize.Merge(matches)
	if citations == nil {
		citations = []types.Citation{}
	}
	return &types.ParsedDocument{
		Citations:  citations,
		TotalPages: len(pages),
	}
}

// Paginate cuts text into consecutive slices of charsPerPage characters,
// numbered from 1. A non-positive size means DefaultCharsPerPage. Empty
// text yields an empty map.
func Paginate(text string, charsPerPage int) types.PageMap {
	if charsPerPage <= 0 {
		charsPerPage = DefaultCharsPerPage
	}
	pages := make(types.PageMap)
	for page := 1; text != ""; page++ {
		cut := len(text)
		if utf8.RuneCountInString(text) > charsPerPage {
			cut = 0
			for i := 0; i < charsPerPage; i++ {
				_, size := utf8.DecodeRuneInString(text[cut:])
				cut += size
			}
		}
		pages[page] = text[:cut]
		text = text[cut:]
	}
	return pages
}

// ByCategory groups citations into sorted per-category lists.
func ByCategory(citations []types.Citation) map[types.Category][]types.Citation {
	return normalize.Group(citations)
}

// Included returns the full-form citations the user has kept.
func Included(citations []types.Citation) []types.Citation {
	var out []types.Citation
	for _, c := range citations {
		if c.IsIncluded && !c.IsShortForm {
			out = append(out, c)
		}
	}
	return out
}

// Stats summarizes citations. Included counts full forms only.
func Stats(citations []types.Citation) types.Stats {
	s := types.Stats{Total: len(citations), ByCategory: make(map[types.Category]int)}
	for _, c := range citations {
		s.ByCategory[c.Category]++
		if c.IsShortForm {
			s.ShortForms++
		} else if c.IsIncluded {
			s.Included++
		}
	}
	return s
}

// Summary renders stats as one line per non-empty category, in table
// order, followed by the totals.
func Summary(s types.Stats) string {
	var b strings.Builder
	for _, cat := range types.CategoryOrder {
		if n := s.ByCategory[cat]; n > 0 {
			fmt.Fprintf(&b, "%-26s %d\n", cat.DisplayName(), n)
		}
	}
	fmt.Fprintf(&b, "total %d, short forms %d, included %d\n", s.Total, s.ShortForms, s.Included)
	return b.String()
}
