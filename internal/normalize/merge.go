// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/pdiddy/toa-engine/pkg/types"
)

// group accumulates every match that shares a merge key.
type group struct {
	key      string
	category types.Category
	pages    []int
	best     string // longest contributing text
	first    types.CitationMatch
	allShort bool
}

// Merge converts raw matches into deduplicated citations. Matches merge
// when they share a category and identifier. The merged citation keeps the
// sorted union of pages and the longest contributing text (the
// lexicographically smaller one on equal length), so the result does not
// depend on input order. Citations are returned in order of first
// appearance, with short-form parents resolved.
func Merge(matches []types.CitationMatch) []types.Citation {
	groups := make(map[string]*group)
	for _, m := range matches {
		id := IdentifierOf(m.Text, m.Category)
		key := mergeKey(m.Category, id)

		g, ok := groups[key]
		if !ok {
			g = &group{
				key:      key,
				category: m.Category,
				best:     m.Text,
				first:    m,
				allShort: true,
			}
			groups[key] = g
		}
		g.pages = append(g.pages, m.Page)
		if longer(m.Text, g.best) {
			g.best = m.Text
		}
		if earlier(m, g.first) {
			g.first = m
		}
		if !m.IsShortForm {
			g.allShort = false
		}
	}

	ordered := make([]*group, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.first.Page != b.first.Page {
			return a.first.Page < b.first.Page
		}
		if a.first.Start != b.first.Start {
			return a.first.Start < b.first.Start
		}
		return a.key < b.key
	})

	citations := make([]types.Citation, 0, len(ordered))
	for _, g := range ordered {
		citations = append(citations, types.Citation{
			ID:             citationID(g.key),
			Text:           g.best,
			OriginalText:   g.first.Text,
			NormalizedText: Canonicalize(g.best),
			Category:       g.category,
			Pages:          MergePages(g.pages),
			IsShortForm:    g.allShort,
			IsIncluded:     true,
		})
	}
	return ResolveShortForms(citations)
}

// longer reports whether a should replace b as the display text.
func longer(a, b string) bool {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la != lb {
		return la > lb
	}
	return a < b
}

// earlier orders matches by page, offset, longer span, then text.
func earlier(a, b types.CitationMatch) bool {
	if a.Page != b.Page {
		return a.Page < b.Page
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.End != b.End {
		return a.End > b.End
	}
	return a.Text < b.Text
}

// MergePages returns the sorted, duplicate-free union of page lists.
func MergePages(lists ...[]int) []int {
	set := make(map[int]bool)
	pages := []int{}
	for _, l := range lists {
		for _, p := range l {
			if !set[p] {
				set[p] = true
				pages = append(pages, p)
			}
		}
	}
	sort.Ints(pages)
	return pages
}

// citationID is stable for a merge key, so rescanning the same text yields
// the same IDs.
func citationID(key string) string {
	h := sha256.New()
	h.Write([]byte(key))
	return "cit_" + fmt.Sprintf("%x", h.Sum(nil))[:12]
}
