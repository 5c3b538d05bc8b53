// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract applies a citation pattern library to page text and
// produces raw match records. Every rule runs independently over every
// page, so one substring may be reported by several rules; reconciling
// those is left to the normalizer.
package extract

import (
	"sort"

	"github.com/pdiddy/toa-engine/internal/pattern"
	"github.com/pdiddy/toa-engine/pkg/types"
)

// Extractor scans text with a fixed pattern library.
type Extractor struct {
	lib *pattern.Library
}

// New returns an extractor over lib. A nil library means the built-in one.
func New(lib *pattern.Library) *Extractor {
	if lib == nil {
		lib = pattern.Default()
	}
	return &Extractor{lib: lib}
}

// Page repairs one page of text and returns every match of every rule.
// Start and End are byte offsets into the repaired text. A page with no
// citations yields an empty result.
func (e *Extractor) Page(page int, text string) []types.CitationMatch {
	repaired := Repair(text)
	if repaired == "" {
		return nil
	}

	var matches []types.CitationMatch
	for _, p := range e.lib.All() {
		for _, loc := range p.Regexp.FindAllStringSubmatchIndex(repaired, -1) {
			start, end := p.Span(loc)
			if start == end {
				continue
			}
			matches = append(matches, types.CitationMatch{
				Text:        repaired[start:end],
				Category:    p.Category,
				Start:       start,
				End:         end,
				Page:        page,
				IsShortForm: p.ShortForm,
			})
		}
	}
	sortMatches(matches)
	return matches
}

// Pages scans every page in ascending page order and returns the flat
// match list in document order.
func (e *Extractor) Pages(pages types.PageMap) []types.CitationMatch {
	var all []types.CitationMatch
	for _, n := range PageNumbers(pages) {
		all = append(all, e.Page(n, pages[n])...)
	}
	return all
}

// PageNumbers returns the keys of pages in ascending order.
func PageNumbers(pages types.PageMap) []int {
	nums := make([]int, 0, len(pages))
	for n := range pages {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// sortMatches orders matches by position, longer spans first at the same
// offset. The sort is stable so rule order breaks remaining ties.
func sortMatches(ms []types.CitationMatch) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i], ms[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End > b.End
	})
}
