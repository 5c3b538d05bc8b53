// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toa

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// Passim is appended to page lists that reach the passim threshold.
	Passim = "passim"

	// ItalicDelimiter brackets text the document writer should italicize.
	ItalicDelimiter = "_"

	// wrapSeparator replaces a computed dot leader when the entry is too
	// long to share a line with its pages.
	wrapSeparator = " ............. "

	// pageLabelIndent right-aligns the optional "Page(s)" column header.
	pageLabelIndent = 60
	pageLabel       = "Page(s)"
)

var (
	// italicCaseRe matches "Party v. Party" ahead of the volume number.
	italicCaseRe = regexp.MustCompile(`^([A-Z][A-Za-z\s&.'-]+\s+v\.\s+[A-Z][A-Za-z\s&.'-]+?)(?:,\s*\d|\s+\d)`)

	// italicInReRe matches "In re Party" and "Ex parte Party".
	italicInReRe = regexp.MustCompile(`^((?:In re|Ex parte)\s+[A-Z][A-Za-z\s&.'-]+?)(?:,\s*\d|\s+\d)`)
)

// PageList renders the distinct pages of a citation in ascending order.
// When the distinct count reaches threshold, only the first threshold
// pages are listed, followed by "passim". A threshold below 1 disables
// passim.
func PageList(pages []int, threshold int) string {
	distinct := uniquePages(pages)
	passim := threshold > 0 && len(distinct) >= threshold
	if passim {
		distinct = distinct[:threshold]
	}
	parts := make([]string, 0, len(distinct)+1)
	for _, p := range distinct {
		parts = append(parts, strconv.Itoa(p))
	}
	if passim {
		parts = append(parts, Passim)
	}
	return strings.Join(parts, ", ")
}

func uniquePages(pages []int) []int {
	sorted := append([]int(nil), pages...)
	sort.Ints(sorted)
	out := sorted[:0]
	for i, p := range sorted {
		if i == 0 || p != sorted[i-1] {
			out = append(out, p)
		}
	}
	return out
}

// DotLeader returns the run between an entry and its page list, pages
// included, sized so the visible line is exactly maxLength runes wide.
// Italic delimiters in text do not count toward the width. Entries that
// leave fewer than three columns free get a fixed separator instead.
func DotLeader(text, pages string, maxLength int) string {
	total := visibleLen(text) + utf8.RuneCountInString(pages)
	if total >= maxLength-3 {
		return wrapSeparator + pages
	}
	return " " + strings.Repeat(".", maxLength-total-2) + " " + pages
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(strings.ReplaceAll(s, ItalicDelimiter, ""))
}

// ItalicizeCaseName wraps the case name of a case citation in
// ItalicDelimiter. Text without a recognizable case name is returned
// unchanged.
func ItalicizeCaseName(text string) string {
	loc := italicCaseRe.FindStringSubmatchIndex(text)
	if loc == nil {
		loc = italicInReRe.FindStringSubmatchIndex(text)
	}
	if loc == nil {
		return text
	}
	return text[:loc[2]] + ItalicDelimiter + text[loc[2]:loc[3]] + ItalicDelimiter + text[loc[3]:]
}

// Entry renders one table line: the entry text, then either a dot leader
// or a single space, then the page list.
func Entry(text string, pages []int, threshold, maxLength int, dotLeaders bool) string {
	list := PageList(pages, threshold)
	if dotLeaders {
		return text + DotLeader(text, list, maxLength)
	}
	return text + " " + list
}
