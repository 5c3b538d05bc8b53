// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes raw citation matches, derives their
// category-specific dedup identifiers, merges duplicates across pages,
// resolves short forms, and orders citations for display.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	quoteReplacer = strings.NewReplacer(
		"‘", "'", "’", "'", "‚", "'", "‛", "'",
		"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
	)

	sectWordRe     = regexp.MustCompile(`(?i)\bsecs?t?\.`)
	multiSectionRe = regexp.MustCompile(`§{2,}`)
	sectionSpaceRe = regexp.MustCompile(`§\s*`)

	// uscRe and cfrRe only start after a non-word, non-period character, so
	// the "C." closing "U.S.C." can never open a C.F.R. match.
	uscRe = regexp.MustCompile(`(^|[^\w.])U\.?\s?S\.?\s?C\b\.?`)
	cfrRe = regexp.MustCompile(`(^|[^\w.])C\.?\s?F\.?\s?R\b\.?`)

	versusRe     = regexp.MustCompile(`(?i)\s+(?:vs\.?|versus)\s+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	trailingRe   = regexp.MustCompile(`[\s,;:]+$`)

	// signalRe matches an introductory signal at the start of a citation.
	signalRe = regexp.MustCompile(`(?i)^(?:See(?:,?\s+e\.g\.,|\s+also|\s+generally)?|But\s+see|But\s+cf\.|Cf\.|Accord|Contra|Compare|E\.g\.,)\s+`)
)

// Canonicalize returns the comparison form of a citation: NFKC-folded,
// ASCII quotes, one section symbol followed by one space, "U.S.C." and
// "C.F.R." spellings, "v." for "vs."/"versus", single spaces, and no
// trailing list punctuation. Canonicalize(Canonicalize(s)) == Canonicalize(s).
func Canonicalize(text string) string {
	s := norm.NFKC.String(text)
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = quoteReplacer.Replace(s)
	s = sectWordRe.ReplaceAllString(s, "§")
	s = multiSectionRe.ReplaceAllString(s, "§")
	s = sectionSpaceRe.ReplaceAllString(s, "§ ")
	s = uscRe.ReplaceAllString(s, "${1}U.S.C.")
	s = cfrRe.ReplaceAllString(s, "${1}C.F.R.")
	s = versusRe.ReplaceAllString(s, " v. ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return trailingRe.ReplaceAllString(s, "")
}

// StripSignal removes one leading introductory signal ("See", "See also",
// "Cf.", "Accord", "But see", ...) and surrounding space.
func StripSignal(text string) string {
	return signalRe.ReplaceAllString(strings.TrimSpace(text), "")
}

// compact drops periods, commas, and whitespace and upper-cases the rest so
// "F. Supp. 3d" and "F.Supp.3d" compare equal.
func compact(s string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', ' ', '\t', '\n':
			return -1
		}
		return r
	}, s))
}
