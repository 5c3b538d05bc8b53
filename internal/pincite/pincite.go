// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pincite derives the table-ready long form and back-reference
// short form of a citation, and composes the TA and TOA annotation codes
// a word processor uses to build a Table of Authorities.
package pincite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/toa-engine/internal/normalize"
	"github.com/pdiddy/toa-engine/pkg/types"
)

// maxFallbackShort bounds the text slice used when no word qualifies as a
// short form.
const maxFallbackShort = 30

var (
	// pinBeforeYearRe matches the first page, its pinpoints, and the
	// closing parenthetical: "213, 232 (1983)", "483, at 493-94 (1954)".
	pinBeforeYearRe = regexp.MustCompile(`(\d+)\s*(?:,\s*(?:at\s+)?\d+(?:\s*[-–]\s*\d+)?)+(\s*\([^)]*\))`)

	// pinAtEndRe matches trailing pinpoints when there is no parenthetical.
	pinAtEndRe = regexp.MustCompile(`(\d+\s+[A-Z][A-Za-z.' ]*?\d*[a-z]*\s+\d+)(?:,\s*(?:at\s+)?\d+(?:\s*[-–]\s*\d+)?)+$`)

	partiesRe      = regexp.MustCompile(`([A-Z][A-Za-z.,' -]+?)\s+v\.\s+([A-Z][A-Za-z.,' -]+?)(?:,\s*\d|\s+\d)`)
	corpSuffixRe   = regexp.MustCompile(`(?i)^(?:Corp|Inc|Ltd|LLC|Co|v)\.?$`)
	inReShortRe    = regexp.MustCompile(`(?i)(?:In re|Ex parte)\s+[A-Z][A-Za-z'-]+`)
	firstWordRe    = regexp.MustCompile(`^[A-Z][A-Za-z'-]+`)
	subsectionsRe  = regexp.MustCompile(`(§\s*[\w.-]+)\([^)]*\)(?:\([^)]*\))*`)
	fieldQuoteRepl = strings.NewReplacer(`"`, "”")
)

// Strip derives the long form, short form, and category code of a
// citation.
//
//   - Cases: the leading signal and pinpoint pages are removed from the
//     long form; the short form is the respondent's last significant word.
//   - Statutes: subsection chains after the section number are removed;
//     long and short forms are identical.
//   - Everything else: only the leading signal is removed; long == short.
func Strip(text string, category types.Category) types.StrippedCitation {
	out := types.StrippedCitation{CategoryCode: category.Code()}
	switch category {
	case types.Cases:
		out.LongCite, out.ShortCite = stripCase(text)
	case types.Statutes:
		long := subsectionsRe.ReplaceAllString(normalize.StripSignal(text), "$1")
		out.LongCite, out.ShortCite = long, long
	default:
		long := normalize.StripSignal(text)
		out.LongCite, out.ShortCite = long, long
	}
	return out
}

func stripCase(text string) (long, short string) {
	long = normalize.StripSignal(text)
	if loc := pinBeforeYearRe.FindStringSubmatchIndex(long); loc != nil {
		long = long[:loc[0]] + long[loc[2]:loc[3]] + long[loc[4]:loc[5]] + long[loc[1]:]
	} else {
		long = pinAtEndRe.ReplaceAllString(long, "$1")
	}
	return long, shortCaseName(long)
}

// shortCaseName never returns an empty string for non-empty input.
func shortCaseName(long string) string {
	if m := partiesRe.FindStringSubmatch(long); m != nil {
		respondent := strings.TrimSpace(m[2])
		var words []string
		for _, w := range strings.Fields(respondent) {
			w = strings.TrimRight(w, ".,")
			if w != "" && w[0] >= 'A' && w[0] <= 'Z' && !corpSuffixRe.MatchString(w) {
				words = append(words, w)
			}
		}
		if len(words) > 0 {
			return words[len(words)-1]
		}
		if fields := strings.Fields(respondent); len(fields) > 0 {
			return fields[0]
		}
	}
	if m := inReShortRe.FindString(long); m != "" {
		return strings.TrimSpace(m)
	}
	if m := firstWordRe.FindString(long); m != "" {
		return m
	}
	r := []rune(long)
	if len(r) > maxFallbackShort {
		r = r[:maxFallbackShort]
	}
	return string(r)
}

// EscapeQuotes replaces straight double quotes with a typographic right
// double quote so field text never terminates a quoted switch argument.
func EscapeQuotes(s string) string {
	return fieldQuoteRepl.Replace(s)
}

// FieldCode builds the full mark for a citation:
//
//	TA \l "<long>" \s "<short>" \c <code>
func FieldCode(long, short string, code int) string {
	return fmt.Sprintf(`TA \l "%s" \s "%s" \c %d`, EscapeQuotes(long), EscapeQuotes(short), code)
}

// ShortFieldCode builds the back-reference mark used for "Id." and other
// repeat citations:
//
//	TA \s "<short>" \c <code>
func ShortFieldCode(short string, code int) string {
	return fmt.Sprintf(`TA \s "%s" \c %d`, EscapeQuotes(short), code)
}

// TableFieldCode builds the per-category table directive:
//
//	TOA \c <code>[ \p][ \e "<leader>"]
func TableFieldCode(code int, passim bool, leader string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `TOA \c %d`, code)
	if passim {
		b.WriteString(` \p`)
	}
	if leader != "" {
		fmt.Fprintf(&b, ` \e "%s"`, EscapeQuotes(leader))
	}
	return b.String()
}

// Directives returns one table directive per category that has at least
// one included full-form citation, in table section order.
func Directives(citations []types.Citation, passim bool, leader string) []string {
	present := make(map[types.Category]bool)
	for _, c := range citations {
		if c.IsIncluded && !c.IsShortForm {
			present[c.Category] = true
		}
	}
	var out []string
	for _, cat := range types.CategoryOrder {
		if present[cat] {
			out = append(out, TableFieldCode(cat.Code(), passim, leader))
		}
	}
	return out
}

// Annotated pairs a citation with its table forms.
type Annotated struct {
	types.Citation
	types.StrippedCitation
}

// Annotate strips every citation, preserving order.
func Annotate(citations []types.Citation) []Annotated {
	out := make([]Annotated, len(citations))
	for i, c := range citations {
		out[i] = Annotated{Citation: c, StrippedCitation: Strip(c.Text, c.Category)}
	}
	return out
}
