// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/toa-engine/pkg/types"
)

var (
	caseNameRe  = regexp.MustCompile(`^(.+?)\s+v\.\s+(.+?)(?:,\s*\d|\s+\d)`)
	inReNameRe  = regexp.MustCompile(`^((?:In\s+re|Ex\s+parte)\s+.+?)(?:,\s*\d|\s+\d)`)
	idRe        = regexp.MustCompile(`(?i)^(?:id|ibid)\.`)
	supraRe     = regexp.MustCompile(`^([A-Z][A-Za-z'-]+),\s+supra\b`)
	shortCaseRe = regexp.MustCompile(`^([A-Z][A-Za-z'-]+),\s+(\d+)\s+(.+?)\s+at\s+\d`)
)

// CaseName extracts "Party v. Party" or "In re Party" from a case
// citation. It reports false when the text has no recognizable case name.
func CaseName(text string) (string, bool) {
	s := StripSignal(Canonicalize(text))
	if m := inReNameRe.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if m := caseNameRe.FindStringSubmatch(s); m != nil {
		return m[1] + " v. " + m[2], true
	}
	return "", false
}

// Resolver finds the full-form case a short form refers to. It indexes
// every lower-cased word of each full-form case name once. A party that is
// not a whole word of any name ("Mac" for "MacDonald") falls back to a
// substring scan of the names in citation order.
type Resolver struct {
	citations []types.Citation
	names     []string // lower-cased case name per indexed citation
	order     []int
	byToken   map[string][]int
}

// NewResolver indexes the full-form Cases citations in citations.
func NewResolver(citations []types.Citation) *Resolver {
	r := &Resolver{citations: citations, byToken: make(map[string][]int)}
	for i, c := range citations {
		if c.IsShortForm || c.Category != types.Cases {
			continue
		}
		name, ok := CaseName(c.Text)
		if !ok {
			continue
		}
		r.names = append(r.names, strings.ToLower(name))
		r.order = append(r.order, i)
		seen := make(map[string]bool)
		for _, tok := range tokens(name) {
			if !seen[tok] {
				seen[tok] = true
				r.byToken[tok] = append(r.byToken[tok], i)
			}
		}
	}
	return r
}

// Resolve returns the ID of the parent citation for a short form. "Id."
// never resolves here because it needs document-order context. "X, supra"
// resolves to the first full-form case whose name contains the party X;
// "X, 347 U.S. at 485" additionally requires the volume and reporter to
// match. The first candidate in citation order wins.
func (r *Resolver) Resolve(short string) (string, bool) {
	s := Canonicalize(short)
	if idRe.MatchString(s) {
		return "", false
	}
	if m := supraRe.FindStringSubmatch(s); m != nil {
		if ids := r.candidates(m[1]); len(ids) > 0 {
			return r.citations[ids[0]].ID, true
		}
		return "", false
	}
	if m := shortCaseRe.FindStringSubmatch(s); m != nil {
		volume, reporter := m[2], compact(m[3])
		for _, i := range r.candidates(m[1]) {
			key, ok := IdentifierOf(r.citations[i].Text, types.Cases).(CaseKey)
			if ok && key.Volume == volume && key.Reporter == reporter {
				return r.citations[i].ID, true
			}
		}
	}
	return "", false
}

// candidates lists the citations whose case name holds party, whole-word
// matches first and substring matches only when there are none.
func (r *Resolver) candidates(party string) []int {
	party = strings.ToLower(party)
	if ids := r.byToken[party]; len(ids) > 0 {
		return ids
	}
	var ids []int
	for j, name := range r.names {
		if strings.Contains(name, party) {
			ids = append(ids, r.order[j])
		}
	}
	return ids
}

// ResolveShortForms returns a copy of citations with ParentCitationID set
// on every short form that resolves.
func ResolveShortForms(citations []types.Citation) []types.Citation {
	out := make([]types.Citation, len(citations))
	copy(out, citations)
	r := NewResolver(out)
	for i := range out {
		if !out[i].IsShortForm {
			continue
		}
		if parent, ok := r.Resolve(out[i].Text); ok {
			out[i].ParentCitationID = parent
		}
	}
	return out
}

// tokens splits a case name into lower-cased words, dropping punctuation.
func tokens(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\'' && r != '-'
	})
}
