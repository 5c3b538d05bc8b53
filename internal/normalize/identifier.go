// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"strings"

	"github.com/pdiddy/toa-engine/pkg/types"
)

// Identifier is the category-specific dedup key of a citation. It is used
// only for equality and never displayed.
type Identifier interface {
	Key() string
}

// CaseKey identifies a reported decision by volume, reporter, and first
// page. Case name and pinpoints are excluded.
type CaseKey struct {
	Volume   string
	Reporter string // compacted, e.g. "FSUPP3D"
	Page     string
}

func (k CaseKey) Key() string { return k.Volume + " " + k.Reporter + " " + k.Page }

// StatuteKey identifies a code section. Subsections are excluded.
type StatuteKey struct {
	Code    string // "42 USC", "CALCIVCODE", "735 ILCS 5"
	Section string
}

func (k StatuteKey) Key() string { return k.Code + " § " + k.Section }

// ConstitutionKey identifies a constitutional article or amendment.
type ConstitutionKey struct {
	Jurisdiction string // "US", "CAL"
	Part         string // "ART" or "AMEND"
	Number       string
}

func (k ConstitutionKey) Key() string { return k.Jurisdiction + " " + k.Part + " " + k.Number }

// RuleKey identifies a numbered rule within a rule set.
type RuleKey struct {
	Body   string // "FEDRCIVP"
	Number string
}

func (k RuleKey) Key() string { return k.Body + " " + k.Number }

// RegulationKey identifies a regulation by title, source, and section or
// page ("28 CFR 35.130", "85 FR 12345").
type RegulationKey struct {
	Title   string
	Source  string
	Section string
}

func (k RegulationKey) Key() string { return k.Title + " " + k.Source + " " + k.Section }

// TextKey is the fallback identifier: the upper-cased canonical text.
type TextKey struct {
	Text string
}

func (k TextKey) Key() string { return k.Text }

const sectionExpr = `(\d+[A-Za-z0-9]*(?:[.:-][A-Za-z0-9]+)*)`

var (
	caseTripleRe = regexp.MustCompile(`\b(\d+)\s+([A-Z][A-Za-z.']*(?:\s?(?:[A-Z][A-Za-z.']*|\d+(?:st|nd|rd|th|d)))*)\s+(\d+)\b`)
	uscKeyRe     = regexp.MustCompile(`\b(\d+)\s+U\.S\.C\.(?:\s?A\.)?\s*§\s*` + sectionExpr)
	ilcsKeyRe    = regexp.MustCompile(`\b(\d+)\s+ILCS\s+(\d+)/` + sectionExpr)
	stateKeyRe   = regexp.MustCompile(`^(.*?)\s*§\s*` + sectionExpr)
	annRe        = regexp.MustCompile(`(?i)\s+Ann\.`)
	constKeyRe   = regexp.MustCompile(`^(.*?)\s*Const\.\s+(art|amend)\.\s+([IVXLCDM]+|\d+)`)
	ruleKeyRe    = regexp.MustCompile(`^(.*?)(\d+(?:\.\d+)*)`)
	cfrKeyRe     = regexp.MustCompile(`\b(\d+)\s+C\.F\.R\.\s*(?:§|[Pp]art|pt\.)\s*` + sectionExpr)
	fedRegKeyRe  = regexp.MustCompile(`\b(\d+)\s+Fed\.\s?Reg\.\s+(\d[\d,]*)`)
)

// Identify derives the dedup identifier of a canonicalized citation.
// Unrecognized shapes fall back to TextKey.
func Identify(canonical string, category types.Category) Identifier {
	switch category {
	case types.Cases:
		if m := caseTripleRe.FindStringSubmatch(canonical); m != nil {
			return CaseKey{Volume: m[1], Reporter: compact(m[2]), Page: m[3]}
		}
	case types.Statutes:
		if m := uscKeyRe.FindStringSubmatch(canonical); m != nil {
			return StatuteKey{Code: m[1] + " USC", Section: m[2]}
		}
		if m := ilcsKeyRe.FindStringSubmatch(canonical); m != nil {
			return StatuteKey{Code: m[1] + " ILCS " + m[2], Section: m[3]}
		}
		if m := stateKeyRe.FindStringSubmatch(canonical); m != nil && m[1] != "" {
			code := annRe.ReplaceAllString(StripSignal(m[1]), "")
			return StatuteKey{Code: compact(code), Section: m[2]}
		}
	case types.Constitutional:
		if m := constKeyRe.FindStringSubmatch(canonical); m != nil {
			return ConstitutionKey{
				Jurisdiction: compact(StripSignal(m[1])),
				Part:         strings.ToUpper(m[2]),
				Number:       strings.ToUpper(m[3]),
			}
		}
	case types.Rules:
		if m := ruleKeyRe.FindStringSubmatch(StripSignal(canonical)); m != nil && m[1] != "" {
			return RuleKey{Body: compact(m[1]), Number: m[2]}
		}
	case types.Regulations:
		if m := cfrKeyRe.FindStringSubmatch(canonical); m != nil {
			return RegulationKey{Title: m[1], Source: "CFR", Section: m[2]}
		}
		if m := fedRegKeyRe.FindStringSubmatch(canonical); m != nil {
			return RegulationKey{Title: m[1], Source: "FR", Section: strings.ReplaceAll(m[2], ",", "")}
		}
	}
	return TextKey{Text: strings.ToUpper(StripSignal(canonical))}
}

// IdentifierOf canonicalizes text and derives its identifier.
func IdentifierOf(text string, category types.Category) Identifier {
	return Identify(Canonicalize(text), category)
}

// mergeKey scopes an identifier to its category so equal numbers in
// different categories never collide.
func mergeKey(category types.Category, id Identifier) string {
	return string(category) + "|" + id.Key()
}
