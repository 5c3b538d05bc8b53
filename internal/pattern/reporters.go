// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pattern

import "strings"

// ReporterAbbreviations lists the case reporters recognized as valid.
var ReporterAbbreviations = []string{
	"U.S.", "S. Ct.", "L. Ed.", "L. Ed. 2d",
	"F.", "F.2d", "F.3d", "F.4th", "F. App'x",
	"F. Supp.", "F. Supp. 2d", "F. Supp. 3d",
	"Cal.", "Cal. 2d", "Cal. 3d", "Cal. 4th", "Cal. 5th",
	"Cal. App.", "Cal. App. 2d", "Cal. App. 3d", "Cal. App. 4th", "Cal. App. 5th",
	"Cal. Rptr.", "Cal. Rptr. 2d", "Cal. Rptr. 3d",
	"N.Y.", "N.Y.2d", "N.Y.3d", "A.D.2d", "A.D.3d",
	"N.E.", "N.E.2d", "N.E.3d",
	"P.", "P.2d", "P.3d",
	"A.", "A.2d", "A.3d",
	"S.W.", "S.W.2d", "S.W.3d",
	"S.E.", "S.E.2d",
	"So.", "So. 2d", "So. 3d",
	"N.W.", "N.W.2d",
}

var reporterSet = func() map[string]bool {
	set := make(map[string]bool, len(ReporterAbbreviations))
	for _, r := range ReporterAbbreviations {
		set[reporterKey(r)] = true
	}
	return set
}()

// reporterKey drops periods and whitespace so "F. Supp. 2d" and
// "F.Supp.2d" compare equal.
func reporterKey(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || r == ' ' || r == '\t' || r == '\n' || r == ' ' {
			return -1
		}
		return r
	}, s)
}

// IsValidReporter reports whether abbrev names a known reporter, ignoring
// periods and whitespace.
func IsValidReporter(abbrev string) bool {
	key := reporterKey(abbrev)
	if key == "" {
		return false
	}
	return reporterSet[key]
}
