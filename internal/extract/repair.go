// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

var (
	// continuationRe matches the start of a line that continues a citation
	// broken across lines: "at 485", "v. Board", "347 U.S. 483", "U.S. 483".
	continuationRe = regexp.MustCompile(`^(?:at\s+\d|vs?\.\s|\d+\s+[A-Z][A-Za-z.]*\s*\d|[A-Z][A-Za-z]*\.(?:\s?[A-Za-z0-9]+\.?)*\s+\d)`)

	// reporterTailRe matches a line ending in a volume and reporter whose
	// first page starts the next line ("347 U.S." / "483 (1954)").
	reporterTailRe = regexp.MustCompile(`\b\d+\s+[A-Z][A-Za-z0-9.' ]{0,15}$`)

	// versusTailRe matches a line ending in "v." inside a case name.
	versusTailRe = regexp.MustCompile(`(?:^|\s)vs?\.$`)

	leadingDigitRe = regexp.MustCompile(`^\d`)

	horizontalSpaceRe = regexp.MustCompile(`[ \t\x{00A0}\x{2000}-\x{200B}\x{202F}\x{3000}]+`)
)

// Repair undoes common text-extraction artifacts so a citation broken
// across lines can be matched as one span. A line break is replaced with a
// single space unless the line ends in sentence punctuation (. ! ? : ;) or
// the next line is blank. Breaks before a citation continuation are joined
// even after a period. Runs of horizontal whitespace collapse to one space.
func Repair(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = horizontalSpaceRe.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if i > 0 && shouldJoin(lines[i-1], line) {
			last := len(out) - 1
			out[last] = strings.TrimRight(out[last], " ") + " " + strings.TrimLeft(line, " ")
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// shouldJoin reports whether the break between prev and next is a soft wrap.
func shouldJoin(prev, next string) bool {
	p := strings.TrimRight(prev, " ")
	n := strings.TrimLeft(next, " ")
	if p == "" || n == "" {
		return false
	}
	if continuationRe.MatchString(n) || versusTailRe.MatchString(p) {
		return true
	}
	if reporterTailRe.MatchString(p) && leadingDigitRe.MatchString(n) {
		return true
	}
	switch p[len(p)-1] {
	case '.', '!', '?', ':', ';':
		return false
	}
	return true
}
