// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pattern holds the library of recognized citation forms. Each
// rule is tagged with the category it produces and whether its matches are
// short-form back-references. Libraries are immutable once built; adding
// caller rules yields a new Library.
package pattern

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/pdiddy/toa-engine/pkg/types"
)

// ErrInvalidPattern reports a caller-supplied rule that cannot be used.
var ErrInvalidPattern = errors.New("invalid citation pattern")

// citeGroup names the optional capture group that delimits the citation
// inside a larger match (for example after a leading "See").
const citeGroup = "cite"

// Pattern is one matching rule.
type Pattern struct {
	Regexp      *regexp.Regexp
	Category    types.Category
	Description string
	ShortForm   bool
}

// Span returns the citation span for a match location produced by
// Regexp.FindAllStringSubmatchIndex. When the rule has a "cite" group that
// participated in the match, the span is that group; otherwise it is the
// whole match.
func (p Pattern) Span(loc []int) (start, end int) {
	if i := p.Regexp.SubexpIndex(citeGroup); i > 0 && 2*i+1 < len(loc) && loc[2*i] >= 0 {
		return loc[2*i], loc[2*i+1]
	}
	return loc[0], loc[1]
}

// Compile builds a caller rule. It rejects expressions that do not compile,
// categories outside the closed set, and expressions that match the empty
// string (they would report a citation at every offset).
func Compile(expr string, category types.Category, description string, shortForm bool) (Pattern, error) {
	if !category.Valid() {
		return Pattern{}, fmt.Errorf("%w: unknown category %q", ErrInvalidPattern, category)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	if re.MatchString("") {
		return Pattern{}, fmt.Errorf("%w: %q matches the empty string", ErrInvalidPattern, expr)
	}
	return Pattern{
		Regexp:      re,
		Category:    category,
		Description: description,
		ShortForm:   shortForm,
	}, nil
}

// Library is an immutable, ordered set of patterns.
type Library struct {
	patterns []Pattern
}

// New returns a library holding the given patterns in order.
func New(patterns ...Pattern) *Library {
	return &Library{patterns: append([]Pattern(nil), patterns...)}
}

var builtin = New(builtinPatterns()...)

// Default returns the built-in library.
func Default() *Library {
	return builtin
}

// All returns a copy of every pattern in the library.
func (l *Library) All() []Pattern {
	return append([]Pattern(nil), l.patterns...)
}

// Len returns the number of patterns.
func (l *Library) Len() int {
	return len(l.patterns)
}

// For returns only the patterns tagged with category c.
func (l *Library) For(c types.Category) []Pattern {
	var out []Pattern
	for _, p := range l.patterns {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}

// With returns a new library with extra layered after the existing rules.
// The receiver is not modified.
func (l *Library) With(extra ...Pattern) *Library {
	if len(extra) == 0 {
		return l
	}
	combined := make([]Pattern, 0, len(l.patterns)+len(extra))
	combined = append(combined, l.patterns...)
	combined = append(combined, extra...)
	return &Library{patterns: combined}
}
