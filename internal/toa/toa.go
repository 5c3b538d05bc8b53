// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toa renders a Table of Authorities from deduplicated citations,
// as plain text or as a minimal WordprocessingML fragment.
package toa

import (
	"strings"

	"github.com/pdiddy/toa-engine/internal/normalize"
	"github.com/pdiddy/toa-engine/pkg/types"
)

// Title heads every rendered table.
const Title = "TABLE OF AUTHORITIES"

type lineKind int

const (
	lineBody lineKind = iota
	lineTitle
	lineHeading
)

type line struct {
	kind lineKind
	text string
}

// Generate renders citations as a Table of Authorities. Short forms never
// appear; excluded citations are dropped when cfg.OnlyIncluded is set.
// Zero PassimThreshold and MaxLineLength take their defaults.
func Generate(citations []types.Citation, cfg types.FormatConfig) string {
	lines := layout(Eligible(citations, cfg.OnlyIncluded), withDefaults(cfg))
	if cfg.AsOOXML {
		return renderOOXML(lines)
	}
	return renderText(lines)
}

// Preview renders the plain-text table of included citations.
func Preview(citations []types.Citation, cfg types.FormatConfig) string {
	cfg.OnlyIncluded = true
	cfg.AsOOXML = false
	return Generate(citations, cfg)
}

// Eligible returns the full-form citations that belong in a table.
func Eligible(citations []types.Citation, onlyIncluded bool) []types.Citation {
	var out []types.Citation
	for _, c := range citations {
		if c.IsShortForm || (onlyIncluded && !c.IsIncluded) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Counts returns the number of included full-form citations per category.
func Counts(citations []types.Citation) map[types.Category]int {
	counts := make(map[types.Category]int)
	for _, c := range Eligible(citations, true) {
		counts[c.Category]++
	}
	return counts
}

func withDefaults(cfg types.FormatConfig) types.FormatConfig {
	def := types.DefaultFormatConfig()
	if cfg.PassimThreshold <= 0 {
		cfg.PassimThreshold = def.PassimThreshold
	}
	if cfg.MaxLineLength <= 0 {
		cfg.MaxLineLength = def.MaxLineLength
	}
	return cfg
}

func layout(citations []types.Citation, cfg types.FormatConfig) []line {
	lines := []line{{lineTitle, Title}, {lineBody, ""}}
	groups := normalize.Group(citations)
	for _, cat := range types.CategoryOrder {
		list := groups[cat]
		if len(list) == 0 {
			continue
		}
		lines = append(lines, line{lineBody, ""}, line{lineHeading, cat.DisplayName()}, line{lineBody, ""})
		if cfg.IncludePageCounts {
			lines = append(lines, line{lineBody, strings.Repeat(" ", pageLabelIndent) + pageLabel}, line{lineBody, ""})
		}
		for _, c := range list {
			text := c.Text
			if cat == types.Cases {
				text = ItalicizeCaseName(text)
			}
			lines = append(lines, line{lineBody, Entry(text, c.Pages, cfg.PassimThreshold, cfg.MaxLineLength, cfg.UseDotLeaders)})
		}
	}
	return lines
}

func renderText(lines []line) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.text
	}
	return strings.Join(texts, "\n")
}
