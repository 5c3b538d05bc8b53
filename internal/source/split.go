// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"fmt"
	"strings"

	"github.com/pdiddy/toa-engine/internal/scan"
	"github.com/pdiddy/toa-engine/pkg/types"
)

const (
	formFeed     = "\f"
	markerPrefix = "<!-- page "
	markerSuffix = " -->"
)

// Split divides document text into pages. It uses the first of these
// that applies:
//
//  1. form feeds, as emitted by pdftotext; a trailing empty page is dropped
//  2. "<!-- page N -->" marker lines, which switch the current page to N;
//     text before the first marker belongs to page 1
//  3. fixed slices of charsPerPage characters
func Split(text string, charsPerPage int) types.PageMap {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.Contains(text, formFeed) {
		return splitFormFeeds(text)
	}
	if pages, ok := splitMarkers(text); ok {
		return pages
	}
	return scan.Paginate(text, charsPerPage)
}

func splitFormFeeds(text string) types.PageMap {
	parts := strings.Split(text, formFeed)
	if strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	pages := make(types.PageMap, len(parts))
	for i, p := range parts {
		pages[i+1] = p
	}
	return pages
}

func splitMarkers(text string) (types.PageMap, bool) {
	lines := strings.Split(text, "\n")
	found := false
	for _, line := range lines {
		if _, ok := parsePageMarker(strings.TrimSpace(line)); ok {
			found = true
			break
		}
	}
	if !found {
		return nil, false
	}

	bodies := make(map[int][]string)
	marked := make(map[int]bool)
	current := 1
	for _, line := range lines {
		if page, ok := parsePageMarker(strings.TrimSpace(line)); ok {
			current = page
			marked[page] = true
			continue
		}
		bodies[current] = append(bodies[current], line)
	}

	pages := make(types.PageMap, len(bodies))
	for page, body := range bodies {
		joined := strings.Join(body, "\n")
		// Blank lines ahead of the first marker are not a page.
		if !marked[page] && strings.TrimSpace(joined) == "" {
			continue
		}
		pages[page] = joined
	}
	for page := range marked {
		if _, ok := pages[page]; !ok {
			pages[page] = ""
		}
	}
	return pages, true
}

// parsePageMarker extracts N from a trimmed "<!-- page N -->" line. Page
// numbers start at 1.
func parsePageMarker(line string) (int, bool) {
	if !strings.HasPrefix(line, markerPrefix) || !strings.HasSuffix(line, markerSuffix) {
		return 0, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(line, markerPrefix), markerSuffix)
	var page int
	var rest string
	if n, _ := fmt.Sscanf(inner, "%d%s", &page, &rest); n != 1 || page < 1 {
		return 0, false
	}
	return page, true
}
