// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pdiddy/toa-engine/pkg/types"
)

// SortKey returns the text a citation sorts by: the case name for Cases
// (falling back to the display text), the canonical text otherwise.
func SortKey(c types.Citation) string {
	if c.Category == types.Cases {
		if name, ok := CaseName(c.Text); ok {
			return name
		}
		return c.Text
	}
	if c.NormalizedText != "" {
		return c.NormalizedText
	}
	return Canonicalize(c.Text)
}

// Sort returns a copy of citations ordered by SortKey, compared
// case-insensitively with English collation. Equal keys keep ID order.
func Sort(citations []types.Citation) []types.Citation {
	type keyed struct {
		c   types.Citation
		key string
	}
	items := make([]keyed, len(citations))
	for i, c := range citations {
		items[i] = keyed{c: c, key: SortKey(c)}
	}

	col := collate.New(language.English, collate.Loose)
	sort.SliceStable(items, func(i, j int) bool {
		if cmp := col.CompareString(items[i].key, items[j].key); cmp != 0 {
			return cmp < 0
		}
		return items[i].c.ID < items[j].c.ID
	})

	out := make([]types.Citation, len(items))
	for i, it := range items {
		out[i] = it.c
	}
	return out
}

// Group partitions citations into one bucket per category, each sorted
// with Sort. Categories with no citations are absent from the map; iterate
// types.CategoryOrder for section order.
func Group(citations []types.Citation) map[types.Category][]types.Citation {
	buckets := make(map[types.Category][]types.Citation)
	for _, c := range citations {
		buckets[c.Category] = append(buckets[c.Category], c)
	}
	for cat, list := range buckets {
		buckets[cat] = Sort(list)
	}
	return buckets
}
