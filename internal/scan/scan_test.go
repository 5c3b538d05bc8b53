// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/toa-engine/internal/pattern"
	"github.com/pdiddy/toa-engine/pkg/types"
)

func ofCategory(citations []types.Citation, c types.Category) []types.Citation {
	var out []types.Citation
	for _, cit := range citations {
		if cit.Category == c {
			out = append(out, cit)
		}
	}
	return out
}

func TestTextSingleCase(t *testing.T) {
	doc := Text("See Brown v. Board of Education, 347 U.S. 483 (1954).", Options{})

	cases := ofCategory(doc.Citations, types.Cases)
	require.Len(t, cases, 1)
	assert.Contains(t, cases[0].Text, "Brown v. Board of Education")
	assert.Contains(t, cases[0].Text, "347 U.S. 483")
	assert.Equal(t, []int{1}, cases[0].Pages)
	assert.Equal(t, 1, doc.TotalPages)
}

func TestDocumentMergesAcrossPages(t *testing.T) {
	pages := types.PageMap{
		1: "See Brown v. Board of Education, 347 U.S. 483, 495 (1954).",
		2: "Nothing cited here.",
		3: "As held in Brown v. Board of Education, 347 U.S. 483, 493-94 (1954), separate is unequal.",
		5: "Compare Brown v. Board of Education, 347 U.S. 483 (1954).",
	}
	doc, err := Document(pages, Options{})
	require.NoError(t, err)

	cases := ofCategory(doc.Citations, types.Cases)
	require.Len(t, cases, 1)
	assert.Equal(t, []int{1, 3, 5}, cases[0].Pages)
	assert.Equal(t, 4, doc.TotalPages)
	assert.True(t, strings.HasPrefix(doc.FullText, pages[1]+"\n"+pages[2]))
}

func TestDocumentStableAcrossScans(t *testing.T) {
	pages := types.PageMap{
		1: "Illinois v. Gates, 462 U.S. 213, 232 (1983); 42 U.S.C. § 1983.",
		2: "Id. at 238. See also 28 C.F.R. § 35.130.",
	}
	first, err := Document(pages, Options{})
	require.NoError(t, err)
	second, err := Document(pages, Options{})
	require.NoError(t, err)
	assert.Equal(t, first.Citations, second.Citations)
}

func TestDocumentNilPageMap(t *testing.T) {
	doc, err := Document(nil, Options{})
	assert.ErrorIs(t, err, ErrNoPageMap)
	assert.Nil(t, doc)
}

func TestDocumentEmptyPageMap(t *testing.T) {
	doc, err := Document(types.PageMap{}, Options{})
	require.NoError(t, err)
	assert.Empty(t, doc.Citations)
	assert.NotNil(t, doc.Citations)
	assert.Zero(t, doc.TotalPages)
}

func TestTextEmpty(t *testing.T) {
	doc := Text("", Options{})
	assert.Empty(t, doc.Citations)
	assert.Zero(t, doc.TotalPages)
}

func TestTextNoCitations(t *testing.T) {
	doc := Text("The parties met on Tuesday to discuss the schedule.", Options{})
	assert.Empty(t, doc.Citations)
	assert.Equal(t, 1, doc.TotalPages)
}

func TestTextCustomPattern(t *testing.T) {
	p, err := pattern.Compile(`CUSTOM-REF-\d+`, types.Other, "internal reference", false)
	require.NoError(t, err)

	doc := Text("This matter relates to CUSTOM-REF-12345 and CUSTOM-REF-12345.", Options{Patterns: []pattern.Pattern{p}})
	other := ofCategory(doc.Citations, types.Other)
	require.Len(t, other, 1)
	assert.Equal(t, "CUSTOM-REF-12345", other[0].Text)

	// The built-in library is not modified by a scan with extra patterns.
	assert.Empty(t, pattern.Default().For(types.Other))
}

func TestOptionsFromLoadsPatternsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- pattern: 'Local Rule \\d+'\n  category: Rules\n  description: local rules\n"), 0o644))

	opts, err := OptionsFrom(types.ParserConfig{PatternsFile: path, MinConfidence: 0.7})
	require.NoError(t, err)
	require.Len(t, opts.Patterns, 1)
	assert.Equal(t, 0.7, opts.MinConfidence)

	doc := Text("Under Local Rule 7 the motion is untimely.", opts)
	rules := ofCategory(doc.Citations, types.Rules)
	require.Len(t, rules, 1)
	assert.Equal(t, "Local Rule 7", rules[0].Text)
}

func TestOptionsFromMissingFile(t *testing.T) {
	_, err := OptionsFrom(types.ParserConfig{PatternsFile: filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, err)
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		size  int
		pages int
	}{
		{"empty", "", 10, 0},
		{"short", "abc", 10, 1},
		{"exact", strings.Repeat("a", 20), 10, 2},
		{"remainder", strings.Repeat("a", 21), 10, 3},
		{"default size", strings.Repeat("a", 6001), 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := Paginate(tt.text, tt.size)
			assert.Len(t, pages, tt.pages)
			var joined strings.Builder
			for i := 1; i <= len(pages); i++ {
				joined.WriteString(pages[i])
			}
			assert.Equal(t, tt.text, joined.String())
		})
	}
}

func TestPaginateCountsCharactersNotBytes(t *testing.T) {
	pages := Paginate("§§§§", 2)
	require.Len(t, pages, 2)
	assert.Equal(t, "§§", pages[1])
	assert.Equal(t, "§§", pages[2])
}

func TestDerivedViews(t *testing.T) {
	citations := []types.Citation{
		{ID: "a", Text: "Roe v. Wade, 410 U.S. 113 (1973)", Category: types.Cases, IsIncluded: true},
		{ID: "b", Text: "Brown v. Board of Education, 347 U.S. 483 (1954)", Category: types.Cases, IsIncluded: false},
		{ID: "c", Text: "Brown, supra", Category: types.Cases, IsShortForm: true, IsIncluded: true},
		{ID: "d", Text: "42 U.S.C. § 1983", Category: types.Statutes, IsIncluded: true},
	}

	grouped := ByCategory(citations)
	require.Len(t, grouped[types.Cases], 3)
	assert.Equal(t, "a", grouped[types.Cases][2].ID)

	included := Included(citations)
	require.Len(t, included, 2)
	assert.Equal(t, "a", included[0].ID)
	assert.Equal(t, "d", included[1].ID)

	s := Stats(citations)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 3, s.ByCategory[types.Cases])
	assert.Equal(t, 1, s.ByCategory[types.Statutes])
	assert.Equal(t, 1, s.ShortForms)
	assert.Equal(t, 2, s.Included)

	summary := Summary(s)
	assert.Contains(t, summary, "CASES")
	assert.Contains(t, summary, "total 4, short forms 1, included 2")
	assert.NotContains(t, summary, "RULES")
}
