// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pincite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/toa-engine/pkg/types"
)

func TestStripCases(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantLong  string
		wantShort string
	}{
		{"pinpoint", "Illinois v. Gates, 462 U.S. 213, 232 (1983)", "Illinois v. Gates, 462 U.S. 213 (1983)", "Gates"},
		{"corporate petitioner", "Bell Atlantic Corp. v. Twombly, 550 U.S. 544, 570 (2007)", "Bell Atlantic Corp. v. Twombly, 550 U.S. 544 (2007)", "Twombly"},
		{"signal and pinpoint", "See also Ashcroft v. Iqbal, 556 U.S. 662, 678 (2009)", "Ashcroft v. Iqbal, 556 U.S. 662 (2009)", "Iqbal"},
		{"no pinpoint", "Roe v. Wade, 410 U.S. 113 (1973)", "Roe v. Wade, 410 U.S. 113 (1973)", "Wade"},
		{"page range", "Maryland v. Pringle, 540 U.S. 366, 371-73 (2003)", "Maryland v. Pringle, 540 U.S. 366 (2003)", "Pringle"},
		{"multiple pinpoints", "Maryland v. Pringle, 540 U.S. 366, 371, 373-74 (2003)", "Maryland v. Pringle, 540 U.S. 366 (2003)", "Pringle"},
		{"at pinpoint", "Brown v. Board of Education, 347 U.S. 483, at 493-94 (1954)", "Brown v. Board of Education, 347 U.S. 483 (1954)", "Education"},
		{"no parenthetical", "Illinois v. Gates, 462 U.S. 213, 232", "Illinois v. Gates, 462 U.S. 213", "Gates"},
		{"corporate respondent", "Smith v. Jones, Inc., 450 F.3d 234, 240 (5th Cir. 2006)", "Smith v. Jones, Inc., 450 F.3d 234 (5th Cir. 2006)", "Jones"},
		{"in re", "In re Marriage of Smith, 123 Cal.App.4th 456 (2005)", "In re Marriage of Smith, 123 Cal.App.4th 456 (2005)", "In re Marriage"},
		{"ex parte", "Ex parte Johnson, 456 U.S. 789 (1990)", "Ex parte Johnson, 456 U.S. 789 (1990)", "Ex parte Johnson"},
		{"first word fallback", "Brown, supra, at 495", "Brown, supra, at 495", "Brown"},
		{"slice fallback", "123 something lowercase words here and there", "123 something lowercase words here and there", "123 something lowercase words "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Strip(tt.raw, types.Cases)
			assert.Equal(t, tt.wantLong, got.LongCite)
			assert.Equal(t, tt.wantShort, got.ShortCite)
			assert.Equal(t, 1, got.CategoryCode)
		})
	}
}

func TestStripStatutes(t *testing.T) {
	got := Strip("42 U.S.C. § 1983(a)(1)", types.Statutes)
	assert.Equal(t, "42 U.S.C. § 1983", got.LongCite)
	assert.Equal(t, got.LongCite, got.ShortCite)
	assert.Equal(t, 2, got.CategoryCode)

	got = Strip("42 U.S.C. § 1983", types.Statutes)
	assert.Equal(t, "42 U.S.C. § 1983", got.LongCite)
}

func TestStripOtherCategories(t *testing.T) {
	tests := []struct {
		raw      string
		category types.Category
		want     string
		code     int
	}{
		{"See Fed. R. Civ. P. 12(b)(6)", types.Rules, "Fed. R. Civ. P. 12(b)(6)", 4},
		{"Cf. 28 C.F.R. § 35.130", types.Regulations, "28 C.F.R. § 35.130", 5},
		{"U.S. Const. amend. XIV, § 1", types.Constitutional, "U.S. Const. amend. XIV, § 1", 6},
		{"Restatement (Second) of Torts § 402A", types.Treatises, "Restatement (Second) of Torts § 402A", 7},
		{"CUSTOM-REF-12345", types.Other, "CUSTOM-REF-12345", 3},
		{"Memo 12", types.Category("Memos"), "Memo 12", 3},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Strip(tt.raw, tt.category)
			assert.Equal(t, tt.want, got.LongCite)
			assert.Equal(t, tt.want, got.ShortCite)
			assert.Equal(t, tt.code, got.CategoryCode)
		})
	}
}

func TestFieldCode(t *testing.T) {
	assert.Equal(t,
		`TA \l "Illinois v. Gates, 462 U.S. 213 (1983)" \s "Gates" \c 1`,
		FieldCode("Illinois v. Gates, 462 U.S. 213 (1983)", "Gates", 1))
}

func TestShortFieldCode(t *testing.T) {
	assert.Equal(t, `TA \s "Gates" \c 1`, ShortFieldCode("Gates", 1))
}

func TestTableFieldCode(t *testing.T) {
	tests := []struct {
		code   int
		passim bool
		leader string
		want   string
	}{
		{1, true, "", `TOA \c 1 \p`},
		{2, false, "", `TOA \c 2`},
		{3, true, "  ", `TOA \c 3 \p \e "  "`},
		{4, false, ".", `TOA \c 4 \e "."`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TableFieldCode(tt.code, tt.passim, tt.leader))
	}
}

func TestEscapeQuotes(t *testing.T) {
	escaped := EscapeQuotes(`He said "hello" to the court`)
	assert.NotContains(t, escaped, `"`)
	assert.Equal(t, "He said ”hello” to the court", escaped)
	assert.Equal(t, "no quotes here", EscapeQuotes("no quotes here"))

	code := FieldCode(`The "Best" Case v. Jones, 1 U.S. 1`, `Jones`, 1)
	inner := strings.TrimPrefix(code, `TA \l "`)
	inner = inner[:strings.Index(inner, `" \s`)]
	assert.NotContains(t, inner, `"`)
}

func TestDirectives(t *testing.T) {
	citations := []types.Citation{
		{Category: types.Statutes, IsIncluded: true},
		{Category: types.Cases, IsIncluded: true},
		{Category: types.Cases, IsIncluded: true},
		{Category: types.Rules, IsIncluded: false},
		{Category: types.Treatises, IsIncluded: true, IsShortForm: true},
	}
	assert.Equal(t, []string{`TOA \c 1 \p`, `TOA \c 2 \p`}, Directives(citations, true, ""))
	assert.Empty(t, Directives(nil, true, ""))
}

func TestAnnotate(t *testing.T) {
	got := Annotate([]types.Citation{
		{ID: "a", Text: "Illinois v. Gates, 462 U.S. 213, 232 (1983)", Category: types.Cases},
		{ID: "b", Text: "42 U.S.C. § 1983(a)", Category: types.Statutes},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "Illinois v. Gates, 462 U.S. 213 (1983)", got[0].LongCite)
	assert.Equal(t, "Gates", got[0].ShortCite)
	assert.Equal(t, 2, got[1].CategoryCode)
	assert.Empty(t, Annotate(nil))
}
