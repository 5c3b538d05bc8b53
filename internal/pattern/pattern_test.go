// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pattern

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/toa-engine/pkg/types"
)

type hit struct {
	text     string
	category types.Category
	short    bool
}

func scanAll(lib *Library, text string) []hit {
	var hits []hit
	for _, p := range lib.All() {
		for _, loc := range p.Regexp.FindAllStringSubmatchIndex(text, -1) {
			s, e := p.Span(loc)
			hits = append(hits, hit{text: text[s:e], category: p.Category, short: p.ShortForm})
		}
	}
	return hits
}

func find(hits []hit, c types.Category) []hit {
	var out []hit
	for _, h := range hits {
		if h.category == c {
			out = append(out, h)
		}
	}
	return out
}

func TestBuiltinCoverage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		category types.Category
		want     string
		short    bool
	}{
		{"landmark case", "Brown v. Board of Education, 347 U.S. 483 (1954).", types.Cases, "Brown v. Board of Education, 347 U.S. 483 (1954)", false},
		{"pinpoint", "Miranda v. Arizona, 384 U.S. 436, 444 (1966).", types.Cases, "Miranda v. Arizona, 384 U.S. 436, 444 (1966)", false},
		{"signal excluded", "See Roe v. Wade, 410 U.S. 113 (1973).", types.Cases, "Roe v. Wade, 410 U.S. 113 (1973)", false},
		{"in re", "In re Marriage of Smith, 123 Cal.App.4th 456 (2005).", types.Cases, "In re Marriage of Smith, 123 Cal.App.4th 456 (2005)", false},
		{"ex parte", "Ex parte Johnson, 456 U.S. 789 (1990).", types.Cases, "Ex parte Johnson, 456 U.S. 789 (1990)", false},
		{"circuit parenthetical", "Smith v. Jones, 450 F.3d 234 (5th Cir. 2006).", types.Cases, "Smith v. Jones, 450 F.3d 234 (5th Cir. 2006)", false},
		{"corporate party", "Bell Atlantic Corp. v. Twombly, 550 U.S. 544 (2007).", types.Cases, "Bell Atlantic Corp. v. Twombly, 550 U.S. 544 (2007)", false},
		{"ampersand party", "AT&T Mobility LLC v. Concepcion, 563 U.S. 333 (2011).", types.Cases, "AT&T Mobility LLC v. Concepcion, 563 U.S. 333 (2011)", false},
		{"state reporter", "People v. Smith, 45 N.E.2d 123 (Ill. 2003).", types.Cases, "People v. Smith, 45 N.E.2d 123 (Ill. 2003)", false},
		{"spaced reporter", "Garcia v. City of New York, 200 F. Supp. 3d 100 (S.D.N.Y. 2016).", types.Cases, "Garcia v. City of New York, 200 F. Supp. 3d 100 (S.D.N.Y. 2016)", false},
		{"fourth series", "Doe v. Roe, 22 F.4th 400 (9th Cir. 2022).", types.Cases, "Doe v. Roe, 22 F.4th 400 (9th Cir. 2022)", false},
		{"id", "Id. at 100.", types.Cases, "Id. at 100", true},
		{"supra", "Brown, supra, at 495.", types.Cases, "Brown, supra, at 495", true},
		{"short case", "Brown, 347 U.S. at 485.", types.Cases, "Brown, 347 U.S. at 485", true},

		{"usc", "Pursuant to 42 U.S.C. § 1983, plaintiff filed suit.", types.Statutes, "42 U.S.C. § 1983", false},
		{"usc subsection", "Under 28 U.S.C. § 1331(a), jurisdiction exists.", types.Statutes, "28 U.S.C. § 1331(a)", false},
		{"usc lettered", "42 U.S.C. § 2000e-2 prohibits discrimination.", types.Statutes, "42 U.S.C. § 2000e-2", false},
		{"usc range", "See 42 U.S.C. §§ 1983-1988.", types.Statutes, "42 U.S.C. §§ 1983-1988", false},
		{"usc without periods", "Title 18 USC § 1001 criminalizes false statements.", types.Statutes, "18 USC § 1001", false},
		{"california code", "See Cal. Civ. Code § 1542.", types.Statutes, "Cal. Civ. Code § 1542", false},
		{"new york law", "N.Y. Gen. Bus. Law § 349 prohibits deception.", types.Statutes, "N.Y. Gen. Bus. Law § 349", false},
		{"florida", "Fla. Stat. § 768.28 governs immunity.", types.Statutes, "Fla. Stat. § 768.28", false},
		{"texas ampersand code", "Limitations run under Tex. Civ. Prac. & Rem. Code § 16.003.", types.Statutes, "Tex. Civ. Prac. & Rem. Code § 16.003", false},
		{"texas business code", "See Tex. Bus. & Com. Code § 17.46(b).", types.Statutes, "Tex. Bus. & Com. Code § 17.46(b)", false},
		{"ilcs", "See 735 ILCS 5/2-1401.", types.Statutes, "735 ILCS 5/2-1401", false},

		{"article", "U.S. Const. art. I, § 8 grants powers.", types.Constitutional, "U.S. Const. art. I, § 8", false},
		{"amendment section", "U.S. Const. amend. XIV, § 1 protects equality.", types.Constitutional, "U.S. Const. amend. XIV, § 1", false},
		{"bare amendment", "U.S. Const. amend. IV protects privacy.", types.Constitutional, "U.S. Const. amend. IV", false},
		{"state constitution", "Cal. Const. art. I, § 7 protects privacy.", types.Constitutional, "Cal. Const. art. I, § 7", false},

		{"civil rule", "Under Fed. R. Civ. P. 12(b)(6), defendants moved.", types.Rules, "Fed. R. Civ. P. 12(b)(6)", false},
		{"evidence rule", "Fed. R. Evid. 702 governs experts.", types.Rules, "Fed. R. Evid. 702", false},
		{"appellate rule", "See Fed. R. App. P. 4(a)(1).", types.Rules, "Fed. R. App. P. 4(a)(1)", false},
		{"criminal rule", "Fed. R. Crim. P. 11 governs pleas.", types.Rules, "Fed. R. Crim. P. 11", false},
		{"rules of court", "Cal. Rules of Court, rule 8.204 governs briefs.", types.Rules, "Cal. Rules of Court, rule 8.204", false},

		{"cfr", "The regulation at 28 C.F.R. § 35.130 applies.", types.Regulations, "28 C.F.R. § 35.130", false},
		{"cfr subsection", "40 C.F.R. § 122.26(b)(14) defines discharge.", types.Regulations, "40 C.F.R. § 122.26(b)(14)", false},
		{"federal register", "See 85 Fed. Reg. 12345 (Mar. 1, 2020).", types.Regulations, "85 Fed. Reg. 12345 (Mar. 1, 2020)", false},

		{"treatise", "5 Wright & Miller, Federal Practice and Procedure § 1357 (3d ed. 2004).", types.Treatises, "5 Wright & Miller, Federal Practice and Procedure § 1357 (3d ed. 2004)", false},
		{"treatise without volume", "Laurence H. Tribe, American Constitutional Law § 16-14 (3d ed. 2000).", types.Treatises, "Laurence H. Tribe, American Constitutional Law § 16-14 (3d ed. 2000)", false},
		{"law review", "Jane Doe, Legal Theory, 100 Harv. L. Rev. 123 (2020).", types.Treatises, "Jane Doe, Legal Theory, 100 Harv. L. Rev. 123 (2020)", false},
		{"restatement second", "Restatement (Second) of Torts § 402A provides the standard.", types.Treatises, "Restatement (Second) of Torts § 402A", false},
		{"restatement third", "Restatement (Third) of Agency § 2.01 defines authority.", types.Treatises, "Restatement (Third) of Agency § 2.01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := find(scanAll(Default(), tt.text), tt.category)
			require.NotEmpty(t, hits, "no %s match in %q", tt.category, tt.text)

			var texts []string
			for _, h := range hits {
				texts = append(texts, h.text)
				if h.text == tt.want {
					assert.Equal(t, tt.short, h.short)
				}
			}
			assert.Contains(t, texts, tt.want)
		})
	}
}

func TestBuiltinSeparatesAdjacentStatutes(t *testing.T) {
	hits := find(scanAll(Default(), "28 U.S.C. § 1331 and 28 U.S.C. § 1343 both apply."), types.Statutes)
	var texts []string
	for _, h := range hits {
		texts = append(texts, h.text)
	}
	assert.Contains(t, texts, "28 U.S.C. § 1331")
	assert.Contains(t, texts, "28 U.S.C. § 1343")
}

func TestBuiltinTwoCasesInOneSentence(t *testing.T) {
	text := "Loving v. Virginia, 388 U.S. 1 (1967), and Obergefell v. Hodges, 576 U.S. 644 (2015), both apply."
	hits := find(scanAll(Default(), text), types.Cases)
	var texts []string
	for _, h := range hits {
		texts = append(texts, h.text)
	}
	assert.Contains(t, texts, "Loving v. Virginia, 388 U.S. 1 (1967)")
	assert.Contains(t, texts, "Obergefell v. Hodges, 576 U.S. 644 (2015)")
}

func TestBuiltinIgnoresPlainProse(t *testing.T) {
	hits := scanAll(Default(), "The court considered the arguments and denied the motion.")
	assert.Empty(t, hits)
}

func TestLibraryFor(t *testing.T) {
	lib := Default()
	for _, c := range types.CategoryOrder {
		for _, p := range lib.For(c) {
			assert.Equal(t, c, p.Category)
		}
	}
	assert.NotEmpty(t, lib.For(types.Cases))
	assert.Empty(t, lib.For(types.Other))
}

func TestLibraryWithDoesNotMutate(t *testing.T) {
	base := Default()
	before := base.Len()

	custom, err := Compile(`CUSTOM-REF-(\d+)`, types.Other, "custom", false)
	require.NoError(t, err)

	extended := base.With(custom)
	assert.Equal(t, before, base.Len())
	assert.Equal(t, before+1, extended.Len())
	assert.Len(t, extended.For(types.Other), 1)
	assert.Same(t, base, base.With())
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		category types.Category
		wantErr  bool
	}{
		{"valid", `CUSTOM-REF-(\d+)`, types.Other, false},
		{"bad syntax", `CUSTOM-(`, types.Other, true},
		{"unknown category", `X-\d+`, types.Category("Memos"), true},
		{"matches empty", `\d*`, types.Other, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expr, tt.category, "", false)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPattern))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSpanWithoutCiteGroup(t *testing.T) {
	p, err := Compile(`REF-(\d+)`, types.Other, "", false)
	require.NoError(t, err)

	text := "see REF-12 here"
	loc := p.Regexp.FindStringSubmatchIndex(text)
	s, e := p.Span(loc)
	assert.Equal(t, "REF-12", text[s:e])
}

func TestParse(t *testing.T) {
	data := []byte(`
- pattern: 'CUSTOM-REF-(\d+)'
  category: other
  description: Internal references
- pattern: 'Memo (\d+)'
  category: "3"
- pattern: 'Local R\. \d+'
  category: rules
  short_form: false
- pattern: 'Ref\. \d+'
`)
	patterns, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, patterns, 4)
	assert.Equal(t, types.Other, patterns[0].Category)
	assert.Equal(t, "Internal references", patterns[0].Description)
	assert.Equal(t, types.Other, patterns[1].Category)
	assert.Equal(t, types.Rules, patterns[2].Category)
	assert.Equal(t, types.Other, patterns[3].Category)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not a list", "pattern: x"},
		{"bad regex", "- pattern: '('\n  category: other"},
		{"bad category", "- pattern: 'X-\\d+'\n  category: memos"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidPattern)
		})
	}
}

func TestCompileRules(t *testing.T) {
	patterns, err := CompileRules([]Rule{
		{Pattern: `Memo \d+`},
		{Pattern: `Local Rule \d+`, Category: "Rules", Description: "local rules"},
	})
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.Equal(t, types.Other, patterns[0].Category)
	assert.Equal(t, types.Rules, patterns[1].Category)

	_, err = CompileRules([]Rule{{Pattern: `ok-\d`}, {Pattern: `x*`}})
	assert.ErrorIs(t, err, ErrInvalidPattern)
	assert.ErrorContains(t, err, "rule 2")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- pattern: 'DOC-\\d+'\n  category: other\n"), 0o644))

	patterns, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.True(t, patterns[0].Regexp.MatchString("DOC-77"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestIsValidReporter(t *testing.T) {
	valid := []string{"U.S.", "F.3d", "F.4th", "F.Supp.2d", "F. Supp. 3d", "Cal.4th", "N.Y.2d", "N.E.2d", "P.3d", "A.3d", "S.W.3d", "S.E.2d", "So.3d", "N.W.2d", "S. Ct."}
	for _, r := range valid {
		assert.True(t, IsValidReporter(r), r)
	}
	for _, r := range []string{"InvalidReporter", "Fake.3d", "", " . "} {
		assert.False(t, IsValidReporter(r), r)
	}
	assert.Greater(t, len(ReporterAbbreviations), 20)
}
