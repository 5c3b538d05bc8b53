package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/toa-engine/internal/store"
	"github.com/pdiddy/toa-engine/pkg/types"
)

func TestPrintCitations(t *testing.T) {
	citations := []types.Citation{
		{ID: "cit_usc", Text: "42 U.S.C. § 1983(a)", Category: types.Statutes, Pages: []int{2}, IsIncluded: true},
		{ID: "cit_gates", Text: "Illinois v. Gates, 462 U.S. 213, 232 (1983)", Category: types.Cases, Pages: []int{1, 3}, IsIncluded: true},
		{ID: "cit_supra", Text: "Gates, supra", Category: types.Cases, Pages: []int{4}, IsShortForm: true, ParentCitationID: "cit_gates", IsIncluded: true},
		{ID: "cit_cfr", Text: "28 C.F.R. § 35.130", Category: types.Regulations, Pages: []int{5}},
	}

	var buf bytes.Buffer
	printCitations(&buf, citations)
	out := buf.String()

	assert.Less(t, strings.Index(out, "CASES"), strings.Index(out, "STATUTES"))
	assert.Less(t, strings.Index(out, "STATUTES"), strings.Index(out, "REGULATIONS"))
	assert.Contains(t, out, "  Illinois v. Gates, 462 U.S. 213 (1983)\n")
	assert.Contains(t, out, "short: Gates  pages: 1, 3  id: cit_gates")
	assert.Contains(t, out, "~ Gates, supra\n")
	assert.Contains(t, out, "- 28 C.F.R. § 35.130\n")
	assert.Contains(t, out, "  42 U.S.C. § 1983\n")
}

func TestFormatSearchOutput(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, formatSearchOutput(&buf, nil))
	assert.Equal(t, "No results found.\n", buf.String())

	buf.Reset()
	results := []store.Result{{
		Citation: types.Citation{ID: "cit_gates", Category: types.Cases, Pages: []int{1, 3}},
		Source:   "/very/long/path/to/the/opening-brief.pdf",
		LongCite: "Illinois v. Gates, 462 U.S. 213 (1983)",
	}}
	assert.NoError(t, formatSearchOutput(&buf, results))
	out := buf.String()
	assert.Contains(t, out, "Illinois v. Gates, 462 U.S. 213 (1983)")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "1, 3")
	assert.Contains(t, out, "1 results")
}

func TestJoinPages(t *testing.T) {
	assert.Equal(t, "", joinPages(nil))
	assert.Equal(t, "3, 7, 12", joinPages([]int{3, 7, 12}))
}
