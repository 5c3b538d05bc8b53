// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session tracks the marking state of one document editing
// session. A Session is an ordinary value owned by its caller; two
// sessions never share state.
package session

import (
	"errors"

	"github.com/pdiddy/toa-engine/internal/pincite"
	"github.com/pdiddy/toa-engine/pkg/types"
)

// ErrNoPriorAuthority is returned by MarkID before any authority has been
// marked.
var ErrNoPriorAuthority = errors.New("session: no authority marked yet")

// Session records the most recently marked authority and how many marks
// have been placed.
type Session struct {
	LastMarked  *types.StrippedCitation
	MarkedCount int
}

// Mark is one planned annotation.
type Mark struct {
	CitationID  string `json:"citation_id" yaml:"citation_id"`
	LongCite    string `json:"long_cite,omitempty" yaml:"long_cite,omitempty"`
	ShortCite   string `json:"short_cite" yaml:"short_cite"`
	Code        int    `json:"code" yaml:"code"`
	FieldCode   string `json:"field_code" yaml:"field_code"`
	IsShortForm bool   `json:"is_short_form" yaml:"is_short_form"`
}

// Mark returns the full TA code for s and records s as the last marked
// authority.
func (ss *Session) Mark(s types.StrippedCitation) string {
	ss.LastMarked = &s
	ss.MarkedCount++
	return pincite.FieldCode(s.LongCite, s.ShortCite, s.CategoryCode)
}

// MarkID returns the back-reference code for an "Id." placed after the
// last marked authority. This assumes the Id. refers to whatever was
// marked last, which is wrong when authorities interleave.
func (ss *Session) MarkID() (string, error) {
	if ss.LastMarked == nil {
		return "", ErrNoPriorAuthority
	}
	ss.MarkedCount++
	return pincite.ShortFieldCode(ss.LastMarked.ShortCite, ss.LastMarked.CategoryCode), nil
}

// Plan marks citations in the order given, which for scan results is
// first appearance. Included full forms get a full TA code. Included short
// forms whose parent was marked earlier in the plan get a back-reference to
// the parent's short cite; excluded or unresolved short forms are skipped.
func (ss *Session) Plan(citations []types.Citation) []Mark {
	parents := make(map[string]types.StrippedCitation)
	var marks []Mark
	for _, c := range citations {
		if c.IsShortForm {
			parent, ok := parents[c.ParentCitationID]
			if !c.IsIncluded || c.ParentCitationID == "" || !ok {
				continue
			}
			ss.MarkedCount++
			marks = append(marks, Mark{
				CitationID:  c.ID,
				ShortCite:   parent.ShortCite,
				Code:        parent.CategoryCode,
				FieldCode:   pincite.ShortFieldCode(parent.ShortCite, parent.CategoryCode),
				IsShortForm: true,
			})
			continue
		}
		if !c.IsIncluded {
			continue
		}
		s := pincite.Strip(c.Text, c.Category)
		parents[c.ID] = s
		marks = append(marks, Mark{
			CitationID: c.ID,
			LongCite:   s.LongCite,
			ShortCite:  s.ShortCite,
			Code:       s.CategoryCode,
			FieldCode:  ss.Mark(s),
		})
	}
	return marks
}
