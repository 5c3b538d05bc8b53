// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pattern

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/toa-engine/pkg/types"
)

// Rule is the declarative form of a caller pattern, as it appears in a
// patterns YAML file or an API request:
//
//   - pattern: 'CUSTOM-REF-(\d+)'
//     category: other
//     description: Internal reference numbers
//     short_form: false
type Rule struct {
	Pattern     string `json:"pattern" yaml:"pattern"`
	Category    string `json:"category,omitempty" yaml:"category"`
	Description string `json:"description,omitempty" yaml:"description"`
	ShortForm   bool   `json:"short_form,omitempty" yaml:"short_form"`
}

// Compile validates r. An empty category defaults to Other Authorities.
func (r Rule) Compile() (Pattern, error) {
	category := types.Other
	if r.Category != "" {
		c, err := types.ParseCategory(r.Category)
		if err != nil {
			return Pattern{}, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
		category = c
	}
	return Compile(r.Pattern, category, r.Description, r.ShortForm)
}

// CompileRules compiles rules in order, stopping at the first invalid one.
func CompileRules(rules []Rule) ([]Pattern, error) {
	patterns := make([]Pattern, 0, len(rules))
	for i, r := range rules {
		p, err := r.Compile()
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// Parse compiles caller rules from YAML.
func Parse(data []byte) ([]Pattern, error) {
	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("%w: parsing YAML: %v", ErrInvalidPattern, err)
	}
	return CompileRules(rules)
}

// LoadFile reads and compiles caller rules from a YAML file.
func LoadFile(path string) ([]Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading patterns file: %w", err)
	}
	return Parse(data)
}
