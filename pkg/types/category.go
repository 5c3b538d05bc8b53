// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is the closed set of authority groupings used in a Table of
// Authorities.
type Category string

const (
	Cases          Category = "Cases"
	Statutes       Category = "Statutes"
	Constitutional Category = "Constitutional Provisions"
	Rules          Category = "Rules"
	Regulations    Category = "Regulations"
	Treatises      Category = "Treatises"
	Other          Category = "Other Authorities"
)

// CategoryOrder is the order in which category sections appear in a table.
var CategoryOrder = []Category{
	Cases,
	Statutes,
	Constitutional,
	Rules,
	Regulations,
	Treatises,
	Other,
}

var displayNames = map[Category]string{
	Cases:          "CASES",
	Statutes:       "STATUTES",
	Constitutional: "CONSTITUTIONAL PROVISIONS",
	Rules:          "RULES",
	Regulations:    "REGULATIONS",
	Treatises:      "TREATISES",
	Other:          "OTHER AUTHORITIES",
}

// categoryCodes maps categories to the numeric \c switch value of TA and
// TOA annotation codes. The numbering is fixed by the host word processor's
// default category list, not by CategoryOrder.
var categoryCodes = map[Category]int{
	Cases:          1,
	Statutes:       2,
	Other:          3,
	Rules:          4,
	Regulations:    5,
	Constitutional: 6,
	Treatises:      7,
}

// DefaultCategoryCode is used for any category without a fixed code.
const DefaultCategoryCode = 3

// DisplayName returns the upper-case section heading for the category.
func (c Category) DisplayName() string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return strings.ToUpper(string(c))
}

// Order returns the index of c in CategoryOrder, or -1 when c is not a
// known category.
func (c Category) Order() int {
	for i, known := range CategoryOrder {
		if known == c {
			return i
		}
	}
	return -1
}

// Valid reports whether c is one of the seven known categories.
func (c Category) Valid() bool {
	return c.Order() >= 0
}

// Code returns the numeric annotation code for c. Unrecognized categories
// degrade to DefaultCategoryCode.
func (c Category) Code() int {
	if code, ok := categoryCodes[c]; ok {
		return code
	}
	return DefaultCategoryCode
}

// ParseCategory resolves a user-supplied category name. It accepts the
// canonical value ("Constitutional Provisions"), the display name
// ("CONSTITUTIONAL PROVISIONS"), the short identifier ("constitutional"),
// or the numeric code ("6"), case-insensitively.
func ParseCategory(name string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", fmt.Errorf("empty category")
	}
	if n, err := strconv.Atoi(key); err == nil {
		for c, code := range categoryCodes {
			if code == n {
				return c, nil
			}
		}
		return "", fmt.Errorf("unknown category code %d", n)
	}
	for _, c := range CategoryOrder {
		if key == strings.ToLower(string(c)) || key == strings.ToLower(displayNames[c]) {
			return c, nil
		}
	}
	switch key {
	case "case":
		return Cases, nil
	case "statute":
		return Statutes, nil
	case "constitutional", "constitution":
		return Constitutional, nil
	case "rule":
		return Rules, nil
	case "regulation":
		return Regulations, nil
	case "treatise", "secondary":
		return Treatises, nil
	case "other":
		return Other, nil
	}
	return "", fmt.Errorf("unknown category %q", name)
}
