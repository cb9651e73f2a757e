// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package responder

import (
	"fmt"
	"strings"
)

// =============================================================================
// CATEGORY TYPE
// =============================================================================

// Category is the classification label that selects a reply pool.
type Category int

const (
	Greeting Category = iota
	Question
	Thanks
	Weather
	Time
	Default
)

// Priority is the fixed evaluation order of keyword rules.
// The first category whose triggers match wins; Default is the fallback and
// carries no triggers.
var Priority = []Category{Greeting, Thanks, Weather, Time, Question}

// AllCategories lists every category, in declaration order.
var AllCategories = []Category{Greeting, Question, Thanks, Weather, Time, Default}

var categoryNames = map[Category]string{
	Greeting: "greeting",
	Question: "question",
	Thanks:   "thanks",
	Weather:  "weather",
	Time:     "time",
	Default:  "default",
}

// String returns the lower-case name used in catalog files and logs.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory resolves a category name. Matching ignores case and
// surrounding whitespace; the plural forms used by older catalogs
// ("greetings", "questions") are accepted too.
func ParseCategory(name string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "greetings":
		key = "greeting"
	case "questions":
		key = "question"
	}
	for c, n := range categoryNames {
		if n == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}
