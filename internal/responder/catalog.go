// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package responder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyCategory means a category has no reply templates.
	ErrEmptyCategory = errors.New("category has no templates")
	// ErrUnknownCategory means a name or value does not denote a category.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidRule means a keyword rule can never be evaluated correctly.
	ErrInvalidRule = errors.New("invalid keyword rule")
)

// =============================================================================
// CATALOG
// =============================================================================

// rule is one category's trigger set, already lower-cased.
type rule struct {
	category Category
	triggers []string
}

// Catalog holds the reply pools and the keyword rules. It is immutable once
// built; every category is guaranteed to have at least one template.
type Catalog struct {
	templates map[Category][]string
	rules     []rule
}

// NewCatalog validates and freezes the given pools and keyword sets.
// Rules are ordered by Priority regardless of map order.
func NewCatalog(templates map[Category][]string, keywords map[Category][]string) (*Catalog, error) {
	c := &Catalog{templates: make(map[Category][]string, len(AllCategories))}

	for cat := range templates {
		if !cat.Valid() {
			return nil, fmt.Errorf("templates: %w: %d", ErrUnknownCategory, int(cat))
		}
	}
	for _, cat := range AllCategories {
		var pool []string
		for _, t := range templates[cat] {
			if strings.TrimSpace(t) != "" {
				pool = append(pool, t)
			}
		}
		if len(pool) == 0 {
			return nil, fmt.Errorf("%s: %w", cat, ErrEmptyCategory)
		}
		c.templates[cat] = pool
	}

	for cat, words := range keywords {
		if !cat.Valid() {
			return nil, fmt.Errorf("keywords: %w: %d", ErrUnknownCategory, int(cat))
		}
		if cat == Default && len(words) > 0 {
			return nil, fmt.Errorf("%s: %w: the fallback category cannot carry triggers", cat, ErrInvalidRule)
		}
	}
	for _, cat := range Priority {
		r := rule{category: cat}
		for _, w := range keywords[cat] {
			if w == "" {
				return nil, fmt.Errorf("%s: %w: empty trigger matches every message", cat, ErrInvalidRule)
			}
			r.triggers = append(r.triggers, strings.ToLower(w))
		}
		if len(r.triggers) > 0 {
			c.rules = append(c.rules, r)
		}
	}

	return c, nil
}

// Builtin returns the catalog shipped with the bot.
func Builtin() *Catalog {
	c, err := NewCatalog(BuiltinTemplates(), BuiltinKeywords())
	if err != nil {
		panic("responder: builtin catalog is invalid: " + err.Error())
	}
	return c
}

// Templates returns a copy of the reply pool for cat.
func (c *Catalog) Templates(cat Category) []string {
	return append([]string(nil), c.templates[cat]...)
}

// Keywords returns a copy of the triggers for cat, lower-cased.
func (c *Catalog) Keywords(cat Category) []string {
	for _, r := range c.rules {
		if r.category == cat {
			return append([]string(nil), r.triggers...)
		}
	}
	return nil
}

// =============================================================================
// CATALOG FILES
// =============================================================================

// catalogFile is the on-disk shape of a catalog override.
//
//	[responses]
//	greeting = ["やあ！"]
//
//	[keywords]
//	greeting = ["やあ", "hey"]
type catalogFile struct {
	Responses map[string][]string `toml:"responses" yaml:"responses"`
	Keywords  map[string][]string `toml:"keywords" yaml:"keywords"`
}

// LoadCatalogFile reads a TOML or YAML catalog override and merges it over
// the builtin catalog. A category listed in the file replaces the builtin
// entry for that category; unlisted categories keep their builtin entries.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to decode YAML catalog %s: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(data), &file); err != nil {
			return nil, fmt.Errorf("failed to decode TOML catalog %s: %w", path, err)
		}
	}

	templates := BuiltinTemplates()
	keywords := BuiltinKeywords()
	for name, pool := range file.Responses {
		cat, err := ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: responses: %w", path, err)
		}
		templates[cat] = pool
	}
	for name, words := range file.Keywords {
		cat, err := ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: keywords: %w", path, err)
		}
		keywords[cat] = words
	}

	c, err := NewCatalog(templates, keywords)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}
