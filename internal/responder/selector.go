// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package responder

import (
	"strings"
	"time"

	"github.com/jeranaias/aizuchi-tui/internal/model"
)

// NameHonorific is appended to the user's name when a reply is personalized.
const NameHonorific = "さん"

// TimeLayout formats the clock for the TimePlaceholder.
const TimeLayout = "15:04:05"

// Rand is the random source used to pick templates.
// *rand.Rand from math/rand/v2 and util.LockedRand both satisfy it.
type Rand interface {
	IntN(n int) int
}

// =============================================================================
// SELECTOR
// =============================================================================

// Selector classifies text and picks replies from a Catalog.
type Selector struct {
	catalog *Catalog
	rng     Rand
	now     func() time.Time
}

// Option configures a Selector.
type Option func(*Selector)

// WithClock sets the clock used to expand TimePlaceholder.
func WithClock(now func() time.Time) Option {
	return func(s *Selector) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Selector. A nil catalog means Builtin().
func New(catalog *Catalog, rng Rand, opts ...Option) *Selector {
	if catalog == nil {
		catalog = Builtin()
	}
	s := &Selector{
		catalog: catalog,
		rng:     rng,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog the selector draws from.
func (s *Selector) Catalog() *Catalog {
	return s.catalog
}

// Classify returns the first category, in Priority order, with a trigger
// contained in the lower-cased text. Default when nothing matches.
func (s *Selector) Classify(text string) Category {
	return s.catalog.Classify(text)
}

// Classify is the catalog-level form of Selector.Classify.
func (c *Catalog) Classify(text string) Category {
	lower := strings.ToLower(text)
	for _, r := range c.rules {
		for _, trigger := range r.triggers {
			if strings.Contains(lower, trigger) {
				return r.category
			}
		}
	}
	return Default
}

// Pick draws one template for cat uniformly at random and personalizes it.
// Unknown categories draw from the Default pool.
func (s *Selector) Pick(cat Category, profile model.Profile) string {
	pool := s.catalog.templates[cat]
	if len(pool) == 0 {
		pool = s.catalog.templates[Default]
	}
	reply := pool[s.rng.IntN(len(pool))]
	if strings.Contains(reply, TimePlaceholder) {
		reply = strings.ReplaceAll(reply, TimePlaceholder, s.now().Format(TimeLayout))
	}
	return Personalize(reply, profile.Name)
}

// Respond classifies text and picks a reply for it.
func (s *Selector) Respond(text string, profile model.Profile) (Category, string) {
	cat := s.Classify(text)
	return cat, s.Pick(cat, profile)
}

// Personalize prefixes reply with "{name}さん、" when name is non-empty.
func Personalize(reply, name string) string {
	if name == "" {
		return reply
	}
	return name + NameHonorific + "、" + reply
}
