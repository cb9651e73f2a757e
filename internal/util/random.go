// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"math/rand/v2"
	"sync"
	"time"
)

// LockedRand is a seedable random source safe for concurrent use.
// The reply selector and the typing delay share one per conversation.
type LockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRand returns a LockedRand. A zero seed draws one from the clock, so
// tests pass a fixed non-zero seed for reproducible output.
func NewRand(seed uint64) *LockedRand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &LockedRand{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntN returns a uniform int in [0, n). Panics if n <= 0.
func (r *LockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

// Int64N returns a uniform int64 in [0, n). Panics if n <= 0.
func (r *LockedRand) Int64N(n int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Int64N(n)
}
