// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"
	"time"

	"github.com/jeranaias/aizuchi-tui/internal/dialogue"
)

// Pending is the in-flight turn. It completes exactly once: either the
// reply was rendered or the turn was cancelled before the machine ran.
type Pending struct {
	Turn  int
	Text  string
	Delay time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	once    sync.Once
	outcome dialogue.Outcome
	err     error
}

func newPending(parent context.Context, turn int, text string, delay time.Duration) *Pending {
	ctx, cancel := context.WithCancel(parent)
	return &Pending{
		Turn:   turn,
		Text:   text,
		Delay:  delay,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Done is closed when the turn completes or is cancelled.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Cancel drops the reply if the delay has not elapsed yet.
// Safe to call multiple times and after completion.
func (p *Pending) Cancel() {
	p.cancel()
}

// Wait blocks until the turn finishes or ctx ends.
func (p *Pending) Wait(ctx context.Context) (dialogue.Outcome, error) {
	select {
	case <-p.done:
		return p.outcome, p.err
	case <-ctx.Done():
		return dialogue.Outcome{}, ctx.Err()
	}
}

// Result returns the outcome of a finished turn. Before Done is closed it
// returns a zero Outcome and a nil error.
func (p *Pending) Result() (dialogue.Outcome, error) {
	select {
	case <-p.done:
		return p.outcome, p.err
	default:
		return dialogue.Outcome{}, nil
	}
}

func (p *Pending) finish(out dialogue.Outcome, err error) {
	p.once.Do(func() {
		p.outcome = out
		p.err = err
		p.cancel()
		close(p.done)
	})
}
