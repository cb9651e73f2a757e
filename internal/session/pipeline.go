// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/aizuchi-tui/internal/dialogue"
	"github.com/jeranaias/aizuchi-tui/internal/model"
	"github.com/jeranaias/aizuchi-tui/internal/responder"
	"github.com/jeranaias/aizuchi-tui/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrBlankInput is returned for input that is empty after trimming.
	// Surfaces drop it silently.
	ErrBlankInput = errors.New("blank input")

	// ErrTurnInFlight is returned while a reply is still pending.
	ErrTurnInFlight = errors.New("turn already in flight")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("pipeline closed")

	// ErrTurnCanceled is the result of a turn cancelled before its reply.
	ErrTurnCanceled = errors.New("turn canceled")

	// ErrInvalidDelay reports bad typing delay bounds.
	ErrInvalidDelay = errors.New("invalid typing delay")
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Surface is a display surface. Calls arrive from the pipeline's goroutines,
// never concurrently for the same pipeline.
type Surface interface {
	// Render appends a turn to the transcript view.
	Render(msg model.Message)
	// ShowPending raises the typing indicator.
	ShowPending()
	// ClearPending lowers the typing indicator.
	ClearPending()
}

// Handler advances the conversation. *dialogue.Machine implements it.
type Handler interface {
	Opening() string
	Phase() dialogue.Phase
	Handle(text string) dialogue.Outcome
}

// DelaySource draws the typing delay. *util.LockedRand implements it.
type DelaySource interface {
	Int64N(n int64) int64
}

// =============================================================================
// CONFIG
// =============================================================================

// Config holds the typing delay bounds. The delay is uniform in
// [MinDelay, MaxDelay].
type Config struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

// DefaultConfig returns 1s to 2s.
func DefaultConfig() Config {
	return Config{
		MinDelay: 1000 * time.Millisecond,
		MaxDelay: 2000 * time.Millisecond,
	}
}

// Validate checks the delay bounds.
func (c Config) Validate() error {
	if c.MinDelay < 0 || c.MaxDelay < 0 {
		return fmt.Errorf("%w: delays must not be negative (min %s, max %s)", ErrInvalidDelay, c.MinDelay, c.MaxDelay)
	}
	if c.MinDelay > c.MaxDelay {
		return fmt.Errorf("%w: min %s exceeds max %s", ErrInvalidDelay, c.MinDelay, c.MaxDelay)
	}
	return nil
}

// =============================================================================
// PIPELINE
// =============================================================================

// Snapshot is a point-in-time view of the pipeline for status displays.
type Snapshot struct {
	SessionID  string
	Phase      dialogue.Phase
	Turns      int
	Messages   int // rendered turns, including the opening prompt
	Busy       bool
	Closed     bool
	Categories map[string]int
}

// Pipeline serializes turns. Safe for concurrent use.
type Pipeline struct {
	mu sync.Mutex
	wg sync.WaitGroup

	id      string
	handler Handler
	surface Surface
	cfg     Config
	rng     DelaySource
	now     func() time.Time
	timer   func(time.Duration) (<-chan time.Time, func())
	logger  *zap.Logger

	transcript *model.Transcript
	current    *Pending
	started    bool
	closed     bool
	turns      int
	phase      dialogue.Phase
	categories map[responder.Category]int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRand sets the delay source.
func WithRand(r DelaySource) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.rng = r
		}
	}
}

// WithClock sets the clock used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithAfter replaces the delay timer. Tests use it to release turns by hand.
func WithAfter(after func(time.Duration) <-chan time.Time) Option {
	return func(p *Pipeline) {
		if after != nil {
			p.timer = func(d time.Duration) (<-chan time.Time, func()) {
				return after(d), func() {}
			}
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline wires a handler to a surface.
func NewPipeline(handler Handler, surface Surface, cfg Config, opts ...Option) (*Pipeline, error) {
	if handler == nil {
		return nil, errors.New("session: nil handler")
	}
	if surface == nil {
		return nil, errors.New("session: nil surface")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		id:         "sess_" + uuid.NewString(),
		handler:    handler,
		surface:    surface,
		cfg:        cfg,
		now:        time.Now,
		timer:      newTimer,
		logger:     zap.NewNop(),
		transcript: model.NewTranscript(),
		phase:      handler.Phase(),
		categories: make(map[responder.Category]int),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = util.NewRand(0)
	}
	p.logger = p.logger.With(zap.String("session", p.id))
	return p, nil
}

func newTimer(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTimer(d)
	return t.C, func() { t.Stop() }
}

// ID returns the session identifier.
func (p *Pipeline) ID() string {
	return p.id
}

// Start renders the opening prompt. Only the first call has an effect.
func (p *Pipeline) Start() {
	p.mu.Lock()
	if p.started || p.closed {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	p.emit(model.NewBotMessage(p.handler.Opening(), p.now()))
}

// Submit starts a turn. The user's message is rendered and the pending
// indicator shown before Submit returns; the reply follows after the delay.
func (p *Pipeline) Submit(ctx context.Context, raw string) (*Pending, error) {
	text := util.NormalizeInput(raw)
	if text == "" {
		return nil, ErrBlankInput
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	if p.current != nil {
		inFlight := p.current.Turn
		p.mu.Unlock()
		p.logger.Debug("submission rejected", zap.Int("in_flight", inFlight))
		return nil, ErrTurnInFlight
	}
	p.turns++
	pending := newPending(ctx, p.turns, text, p.nextDelay())
	p.current = pending
	p.wg.Add(1)
	p.mu.Unlock()

	p.logger.Debug("turn submitted",
		zap.Int("turn", pending.Turn),
		zap.Duration("delay", pending.Delay))

	p.emit(model.NewUserMessage(text, p.now()))
	p.surface.ShowPending()

	go p.run(pending)
	return pending, nil
}

func (p *Pipeline) nextDelay() time.Duration {
	span := int64(p.cfg.MaxDelay - p.cfg.MinDelay)
	if span <= 0 {
		return p.cfg.MinDelay
	}
	return p.cfg.MinDelay + time.Duration(p.rng.Int64N(span+1))
}

func (p *Pipeline) run(pending *Pending) {
	defer p.wg.Done()

	fire, stop := p.timer(pending.Delay)
	select {
	case <-fire:
	case <-pending.ctx.Done():
		stop()
		p.surface.ClearPending()
		p.release(pending, nil)
		p.logger.Info("turn canceled", zap.Int("turn", pending.Turn))
		pending.finish(dialogue.Outcome{}, ErrTurnCanceled)
		return
	}

	out := p.handler.Handle(pending.Text)
	p.surface.ClearPending()
	p.emit(model.NewBotMessage(out.Reply, p.now()))
	p.release(pending, &out)

	fields := []zap.Field{
		zap.Int("turn", pending.Turn),
		zap.String("phase", out.To.String()),
	}
	if out.Classified {
		fields = append(fields, zap.String("category", out.Category.String()))
	}
	p.logger.Info("turn complete", fields...)
	pending.finish(out, nil)
}

func (p *Pipeline) release(pending *Pending, out *dialogue.Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == pending {
		p.current = nil
	}
	if out != nil {
		p.phase = out.To
		if out.Classified {
			p.categories[out.Category]++
		}
	}
}

func (p *Pipeline) emit(msg model.Message) {
	p.mu.Lock()
	p.transcript.Add(msg)
	p.mu.Unlock()
	p.surface.Render(msg)
}

// Busy reports whether a turn is in flight.
func (p *Pipeline) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}

// Cancel drops the in-flight reply, if any.
func (p *Pipeline) Cancel() {
	p.mu.Lock()
	cur := p.current
	p.mu.Unlock()
	if cur != nil {
		cur.Cancel()
	}
}

// Close cancels the in-flight turn, waits for it to unwind and rejects
// later submissions.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	cur := p.current
	p.mu.Unlock()

	if cur != nil {
		cur.Cancel()
	}
	p.wg.Wait()
	p.logger.Debug("pipeline closed")
	return nil
}

// Snapshot returns the current status.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	cats := make(map[string]int, len(p.categories))
	for c, n := range p.categories {
		cats[c.String()] = n
	}
	return Snapshot{
		SessionID:  p.id,
		Phase:      p.phase,
		Turns:      p.turns,
		Messages:   p.transcript.Count(),
		Busy:       p.current != nil,
		Closed:     p.closed,
		Categories: cats,
	}
}

// Transcript returns a copy of every rendered message.
func (p *Pipeline) Transcript() []model.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.Message, len(p.transcript.Messages))
	copy(out, p.transcript.Messages)
	return out
}
