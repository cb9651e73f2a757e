// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/aizuchi-tui/internal/dialogue"
	"github.com/jeranaias/aizuchi-tui/internal/model"
	"github.com/jeranaias/aizuchi-tui/internal/responder"
	"github.com/jeranaias/aizuchi-tui/internal/session"
	"github.com/jeranaias/aizuchi-tui/internal/ui/styles"
	"github.com/jeranaias/aizuchi-tui/internal/util"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// recordingSender stands in for *tea.Program.
type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

// drain returns and forgets everything sent so far.
func (r *recordingSender) drain() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.msgs
	r.msgs = nil
	return out
}

type harness struct {
	pipeline *session.Pipeline
	sender   *recordingSender
	fire     chan time.Time
}

func newHarness(t *testing.T, opts Options) (Model, *harness) {
	t.Helper()

	h := &harness{
		sender: &recordingSender{},
		fire:   make(chan time.Time, 1),
	}
	surface := NewSurface()
	surface.Attach(h.sender)

	machine := dialogue.New(responder.New(nil, util.NewRand(1)))
	p, err := session.NewPipeline(machine, surface, session.DefaultConfig(),
		session.WithAfter(func(time.Duration) <-chan time.Time { return h.fire }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	h.pipeline = p

	m := New(styles.NewTheme("dark"), p, opts)
	m, _ = update(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, h
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// pump feeds every surface message into the model.
func (h *harness) pump(m Model) Model {
	for _, msg := range h.sender.drain() {
		m, _ = update(m, msg)
	}
	return m
}

func typeText(m Model, s string) Model {
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func pressEnter(m Model) (Model, tea.Cmd) {
	return update(m, tea.KeyMsg{Type: tea.KeyEnter})
}

func runWithTimeout(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	result := make(chan tea.Msg, 1)
	go func() { result <- cmd() }()
	select {
	case msg := <-result:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("command did not finish")
		return nil
	}
}

// =============================================================================
// SURFACE TESTS
// =============================================================================

func TestSurface_ForwardsCallbacks(t *testing.T) {
	sender := &recordingSender{}
	s := NewSurface()

	// Unattached surfaces drop messages.
	s.ShowPending()

	s.Attach(sender)
	msg := model.NewBotMessage("hi", time.Now())
	s.Render(msg)
	s.ShowPending()
	s.ClearPending()

	assert.Equal(t, []tea.Msg{
		RenderMsg{Message: msg},
		PendingMsg{Active: true},
		PendingMsg{Active: false},
	}, sender.drain())
}

// =============================================================================
// TURN FLOW TESTS
// =============================================================================

func TestOpeningPromptRenders(t *testing.T) {
	m, h := newHarness(t, Options{})

	h.pipeline.Start()
	m = h.pump(m)

	require.Len(t, m.Messages(), 1)
	assert.Equal(t, dialogue.OpeningPrompt, m.Messages()[0].Content)
	assert.Contains(t, m.View(), "こんにちは！")
	assert.Contains(t, m.View(), "NAME")
}

func TestFullTurn(t *testing.T) {
	m, h := newHarness(t, Options{ShowTimestamps: true})

	m = typeText(m, "太郎")
	assert.Equal(t, "太郎", m.InputValue())

	m, cmd := pressEnter(m)
	require.NotNil(t, cmd)
	assert.Equal(t, StateTyping, m.GetState())
	assert.Empty(t, m.InputValue())

	result := runWithTimeout(t, cmd)
	require.IsType(t, submitResultMsg{}, result)

	// User turn and indicator arrive before the reply.
	m = h.pump(m)
	require.Len(t, m.Messages(), 1)
	assert.Equal(t, model.SenderUser, m.Messages()[0].Sender)
	assert.True(t, m.IsPending())
	assert.Contains(t, m.View(), "Bot is typing")

	m, wait := update(m, result)
	require.NotNil(t, wait)

	h.fire <- time.Now()
	done := runWithTimeout(t, wait)
	require.IsType(t, turnDoneMsg{}, done)

	m = h.pump(m)
	assert.False(t, m.IsPending())
	require.Len(t, m.Messages(), 2)
	assert.Equal(t, "太郎さん、はじめまして！性別を教えていただけますか？（男性／女性／その他）", m.Messages()[1].Content)

	m, _ = update(m, done)
	assert.Equal(t, StateReady, m.GetState())
	assert.Contains(t, m.View(), "GENDER")
	assert.Contains(t, m.View(), m.Messages()[1].FormattedTime())
}

func TestBlankSubmitIgnored(t *testing.T) {
	m, h := newHarness(t, Options{})

	m = typeText(m, "   ")
	m, cmd := pressEnter(m)
	assert.Nil(t, cmd)
	assert.Equal(t, StateReady, m.GetState())
	assert.Empty(t, h.sender.drain())
}

func TestInputDisabledWhileTyping(t *testing.T) {
	m, _ := newHarness(t, Options{})

	m = typeText(m, "太郎")
	m, _ = pressEnter(m)
	require.Equal(t, StateTyping, m.GetState())

	m = typeText(m, "花子")
	assert.Empty(t, m.InputValue(), "keys must not reach the input while typing")

	_, cmd := pressEnter(m)
	assert.Nil(t, cmd)
}

func TestQuitCancelsInFlightTurn(t *testing.T) {
	m, h := newHarness(t, Options{})

	m = typeText(m, "太郎")
	m, cmd := pressEnter(m)
	result := runWithTimeout(t, cmd)
	m, wait := update(m, result)
	m = h.pump(m)

	m, quit := update(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, quit)
	assert.Equal(t, tea.QuitMsg{}, quit())
	assert.Empty(t, m.View())

	done := runWithTimeout(t, wait)
	require.IsType(t, turnDoneMsg{}, done)
	assert.ErrorIs(t, done.(turnDoneMsg).err, session.ErrTurnCanceled)

	m = h.pump(m)
	assert.False(t, m.IsPending())
	assert.Len(t, m.Messages(), 1, "cancelled turn must not render a reply")

	m, cmd = update(m, done)
	assert.Nil(t, cmd)
	assert.NoError(t, m.LastError())
}

func TestSubmitErrors(t *testing.T) {
	m, _ := newHarness(t, Options{})

	m.state = StateTyping
	m, _ = update(m, submitResultMsg{err: session.ErrTurnInFlight})
	assert.Equal(t, StateReady, m.GetState())
	assert.ErrorIs(t, m.LastError(), session.ErrTurnInFlight)
	assert.Contains(t, m.View(), "[X]")

	m, cmd := update(m, submitResultMsg{err: session.ErrClosed})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

// =============================================================================
// RENDERING TESTS
// =============================================================================

func TestRenderEscapesControlSequences(t *testing.T) {
	m, _ := newHarness(t, Options{})

	m, _ = update(m, RenderMsg{Message: model.NewUserMessage("\x1b[31mred\x1b[0m\x07", time.Now())})

	view := m.View()
	assert.Contains(t, view, "red")
	assert.NotContains(t, view, "\x1b[31m")
	assert.NotContains(t, view, "\x07")
}

func TestRenderKeepsMarkupLiteral(t *testing.T) {
	m, _ := newHarness(t, Options{})

	m, _ = update(m, RenderMsg{Message: model.NewUserMessage("<b>**bold**</b>", time.Now())})
	assert.Contains(t, m.View(), "<b>**bold**</b>")
}

func TestBotNameLabel(t *testing.T) {
	m, _ := newHarness(t, Options{BotName: "あいづち"})

	m, _ = update(m, RenderMsg{Message: model.NewBotMessage("はい", time.Now())})
	assert.Contains(t, m.View(), "あいづち")
}

func TestHelpToggle(t *testing.T) {
	m, _ := newHarness(t, Options{})

	before := m.viewport.Height
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyF1})
	assert.Contains(t, m.View(), "page up")
	assert.Less(t, m.viewport.Height, before)

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyF1})
	assert.Equal(t, before, m.viewport.Height)
}

func TestSpinnerStopsWhenIdle(t *testing.T) {
	m, _ := newHarness(t, Options{})

	_, cmd := update(m, spinner.TickMsg{})
	assert.Nil(t, cmd)

	m, cmd = update(m, PendingMsg{Active: true})
	assert.NotNil(t, cmd)
	assert.True(t, m.IsPending())
}

func TestLoadingBeforeResize(t *testing.T) {
	m := New(styles.NewTheme("dark"), &stubConversation{}, Options{})
	assert.Equal(t, "Loading...", m.View())
	assert.Equal(t, "ready", m.GetState().String())
}

func TestStatusBarShowsTurns(t *testing.T) {
	conv := &stubConversation{snap: session.Snapshot{Phase: dialogue.Open, Turns: 12}}
	m := New(styles.NewTheme("dark"), conv, Options{})
	m, _ = update(m, tea.WindowSizeMsg{Width: 80, Height: 24})

	view := m.View()
	assert.Contains(t, view, "CHAT")
	assert.True(t, strings.Contains(view, "turns 12"), view)
}

type stubConversation struct {
	snap session.Snapshot
}

func (s *stubConversation) Start() {}

func (s *stubConversation) Submit(context.Context, string) (*session.Pending, error) {
	return nil, session.ErrClosed
}

func (s *stubConversation) Snapshot() session.Snapshot { return s.snap }
