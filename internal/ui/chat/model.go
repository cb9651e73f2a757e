// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aizuchi-tui/internal/model"
	"github.com/jeranaias/aizuchi-tui/internal/session"
	"github.com/jeranaias/aizuchi-tui/internal/ui/styles"
)

// =============================================================================
// STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady  State = iota // Ready for input
	StateTyping              // A turn is in flight; input is disabled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateTyping:
		return "typing"
	default:
		return "unknown"
	}
}

// Conversation is the turn pipeline as seen by the view.
// *session.Pipeline implements it.
type Conversation interface {
	Start()
	Submit(ctx context.Context, text string) (*session.Pending, error)
	Snapshot() session.Snapshot
}

// Options tunes presentation.
type Options struct {
	BotName        string // label for bot turns; empty uses the sender default
	ShowTimestamps bool
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state    State
	pending  bool
	showHelp bool
	quitting bool
	lastErr  error

	// Styling
	theme *styles.Theme
	opts  Options

	// Dimensions
	width  int
	height int

	// Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	help     help.Model
	keys     KeyMap

	// Conversation
	conv      Conversation
	messages  []model.Message
	cancelMgr *cancelManager
}

// New creates a chat view driving conv.
func New(theme *styles.Theme, conv Conversation, opts Options) Model {
	if theme == nil {
		theme = styles.NewTheme("auto")
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "メッセージを入力..."
	ti.CharLimit = 1024
	ti.PromptStyle = theme.InputPrompt
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = styles.DotsSpinner.Spinner()
	sp.Style = theme.Spinner

	return Model{
		state:     StateReady,
		theme:     theme,
		opts:      opts,
		viewport:  vp,
		input:     ti,
		spinner:   sp,
		help:      help.New(),
		keys:      DefaultKeyMap(),
		conv:      conv,
		cancelMgr: newCancelManager(),
	}
}

// Init starts the cursor blink and renders the opening prompt.
func (m Model) Init() tea.Cmd {
	conv := m.conv
	return tea.Batch(
		textinput.Blink,
		func() tea.Msg {
			conv.Start()
			return nil
		},
	)
}

// View renders the chat view.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderChat()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// GetState returns the current state.
func (m Model) GetState() State {
	return m.state
}

// IsPending reports whether the typing indicator is shown.
func (m Model) IsPending() bool {
	return m.pending
}

// Messages returns the rendered turns.
func (m Model) Messages() []model.Message {
	out := make([]model.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// InputValue returns the current input text.
func (m Model) InputValue() string {
	return m.input.Value()
}

// LastError returns the most recent submission error, if any.
func (m Model) LastError() error {
	return m.lastErr
}
