// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aizuchi-tui/internal/model"
	"github.com/jeranaias/aizuchi-tui/internal/session"
	"github.com/jeranaias/aizuchi-tui/internal/util"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case RenderMsg:
		m.messages = append(m.messages, msg.Message)
		if len(m.messages) > model.MaxMessages {
			m.messages = m.messages[len(m.messages)-model.MaxMessages:]
		}
		m.updateViewport()
		return m, nil

	case PendingMsg:
		m.pending = msg.Active
		m.layout()
		if m.pending {
			return m, m.spinner.Tick
		}
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submitResultMsg:
		return m.handleSubmitResult(msg)

	case turnDoneMsg:
		return m.handleTurnDone(msg)
	}

	return m, nil
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(m.width, m.height)
	m.help.Width = m.width

	const promptLen = 2 // "> "
	inputWidth := m.width - 4 - promptLen
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	m.layout()
	m.updateViewport()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.cancelMgr.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	if m.state != StateReady {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit hands the input to the pipeline. Submit runs inside a command
// because the pipeline renders through Program.Send, which would block if
// called from Update.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.state != StateReady {
		return m, nil
	}

	text := m.input.Value()
	m.input.Reset()
	if util.IsBlank(text) {
		return m, nil
	}

	m.state = StateTyping
	m.lastErr = nil
	m.input.Blur()
	m.layout()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelMgr.setCancelFunc(cancel)

	conv := m.conv
	return m, func() tea.Msg {
		pending, err := conv.Submit(ctx, text)
		return submitResultMsg{pending: pending, err: err}
	}
}

func (m Model) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.cancelMgr.cancel()
		m.state = StateReady
		m.layout()
		switch {
		case errors.Is(msg.err, session.ErrBlankInput):
		case errors.Is(msg.err, session.ErrClosed):
			m.quitting = true
			return m, tea.Quit
		default:
			m.lastErr = msg.err
		}
		return m, m.input.Focus()
	}

	return m, waitForTurn(msg.pending)
}

func (m Model) handleTurnDone(msg turnDoneMsg) (tea.Model, tea.Cmd) {
	m.cancelMgr.cancel()
	m.state = StateReady
	if msg.err != nil && !errors.Is(msg.err, session.ErrTurnCanceled) {
		m.lastErr = msg.err
	}
	m.layout()
	if m.quitting {
		return m, nil
	}
	return m, m.input.Focus()
}

// waitForTurn blocks until the pending turn completes.
func waitForTurn(pending *session.Pending) tea.Cmd {
	return func() tea.Msg {
		<-pending.Done()
		_, err := pending.Result()
		return turnDoneMsg{turn: pending.Turn, err: err}
	}
}
