// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aizuchi-tui/internal/dialogue"
	"github.com/jeranaias/aizuchi-tui/internal/model"
	"github.com/jeranaias/aizuchi-tui/internal/ui/styles"
	"github.com/jeranaias/aizuchi-tui/internal/util"
)

// =============================================================================
// LAYOUT
// =============================================================================

func (m Model) renderChat() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	parts := []string{
		m.renderHeader(),
		m.viewport.View(),
		m.renderIndicator(),
		m.renderInput(),
		m.renderStatusBar(),
	}
	if m.showHelp {
		parts = append(parts, m.renderHelp())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// layout sizes the viewport to whatever the fixed rows leave over.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	reserved := lipgloss.Height(m.renderHeader()) +
		lipgloss.Height(m.renderIndicator()) +
		lipgloss.Height(m.renderInput()) +
		lipgloss.Height(m.renderStatusBar())
	if m.showHelp {
		reserved += lipgloss.Height(m.renderHelp())
	}

	h := m.height - reserved
	if h < 1 {
		h = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
}

// updateViewport re-renders the transcript and scrolls to the newest turn.
func (m *Model) updateViewport() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("aizuchi")
	subtitle := m.theme.HeaderSubtitle.Render("あいづちチャット")
	if m.opts.BotName != "" {
		subtitle = m.theme.HeaderSubtitle.Render("あいづちチャット with " + util.SanitizeDisplay(m.opts.BotName))
	}

	width := m.width - 2
	if width < 1 {
		width = 1
	}
	return m.theme.Header.Width(width).Render(title + "  " + subtitle)
}

// =============================================================================
// MESSAGES
// =============================================================================

func (m *Model) renderMessages() string {
	if len(m.messages) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		parts = append(parts, m.renderMessage(msg))
	}
	return strings.Join(parts, "\n")
}

// renderMessage renders one turn: a label line (sender and time) above a
// bubble. User turns sit on the right, bot turns on the left. Content is
// sanitized so typed escape sequences cannot restyle the terminal.
func (m *Model) renderMessage(msg model.Message) string {
	content := util.WrapWidth(util.SanitizeDisplay(msg.Content), m.theme.BubbleWidth())

	name := msg.Sender.DisplayName()
	if msg.Sender == model.SenderBot && m.opts.BotName != "" {
		name = util.SanitizeDisplay(m.opts.BotName)
	}

	var label, bubble string
	if msg.Sender == model.SenderUser {
		label = m.theme.UserLabel.Render(name)
		bubble = m.theme.UserBubble.Render(content)
	} else {
		label = m.theme.BotLabel.Render(name)
		bubble = m.theme.BotBubble.Render(content)
	}
	if m.opts.ShowTimestamps {
		label += " " + m.theme.Timestamp.Render(msg.FormattedTime())
	}

	if msg.Sender == model.SenderUser {
		block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, block)
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// renderIndicator always takes one row so the layout does not jump.
func (m Model) renderIndicator() string {
	if !m.pending {
		if m.lastErr != nil {
			return styles.RenderError(m.lastErr.Error())
		}
		return " "
	}
	name := m.opts.BotName
	if name == "" {
		name = model.SenderBot.DisplayName()
	}
	return m.spinner.View() + " " + m.theme.TypingLabel.Render(util.SanitizeDisplay(name)+" is typing")
}

// =============================================================================
// INPUT
// =============================================================================

func (m Model) renderInput() string {
	width := m.width - 2
	if width < 1 {
		width = 1
	}
	if m.state == StateTyping {
		return m.theme.InputDisabled.Width(width).Render(m.theme.InputPlaceholder.Render("返信を待っています..."))
	}
	return m.theme.InputContainer.Width(width).Render(m.input.View())
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m Model) renderStatusBar() string {
	snap := m.conv.Snapshot()

	badge := m.theme.PhaseOnboard.Render(phaseLabel(snap.Phase))
	if snap.Phase == dialogue.Open {
		badge = m.theme.PhaseOpen.Render(phaseLabel(snap.Phase))
	}

	stats := m.theme.StatsLabel.Render("turns ") + m.theme.StatsValue.Render(fmt.Sprintf("%d", snap.Turns))
	hint := m.theme.ShortcutKey.Render("F1") + m.theme.ShortcutDesc.Render(" keys")

	left := badge + " " + stats
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(hint) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Render(left + strings.Repeat(" ", gap) + hint)
}

func phaseLabel(p dialogue.Phase) string {
	switch p {
	case dialogue.AwaitingName:
		return "NAME"
	case dialogue.AwaitingGender:
		return "GENDER"
	default:
		return "CHAT"
	}
}

func (m Model) renderHelp() string {
	if !m.showHelp {
		return ""
	}
	return m.help.View(m.keys)
}
