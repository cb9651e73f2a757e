// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styles for CLI output and the REPL transcript.
//
// Colors are disabled for non-TTY output and when NO_COLOR is set.

package cli

import (
	"github.com/charmbracelet/lipgloss"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for the welcome banner
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	// LabelStyle is used for field labels in config and classify output
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	// ValueStyle is used for regular values and text
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// ErrorStyle is used for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	// DimStyle is used for hints, timestamps and the typing line
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	// UserStyle labels the user's turns in the REPL
	UserStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("141")). // Purple
			Bold(true)

	// BotStyle labels the bot's turns in the REPL
	BotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("43")). // Teal
			Bold(true)
)
