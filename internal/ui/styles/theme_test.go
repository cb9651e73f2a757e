// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme_Modes(t *testing.T) {
	tests := []struct {
		mode     string
		wantDark bool
	}{
		{"dark", true},
		{"DARK", true},
		{"light", false},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			theme := NewTheme(tt.mode)
			if theme == nil {
				t.Fatal("NewTheme() returned nil")
			}
			if theme.IsDark != tt.wantDark {
				t.Errorf("IsDark = %v, want %v", theme.IsDark, tt.wantDark)
			}
		})
	}
}

func TestThemeInitStyles(t *testing.T) {
	theme := NewTheme("dark")

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"UserBubble", theme.UserBubble},
		{"BotBubble", theme.BotBubble},
		{"InputContainer", theme.InputContainer},
		{"InputDisabled", theme.InputDisabled},
		{"StatusBar", theme.StatusBar},
		{"PhaseOnboard", theme.PhaseOnboard},
		{"PhaseOpen", theme.PhaseOpen},
	}

	for _, s := range styles {
		rendered := s.style.Render("test")
		if !strings.Contains(rendered, "test") {
			t.Errorf("%s style lost its content: %q", s.name, rendered)
		}
	}
}

func TestBubblesHaveBorders(t *testing.T) {
	theme := NewTheme("dark")

	for name, style := range map[string]lipgloss.Style{
		"user": theme.UserBubble,
		"bot":  theme.BotBubble,
	} {
		if style.GetBorderStyle() == (lipgloss.Border{}) {
			t.Errorf("%s bubble should have a border", name)
		}
	}
}

// =============================================================================
// LAYOUT TESTS
// =============================================================================

func TestGetLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	theme := NewTheme("dark")
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: GetLayoutMode() = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestBubbleWidth(t *testing.T) {
	theme := NewTheme("dark")

	tests := []struct {
		width int
		want  int
	}{
		{5, 10},
		{50, 40},
		{80, 60},
		{120, 80},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		if got := theme.BubbleWidth(); got != tt.want {
			t.Errorf("width %d: BubbleWidth() = %d, want %d", tt.width, got, tt.want)
		}
	}
}

// =============================================================================
// INDICATOR TESTS
// =============================================================================

func TestRenderErrorCarriesShape(t *testing.T) {
	if got := RenderError("boom"); !strings.Contains(got, "[X] boom") {
		t.Errorf("RenderError() = %q", got)
	}
}

func TestSpinnerConfig(t *testing.T) {
	if d := DotsSpinner.Duration(); d != time.Second/6 {
		t.Errorf("DotsSpinner.Duration() = %s", d)
	}
	if d := (SpinnerConfig{}).Duration(); d != time.Second {
		t.Errorf("zero FPS should fall back to 1s, got %s", d)
	}

	s := DotsSpinner.Spinner()
	if len(s.Frames) != 6 || s.FPS != time.Second/6 {
		t.Errorf("DotsSpinner.Spinner() = %+v", s)
	}
}
