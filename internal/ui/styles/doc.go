// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the aizuchi TUI.

# Color System (colors.go)

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. Message bubbles use semantic tokens:

	UserBubbleBg / UserBubbleFg / UserBubbleBorder - user turns
	BotBubbleBg / BotBubbleFg / BotBubbleBorder    - bot turns

Status lines carry an ASCII shape next to the color ([X], [i]) so meaning
survives on monochrome terminals.

# Theme (theme.go)

NewTheme builds every lipgloss style once. The mode comes from the
ui.theme setting: "dark" and "light" force the adaptive colors, "auto" asks
the terminal through termenv.

	theme := styles.NewTheme(cfg.UI.Theme)
	theme.SetSize(width, height)
	bubble := theme.UserBubble.Width(theme.BubbleWidth()).Render(text)

# Animations (animations.go)

SpinnerConfig frames drive the bubbles spinner shown while the bot is
"typing".
*/
package styles
