// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// UNICODE: widths come from go-runewidth so Japanese text (two columns per
// rune) lines up in bubbles and the REPL.

// StringWidth returns the display width of s in terminal columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateWidth truncates s to maxWidth columns, appending "..." when cut.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// WrapWidth hard-wraps s so no line exceeds width columns. Existing line
// breaks are kept; ASCII words are not split when a space is available.
func WrapWidth(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}

	var lines []string
	var cur []rune
	curWidth := 0
	lastSpace := -1

	for _, r := range line {
		w := runewidth.RuneWidth(r)
		if curWidth+w > width && len(cur) > 0 {
			if r == ' ' {
				lines = append(lines, strings.TrimRight(string(cur), " "))
				cur = cur[:0]
				curWidth = 0
				lastSpace = -1
				continue
			}
			if lastSpace > 0 {
				lines = append(lines, strings.TrimRight(string(cur[:lastSpace]), " "))
				cur = append([]rune(nil), cur[lastSpace+1:]...)
			} else {
				lines = append(lines, string(cur))
				cur = cur[:0]
			}
			curWidth = runewidth.StringWidth(string(cur))
			lastSpace = -1
		}
		if r == ' ' {
			lastSpace = len(cur)
		}
		cur = append(cur, r)
		curWidth += w
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

// SanitizeDisplay makes text safe to print to a terminal: escape sequences
// are stripped and remaining control characters other than newline and tab
// are dropped, so user text cannot restyle or move the cursor.
func SanitizeDisplay(s string) string {
	stripped := ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, stripped)
}

// NormalizeInput trims surrounding whitespace and composes the text to NFC
// so decomposed kana match the keyword tables.
func NormalizeInput(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
