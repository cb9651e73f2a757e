// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.toml")
	data := []byte("[typing]\nmin_delay_ms = 1000\n")

	if err := AtomicWriteFile(path, data, 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", content, data)
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "deep", "test.txt")

	if err := AtomicWriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}

func TestAtomicWriteFile_OverwritesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")

	if err := AtomicWriteFile(path, []byte("initial"), 0644); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("updated"), 0644); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "updated" {
		t.Errorf("Content = %q, want %q", content, "updated")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("found %d entries, want only the target file", len(entries))
	}
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestStringWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"こんにちは", 10},
		{"太郎さん、", 10},
		{"a天", 3},
	}
	for _, tc := range tests {
		if got := StringWidth(tc.in); got != tc.want {
			t.Errorf("StringWidth(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"ascii cut", "hello world", 8, "hello..."},
		{"wide cut", "こんにちは", 7, "こん..."},
		{"tiny", "こんにちは", 2, "こ"},
		{"zero", "abc", 0, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateWidth(tc.in, tc.width); got != tc.want {
				t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
			}
		})
	}
}

func TestWrapWidth(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "short", 10, "short"},
		{"wide runes", "あいうえおか", 4, "あい\nうえ\nおか"},
		{"word boundary", "hello big world", 9, "hello big\nworld"},
		{"keeps newlines", "ab\ncd", 10, "ab\ncd"},
		{"no width", "anything", 0, "anything"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := WrapWidth(tc.in, tc.width)
			if got != tc.want {
				t.Errorf("WrapWidth(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
			}
			for _, line := range strings.Split(got, "\n") {
				if tc.width > 0 && StringWidth(line) > tc.width {
					t.Errorf("line %q exceeds width %d", line, tc.width)
				}
			}
		})
	}
}

func TestSanitizeDisplay(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "こんにちは", "こんにちは"},
		{"sgr", "\x1b[31mred\x1b[0m", "red"},
		{"cursor move", "a\x1b[2Jb", "ab"},
		{"osc title", "\x1b]0;pwned\x07ok", "ok"},
		{"bell and nul", "a\x07b\x00c", "abc"},
		{"keeps newline and tab", "a\nb\tc", "a\nb\tc"},
		{"markup literal", "<b>[red]x[/red]</b>", "<b>[red]x[/red]</b>"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeDisplay(tc.in); got != tc.want {
				t.Errorf("SanitizeDisplay(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeInput(t *testing.T) {
	// "か" + combining voiced mark composes to "が".
	if got := NormalizeInput("  \u304b\u3099 \n"); got != "\u304c" {
		t.Errorf("NormalizeInput = %q, want %q", got, "\u304c")
	}
	if got := NormalizeInput("　太郎　"); got != "太郎" {
		t.Errorf("NormalizeInput trims ideographic space: got %q", got)
	}
}

func TestIsBlank(t *testing.T) {
	for _, s := range []string{"", " ", "\t\n", "　"} {
		if !IsBlank(s) {
			t.Errorf("IsBlank(%q) = false, want true", s)
		}
	}
	if IsBlank(" x ") {
		t.Error("IsBlank(\" x \") = true, want false")
	}
}

// =============================================================================
// RANDOM TESTS
// =============================================================================

func TestLockedRand_Seeded(t *testing.T) {
	a, b := NewRand(99), NewRand(99)
	for i := 0; i < 50; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestLockedRand_Range(t *testing.T) {
	r := NewRand(0)
	for i := 0; i < 1000; i++ {
		if v := r.Int64N(5); v < 0 || v >= 5 {
			t.Fatalf("Int64N(5) = %d out of range", v)
		}
		if v := r.IntN(3); v < 0 || v >= 3 {
			t.Fatalf("IntN(3) = %d out of range", v)
		}
	}
}

func TestLockedRand_Concurrent(t *testing.T) {
	r := NewRand(1)
	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 200; i++ {
				r.IntN(10)
			}
		}()
	}
	for g := 0; g < 8; g++ {
		<-done
	}
}
