// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the surfaces and the core.
//
// # Key Functions
//
// Text:
//   - StringWidth, TruncateWidth, WrapWidth: column-aware (CJK) layout
//   - SanitizeDisplay: strip terminal escape and control sequences
//   - NormalizeInput, IsBlank: submission-boundary cleanup
//
// Randomness:
//   - LockedRand: seedable, goroutine-safe source
//
// Files:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
