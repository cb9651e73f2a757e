// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for transcripts and messages.
//
// # Key Types
//
//   - Transcript: ordered turns of one conversation, bounded by MaxMessages
//   - Message: a rendered turn with sender, content and timestamp
//   - Profile: name and gender label captured during onboarding
//   - Sender: user or bot
//
// # Usage
//
//	tr := model.NewTranscript()
//	tr.Add(model.NewUserMessage("こんにちは", time.Now()))
//	last, _ := tr.Last()
//	fmt.Println(last.FormattedTime(), last.Content)
package model
