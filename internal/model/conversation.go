// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// MaxMessages is the maximum number of messages to keep in a transcript.
// When exceeded, old messages are pruned to prevent unbounded memory growth.
const MaxMessages = 1000

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is the ordered list of turns rendered in one conversation.
// It lives only as long as the process.
type Transcript struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  []Message
}

// NewTranscript creates an empty transcript with a generated ID.
func NewTranscript() *Transcript {
	now := time.Now()
	return &Transcript{
		ID:        "conv_" + uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Add appends a message to the transcript.
func (t *Transcript) Add(msg Message) {
	t.Messages = append(t.Messages, msg)
	t.UpdatedAt = time.Now()
	t.pruneOldMessages()
}

// Count returns the number of messages.
func (t *Transcript) Count() int {
	return len(t.Messages)
}

// pruneOldMessages drops the oldest messages beyond MaxMessages.
func (t *Transcript) pruneOldMessages() {
	if len(t.Messages) <= MaxMessages {
		return
	}
	excess := len(t.Messages) - MaxMessages
	kept := make([]Message, MaxMessages)
	copy(kept, t.Messages[excess:])
	t.Messages = kept
}
