// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for transcripts and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderBot:
		return "Bot"
	default:
		return string(s)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// TimestampLayout is the per-turn clock shown next to each message.
const TimestampLayout = "15:04"

// Message is a single rendered turn in a transcript.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message stamped with at.
func NewMessage(sender Sender, content string, at time.Time) Message {
	return Message{
		ID:        generateID(),
		Sender:    sender,
		Content:   content,
		Timestamp: at,
	}
}

// NewUserMessage creates a user message stamped with at.
func NewUserMessage(content string, at time.Time) Message {
	return NewMessage(SenderUser, content, at)
}

// NewBotMessage creates a bot message stamped with at.
func NewBotMessage(content string, at time.Time) Message {
	return NewMessage(SenderBot, content, at)
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// FormattedTime returns the localized hour:minute stamp for display.
func (m Message) FormattedTime() string {
	if m.Timestamp.IsZero() {
		return ""
	}
	return m.Timestamp.Format(TimestampLayout)
}

// generateID creates a unique message ID.
func generateID() string {
	return "msg_" + uuid.NewString()
}
