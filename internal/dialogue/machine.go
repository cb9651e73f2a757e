// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dialogue

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jeranaias/aizuchi-tui/internal/model"
	"github.com/jeranaias/aizuchi-tui/internal/responder"
)

// =============================================================================
// PROMPTS
// =============================================================================

const (
	// OpeningPrompt is shown before the first turn.
	OpeningPrompt = "こんにちは！私はシンプルなチャットボットです。まずはお名前を教えてください。"

	genderPromptFormat   = "%sさん、はじめまして！性別を教えていただけますか？（男性／女性／その他）"
	acknowledgmentFormat = "%s%s、ありがとうございます！何でも気軽に話しかけてくださいね。"
)

// =============================================================================
// MACHINE
// =============================================================================

// Replier produces open-phase replies. *responder.Selector implements it.
type Replier interface {
	Respond(text string, profile model.Profile) (responder.Category, string)
}

// Outcome describes what one turn did.
type Outcome struct {
	Reply      string
	From       Phase
	To         Phase
	Classified bool               // true when the selector produced the reply
	Category   responder.Category // meaningful only when Classified
}

// Machine is the per-conversation dialogue state. It is not safe for
// concurrent use; the turn pipeline guarantees a single caller at a time.
type Machine struct {
	phase      Phase
	profile    model.Profile
	replier    Replier
	honorifics Honorifics
	logger     *zap.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithHonorifics replaces the honorific table.
func WithHonorifics(h Honorifics) Option {
	return func(m *Machine) {
		m.honorifics = h
	}
}

// WithLogger attaches a logger for phase transitions.
func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Machine in the AwaitingName phase.
func New(replier Replier, opts ...Option) *Machine {
	m := &Machine{
		phase:      AwaitingName,
		replier:    replier,
		honorifics: DefaultHonorifics(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Opening returns the bot message shown before any turn.
func (m *Machine) Opening() string {
	return OpeningPrompt
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Profile returns a copy of the captured profile.
func (m *Machine) Profile() model.Profile {
	return m.profile
}

// HandleTurn consumes one non-empty message and returns the reply to display.
func (m *Machine) HandleTurn(rawText string) string {
	return m.Handle(rawText).Reply
}

// Handle is HandleTurn with the details of what happened.
func (m *Machine) Handle(rawText string) Outcome {
	out := Outcome{From: m.phase}

	switch m.phase {
	case AwaitingName:
		m.profile.Name = rawText
		out.Reply = fmt.Sprintf(genderPromptFormat, m.profile.Name)
	case AwaitingGender:
		m.profile.GenderLabel = rawText
		out.Reply = fmt.Sprintf(acknowledgmentFormat, m.profile.Name, m.honorifics.Suffix(m.profile.GenderLabel))
	default:
		out.Category, out.Reply = m.replier.Respond(rawText, m.profile)
		out.Classified = true
	}

	m.phase = m.phase.next()
	out.To = m.phase

	if out.From != out.To {
		m.logger.Info("phase transition",
			zap.String("from", out.From.String()),
			zap.String("to", out.To.String()))
	} else if out.Classified {
		m.logger.Debug("classified message", zap.String("category", out.Category.String()))
	}
	return out
}
