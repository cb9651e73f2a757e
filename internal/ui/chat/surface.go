// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aizuchi-tui/internal/model"
)

// Sender delivers messages into a running program. *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// Surface adapts pipeline callbacks to Bubble Tea messages.
// Messages sent before Attach are dropped.
type Surface struct {
	mu     sync.RWMutex
	sender Sender
}

// NewSurface returns an unattached surface.
func NewSurface() *Surface {
	return &Surface{}
}

// Attach sets the program that receives surface messages.
func (s *Surface) Attach(sender Sender) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sender = sender
}

func (s *Surface) send(msg tea.Msg) {
	s.mu.RLock()
	sender := s.sender
	s.mu.RUnlock()
	if sender != nil {
		sender.Send(msg)
	}
}

// Render implements session.Surface.
func (s *Surface) Render(msg model.Message) {
	s.send(RenderMsg{Message: msg})
}

// ShowPending implements session.Surface.
func (s *Surface) ShowPending() {
	s.send(PendingMsg{Active: true})
}

// ClearPending implements session.Surface.
func (s *Surface) ClearPending() {
	s.send(PendingMsg{Active: false})
}
