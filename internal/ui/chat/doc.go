// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the full-screen Bubble Tea chat view.
//
// The view is a display surface for a session.Pipeline. Turns arrive as
// RenderMsg and the typing indicator as PendingMsg, both delivered through
// Surface, which forwards pipeline callbacks into the program's event loop.
//
// # Wiring
//
//	surface := chat.NewSurface()
//	pipeline, _ := session.NewPipeline(machine, surface, cfg)
//	m := chat.New(theme, pipeline, chat.Options{ShowTimestamps: true})
//	p := tea.NewProgram(m, tea.WithAltScreen())
//	surface.Attach(p)
//	_, err := p.Run()
//	pipeline.Close()
//
// Close must run after Run returns: the pipeline's goroutines deliver
// through Program.Send, which only stops blocking once the program exits.
//
// # Layout
//
//	header        title and bot name
//	viewport      scrolling transcript, user bubbles right, bot bubbles left
//	indicator     spinner while the bot is "typing"
//	input         text box, dimmed and blurred while a turn is in flight
//	status bar    phase, turn count, key hints
package chat
