// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session serializes conversation turns between a display surface
// and the dialogue state machine.
//
// A Pipeline admits one turn at a time. Submitting renders the user's
// message, raises the pending ("typing") indicator, waits a randomized delay,
// runs the dialogue machine, clears the indicator and renders the reply.
// Only then is the next submission accepted.
//
// # Key Types
//
//   - Pipeline: the turn serializer, one per conversation
//   - Pending: the asynchronous task for the in-flight turn
//   - Surface: what a display surface must implement
//   - Config: typing delay bounds
//
// # Usage
//
//	machine := dialogue.New(responder.New(nil, rng))
//	p, err := session.NewPipeline(machine, surface, session.DefaultConfig(),
//	    session.WithRand(rng))
//	p.Start() // renders the opening prompt
//	pending, err := p.Submit(ctx, text)
//	switch {
//	case errors.Is(err, session.ErrBlankInput):   // ignore
//	case errors.Is(err, session.ErrTurnInFlight): // still typing
//	}
//	<-pending.Done()
package session
