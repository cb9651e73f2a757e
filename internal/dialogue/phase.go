// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dialogue

// Phase is the current step of the conversation.
type Phase int

const (
	AwaitingName   Phase = iota // first message is taken as the name
	AwaitingGender              // second message is taken as the gender label
	Open                        // keyword replies; terminal
)

// String returns the phase name used in logs and the status bar.
func (p Phase) String() string {
	switch p {
	case AwaitingName:
		return "awaiting_name"
	case AwaitingGender:
		return "awaiting_gender"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}

// next returns the phase that follows p. Open loops on itself.
func (p Phase) next() Phase {
	switch p {
	case AwaitingName:
		return AwaitingGender
	default:
		return Open
	}
}
