// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/aizuchi-tui/internal/model"
	"github.com/jeranaias/aizuchi-tui/internal/session"
)

// =============================================================================
// SURFACE MESSAGES
// =============================================================================

// RenderMsg appends a turn to the transcript.
type RenderMsg struct {
	Message model.Message
}

// PendingMsg raises or lowers the typing indicator.
type PendingMsg struct {
	Active bool
}

// =============================================================================
// TURN MESSAGES
// =============================================================================

// submitResultMsg reports whether the pipeline accepted a submission.
type submitResultMsg struct {
	pending *session.Pending
	err     error
}

// turnDoneMsg reports that the in-flight turn finished or was cancelled.
type turnDoneMsg struct {
	turn int
	err  error
}
