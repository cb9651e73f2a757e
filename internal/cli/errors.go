// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error handling for CLI commands.
//
// Commands always return errors; Execute decides how they are shown and
// which exit code the process ends with.

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/aizuchi-tui/internal/config"
	"github.com/jeranaias/aizuchi-tui/internal/responder"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates a configuration or catalog error
	ExitConfigError = 3
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "config", "classify")
	Action  string // Action being performed (e.g., "init", "load")
	Err     error
}

func (e *CommandError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Command, e.Action, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UsageError is returned for bad flags or arguments.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// NewCommandError creates a new command error.
func NewCommandError(command, action string, err error) error {
	return &CommandError{Command: command, Action: action, Err: err}
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError writes err as "Error: ..." to w.
func DisplayError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), err.Error())
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsageError
	}
	var verrs config.ValidateErrors
	if errors.As(err, &verrs) ||
		errors.Is(err, responder.ErrEmptyCategory) ||
		errors.Is(err, responder.ErrUnknownCategory) ||
		errors.Is(err, responder.ErrInvalidRule) {
		return ExitConfigError
	}
	return ExitGeneralError
}
