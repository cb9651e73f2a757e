// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-oriented chat surface for aizuchi.
//
// The REPL reads one line at a time, hands it to the turn pipeline and
// waits for the reply to print before prompting again. History is kept
// in memory only.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/peterh/liner"

	"github.com/jeranaias/aizuchi-tui/internal/model"
	"github.com/jeranaias/aizuchi-tui/internal/session"
	"github.com/jeranaias/aizuchi-tui/internal/util"
)

const promptText = "you> "

// =============================================================================
// LINE INPUT
// =============================================================================

// LineReader reads one line of user input per call.
type LineReader interface {
	ReadInput(prompt string) (string, error)
	Close() error
}

// ChatCLI provides line editing and in-memory history for interactive chat.
type ChatCLI struct {
	line *liner.State
}

// NewChatCLI creates a ChatCLI bound to the process terminal.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &ChatCLI{line: line}
}

// ReadInput reads a line of input with the given prompt.
// Non-blank lines are added to the history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if !util.IsBlank(input) {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close restores the terminal mode.
func (c *ChatCLI) Close() error {
	return c.line.Close()
}

// pipedReader reads lines from a non-terminal input without echoing prompts.
type pipedReader struct {
	scanner *bufio.Scanner
}

func newPipedReader(in io.Reader) *pipedReader {
	return &pipedReader{scanner: bufio.NewScanner(in)}
}

func (r *pipedReader) ReadInput(string) (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *pipedReader) Close() error { return nil }

// =============================================================================
// REPL SURFACE
// =============================================================================

// replSurface prints turns as lines. With inline set it rewrites the
// echoed prompt and the typing line in place.
type replSurface struct {
	mu             sync.Mutex
	out            io.Writer
	botName        string
	showTimestamps bool
	inline         bool
	width          int
	typing         bool
}

func newREPLSurface(out io.Writer, botName string, showTimestamps, inline bool, width int) *replSurface {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	return &replSurface{
		out:            out,
		botName:        botName,
		showTimestamps: showTimestamps,
		inline:         inline,
		width:          width,
	}
}

// Render prints one turn.
func (s *replSurface) Render(msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inline && msg.Sender == model.SenderUser {
		// Replace the line liner echoed with the formatted turn.
		fmt.Fprint(s.out, ansi.CursorUp(1)+"\r"+ansi.EraseEntireLine)
	}
	fmt.Fprintln(s.out, s.formatTurn(msg))
}

// ShowPending prints the typing line.
func (s *replSurface) ShowPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inline {
		return
	}
	s.typing = true
	fmt.Fprint(s.out, DimStyle.Render(s.label(model.SenderBot)+" is typing..."))
}

// ClearPending erases the typing line.
func (s *replSurface) ClearPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.typing {
		return
	}
	s.typing = false
	fmt.Fprint(s.out, "\r"+ansi.EraseEntireLine)
}

func (s *replSurface) label(sender model.Sender) string {
	if sender == model.SenderBot && s.botName != "" {
		return s.botName
	}
	return sender.DisplayName()
}

// formatTurn renders "15:04 Label: text" with continuation lines indented.
func (s *replSurface) formatTurn(msg model.Message) string {
	prefix := s.label(msg.Sender) + ":"
	if msg.Sender == model.SenderUser {
		prefix = UserStyle.Render(prefix)
	} else {
		prefix = BotStyle.Render(prefix)
	}
	if s.showTimestamps {
		prefix = DimStyle.Render(msg.FormattedTime()) + " " + prefix
	}

	indent := 2
	body := util.WrapWidth(util.SanitizeDisplay(msg.Content), s.width-util.StringWidth(ansi.Strip(prefix))-1)
	lines := strings.Split(body, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = strings.Repeat(" ", indent) + lines[i]
	}
	return prefix + " " + ValueStyle.Render(strings.Join(lines, "\n"))
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatSession holds the state for a REPL chat session.
type ChatSession struct {
	Pipeline  *session.Pipeline
	Input     LineReader
	Out       io.Writer
	Quiet     bool
	StartTime time.Time
	// interrupt derives the per-turn context; Ctrl+C cancels the turn.
	interrupt func(context.Context) (context.Context, context.CancelFunc)
}

func interruptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// RunChat drives the REPL until end of input or /quit.
func RunChat(ctx context.Context, cs *ChatSession) error {
	if cs.interrupt == nil {
		cs.interrupt = interruptContext
	}
	if cs.StartTime.IsZero() {
		cs.StartTime = time.Now()
	}
	if !cs.Quiet {
		printWelcome(cs)
	}

	cs.Pipeline.Start()

	for {
		input, err := cs.Input.ReadInput(promptText)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				printExitSummary(cs)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if handled, keepGoing := handleSlashCommand(strings.TrimSpace(input), cs); handled {
			if !keepGoing {
				printExitSummary(cs)
				return nil
			}
			continue
		}

		if err := processMessage(ctx, cs, input); err != nil {
			return err
		}
	}
}

// processMessage submits one line and blocks until its reply has printed.
func processMessage(ctx context.Context, cs *ChatSession, input string) error {
	turnCtx, stop := cs.interrupt(ctx)
	defer stop()

	pending, err := cs.Pipeline.Submit(turnCtx, input)
	switch {
	case errors.Is(err, session.ErrBlankInput):
		return nil
	case err != nil:
		return err
	}

	_, err = pending.Wait(context.Background())
	if errors.Is(err, session.ErrTurnCanceled) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintln(cs.Out, DimStyle.Render("[Cancelled]"))
		return nil
	}
	return err
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand runs cmd if it names a known command. Other input,
// including unknown "/..." text, is left for the conversation.
func handleSlashCommand(cmd string, cs *ChatSession) (handled, keepGoing bool) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 || !strings.HasPrefix(parts[0], "/") {
		return false, true
	}

	switch strings.ToLower(parts[0]) {
	case "/help", "/h", "/?", "/":
		printHelp(cs.Out)
	case "/status", "/s":
		printStatus(cs)
	case "/history":
		printHistory(cs)
	case "/quit", "/q", "/exit":
		return true, false
	default:
		return false, true
	}
	return true, true
}

// =============================================================================
// OUTPUT
// =============================================================================

func printWelcome(cs *ChatSession) {
	fmt.Fprintln(cs.Out, TitleStyle.Render("aizuchi chat"))
	fmt.Fprintln(cs.Out, DimStyle.Render(strings.Repeat("─", 30)))
	fmt.Fprintln(cs.Out, DimStyle.Render("Type your message and press Enter. Commands: /help, /quit"))
	fmt.Fprintln(cs.Out)
}

func printHelp(out io.Writer) {
	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Show this help"},
		{"/status, /s", "Show session statistics"},
		{"/history", "Show conversation history"},
		{"/quit, /q", "Exit chat"},
	}

	fmt.Fprintln(out)
	for _, c := range commands {
		fmt.Fprintf(out, "  %s  %s\n", LabelStyle.Render(fmt.Sprintf("%-12s", c.cmd)), c.desc)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, DimStyle.Render("Tip: Ctrl+C cancels a pending reply, Ctrl+D exits"))
	fmt.Fprintln(out)
}

func printStatus(cs *ChatSession) {
	snap := cs.Pipeline.Snapshot()

	fmt.Fprintln(cs.Out)
	fmt.Fprintf(cs.Out, "  %s %s\n", LabelStyle.Render("Session:"), snap.SessionID)
	fmt.Fprintf(cs.Out, "  %s %s\n", LabelStyle.Render("Phase:"), snap.Phase)
	fmt.Fprintf(cs.Out, "  %s %d\n", LabelStyle.Render("Turns:"), snap.Turns)
	fmt.Fprintf(cs.Out, "  %s %d\n", LabelStyle.Render("Messages:"), snap.Messages)
	fmt.Fprintf(cs.Out, "  %s %s\n", LabelStyle.Render("Duration:"), time.Since(cs.StartTime).Round(time.Second))
	if len(snap.Categories) > 0 {
		fmt.Fprintf(cs.Out, "  %s %s\n", LabelStyle.Render("Categories:"), formatCategories(snap.Categories))
	}
	fmt.Fprintln(cs.Out)
}

func formatCategories(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, counts[name]))
	}
	return strings.Join(parts, " ")
}

func printHistory(cs *ChatSession) {
	transcript := cs.Pipeline.Transcript()
	if len(transcript) == 0 {
		fmt.Fprintln(cs.Out, DimStyle.Render("[No messages yet]"))
		return
	}

	fmt.Fprintln(cs.Out)
	for i, msg := range transcript {
		content := strings.ReplaceAll(util.SanitizeDisplay(msg.Content), "\n", " ")
		content = util.TruncateWidth(content, 60)
		fmt.Fprintf(cs.Out, "  %d. %s %s: %s\n", i+1, msg.FormattedTime(), msg.Sender.DisplayName(), content)
	}
	fmt.Fprintln(cs.Out)
}

func printExitSummary(cs *ChatSession) {
	if cs.Quiet {
		return
	}
	snap := cs.Pipeline.Snapshot()
	fmt.Fprintln(cs.Out)
	if snap.Turns > 0 {
		fmt.Fprintf(cs.Out, "%s %d turns in %s\n",
			LabelStyle.Render("Session:"),
			snap.Turns,
			time.Since(cs.StartTime).Round(time.Second))
	}
	fmt.Fprintln(cs.Out, DimStyle.Render("Goodbye!"))
}
