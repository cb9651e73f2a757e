// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// root.go - Command tree and shared setup for aizuchi.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jeranaias/aizuchi-tui/internal/config"
	"github.com/jeranaias/aizuchi-tui/internal/dialogue"
	"github.com/jeranaias/aizuchi-tui/internal/logging"
	"github.com/jeranaias/aizuchi-tui/internal/responder"
	"github.com/jeranaias/aizuchi-tui/internal/session"
	"github.com/jeranaias/aizuchi-tui/internal/ui/chat"
	"github.com/jeranaias/aizuchi-tui/internal/ui/styles"
	"github.com/jeranaias/aizuchi-tui/internal/util"
)

// Build information, set by main.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// APPLICATION STATE
// =============================================================================

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath  string
	catalogPath string
	logFile     string
	seed        uint64
	minDelay    time.Duration
	maxDelay    time.Duration
	verbose     bool
}

// app carries what PersistentPreRunE builds for the commands.
type app struct {
	flags  globalFlags
	cfg    *config.Config
	logger *zap.Logger

	// Seams replaced in tests.
	interactive func() bool
	newReader   func(in io.Reader) LineReader
	now         func() time.Time
	after       func(time.Duration) <-chan time.Time
	interrupt   func(context.Context) (context.Context, context.CancelFunc)
}

func newApp() *app {
	return &app{
		logger:      zap.NewNop(),
		interactive: Interactive,
		newReader: func(in io.Reader) LineReader {
			if in == os.Stdin && IsTTY() {
				return NewChatCLI()
			}
			return newPipedReader(in)
		},
		now:       time.Now,
		interrupt: interruptContext,
	}
}

// =============================================================================
// COMMAND TREE
// =============================================================================

// NewRootCommand builds the aizuchi command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(newApp())
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "aizuchi",
		Short: "A small rule-based Japanese chat companion",
		Long: `aizuchi asks for your name and gender label, then answers
greetings, thanks, weather, time and questions with canned replies.

With a terminal on both stdin and stdout it opens the full-screen view;
otherwise it reads lines from stdin.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Flags())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.interactive() {
				return a.runTUI(cmd)
			}
			return a.runREPL(cmd)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default ~/.aizuchi/config.toml)")
	pf.StringVar(&a.flags.catalogPath, "catalog", "", "reply catalog file (TOML or YAML)")
	pf.StringVar(&a.flags.logFile, "log-file", "", "write a JSON diagnostic log to this file")
	pf.Uint64Var(&a.flags.seed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.DurationVar(&a.flags.minDelay, "min-delay", 0, "shortest simulated typing delay")
	pf.DurationVar(&a.flags.maxDelay, "max-delay", 0, "longest simulated typing delay")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "debug-level logging")

	root.AddCommand(
		newChatCommand(a),
		newClassifyCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command tree against os.Args and returns the exit code.
func Execute() int {
	root := NewRootCommand()
	err := root.ExecuteContext(context.Background())
	if err != nil {
		DisplayError(root.ErrOrStderr(), err)
	}
	return ExitCode(err)
}

// =============================================================================
// SETUP
// =============================================================================

// setup loads the configuration, applies flag overrides and opens the log.
func (a *app) setup(flags *pflag.FlagSet) error {
	if err := config.LoadDotEnv(); err != nil {
		return NewCommandError("config", "load", err)
	}

	var (
		cfg *config.Config
		err error
	)
	if a.flags.configPath != "" {
		cfg, err = config.LoadFromPath(a.flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return NewCommandError("config", "load", err)
	}

	a.applyFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return &UsageError{Err: fmt.Errorf("invalid flags: %w", err)}
	}

	logger, err := logging.New(logging.Options{
		Path:    cfg.Log.Path,
		Level:   cfg.Log.Level,
		Verbose: a.flags.verbose,
	})
	if err != nil {
		return NewCommandError("log", "open", err)
	}

	a.cfg = cfg
	a.logger = logger
	config.SetGlobal(cfg.Clone())
	logger.Debug("configuration loaded", zap.Stringer("config", cfg))
	return nil
}

// applyFlags copies explicitly set flags over the loaded configuration.
func (a *app) applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("catalog") {
		cfg.Catalog.Path = a.flags.catalogPath
	}
	if flags.Changed("log-file") {
		cfg.Log.Path = a.flags.logFile
	}
	if flags.Changed("seed") {
		cfg.Bot.Seed = a.flags.seed
	}
	if flags.Changed("min-delay") {
		cfg.Typing.MinDelayMs = int(a.flags.minDelay.Milliseconds())
	}
	if flags.Changed("max-delay") {
		cfg.Typing.MaxDelayMs = int(a.flags.maxDelay.Milliseconds())
	}
}

// catalog returns the configured reply catalog.
func (a *app) catalog() (*responder.Catalog, error) {
	if a.cfg.Catalog.Path == "" {
		return responder.Builtin(), nil
	}
	catalog, err := responder.LoadCatalogFile(a.cfg.Catalog.Path)
	if err != nil {
		return nil, NewCommandError("catalog", "load", err)
	}
	return catalog, nil
}

// selector builds the response selector over the configured catalog.
func (a *app) selector(rng *util.LockedRand) (*responder.Selector, error) {
	catalog, err := a.catalog()
	if err != nil {
		return nil, err
	}
	return responder.New(catalog, rng, responder.WithClock(a.now)), nil
}

// newConversation wires selector, dialogue machine and pipeline for one
// conversation rendered on surface.
func (a *app) newConversation(surface session.Surface) (*session.Pipeline, error) {
	rng := util.NewRand(a.cfg.Bot.Seed)
	selector, err := a.selector(rng)
	if err != nil {
		return nil, err
	}

	machine := dialogue.New(selector,
		dialogue.WithHonorifics(dialogue.Honorifics{
			Default: a.cfg.Honorifics.Default,
			ByLabel: a.cfg.Honorifics.Labels,
		}),
		dialogue.WithLogger(a.logger),
	)

	opts := []session.Option{
		session.WithRand(rng),
		session.WithClock(a.now),
		session.WithLogger(a.logger),
	}
	if a.after != nil {
		opts = append(opts, session.WithAfter(a.after))
	}

	pipeline, err := session.NewPipeline(machine, surface, session.Config{
		MinDelay: a.cfg.Typing.MinDelay(),
		MaxDelay: a.cfg.Typing.MaxDelay(),
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start conversation: %w", err)
	}
	return pipeline, nil
}

// =============================================================================
// SURFACES
// =============================================================================

// runTUI opens the full-screen chat view.
func (a *app) runTUI(cmd *cobra.Command) error {
	surface := chat.NewSurface()
	pipeline, err := a.newConversation(surface)
	if err != nil {
		return err
	}

	theme := styles.NewTheme(a.cfg.UI.Theme)
	view := chat.New(theme, pipeline, chat.Options{
		BotName:        a.cfg.Bot.DisplayName,
		ShowTimestamps: a.cfg.UI.ShowTimestamps,
	})

	program := tea.NewProgram(view,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)
	surface.Attach(program)

	a.logger.Info("tui started", zap.String("session_id", pipeline.ID()))
	_, runErr := program.Run()
	// Close only after Run returns: the surface's Send no-ops once the
	// program has stopped, so a finishing turn cannot block.
	closeErr := pipeline.Close()

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("chat view failed: %w", runErr)
	}
	return closeErr
}

// runREPL runs the line-oriented chat on the command's streams.
func (a *app) runREPL(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	inline := a.interactive()

	width := DefaultTerminalWidth
	if inline {
		width = GetTerminalWidth()
	}
	surface := newREPLSurface(out, a.cfg.Bot.DisplayName, a.cfg.UI.ShowTimestamps, inline, width)

	pipeline, err := a.newConversation(surface)
	if err != nil {
		return err
	}

	reader := a.newReader(cmd.InOrStdin())
	defer reader.Close()

	a.logger.Info("repl started", zap.String("session_id", pipeline.ID()), zap.Bool("interactive", inline))
	chatErr := RunChat(cmd.Context(), &ChatSession{
		Pipeline:  pipeline,
		Input:     reader,
		Out:       out,
		Quiet:     !inline,
		StartTime: a.now(),
		interrupt: a.interrupt,
	})
	return errors.Join(chatErr, pipeline.Close())
}

// =============================================================================
// COMMANDS
// =============================================================================

func newChatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat line by line instead of in the full-screen view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runREPL(cmd)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Skip config loading so version works with a broken config.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "aizuchi %s\n", Version)
			if GitCommit != "unknown" {
				fmt.Fprintf(out, "%s %s\n", LabelStyle.Render("commit:"), GitCommit)
			}
			if BuildDate != "unknown" {
				fmt.Fprintf(out, "%s %s\n", LabelStyle.Render("built:"), BuildDate)
			}
		},
	}
}
