// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Inspect and initialize the aizuchi configuration.

package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/aizuchi-tui/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the configuration",
	}
	cmd.AddCommand(
		newConfigShowCommand(),
		newConfigInitCommand(a),
		newConfigPathCommand(a),
		newConfigKeysCommand(),
	)
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [KEY]",
		Short: "Print the effective configuration, or one key in dot notation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg := config.Global()
			if len(args) == 1 {
				value, err := cfg.Get(args[0])
				if err != nil {
					return &UsageError{Err: err}
				}
				fmt.Fprintln(out, formatValue(value))
				return nil
			}
			data, err := cfg.TOML()
			if err != nil {
				return NewCommandError("config", "show", err)
			}
			_, err = out.Write(data)
			return err
		},
	}
}

func newConfigInitCommand(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		// The file being created may not exist or parse yet.
		PersistentPreRun: func(*cobra.Command, []string) {},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.configPath()
			if err != nil {
				return NewCommandError("config", "init", err)
			}
			if _, statErr := os.Stat(path); statErr == nil && !force {
				return NewCommandError("config", "init",
					fmt.Errorf("%s already exists (use --force to overwrite)", path))
			} else if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
				return NewCommandError("config", "init", statErr)
			}

			if err := config.SaveTOML(config.Default(), path); err != nil {
				return NewCommandError("config", "init", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", LabelStyle.Render("Wrote"), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigPathCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:              "path",
		Short:            "Print the config file location",
		Args:             cobra.NoArgs,
		PersistentPreRun: func(*cobra.Command, []string) {},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.configPath()
			if err != nil {
				return NewCommandError("config", "path", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:              "keys",
		Short:            "List the keys accepted by config show",
		Args:             cobra.NoArgs,
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			for _, key := range config.GetAllKeys() {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
		},
	}
}

// configPath is --config when given, else the default TOML location.
func (a *app) configPath() (string, error) {
	if a.flags.configPath != "" {
		return a.flags.configPath, nil
	}
	return config.ConfigPathTOML()
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case map[string]string:
		if len(val) == 0 {
			return "{}"
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s = %s", k, val[k]))
		}
		return strings.Join(lines, "\n")
	default:
		return fmt.Sprintf("%v", val)
	}
}
