// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// classify.go - Offline keyword classification for catalog authoring.

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jeranaias/aizuchi-tui/internal/model"
	"github.com/jeranaias/aizuchi-tui/internal/util"
)

// ClassifyResult is one row of classify output.
type ClassifyResult struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Reply    string `json:"reply,omitempty"`
}

type classifyOptions struct {
	reply    bool
	name     string
	jsonMode bool
}

func newClassifyCommand(a *app) *cobra.Command {
	var opts classifyOptions

	cmd := &cobra.Command{
		Use:   "classify TEXT...",
		Short: "Print the reply category for each argument",
		Example: `  aizuchi classify こんにちは "明日の天気は？"
  aizuchi classify --reply --name 太郎 ありがとう`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.classify(args, opts)
			if err != nil {
				return err
			}
			if opts.jsonMode {
				return writeClassifyJSON(cmd.OutOrStdout(), results)
			}
			writeClassifyText(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.reply, "reply", false, "also pick a reply for each argument")
	cmd.Flags().StringVar(&opts.name, "name", "", "name used to personalize replies")
	cmd.Flags().BoolVar(&opts.jsonMode, "json", false, "print results as JSON")
	return cmd
}

func (a *app) classify(args []string, opts classifyOptions) ([]ClassifyResult, error) {
	selector, err := a.selector(util.NewRand(a.cfg.Bot.Seed))
	if err != nil {
		return nil, err
	}

	profile := model.Profile{Name: opts.name}
	results := make([]ClassifyResult, 0, len(args))
	for _, arg := range args {
		text := util.NormalizeInput(arg)
		res := ClassifyResult{Text: text}
		if opts.reply {
			cat, reply := selector.Respond(text, profile)
			res.Category, res.Reply = cat.String(), reply
		} else {
			res.Category = selector.Classify(text).String()
		}
		results = append(results, res)
	}
	return results, nil
}

func writeClassifyText(w io.Writer, results []ClassifyResult) {
	for _, r := range results {
		if r.Reply != "" {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Category, util.SanitizeDisplay(r.Text), r.Reply)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", r.Category, util.SanitizeDisplay(r.Text))
	}
}

func writeClassifyJSON(w io.Writer, results []ClassifyResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}
