// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the aizuchi command tree and the line-oriented chat
// surface.
//
// # Commands
//
//   - aizuchi: full-screen chat when stdin and stdout are terminals,
//     line chat otherwise
//   - chat: line chat with in-memory history
//   - classify TEXT...: print the reply category for each argument
//   - config show|init|path|keys: inspect or create the config file
//   - version: print the build version
//
// Every command loads the configuration once in PersistentPreRunE, applies
// the global flags (--config, --catalog, --seed, --min-delay, --max-delay,
// --log-file, -v) over it and opens the diagnostic log.
//
// # Usage
//
//	func main() {
//	    os.Exit(cli.Execute())
//	}
//
// # Line chat
//
// The REPL prints each turn as "15:04 Label: text". While a reply is
// pending the prompt is not re-issued; Ctrl+C cancels the pending reply
// and Ctrl+D or /quit ends the session.
package cli
