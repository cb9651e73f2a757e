// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for aizuchi.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - TypingConfig: Simulated typing delay bounds
//   - HonorificsConfig: Gender label to suffix table
//   - ValidateErrors: Every validation problem found at once
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command-line flags (applied by the cli package)
//   - Environment variables (AIZUCHI_*), including those from .env
//   - ~/.aizuchi/config.toml
//   - ~/.aizuchi/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	delay := cfg.Typing.MinDelay()
//	suffix := cfg.Honorifics.Labels["女性"]
package config
