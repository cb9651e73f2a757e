// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package responder maps free text to a reply category and picks a canned reply.
//
// # Classification
//
// Text is lower-cased and tested for substring containment against each
// category's triggers in Priority order (greeting, thanks, weather, time,
// question). The first match wins; otherwise the category is Default.
//
// # Catalogs
//
// Builtin returns the shipped reply pools and triggers. LoadCatalogFile
// merges a TOML or YAML file over them:
//
//	[responses]
//	weather = ["いい天気ですね。"]
//
//	[keywords]
//	greeting = ["やあ", "hey"]
//
// Every category must keep at least one template, and Default cannot carry
// triggers. Violations are reported when the catalog is built.
package responder
