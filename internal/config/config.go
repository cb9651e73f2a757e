// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for aizuchi.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.aizuchi/config.toml
//   - ~/.aizuchi/config.json
//   - Built-in defaults
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/jeranaias/aizuchi-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// CurrentVersion is written into new config files.
const CurrentVersion = "1"

// Config represents the complete aizuchi configuration.
type Config struct {
	Version    string           `toml:"version" json:"version"`
	Bot        BotConfig        `toml:"bot" json:"bot"`
	Typing     TypingConfig     `toml:"typing" json:"typing"`
	Catalog    CatalogConfig    `toml:"catalog" json:"catalog"`
	Honorifics HonorificsConfig `toml:"honorifics" json:"honorifics"`
	UI         UIConfig         `toml:"ui" json:"ui"`
	Log        LogConfig        `toml:"log" json:"log"`
}

// BotConfig controls how the bot presents itself.
type BotConfig struct {
	// DisplayName labels bot turns in the transcript.
	DisplayName string `toml:"display_name" json:"display_name" env:"AIZUCHI_BOT_NAME"`

	// Seed fixes the random source. Zero seeds from the clock.
	Seed uint64 `toml:"seed" json:"seed" env:"AIZUCHI_SEED"`
}

// TypingConfig bounds the simulated typing delay.
type TypingConfig struct {
	MinDelayMs int `toml:"min_delay_ms" json:"min_delay_ms" env:"AIZUCHI_MIN_DELAY_MS"`
	MaxDelayMs int `toml:"max_delay_ms" json:"max_delay_ms" env:"AIZUCHI_MAX_DELAY_MS"`
}

// MinDelay returns the lower bound as a duration.
func (t TypingConfig) MinDelay() time.Duration {
	return time.Duration(t.MinDelayMs) * time.Millisecond
}

// MaxDelay returns the upper bound as a duration.
func (t TypingConfig) MaxDelay() time.Duration {
	return time.Duration(t.MaxDelayMs) * time.Millisecond
}

// CatalogConfig points at an optional reply catalog override file.
type CatalogConfig struct {
	Path string `toml:"path" json:"path" env:"AIZUCHI_CATALOG"`
}

// HonorificsConfig maps gender labels to the suffix used in the
// acknowledgment. Labels not listed use Default.
type HonorificsConfig struct {
	Default string            `toml:"default" json:"default"`
	Labels  map[string]string `toml:"labels" json:"labels"`
}

// UIConfig contains display preferences.
type UIConfig struct {
	Theme          string `toml:"theme" json:"theme" env:"AIZUCHI_THEME"` // auto, dark, light
	ShowTimestamps bool   `toml:"show_timestamps" json:"show_timestamps" env:"AIZUCHI_SHOW_TIMESTAMPS"`
}

// LogConfig controls the diagnostic log file.
type LogConfig struct {
	Path  string `toml:"path" json:"path" env:"AIZUCHI_LOG_FILE"`
	Level string `toml:"level" json:"level" env:"AIZUCHI_LOG_LEVEL"`
}

// Valid option values.
var (
	validThemes    = []string{"auto", "dark", "light"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// =============================================================================
// DEFAULT CONFIG
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Bot: BotConfig{
			DisplayName: "Bot",
		},
		Typing: TypingConfig{
			MinDelayMs: 1000,
			MaxDelayMs: 2000,
		},
		Honorifics: HonorificsConfig{
			Default: "さん",
			Labels: map[string]string{
				"男性":  "さん",
				"女性":  "さん",
				"その他": "さん",
			},
		},
		UI: UIConfig{
			Theme:          "auto",
			ShowTimestamps: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the aizuchi configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".aizuchi"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	for _, locate := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := locate()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
// Keys missing from the file keep their default values. A labels table in
// the file replaces the default labels rather than merging with them.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	cfg.Honorifics.Labels = nil

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish applies environment overrides and validates.
func finish(cfg *Config) error {
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// fillDefaults restores defaults for strings the file set to blank and for
// a missing labels table.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.Bot.DisplayName == "" {
		cfg.Bot.DisplayName = defaults.Bot.DisplayName
	}
	if cfg.Honorifics.Default == "" {
		cfg.Honorifics.Default = defaults.Honorifics.Default
	}
	if cfg.Honorifics.Labels == nil {
		cfg.Honorifics.Labels = defaults.Honorifics.Labels
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files (".env" when none
// are named) without overriding variables already set. Missing files are
// skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes the configuration to a TOML file atomically.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := cfg.TOML()
	if err != nil {
		return err
	}
	header := "# aizuchi configuration file\n# Generated by aizuchi config init\n\n"
	if err := util.AtomicWriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// TOML encodes the configuration.
func (c *Config) TOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Typing.MinDelayMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "typing.min_delay_ms",
			Message: fmt.Sprintf("must not be negative, got %d", c.Typing.MinDelayMs),
		})
	}
	if c.Typing.MaxDelayMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "typing.max_delay_ms",
			Message: fmt.Sprintf("must not be negative, got %d", c.Typing.MaxDelayMs),
		})
	}
	if c.Typing.MinDelayMs > c.Typing.MaxDelayMs {
		errs = append(errs, ValidationError{
			Field:   "typing.min_delay_ms",
			Message: fmt.Sprintf("must not exceed typing.max_delay_ms (%d > %d)", c.Typing.MinDelayMs, c.Typing.MaxDelayMs),
		})
	}

	if c.UI.Theme != "" && !contains(validThemes, strings.ToLower(c.UI.Theme)) {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validThemes, ", "), c.UI.Theme),
		})
	}
	if c.Log.Level != "" && !contains(validLogLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validLogLevels, ", "), c.Log.Level),
		})
	}

	labels := make([]string, 0, len(c.Honorifics.Labels))
	for label := range c.Honorifics.Labels {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	folded := make(map[string]string, len(labels))
	for _, label := range labels {
		key := strings.ToLower(strings.TrimSpace(label))
		if key == "" {
			errs = append(errs, ValidationError{
				Field:   "honorifics.labels",
				Message: "label must not be blank",
			})
			continue
		}
		if prev, ok := folded[key]; ok {
			errs = append(errs, ValidationError{
				Field:   "honorifics.labels",
				Message: fmt.Sprintf("labels %q and %q differ only by case or spacing", prev, label),
			})
			continue
		}
		folded[key] = label
	}

	if c.Catalog.Path != "" {
		if info, err := os.Stat(c.Catalog.Path); err != nil {
			errs = append(errs, ValidationError{
				Field:   "catalog.path",
				Message: fmt.Sprintf("cannot read %s: %v", c.Catalog.Path, err),
			})
		} else if info.IsDir() {
			errs = append(errs, ValidationError{
				Field:   "catalog.path",
				Message: fmt.Sprintf("%s is a directory", c.Catalog.Path),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
// Unset variables leave the current value alone.
//
// Supported environment variables:
//   - AIZUCHI_BOT_NAME: overrides bot.display_name
//   - AIZUCHI_SEED: overrides bot.seed
//   - AIZUCHI_MIN_DELAY_MS, AIZUCHI_MAX_DELAY_MS: override typing bounds
//   - AIZUCHI_CATALOG: overrides catalog.path
//   - AIZUCHI_THEME, AIZUCHI_SHOW_TIMESTAMPS: override ui settings
//   - AIZUCHI_LOG_FILE, AIZUCHI_LOG_LEVEL: override log settings
func (c *Config) ApplyEnvOverrides() error {
	return env.Parse(c)
}

// =============================================================================
// GET HELPER (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "typing.min_delay_ms").
func (c *Config) Get(key string) (interface{}, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		if field.Kind() != reflect.Struct {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// fieldByTag finds a struct field by its toml tag.
func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("toml"), ",")[0]
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	var keys []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := strings.Split(f.Tag.Get("toml"), ",")[0]
			if name == "" {
				continue
			}
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type, prefix+name+".")
				continue
			}
			keys = append(keys, prefix+name)
		}
	}
	walk(reflect.TypeOf(Config{}), "")
	sort.Strings(keys)
	return keys
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Honorifics.Labels != nil {
		clone.Honorifics.Labels = make(map[string]string, len(c.Honorifics.Labels))
		for k, v := range c.Honorifics.Labels {
			clone.Honorifics.Labels[k] = v
		}
	}
	return &clone
}

// String returns a string representation of the config for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
