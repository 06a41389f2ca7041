package config

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// Provider names.
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderCompatible = "compatible"
)

// Providers lists the supported provider names.
var Providers = []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderCompatible}

// DefaultSystemPrompt asks the model for a cleaned version of the code only.
const DefaultSystemPrompt = "Clean and enhance this code without changing its logic. " +
	"Improve it by handling errors, optimizing performance, and making it more robust. " +
	"Preserve formatting, indentation and line breaks. " +
	"Respond only with the code, nothing extra."

// Config holds all tidytype settings.
type Config struct {
	Provider  ProviderConfig  `toml:"provider" envPrefix:"PROVIDER_"`
	Playback  PlaybackConfig  `toml:"playback" envPrefix:"PLAYBACK_"`
	Selection SelectionConfig `toml:"selection" envPrefix:"SELECTION_"`
	Hook      HookConfig      `toml:"hook" envPrefix:"HOOK_"`
	Log       LogConfig       `toml:"log" envPrefix:"LOG_"`
}

// ProviderConfig selects and configures the rewriting model.
type ProviderConfig struct {
	// Name is one of Providers.
	Name string `toml:"name" env:"NAME"`

	// Model overrides the provider's default model.
	Model string `toml:"model" env:"MODEL"`

	APIKey string `toml:"api_key" env:"API_KEY"`

	// BaseURL overrides the provider endpoint. Required for "compatible".
	BaseURL string `toml:"base_url" env:"BASE_URL"`

	MaxTokens      int    `toml:"max_tokens" env:"MAX_TOKENS"`
	SystemPrompt   string `toml:"system_prompt" env:"SYSTEM_PROMPT"`
	TimeoutSeconds int    `toml:"timeout_seconds" env:"TIMEOUT_SECONDS"`
}

// Timeout returns the request timeout.
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// ModelOrDefault returns Model, or the default model for the provider.
func (p ProviderConfig) ModelOrDefault() string {
	if p.Model != "" {
		return p.Model
	}
	switch p.Name {
	case ProviderAnthropic:
		return "claude-sonnet-4-20250514"
	case ProviderGemini:
		return "gemini-pro"
	default:
		return "gpt-3.5-turbo"
	}
}

// PlaybackConfig tunes the typing animation.
type PlaybackConfig struct {
	CharDelayMS int `toml:"char_delay_ms" env:"CHAR_DELAY_MS"`
}

// CharDelay returns the pause after each typed character.
func (p PlaybackConfig) CharDelay() time.Duration {
	return time.Duration(p.CharDelayMS) * time.Millisecond
}

// SelectionConfig guards what may be sent to the model.
type SelectionConfig struct {
	MaxLines int `toml:"max_lines" env:"MAX_LINES"`
}

// HookConfig configures the optional Lua rewrite filter.
type HookConfig struct {
	// Script is the path of a Lua file defining filter(original, cleaned).
	Script string `toml:"script" env:"SCRIPT"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level" env:"LEVEL"`
	// File receives logs while the terminal UI owns the screen.
	File string `toml:"file" env:"FILE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			Name:           ProviderOpenAI,
			MaxTokens:      4096,
			SystemPrompt:   DefaultSystemPrompt,
			TimeoutSeconds: 60,
		},
		Playback: PlaybackConfig{
			CharDelayMS: 15,
		},
		Selection: SelectionConfig{
			MaxLines: 100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if !slices.Contains(Providers, c.Provider.Name) {
		add("provider.name %q must be one of %v", c.Provider.Name, Providers)
	}
	if c.Provider.Name == ProviderCompatible && c.Provider.BaseURL == "" {
		add("provider.base_url is required for the %q provider", ProviderCompatible)
	}
	if c.Provider.MaxTokens <= 0 || c.Provider.MaxTokens > math.MaxInt32 {
		add("provider.max_tokens must be between 1 and %d, got %d", math.MaxInt32, c.Provider.MaxTokens)
	}
	if c.Provider.TimeoutSeconds <= 0 {
		add("provider.timeout_seconds must be positive, got %d", c.Provider.TimeoutSeconds)
	}
	if c.Playback.CharDelayMS < 0 {
		add("playback.char_delay_ms must not be negative, got %d", c.Playback.CharDelayMS)
	}
	if c.Selection.MaxLines <= 0 {
		add("selection.max_lines must be positive, got %d", c.Selection.MaxLines)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		add("log.level %q must be debug, info, warn, or error", c.Log.Level)
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
