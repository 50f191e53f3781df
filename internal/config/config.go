package config

import (
	"time"
)

// Defaults applied when the config file leaves a field unset.
const (
	DefaultScrollEase   = 0.08
	DefaultTransitionMS = 300
	DefaultChatMode     = "chat"
)

// Config represents the complete Hub configuration
type Config struct {
	Server  ServerConfig         `yaml:"server"`
	UI      UIConfig             `yaml:"ui"`
	Chat    ChatConfig           `yaml:"chat"`
	Envs    map[string]EnvConfig `yaml:"environments"`
	Current string               `yaml:"current_env"`
	Meta    MetaConfig           `yaml:"meta"`
}

// ServerConfig holds backend connection configuration
type ServerConfig struct {
	BaseURL string            `yaml:"base_url"`
	Timeout time.Duration     `yaml:"timeout,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
}

// UIConfig holds terminal interface tuning
type UIConfig struct {
	ScrollEase   float64 `yaml:"scroll_ease"`   // interpolation factor in (0, 1)
	TransitionMS int     `yaml:"transition_ms"` // page fade duration
	Theme        string  `yaml:"theme,omitempty"`
}

// ChatConfig holds assistant defaults
type ChatConfig struct {
	Mode string `yaml:"mode"` // chat or rag
}

// EnvConfig holds environment-specific configuration
type EnvConfig struct {
	Name    string            `yaml:"name"`
	BaseURL string            `yaml:"base_url"`
	Headers map[string]string `yaml:"headers,omitempty"`
}

// MetaConfig holds metadata about the configuration
type MetaConfig struct {
	Version   string    `yaml:"version"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// DefaultConfig returns a new config with sensible defaults
func DefaultConfig() *Config {
	now := time.Now()
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8000",
		},
		UI: UIConfig{
			ScrollEase:   DefaultScrollEase,
			TransitionMS: DefaultTransitionMS,
		},
		Chat: ChatConfig{
			Mode: DefaultChatMode,
		},
		Envs: map[string]EnvConfig{
			"development": {
				Name:    "development",
				BaseURL: "http://localhost:8000",
			},
		},
		Current: "development",
		Meta: MetaConfig{
			Version:   "1.0.0",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL() == "" {
		return NewValidationError("server.base_url is required")
	}

	if c.UI.ScrollEase < 0 || c.UI.ScrollEase >= 1 {
		return NewValidationError("ui.scroll_ease must be in [0, 1); zero selects the default")
	}

	if c.UI.TransitionMS < 0 {
		return NewValidationError("ui.transition_ms must not be negative")
	}

	if c.Chat.Mode != "" && c.Chat.Mode != "chat" && c.Chat.Mode != "rag" {
		return NewValidationError("chat.mode must be chat or rag, got: " + c.Chat.Mode)
	}

	if c.Current != "" {
		if _, exists := c.Envs[c.Current]; !exists {
			return NewValidationError("current_env references non-existent environment: " + c.Current)
		}
	}

	return nil
}

// BaseURL returns the effective server URL: the current environment's
// when one is selected, otherwise the top-level server entry.
func (c *Config) BaseURL() string {
	if env := c.GetCurrentEnv(); env != nil && env.BaseURL != "" {
		return env.BaseURL
	}
	return c.Server.BaseURL
}

// ScrollEase returns the configured ease factor, or the default when
// the file leaves it at zero.
func (c *Config) ScrollEase() float64 {
	if c.UI.ScrollEase == 0 {
		return DefaultScrollEase
	}
	return c.UI.ScrollEase
}

// TransitionDuration returns the page fade duration.
func (c *Config) TransitionDuration() time.Duration {
	ms := c.UI.TransitionMS
	if ms == 0 {
		ms = DefaultTransitionMS
	}
	return time.Duration(ms) * time.Millisecond
}

// ChatMode returns the default assistant mode.
func (c *Config) ChatMode() string {
	if c.Chat.Mode == "" {
		return DefaultChatMode
	}
	return c.Chat.Mode
}

// GetCurrentEnv returns the configuration for the current environment
func (c *Config) GetCurrentEnv() *EnvConfig {
	if c.Current == "" {
		return nil
	}

	env, exists := c.Envs[c.Current]
	if !exists {
		return nil
	}

	return &env
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "config validation error: " + e.Message
}

// NewValidationError creates a new validation error
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}
