// Package config loads and validates the application configuration from JSON
// files with environment overrides for secrets.
package config

import (
	"strconv"
	"time"
)

// Config is the complete application configuration.
type Config struct {
	Version string `json:"version"`

	// Provider selects and parameterizes the reasoning engine.
	Provider ProviderConfig `json:"provider"`

	// Conversation tunes the query loop.
	Conversation ConversationConfig `json:"conversation"`

	// Data locates the local databases.
	Data DataConfig `json:"data"`

	// Log configures slog output.
	Log LogConfig `json:"log"`
}

// ProviderConfig selects the reasoning engine.
type ProviderConfig struct {
	// Type is "anthropic" or "openai".
	Type string `json:"type" validate:"required,provider"`

	// Model overrides the provider default model when set.
	Model string `json:"model,omitempty"`

	// BaseURL overrides the provider endpoint when set.
	BaseURL string `json:"base_url,omitempty" validate:"omitempty,url"`

	// APIKeyEnv names the environment variable holding the API key. The key
	// itself never lives in the config file.
	APIKeyEnv string `json:"api_key_env,omitempty"`
}

// ConversationConfig tunes the bounded tool-calling loop.
type ConversationConfig struct {
	MaxRounds   int      `json:"max_rounds" validate:"min=1,max=20"`
	TurnTimeout Duration `json:"turn_timeout"`
	ToolTimeout Duration `json:"tool_timeout"`
	MaxTokens   int      `json:"max_tokens" validate:"min=0"`
}

// DataConfig locates the document store and the audit database.
type DataConfig struct {
	DocumentDB string `json:"document_db,omitempty"`
	AuditDB    string `json:"audit_db,omitempty"`
}

// LogConfig configures slog output.
type LogConfig struct {
	Level string `json:"level" validate:"log_level"`
}

// Duration wraps time.Duration for JSON strings like "30s".
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		parsed, err := time.ParseDuration(s[1 : len(s)-1])
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	}
	// Bare numbers are nanoseconds, matching encoding/json's default for
	// time.Duration.
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*d = Duration(n)
	return nil
}
