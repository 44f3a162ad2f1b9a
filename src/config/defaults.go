package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const appName = "plantiq"

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Provider: ProviderConfig{
			Type:      "anthropic",
			APIKeyEnv: "ANTHROPIC_API_KEY",
		},
		Conversation: ConversationConfig{
			MaxRounds:   5,
			TurnTimeout: Duration(60 * time.Second),
			ToolTimeout: Duration(15 * time.Second),
			MaxTokens:   4096,
		},
		Data: DataConfig{
			DocumentDB: filepath.Join(xdg.StateHome, appName, "documents.db"),
			AuditDB:    filepath.Join(xdg.StateHome, appName, "audit.db"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultConfigPath is where Load looks when no explicit path is given.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.json")
}
