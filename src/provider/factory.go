// Package provider contains the reasoning-engine adapters. Each adapter is a
// thin protocol translation behind llm.ReasoningProvider; the conversation
// loop never sees SDK types.
package provider

import (
	"fmt"

	"github.com/mpiekarski/plantiq/src/llm"
)

// Provider type identifiers, as they appear in the config file.
const (
	TypeAnthropic = "anthropic"
	TypeOpenAI    = "openai"
)

// Config selects and parameterizes one provider.
type Config struct {
	Type    string
	BaseURL string
	APIKey  string
	Model   string
}

// New builds the configured provider.
func New(cfg Config) (llm.ReasoningProvider, error) {
	switch cfg.Type {
	case TypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case TypeOpenAI:
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider type: %q", cfg.Type)
	}
}
