package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestDefaultsWhenNoFile(t *testing.T) {
	loader := NewLoader(afero.NewMemMapFs())

	cfg, err := loader.Load("")
	require.NoError(t, err)
	require.Equal(t, "anthropic", cfg.Provider.Type)
	require.Equal(t, 5, cfg.Conversation.MaxRounds)
	require.Equal(t, 60*time.Second, cfg.Conversation.TurnTimeout.Std())
	require.Equal(t, "info", cfg.Log.Level)
}

func TestFileOverlaysDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/plantiq.json", []byte(`{
		"provider": {"type": "openai", "model": "gpt-4o-mini"},
		"conversation": {"max_rounds": 3, "turn_timeout": "30s", "tool_timeout": "5s"},
		"log": {"level": "debug"}
	}`), 0o644))

	cfg, err := NewLoader(fs).Load("/etc/plantiq.json")
	require.NoError(t, err)
	require.Equal(t, "openai", cfg.Provider.Type)
	require.Equal(t, "gpt-4o-mini", cfg.Provider.Model)
	require.Equal(t, 3, cfg.Conversation.MaxRounds)
	require.Equal(t, 30*time.Second, cfg.Conversation.TurnTimeout.Std())
	require.Equal(t, 5*time.Second, cfg.Conversation.ToolTimeout.Std())
	require.Equal(t, "debug", cfg.Log.Level)
	// Untouched sections keep their defaults.
	require.NotEmpty(t, cfg.Data.DocumentDB)
}

func TestExplicitMissingFileIsAnError(t *testing.T) {
	_, err := NewLoader(afero.NewMemMapFs()).Load("/nope/config.json")
	require.Error(t, err)
}

func TestRejectsUnknownProvider(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c.json", []byte(`{"provider": {"type": "ollama"}}`), 0o644))

	_, err := NewLoader(fs).Load("/c.json")
	require.ErrorContains(t, err, "provider")
}

func TestRejectsBadLogLevel(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c.json", []byte(`{"log": {"level": "loud"}}`), 0o644))

	_, err := NewLoader(fs).Load("/c.json")
	require.Error(t, err)
}

func TestRejectsRoundCapOutOfRange(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c.json", []byte(`{"conversation": {"max_rounds": 50}}`), 0o644))

	_, err := NewLoader(fs).Load("/c.json")
	require.Error(t, err)
}

func TestRejectsMalformedJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c.json", []byte(`{"provider": `), 0o644))

	_, err := NewLoader(fs).Load("/c.json")
	require.Error(t, err)
}

func TestDurationForms(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"1m30s"`)))
	require.Equal(t, 90*time.Second, d.Std())

	require.NoError(t, d.UnmarshalJSON([]byte(`5000000000`)))
	require.Equal(t, 5*time.Second, d.Std())

	require.Error(t, d.UnmarshalJSON([]byte(`"fast"`)))
}
