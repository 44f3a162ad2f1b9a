package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// Loader reads JSON config files over an afero filesystem so tests can run
// against a memory fs.
type Loader struct {
	fs        afero.Fs
	validator *Validator
}

func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs, validator: NewValidator()}
}

// Load builds the effective configuration: defaults, overlaid by the file at
// path (when it exists), then validated. An empty path means the default
// location; a missing file at the default location is not an error.
func (l *Loader) Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	config := DefaultConfig()
	data, err := afero.ReadFile(l.fs, path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := l.validator.Validate(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// APIKey resolves the provider API key from the configured environment
// variable.
func APIKey(cfg *Config) (string, error) {
	env := cfg.Provider.APIKeyEnv
	if env == "" {
		switch cfg.Provider.Type {
		case "anthropic":
			env = "ANTHROPIC_API_KEY"
		case "openai":
			env = "OPENAI_API_KEY"
		}
	}
	key := os.Getenv(env)
	if key == "" {
		return "", fmt.Errorf("api key environment variable %s is not set", env)
	}
	return key, nil
}
