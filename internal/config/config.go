// Package config loads docgap configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dshills/docgap/pkg/types"
)

// Environment variable names.
const (
	EnvAPIKey     = "AZURE_OPENAI_API_KEY"
	EnvEndpoint   = "AZURE_OPENAI_ENDPOINT"
	EnvDeployment = "AZURE_OPENAI_DEPLOYMENT_NAME"
	EnvMaxTokens  = "DOCGAP_MAX_TOKENS"
	EnvHistoryDB  = "DOCGAP_HISTORY_DB"
	EnvModel      = "DOCGAP_MODEL"
)

// DefaultModel names the tokenizer vocabulary; this is the model name, not
// the Azure deployment name.
const DefaultModel = "gpt-4-turbo"

// Config carries everything a run needs: Azure OpenAI credentials plus the
// tunables the pipeline threads into its components.
type Config struct {
	APIKey     string
	Endpoint   string
	Deployment string

	Model     string
	MaxTokens int // 0 means the chunker default
	HistoryDB string
}

// Load reads configuration from the environment.
func Load() Config {
	return Config{
		APIKey:     os.Getenv(EnvAPIKey),
		Endpoint:   os.Getenv(EnvEndpoint),
		Deployment: os.Getenv(EnvDeployment),
		Model:      getEnv(EnvModel, DefaultModel),
		MaxTokens:  getEnvInt(EnvMaxTokens, 0),
		HistoryDB:  getEnv(EnvHistoryDB, ""),
	}
}

// Validate checks the fatal preconditions: all three credentials must be
// present before any core work begins. The error names every missing
// variable.
func (c Config) Validate() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, EnvAPIKey)
	}
	if c.Endpoint == "" {
		missing = append(missing, EnvEndpoint)
	}
	if c.Deployment == "" {
		missing = append(missing, EnvDeployment)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s must be set as environment variables",
			types.ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// HistoryPath returns the run-history database path, defaulting to
// ~/.docgap/history.db when unset.
func (c Config) HistoryPath() (string, error) {
	if c.HistoryDB != "" {
		return c.HistoryDB, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".docgap", "history.db"), nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
