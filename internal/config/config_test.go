package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/docgap/pkg/types"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvAPIKey, EnvEndpoint, EnvDeployment, EnvMaxTokens, EnvHistoryDB, EnvModel,
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, 0, cfg.MaxTokens)
	assert.Empty(t, cfg.HistoryDB)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIKey, "key")
	t.Setenv(EnvEndpoint, "https://x.openai.azure.com")
	t.Setenv(EnvDeployment, "gpt-4")
	t.Setenv(EnvMaxTokens, "50000")
	t.Setenv(EnvModel, "gpt-4o")

	cfg := Load()

	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "https://x.openai.azure.com", cfg.Endpoint)
	assert.Equal(t, "gpt-4", cfg.Deployment)
	assert.Equal(t, 50000, cfg.MaxTokens)
	assert.Equal(t, "gpt-4o", cfg.Model)
}

func TestLoad_BadMaxTokensFallsBack(t *testing.T) {
	clearEnv(t)

	t.Setenv(EnvMaxTokens, "not-a-number")
	assert.Equal(t, 0, Load().MaxTokens)

	t.Setenv(EnvMaxTokens, "-5")
	assert.Equal(t, 0, Load().MaxTokens)
}

func TestValidate_NamesEveryMissingVariable(t *testing.T) {
	err := Config{}.Validate()
	require.ErrorIs(t, err, types.ErrMissingCredentials)
	assert.Contains(t, err.Error(), EnvAPIKey)
	assert.Contains(t, err.Error(), EnvEndpoint)
	assert.Contains(t, err.Error(), EnvDeployment)

	err = Config{APIKey: "k", Endpoint: "e"}.Validate()
	require.ErrorIs(t, err, types.ErrMissingCredentials)
	assert.NotContains(t, err.Error(), EnvAPIKey)
	assert.Contains(t, err.Error(), EnvDeployment)

	assert.NoError(t, Config{APIKey: "k", Endpoint: "e", Deployment: "d"}.Validate())
}

func TestHistoryPath(t *testing.T) {
	explicit := Config{HistoryDB: "/tmp/custom.db"}
	path, err := explicit.HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", path)

	home := t.TempDir()
	t.Setenv("HOME", home)
	path, err = Config{}.HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".docgap", "history.db"), path)
}
