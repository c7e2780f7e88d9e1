package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "file:taskpilot.db?cache=shared&mode=rwc", cfg.DatabaseURL)
	assert.Equal(t, "http://localhost:4000", cfg.LLMBaseURL)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 5, cfg.MaxPlanSteps)
	assert.False(t, cfg.EnforceConfirmation)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("MAX_PLAN_STEPS", "3")
	t.Setenv("ENFORCE_CONFIRMATION", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 3, cfg.MaxPlanSteps)
	assert.True(t, cfg.EnforceConfirmation)
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_port: 7070\nllm_model: test-model\n"), 0o600))

	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("TASKPILOT_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	// The file wins over the environment.
	assert.Equal(t, 7070, cfg.HTTPPort)
	assert.Equal(t, "test-model", cfg.LLMModel)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("TASKPILOT_CONFIG", "/nonexistent/config.yaml")

	_, err := Load()
	assert.Error(t, err)
}
