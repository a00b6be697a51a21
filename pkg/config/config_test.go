package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8088", cfg.Addr)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 4, cfg.MaxIterations)
	assert.Equal(t, 5*time.Minute, cfg.UndoTTL)
	assert.Empty(t, cfg.OpenAIAPIKey)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("REPCOACH_ADDR", ":9999")
	t.Setenv("REPCOACH_OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}
