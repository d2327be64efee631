package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresCredentials(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_TOKEN")

	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("HTTP_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "./fouserbot.db", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("DB_PATH", "/tmp/coach.db")
	t.Setenv("HTTP_ADDR", ":9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, "/tmp/coach.db", cfg.DBPath)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
}
