package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"CONFIG_FILE", "PORT", "GOOGLE_API_KEY", "GEMINI_MODEL", "UPLOAD_DIR", "MAX_UPLOAD_SIZE", "REQUEST_TIMEOUT", "DEBUG"} {
		t.Setenv(k, "")
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5005", cfg.Port)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "gemini-1.5-flash", cfg.Model)
	assert.Equal(t, "10M", cfg.MaxUploadSize)
	assert.Equal(t, filepath.Join(os.TempDir(), "leaf-doctor"), cfg.UploadDir)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout())
	assert.False(t, cfg.Debug)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("PORT", "8081")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-flash")
	t.Setenv("REQUEST_TIMEOUT", "15")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout())
	assert.True(t, cfg.Debug)
}

func TestLoadIgnoresBadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("REQUEST_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.RequestTimeoutSec)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	p := filepath.Join(t.TempDir(), "config.yaml")
	body := "apiKey: from-file\nport: \"7000\"\nmodel: gemini-pro-vision\nrequestTimeoutSec: 5\n"
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	t.Setenv("CONFIG_FILE", p)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, "7001", cfg.Port, "env wins over file")
	assert.Equal(t, "gemini-pro-vision", cfg.Model)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
}

func TestLoadFileErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.ErrorContains(t, err, "read config file")

	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("port: [unterminated"), 0o600))
	t.Setenv("CONFIG_FILE", p)

	_, err = Load()
	assert.ErrorContains(t, err, "parse config file")
}
