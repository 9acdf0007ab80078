package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClientConfig_Defaults(t *testing.T) {
	t.Setenv("YORLECT_SERVER", "")
	t.Setenv("YORLECT_TIMEOUT", "")
	t.Setenv("YORLECT_SESSION_FILE", "")

	cfg, err := GetClientConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.ServerAddress)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.NotEmpty(t, cfg.SessionFile)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestGetClientConfig_Env(t *testing.T) {
	t.Setenv("YORLECT_SERVER", "https://voices.example.org")
	t.Setenv("YORLECT_TIMEOUT", "5s")
	t.Setenv("YORLECT_SESSION_FILE", "/tmp/session")

	cfg, err := GetClientConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://voices.example.org", cfg.ServerAddress)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "/tmp/session", cfg.SessionFile)
}

func TestGetClientConfig_BadTimeout(t *testing.T) {
	t.Setenv("YORLECT_TIMEOUT", "soon")

	_, err := GetClientConfig()
	assert.Error(t, err)
}
