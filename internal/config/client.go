package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dario.cat/mergo"
)

// Client holds the settings of the yorlect command-line client.
// Command-line flags override these values per invocation.
type Client struct {
	// ServerAddress is the base URL of the API, e.g. "http://localhost:8080".
	// Env: YORLECT_SERVER
	ServerAddress string `env:"YORLECT_SERVER"`

	// RequestTimeout bounds each API call.
	// Env: YORLECT_TIMEOUT
	RequestTimeout time.Duration `env:"YORLECT_TIMEOUT"`

	// SessionFile stores the bearer token between invocations.
	// Env: YORLECT_SESSION_FILE
	SessionFile string `env:"YORLECT_SESSION_FILE"`

	// LogLevel of the client's stderr logger.
	// Env: YORLECT_LOG_LEVEL
	LogLevel string `env:"YORLECT_LOG_LEVEL"`
}

// GetClientConfig reads the client settings from the environment and fills
// the rest with defaults.
func GetClientConfig() (*Client, error) {
	cfg := &Client{}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}

	if err := mergo.Merge(cfg, defaultClientConfig()); err != nil {
		return nil, fmt.Errorf("error merging client defaults: %w", err)
	}

	return cfg, nil
}

func defaultClientConfig() Client {
	sessionFile := ".yorlect-session"
	if dir, err := os.UserConfigDir(); err == nil {
		sessionFile = filepath.Join(dir, "yorlect", "session")
	}

	return Client{
		ServerAddress:  "http://localhost:8080",
		RequestTimeout: 60 * time.Second,
		SessionFile:    sessionFile,
		LogLevel:       "warn",
	}
}
