package config

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// ClientConfig configures the wanderctl command line client.
type ClientConfig struct {
	// ServerURL is the base URL of the wanderlist server.
	ServerURL string `koanf:"server_url"`

	// DataPath is the bbolt file holding pending destinations.
	DataPath string `koanf:"data_path"`

	// TimeoutMS bounds every HTTP request made by the client.
	TimeoutMS int `koanf:"timeout_ms"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
}

// NewClient returns a ClientConfig with defaults.
func NewClient(_ context.Context) *ClientConfig {
	return &ClientConfig{
		ServerURL: "http://localhost:5000",
		DataPath:  defaultDataPath(),
		TimeoutMS: 5000,
		LogLevel:  "warn",
	}
}

// Timeout returns the request timeout as a duration.
func (c *ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func defaultDataPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "wanderctl.db"
	}
	return filepath.Join(dir, "wanderctl", "pending.db")
}
