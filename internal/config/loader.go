package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment prefixes and config file variables.
const (
	ServerEnvPrefix  = "WANDERLIST_"
	ServerConfigFile = "WANDERLIST_CONFIG"
	ClientEnvPrefix  = "WANDERCTL_"
	ClientConfigFile = "WANDERCTL_CONFIG"
)

// Load builds a server Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if WANDERLIST_CONFIG is set
//  3. env (prefix WANDERLIST_)
func Load(ctx context.Context) (*Config, error) {
	cfg := New(ctx)
	if err := layer(cfg, ServerConfigFile, ServerEnvPrefix); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadClient builds a ClientConfig the same way using the WANDERCTL_ prefix.
func LoadClient(ctx context.Context) (*ClientConfig, error) {
	cfg := NewClient(ctx)
	if err := layer(cfg, ClientConfigFile, ClientEnvPrefix); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// layer unmarshals the optional file and the prefixed env vars over dst.
func layer(dst any, fileVar, prefix string) error {
	k := koanf.New(".")

	if path := os.Getenv(fileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// WANDERLIST_STORE_DSN -> store_dsn; underscores match the koanf tags.
	lower := strings.ToLower(prefix)
	envProvider := env.Provider(prefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), lower)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	if err := k.UnmarshalWithConf("", dst, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	return nil
}

// Validate checks the server configuration.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.StoreDSN == "" {
			return fmt.Errorf("%w: store_dsn must not be empty for driver %s", ErrInvalidConfig, c.StoreDriver)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.StoreConnectTimeoutMS <= 0 {
		return fmt.Errorf("%w: store_connect_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	for i := 1; i < len(c.MetricsBucketsMS); i++ {
		if c.MetricsBucketsMS[i] <= c.MetricsBucketsMS[i-1] {
			return fmt.Errorf("%w: metrics_buckets_ms must be strictly increasing", ErrInvalidConfig)
		}
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// Validate checks the client configuration.
func (c *ClientConfig) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: server_url must be an absolute URL, got %q", ErrInvalidConfig, c.ServerURL)
	}
	if c.DataPath == "" {
		return fmt.Errorf("%w: data_path must not be empty", ErrInvalidConfig)
	}
	if c.TimeoutMS <= 0 {
		return fmt.Errorf("%w: timeout_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
