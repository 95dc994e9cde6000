// Package config defines server and client configuration and their loaders.
//
// Conventions:
// - New(ctx) returns a Config populated with defaults.
// - Load(ctx) layers an optional YAML file and environment variables on top.
// - Validation failures wrap ErrInvalidConfig; loader failures wrap ErrLoadConfig.
package config

import (
	"context"
	"time"
)

// Supported record store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains server process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":5000".
	Addr string `koanf:"addr"`

	// StoreDriver selects the record store: memory, sqlite or postgres.
	StoreDriver string `koanf:"store_driver"`

	// StoreDSN is the driver specific data source (file path or postgres URL).
	StoreDSN string `koanf:"store_dsn"`

	// StoreConnectTimeoutMS bounds the single connection attempt at startup.
	StoreConnectTimeoutMS int `koanf:"store_connect_timeout_ms"`

	// CORSOrigin is echoed in Access-Control-Allow-Origin.
	CORSOrigin string `koanf:"cors_origin"`

	// MaxBodyBytes caps request bodies on write routes.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// MetricsEnabled turns prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace and MetricsSubsystem prefix the HTTP metric names.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsBucketsMS overrides the latency histogram buckets (YAML list, strictly increasing).
	MetricsBucketsMS []float64 `koanf:"metrics_buckets_ms"`
}

// New creates a Config with defaults. The context is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":5000",
		StoreDriver:           DriverSQLite,
		StoreDSN:              "wanderlist.db",
		StoreConnectTimeoutMS: 5000,
		CORSOrigin:            "*",
		MaxBodyBytes:          1 << 20,
		MetricsEnabled:        true,
		MetricsNamespace:      "wanderlist",
		MetricsSubsystem:      "api",
	}
}

// StoreConnectTimeout returns the connect timeout as a duration.
func (c *Config) StoreConnectTimeout() time.Duration {
	return time.Duration(c.StoreConnectTimeoutMS) * time.Millisecond
}
