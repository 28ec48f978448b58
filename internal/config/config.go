// Package config provides configuration loading for kinemetry.
//
// Configuration is assembled from three layers, highest precedence first:
// environment variables, a YAML config file, and hardcoded defaults. The
// analysis, baseline, and risk packages own their tuning knobs; this
// package nests them under one tree and adds the process-level sections
// (storage, logging, telemetry).
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/neuromotionlabs/kinemetry/pkg/analysis"
	"github.com/neuromotionlabs/kinemetry/pkg/baseline"
	"github.com/neuromotionlabs/kinemetry/pkg/risk"
)

// Config holds the complete kinemetry configuration.
type Config struct {
	Analysis  analysis.Config `koanf:"analysis"`
	Baseline  baseline.Config `koanf:"baseline"`
	Risk      risk.Config     `koanf:"risk"`
	Storage   StorageConfig   `koanf:"storage"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// Storage drivers.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// StorageConfig selects where baselines persist.
type StorageConfig struct {
	// Driver is "memory" (process-local, lost on exit) or "postgres".
	Driver string `koanf:"driver"`

	// DSN is the Postgres connection string. Required for the postgres
	// driver, ignored otherwise.
	DSN Secret `koanf:"dsn"`

	// ConnectTimeout bounds the initial connection attempt.
	ConnectTimeout Duration `koanf:"connect_timeout"`
}

// LoggingConfig holds the process-level logging settings. The full logger
// configuration lives in internal/logging; these are the fields worth
// exposing in the config file.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
}

// TelemetryConfig holds the process-level OpenTelemetry settings, mapped
// onto internal/telemetry at startup.
type TelemetryConfig struct {
	Enabled        bool   `koanf:"enabled"`
	Endpoint       string `koanf:"endpoint"`
	Protocol       string `koanf:"protocol"` // grpc or http/protobuf
	Insecure       bool   `koanf:"insecure"`
	ServiceName    string `koanf:"service_name"`
	ServiceVersion string `koanf:"service_version"`
}

// NewDefault returns the configuration used when no file and no environment
// overrides are present.
func NewDefault() *Config {
	return &Config{
		Analysis: analysis.NewDefaultConfig(),
		Baseline: baseline.NewDefaultConfig(),
		Risk:     risk.NewDefaultConfig(),
		Storage: StorageConfig{
			Driver:         StorageMemory,
			ConnectTimeout: Duration(5 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			Enabled:        false,
			Endpoint:       "localhost:4317",
			Protocol:       "grpc",
			Insecure:       true,
			ServiceName:    "kinemetry",
			ServiceVersion: "0.1.0",
		},
	}
}

// Validate checks the whole tree, delegating the domain sections to their
// owning packages.
func (c *Config) Validate() error {
	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if err := c.Baseline.Validate(); err != nil {
		return fmt.Errorf("baseline: %w", err)
	}
	if err := c.Risk.Validate(); err != nil {
		return fmt.Errorf("risk: %w", err)
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if !c.Storage.DSN.IsSet() {
			return errors.New("storage: dsn required for postgres driver")
		}
		if c.Storage.ConnectTimeout.Duration() <= 0 {
			return errors.New("storage: connect_timeout must be positive")
		}
	default:
		return fmt.Errorf("storage: unknown driver %q (must be %q or %q)",
			c.Storage.Driver, StorageMemory, StoragePostgres)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging: format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			return errors.New("telemetry: endpoint required when enabled")
		}
		if c.Telemetry.ServiceName == "" {
			return errors.New("telemetry: service_name required when enabled")
		}
		switch c.Telemetry.Protocol {
		case "grpc", "http/protobuf":
		default:
			return fmt.Errorf("telemetry: protocol must be 'grpc' or 'http/protobuf', got %q", c.Telemetry.Protocol)
		}
	}

	return nil
}
