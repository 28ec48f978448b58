package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/neuromotionlabs/kinemetry/internal/config"
	"github.com/neuromotionlabs/kinemetry/internal/logging"
	"github.com/neuromotionlabs/kinemetry/internal/telemetry"
	"github.com/neuromotionlabs/kinemetry/pkg/analysis"
	"github.com/neuromotionlabs/kinemetry/pkg/baseline"
	"github.com/neuromotionlabs/kinemetry/pkg/pipeline"
)

// app holds everything a command needs after bootstrap: loaded config,
// logger, telemetry, the baseline manager, and the pipeline service.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	telemetry *telemetry.Telemetry
	baselines *baseline.Manager
	pipeline  *pipeline.Service

	pg *baseline.PostgresStore // nil for the memory driver
}

// newApp initializes all dependencies in order:
//  1. Loads and validates configuration (file + environment)
//  2. Initializes telemetry (no-op unless enabled)
//  3. Initializes the structured logger
//  4. Opens the baseline store (memory or postgres)
//  5. Wires manager, analyzer, and pipeline service
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	tel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	logger, err := initLogger(cfg, tel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		telemetry: tel,
	}

	store, pg, err := initStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.pg = pg

	manager, err := baseline.NewManager(store, cfg.Baseline, logger.Underlying())
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to create baseline manager: %w", err)
	}
	a.baselines = manager

	analyzer, err := analysis.NewAnalyzer(cfg.Analysis, logger.Underlying())
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	svc, err := pipeline.New(analyzer, manager,
		pipeline.WithLogger(logger.Underlying()),
		pipeline.WithRiskConfig(cfg.Risk),
	)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}
	a.pipeline = svc

	logger.Debug(ctx, "application initialized",
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Int("required_sessions", cfg.Baseline.RequiredSessions),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
	)

	return a, nil
}

// Close releases all resources. Safe to call on a partially built app.
func (a *app) Close(ctx context.Context) {
	if a.pg != nil {
		a.pg.Close()
	}
	if a.telemetry != nil {
		_ = a.telemetry.Shutdown(ctx)
	}
	if a.logger != nil {
		_ = a.logger.Sync() // Best-effort sync
	}
}

// initTelemetry maps the config telemetry section onto the full telemetry
// configuration and starts the providers.
func initTelemetry(ctx context.Context, cfg *config.Config) (*telemetry.Telemetry, error) {
	telCfg := telemetry.NewDefaultConfig()
	telCfg.Enabled = cfg.Telemetry.Enabled
	telCfg.Endpoint = cfg.Telemetry.Endpoint
	telCfg.Protocol = cfg.Telemetry.Protocol
	telCfg.Insecure = cfg.Telemetry.Insecure
	telCfg.ServiceName = cfg.Telemetry.ServiceName
	telCfg.ServiceVersion = cfg.Telemetry.ServiceVersion

	return telemetry.New(ctx, telCfg)
}

// initLogger maps the config logging section onto the full logging
// configuration. OTEL log export follows the telemetry switch.
func initLogger(cfg *config.Config, tel *telemetry.Telemetry) (*logging.Logger, error) {
	logCfg := logging.NewDefaultConfig()

	level, err := logging.LevelFromString(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	logCfg.Level = level
	logCfg.Format = cfg.Logging.Format
	logCfg.Output.OTEL = cfg.Telemetry.Enabled
	logCfg.Fields["version"] = version

	return logging.NewLogger(logCfg, tel.LoggerProvider())
}

// initStore opens the configured baseline store. The second return is
// non-nil only for postgres, whose pool the caller must close.
func initStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) (baseline.Store, *baseline.PostgresStore, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Storage.ConnectTimeout.Duration())
		defer cancel()

		pg, err := baseline.NewPostgresStore(connectCtx, cfg.Storage.DSN.Value())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := pg.InitSchema(connectCtx); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("failed to initialize schema: %w", err)
		}

		logger.Debug(ctx, "postgres store ready")
		return pg, pg, nil

	default:
		// Validated config only reaches here with the memory driver.
		logger.Debug(ctx, "using in-memory store; baselines are lost on exit")
		return baseline.NewMemoryStore(), nil, nil
	}
}
