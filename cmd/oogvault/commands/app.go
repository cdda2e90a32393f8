// ABOUTME: Wires configuration, logging, storage and settings for a command run
// ABOUTME: Every command opens one app and closes it when done
package commands

import (
	"fmt"

	"github.com/harper/oogvault/internal/config"
	"github.com/harper/oogvault/internal/core"
	"github.com/harper/oogvault/internal/logging"
	"github.com/harper/oogvault/internal/settings"
	"github.com/harper/oogvault/internal/storage/sqlite"
	"go.uber.org/zap"
)

type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     *sqlite.Storage
	prefs     *settings.Settings
	retriever *core.Retriever
	ingestor  *core.Ingestor
}

func logLevel(cfg *config.Config) string {
	switch {
	case verbose:
		return "debug"
	case quiet:
		return "error"
	default:
		return cfg.LogLevel
	}
}

// openApp loads configuration and opens the vault. The database itself is
// opened lazily on first use.
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	logger, err := logging.New(logLevel(cfg), cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	prefs, err := settings.Load(cfg.SettingsPath)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	store := sqlite.NewStorage(sqlite.NewDB(cfg.DBPath, logger), logger)
	retriever := core.NewRetriever(store,
		core.WithThresholds(cfg.Thresholds()),
		core.WithLogger(logger))
	ingestor := core.NewIngestor(store,
		core.WithRetries(cfg.SaveRetries, cfg.RetryDelay),
		core.WithIngestLogger(logger))

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		prefs:     prefs,
		retriever: retriever,
		ingestor:  ingestor,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("error closing storage", zap.Error(err))
	}
	_ = a.logger.Sync()
}
