// Package daemonrun wires the cutlistd process: logger, session store, title
// context, review service and HTTP daemon.
package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"cutlist/internal/config"
	"cutlist/internal/daemon"
	"cutlist/internal/logging"
	"cutlist/internal/review"
	"cutlist/internal/session"
)

// Options configures daemon process runtime behavior.
type Options struct {
	// LogLevel overrides logging.level from the configuration when set.
	LogLevel    string
	Development bool
	// Ready is called with the bound API address once the daemon serves.
	Ready func(address string)
}

// Run starts cutlistd and blocks until the context is cancelled or the
// process receives SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return errors.New("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	level := cfg.Logging.Level
	if strings.TrimSpace(opts.LogLevel) != "" {
		level = opts.LogLevel
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", cfg.DaemonLogPath()},
		Development: opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logConfigSnapshot(logger, cfg)

	titles, err := cfg.LoadTitleContext()
	if err != nil {
		logging.ErrorWithContext(signalCtx, logger, "load title resources", "title_context_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check title_strategies, title_blacklist and series_index in [paths]"),
		)
		return err
	}

	store, err := session.Open(cfg)
	if err != nil {
		logging.ErrorWithContext(signalCtx, logger, "open session store", "session_store_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check data_dir permissions"),
		)
		return err
	}

	svc, err := review.NewService(store, review.Options{
		Extension: cfg.Media.Extension,
		Titles:    titles,
		Logger:    logger,
	})
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("create review service: %w", err)
	}

	d, err := daemon.New(cfg, store, svc, logger)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		logging.ErrorWithContext(signalCtx, logger, "daemon start failed", "daemon_start_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check api_bind and whether another cutlistd holds the lock"),
		)
		return err
	}
	if opts.Ready != nil {
		opts.Ready(d.Address())
	}

	<-signalCtx.Done()
	logger.Info("cutlistd shutting down")
	return nil
}

func logConfigSnapshot(logger *slog.Logger, cfg *config.Config) {
	logger.Info("configuration snapshot",
		logging.String(logging.FieldEventType, "config_snapshot"),
		logging.String("data_dir", cfg.Paths.DataDir),
		logging.String("log_dir", cfg.Paths.LogDir),
		logging.String("api_bind", cfg.Paths.APIBind),
		logging.Bool("api_token_set", strings.TrimSpace(cfg.Paths.APIToken) != ""),
		logging.String("media_extension", cfg.Media.Extension),
		logging.String("default_title_strategy", cfg.Title.DefaultStrategy),
		logging.Bool("title_strategies_set", cfg.Paths.TitleStrategies != ""),
		logging.Bool("title_blacklist_set", cfg.Paths.TitleBlacklist != ""),
		logging.Bool("series_index_set", cfg.Paths.SeriesIndex != ""),
	)
}
