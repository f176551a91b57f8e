package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/gofrs/flock"

	"cutlist/internal/config"
	"cutlist/internal/logging"
	"cutlist/internal/review"
	"cutlist/internal/session"
)

// Daemon serves the review API and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *session.Store
	review  *review.Service
	api     *apiServer
	logPath string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	PID           int
	SessionDBPath string
	LockFilePath  string
	LogPath       string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *session.Store, svc *review.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || svc == nil {
		return nil, errors.New("daemon requires config, store, and review service")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := cfg.LockPath()
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		review:   svc,
		logPath:  cfg.DaemonLogPath(),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock and starts the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another cutlistd instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.api.start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}
	d.cancel = cancel
	d.running.Store(true)

	pruned := logging.PruneLogs(d.logger, d.cfg.Paths.LogDir, "*.log", d.cfg.Logging.RetentionDays, d.logPath)
	d.logger.Info("cutlistd started",
		logging.String("lock", d.lockPath),
		logging.String("api_bind", d.api.address()),
		logging.Int("logs_pruned", pruned),
	)
	return nil
}

// Stop stops the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(context.Background(), d.logger, "failed to release daemon lock", "lock_release_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the lock file if no cutlistd is running"),
			logging.String(logging.FieldImpact, "next start may report another instance"),
		)
	}
	d.running.Store(false)
	d.logger.Info("cutlistd stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Address returns the bound API address once started.
func (d *Daemon) Address() string {
	return d.api.address()
}

// Handler exposes the API routes, mainly for tests.
func (d *Daemon) Handler() http.Handler {
	return d.api.handler
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		SessionDBPath: d.store.Path(),
		LockFilePath:  d.lockPath,
		LogPath:       d.logPath,
	}
}
