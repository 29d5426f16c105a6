package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"subvault/internal/catalog"
	"subvault/internal/config"
	"subvault/internal/logging"
	"subvault/internal/providers/opensubtitles"
	"subvault/internal/store"
	"subvault/internal/subtitles"
)

const sessionPurgeInterval = 5 * time.Minute

// Daemon composes the store, pipeline, and HTTP API, and enforces
// single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	service *subtitles.Service
	catalog *catalog.Catalog
	quota   subtitles.QuotaReporter

	lockPath string
	lock     *flock.Flock

	api     *apiServer
	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	PID           int
	DatabasePath  string
	LockFilePath  string
	RemoteEnabled bool
	Subtitles     store.SubtitleStats
	Popularity    store.PopularityStats
	MediaCount    int64
}

// New constructs a daemon with initialized dependencies. When no provider
// API key is configured the pipeline runs in cache-and-fallback mode.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}

	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		catalog:  catalog.New(st, logger),
		lockPath: cfg.LockFilePath(),
		lock:     flock.New(cfg.LockFilePath()),
	}

	var admission subtitles.Admitter
	var fetcher subtitles.RemoteFetcher
	if cfg.RemoteFetchEnabled() {
		client, err := opensubtitles.New(opensubtitles.Config{
			APIKey:    cfg.OpenSubtitles.APIKey,
			UserAgent: cfg.OpenSubtitles.UserAgent,
			UserToken: cfg.OpenSubtitles.UserToken,
			BaseURL:   cfg.OpenSubtitles.BaseURL,
		})
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("build opensubtitles client: %w", err)
		}
		provider := subtitles.NewOpenSubtitlesProvider(client, logger)
		d.quota = provider
		admission = subtitles.NewAdmissionController(provider, st, cfg.Admission, logger)
		fetcher = subtitles.NewFetcher([]subtitles.Provider{provider},
			time.Duration(cfg.OpenSubtitles.TimeoutSeconds)*time.Second, logger)
	} else {
		logger.Warn("no provider api key configured, serving from cache and fallback only")
	}
	d.service = subtitles.NewService(st, admission, fetcher, logger)

	d.api, err = newAPIServer(cfg, d, logger)
	if err != nil {
		st.Close()
		return nil, err
	}
	return d, nil
}

// Start acquires the daemon lock and launches the API server and
// maintenance loops.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another subvault daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.api.start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		d.cancel = nil
		return fmt.Errorf("start api server: %w", err)
	}

	d.wg.Add(1)
	go d.purgeSessionsLoop(runCtx)

	d.running.Store(true)
	d.logger.Info("subvault daemon started",
		logging.String("lock", d.lockPath),
		logging.String("database", d.cfg.DatabasePath()))
	return nil
}

// Stop shuts down the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("subvault daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		DatabasePath:  d.cfg.DatabasePath(),
		LockFilePath:  d.lockPath,
		RemoteEnabled: d.cfg.RemoteFetchEnabled(),
	}
	if stats, err := d.store.SubtitleStats(ctx); err == nil {
		status.Subtitles = stats
	}
	if stats, err := d.store.PopularityStats(ctx); err == nil {
		status.Popularity = stats
	}
	if count, err := d.store.CountMedia(ctx); err == nil {
		status.MediaCount = count
	}
	return status
}

func (d *Daemon) purgeSessionsLoop(ctx context.Context) {
	defer d.wg.Done()
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := d.store.PurgeExpiredSessions(ctx)
			if err != nil {
				d.logger.Warn("session purge failed", logging.Error(err))
				continue
			}
			if purged > 0 {
				d.logger.Debug("purged expired sessions", logging.Int64("count", purged))
			}
		}
	}
}
