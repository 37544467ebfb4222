// Package app wires configuration, the session pool, the synchronizer, and
// the message source together and runs the poll loop.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/joe/fetch-files/internal/config"
	"github.com/joe/fetch-files/internal/source"
	"github.com/joe/fetch-files/internal/synchronizer"
	"github.com/joe/fetch-files/pkg/filesystem"
	"github.com/joe/fetch-files/pkg/sftppool"
)

// App owns the component graph for one fetch-files process. It is the
// lifecycle manager for the session pool: it starts the pool (when
// auto-start is configured), runs the poll loop, and drives the phased
// shutdown when the context is cancelled.
type App struct {
	cfg    *config.Config
	pool   *sftppool.Pool
	source *source.SynchronizingSource
}

// New builds the component graph from configuration. Nothing dials out
// yet; the first connection is made by the pool's factory on the first
// cache miss.
func New(cfg *config.Config) (*App, error) {
	endpoint, err := sftppool.ParseURL(cfg.RemoteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote URL: %w", err)
	}

	factory := sftppool.NewDialFactory(*endpoint)
	pool := sftppool.NewPoolWithSize(factory, cfg.MaxIdleSessions)
	localFS := filesystem.NewRealFileSystem()

	syncer := synchronizer.New(pool, localFS, synchronizer.Config{
		RemoteDir:    endpoint.Path,
		LocalDir:     cfg.LocalDir,
		Pattern:      cfg.Pattern,
		DeleteRemote: cfg.DeleteRemote,
	})

	// Empty local polls trigger remote passes; the limiter keeps a busy
	// poll loop from hammering the remote endpoint.
	throttled := &throttledSyncer{
		syncer:  syncer,
		limiter: rate.NewLimiter(rate.Limit(cfg.MaxSyncRate), 1),
	}

	poller := source.NewDirectoryPoller(localFS, cfg.LocalDir)

	src, err := source.New(localFS, poller, throttled, source.Config{
		LocalDir:   cfg.LocalDir,
		AutoCreate: cfg.AutoCreate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize message source: %w", err)
	}

	return &App{
		cfg:    cfg,
		pool:   pool,
		source: src,
	}, nil
}

// Pool exposes the session pool's lifecycle capability to the embedding
// process (start, stop, running state).
func (a *App) Pool() *sftppool.Pool {
	return a.pool
}

// Run polls until the context is cancelled, then shuts the pool down.
// With auto-start disabled the pool stays unstarted and every sync pass
// fails until some other party starts it; that is the configured behavior,
// not an error.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.AutoStart {
		if err := a.pool.Start(); err != nil {
			return fmt.Errorf("failed to start session pool: %w", err)
		}
		slog.Info("session pool started", "max_idle", a.pool.MaxIdle())
	}

	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	slog.Info("polling local mirror",
		"local", a.cfg.LocalDir,
		"remote", a.cfg.RemoteURL,
		"interval", a.cfg.PollInterval)

	for {
		select {
		case <-ctx.Done():
			a.shutdown()
			return nil
		case <-ticker.C:
			a.drain()
		}
	}
}

// drain receives messages until the source has nothing more to offer.
func (a *App) drain() {
	for {
		message, err := a.source.Receive()
		if err != nil {
			slog.Error("receive failed", "error", err)
			return
		}
		if message == nil {
			return
		}

		slog.Info("received file", "file", message.Name, "path", message.Path)
	}
}

// shutdown stops the pool; the callback marks the point after which
// dependent components may also stop.
func (a *App) shutdown() {
	a.pool.StopWith(func() {
		slog.Info("session pool stopped, draining dependents")
	})
}

// throttledSyncer rate-limits synchronization passes. A pass that would
// exceed the rate is skipped entirely; the next empty poll tries again.
type throttledSyncer struct {
	syncer  source.Syncer
	limiter *rate.Limiter
}

func (t *throttledSyncer) Sync() error {
	if !t.limiter.Allow() {
		return nil
	}

	return t.syncer.Sync()
}
