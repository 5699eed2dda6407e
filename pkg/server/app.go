package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"SentinelFeed/internal/domain/models"
	"SentinelFeed/pkg/config"
	xhttp "SentinelFeed/pkg/http"
	applogger "SentinelFeed/pkg/logger"
)

// Feed is the lifecycle side of the feed controller.
type Feed interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Mode() models.ConnectionMode
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg     *config.Config
	logger  *applogger.Logger
	feed    Feed
	http    *xhttp.Server
	closers []namedCloser
	tasks   []func(ctx context.Context)
}

type namedCloser struct {
	name string
	c    io.Closer
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, logger *applogger.Logger, feed Feed, httpServer *xhttp.Server) *App {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &App{cfg: cfg, logger: logger, feed: feed, http: httpServer}
}

// OnClose registers infrastructure that must be closed after everything else
// has stopped. Closers run in reverse registration order.
func (a *App) OnClose(name string, c io.Closer) {
	if c != nil {
		a.closers = append(a.closers, namedCloser{name: name, c: c})
	}
}

// Background registers a task that runs alongside the HTTP server and must
// return once its context is done.
func (a *App) Background(fn func(ctx context.Context)) {
	a.tasks = append(a.tasks, fn)
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the feed and the HTTP server and blocks until ctx is done
// or the server fails. Shutdown happens in reverse start order.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.feed.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("start feed: %w", err)
	}
	a.logger.Info("feed controller started",
		applogger.Bool("endpoint_configured", a.cfg.Live()),
		applogger.Duration("alert_interval", a.cfg.Feed.AlertInterval),
		applogger.Duration("stats_interval", a.cfg.Feed.StatsInterval),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.http.Serve)
	for _, task := range a.tasks {
		task := task
		g.Go(func() error {
			task(gctx)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown()
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}

func (a *App) shutdown() error {
	a.logger.Info("shutting down...", applogger.String("mode", string(a.feed.Mode())))

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout+5*time.Second)
	defer cancel()

	var errs []error
	if err := a.http.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}
	if err := a.feed.Stop(ctx); err != nil {
		a.logger.Warn("feed stop error", applogger.Error(err))
		errs = append(errs, err)
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		nc := a.closers[i]
		if err := nc.c.Close(); err != nil {
			a.logger.Warn("close error", applogger.String("resource", nc.name), applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.logger.Info("shutdown complete")
	return errors.Join(errs...)
}
