package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FinCast/internal/service/ratelimit"
	"FinCast/pkg/config"
	xhttp "FinCast/pkg/http"
	applogger "FinCast/pkg/logger"
)

const limiterIdle = 10 * time.Minute

// chore is a periodic cleanup job; fn returns how many items it removed.
type chore struct {
	name  string
	every time.Duration
	fn    func() int
}

// App encapsulates the HTTP service lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	chores     []chore
	closers    []io.Closer
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, limiter *ratelimit.Limiter) *App {
	a := &App{cfg: cfg, log: l, httpServer: srv}
	if limiter != nil {
		a.Every("rate limiter pruned", limiterIdle, func() int { return limiter.Prune(limiterIdle) })
	}
	return a
}

// Every runs fn on a ticker while the app is running. Non-positive intervals
// are ignored.
func (a *App) Every(name string, every time.Duration, fn func() int) {
	if every <= 0 || fn == nil {
		return
	}
	a.chores = append(a.chores, chore{name: name, every: every, fn: fn})
}

// OnShutdown registers c to be closed after the HTTP server stops.
func (a *App) OnShutdown(c io.Closer) {
	if c != nil {
		a.closers = append(a.closers, c)
	}
}

// Run starts the application and blocks until ctx is done or an interrupt arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("fincast started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("addr", a.httpServer.Addr()),
		applogger.String("cache", a.cfg.Cache.Backend),
	)

	for _, c := range a.chores {
		go a.runChore(ctx, c)
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) runChore(ctx context.Context, c chore) {
	t := time.NewTicker(c.every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := c.fn(); n > 0 {
				a.log.Debug(c.name, applogger.Int("removed", n))
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.log.Info("shutting down...")

	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn("close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
