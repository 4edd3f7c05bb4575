package server

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	xhttp "BankBrain/pkg/http"
	applogger "BankBrain/pkg/logger"
)

// Runner is a background loop that runs until its context is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

// App encapsulates one service's lifecycle: an HTTP server, optional
// background runners and the resources to release on shutdown.
type App struct {
	name       string
	logger     *applogger.Logger
	httpServer *xhttp.Server
	runners    []Runner
	closers    []io.Closer
}

// AppOption configures App.
type AppOption func(*App)

// WithRunner adds a background loop started alongside the HTTP server.
func WithRunner(r Runner) AppOption {
	return func(a *App) {
		a.runners = append(a.runners, r)
	}
}

// WithCloser registers a resource closed after the server stops.
func WithCloser(c io.Closer) AppOption {
	return func(a *App) {
		a.closers = append(a.closers, c)
	}
}

// New creates a new App instance with all dependencies.
func New(name string, logger *applogger.Logger, httpServer *xhttp.Server, opts ...AppOption) *App {
	a := &App{name: name, logger: logger, httpServer: httpServer}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done or the
// HTTP server fails.
func (a *App) RunContext(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.logger.Info("service starting", applogger.String("service", a.name))

	var serveErr <-chan error
	if a.httpServer != nil {
		serveErr = a.httpServer.Start()
	}

	var wg sync.WaitGroup
	for _, r := range a.runners {
		wg.Add(1)
		go func(r Runner) {
			defer wg.Done()
			if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("runner stopped", applogger.Error(err))
			}
		}(r)
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err, ok := <-serveErr:
		if ok && err != nil {
			runErr = err
		}
	}

	cancel()
	wg.Wait()
	a.shutdown()
	return runErr
}

// shutdown gracefully stops all services.
func (a *App) shutdown() {
	if a.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
		defer cancel()
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.logger.Error("http shutdown error", applogger.Error(err))
		}
	}

	// flush aggregated logs while the broker is still open
	a.logger.RemoveCollector()

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete", applogger.String("service", a.name))
}
