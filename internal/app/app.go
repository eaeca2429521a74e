// Package app builds the long-lived services from configuration and runs the
// HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/webcite/internal/api"
	"github.com/JakeFAU/webcite/internal/citation"
	"github.com/JakeFAU/webcite/internal/clock/system"
	"github.com/JakeFAU/webcite/internal/config"
	collyfetcher "github.com/JakeFAU/webcite/internal/fetcher/colly"
	"github.com/JakeFAU/webcite/internal/id/uuid"
	"github.com/JakeFAU/webcite/internal/metrics"
	"github.com/JakeFAU/webcite/internal/politeness"
)

const shutdownTimeout = 10 * time.Second

// App holds the application's dependencies.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	extractor *citation.Extractor
	apiServer *api.Server
}

// New wires the fetcher, extractor and API server from cfg.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("resolve time zone: %w", err)
	}
	metrics.Init()

	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.Fetch.UserAgent,
		Headers:   cfg.Fetch.Headers,
		Timeout:   cfg.Fetch.Timeout,
	}, logger.Named("fetcher"))
	pauser := politeness.NewRandomPauser(cfg.Politeness.MinDelay, cfg.Politeness.MaxDelay)
	extractor := citation.NewExtractor(
		fetcher,
		system.New(),
		pauser,
		citation.Config{Location: loc},
		logger.Named("extractor"),
	)
	apiServer := api.NewServer(
		extractor,
		uuid.New(),
		api.Config{RequestTimeout: cfg.Server.RequestTimeout},
		logger.Named("api"),
	)

	logger.Info("application built",
		zap.Int("port", cfg.Server.Port),
		zap.Duration("fetch_timeout", cfg.Fetch.Timeout),
		zap.Duration("min_delay", cfg.Politeness.MinDelay),
		zap.Duration("max_delay", cfg.Politeness.MaxDelay),
		zap.String("time_zone", loc.String()),
	)
	return &App{
		cfg:       cfg,
		logger:    logger,
		extractor: extractor,
		apiServer: apiServer,
	}, nil
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Extract runs a single extraction outside the HTTP server.
func (a *App) Extract(ctx context.Context, rawURL string) citation.Record {
	return a.extractor.Extract(ctx, rawURL)
}

// Handler exposes the API router.
func (a *App) Handler() http.Handler {
	return a.apiServer.Handler()
}

// Run serves HTTP until ctx is canceled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server started", zap.Int("port", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	a.logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	a.logger.Info("shutdown complete")
	return nil
}

// Close flushes the logger.
func (a *App) Close() {
	// Sync on a console logger returns EINVAL on some platforms; nothing to do about it.
	_ = a.logger.Sync()
}
