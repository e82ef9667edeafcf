package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"EstatePulse/internal/handler/ws"
	"EstatePulse/internal/usecase"
	"EstatePulse/pkg/cache"
	pkgch "EstatePulse/pkg/clickhouse"
	"EstatePulse/pkg/config"
	xhttp "EstatePulse/pkg/http"
	pkgkafka "EstatePulse/pkg/kafka"
	xlogger "EstatePulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *xlogger.Logger
	refresher  *usecase.SnapshotRefresher
	consumer   *pkgkafka.Consumer
	ingest     *usecase.IndicatorIngestHandler
	hub        *ws.Hub
	chClient   *pkgch.Client
	cache      cache.Service
	httpServer *xhttp.Server
	handlers   []xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *xlogger.Logger,
	refresher *usecase.SnapshotRefresher,
	consumer *pkgkafka.Consumer,
	ingest *usecase.IndicatorIngestHandler,
	hub *ws.Hub,
	chClient *pkgch.Client,
	cacheSvc cache.Service,
	handlers []xhttp.Handler,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		refresher: refresher,
		consumer:  consumer,
		ingest:    ingest,
		hub:       hub,
		chClient:  chClient,
		cache:     cacheSvc,
		handlers:  handlers,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []xhttp.ServerOption{
		xhttp.WithHost(a.cfg.Server.Host),
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	}
	if a.cfg.Metrics.Enabled {
		path := a.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		opts = append(opts, xhttp.WithMetricsPath(path))
	}
	a.httpServer = xhttp.NewServer(a.handlers, opts...)

	// Start the snapshot refresher
	if a.refresher != nil {
		if err := a.refresher.Start(ctx); err != nil {
			a.logger.Error("refresher start error", xlogger.Error(err))
			return err
		}
		a.logger.Info("snapshot refresher started",
			xlogger.Duration("interval", a.cfg.Feed.RefreshInterval))
	}

	// Start the indicator ingest consumer if configured
	if a.consumer != nil && a.ingest != nil {
		a.consumer.RegisterHandler(a.ingest)
		if err := a.consumer.Start(); err != nil {
			a.logger.Error("kafka consumer start error", xlogger.Error(err))
			return err
		}
		a.logger.Info("kafka consumer started", xlogger.String("topic", a.ingest.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", xlogger.Error(err))
		return err
	}
	a.logger.Info("http server started",
		xlogger.Int("port", a.cfg.Server.Port),
		xlogger.Bool("demo_mode", a.cfg.DemoMode))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.refresher != nil {
		if err := a.refresher.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("refresher stop error", xlogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.logger.Warn("kafka consumer stop error", xlogger.Error(err))
		}
	}

	if a.hub != nil {
		a.hub.Close()
	}

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", xlogger.Error(err))
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", xlogger.Error(err))
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", xlogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
