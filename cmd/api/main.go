package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pa-nts/topperbus/internal/app"
	"github.com/Pa-nts/topperbus/internal/config"
	"github.com/Pa-nts/topperbus/internal/live"
	"github.com/Pa-nts/topperbus/internal/logging"
	"github.com/Pa-nts/topperbus/internal/metrics"
	"github.com/Pa-nts/topperbus/internal/nextbus"
	"github.com/Pa-nts/topperbus/internal/publisher"
	"github.com/Pa-nts/topperbus/internal/restapi"
)

func main() {
	var port int
	var env string

	flag.IntVar(&port, "port", 4000, "API server port")
	flag.StringVar(&env, "env", "development", "Environment (development|staging|production)")
	flag.Parse()

	logger := logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	collector := metrics.NewCollector()

	var pub live.VehiclePublisher
	if cfg.NATSURL != "" {
		natsPub, err := publisher.NewNATSPublisher(cfg.NATSURL, logger, natsMetrics{collector})
		if err != nil {
			logger.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsPub.Close()
		pub = natsPub
	}

	feed := nextbus.NewClient(nextbus.Config{
		BaseURL:              cfg.FeedBaseURL,
		Agency:               cfg.Agency,
		MaxRequestsPerSecond: 5,
	})

	initCtx, initCancel := context.WithTimeout(ctx, 30*time.Second)
	manager, err := live.InitManager(initCtx, feed, live.Config{
		VehicleRefreshInterval:    cfg.VehicleRefreshInterval,
		PredictionRefreshInterval: cfg.PredictionRefreshInterval,
		RouteFilter:               cfg.RouteFilter,
	}, logger, collector, pub)
	initCancel()
	if err != nil {
		logger.Error("failed to load initial transit data", "error", err)
		os.Exit(1)
	}
	defer manager.Shutdown()

	application := &app.Application{
		Config:      cfg,
		Port:        port,
		Env:         env,
		Logger:      logger,
		Feed:        feed,
		LiveManager: manager,
		Metrics:     collector,
	}

	api := restapi.NewRestAPI(application)
	defer api.Shutdown()

	handler := api.WithSecurityHeaders(api.Router())
	handler = restapi.NewRequestLoggingMiddleware(logger)(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting server", "addr", srv.Addr, "env", env)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error(err.Error())
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

// natsMetrics adapts the collector to the publisher's metrics interface.
type natsMetrics struct{ c *metrics.Collector }

func (n natsMetrics) NATSPublishedInc()              { n.c.NATSPublished.Inc() }
func (n natsMetrics) NATSPublishErrInc()             { n.c.NATSPublishErrs.Inc() }
func (n natsMetrics) PublishObserve(d time.Duration) { n.c.PublishDuration.Observe(d.Seconds()) }
func (n natsMetrics) NATSSetConnected(connected bool) {
	if connected {
		n.c.NATSConnected.Set(1)
	} else {
		n.c.NATSConnected.Set(0)
	}
}
