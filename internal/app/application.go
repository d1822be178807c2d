package app

import (
	"log/slog"

	"github.com/Pa-nts/topperbus/internal/config"
	"github.com/Pa-nts/topperbus/internal/live"
	"github.com/Pa-nts/topperbus/internal/metrics"
)

// Application holds the dependencies for our HTTP handlers, helpers, and
// middleware.
type Application struct {
	Config      *config.Config
	Port        int
	Env         string
	Logger      *slog.Logger
	Feed        live.Fetcher
	LiveManager *live.Manager
	Metrics     *metrics.Collector
}
