// Package providers contains dependency injection providers for the CookFeed server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/cookfeed/cookfeed-server/internal/config"
	"github.com/cookfeed/cookfeed-server/internal/logger"
	"github.com/cookfeed/cookfeed-server/internal/metrics"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting CookFeed Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Storage.DataPath,
	)

	return log, nil
}

// ProvideMetrics provides the Prometheus collectors. They are always
// collected; METRICS_ENABLED only decides whether /metrics is served.
func ProvideMetrics(i do.Injector) (*metrics.Metrics, error) {
	return metrics.New(), nil
}
