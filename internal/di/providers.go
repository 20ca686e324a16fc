package di

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"FinCast/internal/domain/repository"
	domsvc "FinCast/internal/domain/service"
	"FinCast/internal/handler/api"
	"FinCast/internal/service/cache"
	svcmetrics "FinCast/internal/service/metrics"
	"FinCast/internal/service/ratelimit"
	"FinCast/internal/services/forecasting"
	"FinCast/internal/usecase"
	"FinCast/pkg/config"
	xhttp "FinCast/pkg/http"
	"FinCast/pkg/http/middleware"
	applogger "FinCast/pkg/logger"
	"FinCast/pkg/metrics"
	"FinCast/pkg/server"
)

// ProvideLogger builds the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	svcmetrics.Register()
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideEngine creates the forecasting engine.
func ProvideEngine(cfg *config.Config, l *applogger.Logger) *forecasting.Engine {
	return forecasting.NewEngine(cfg.Forecast.WindowLength, forecasting.WithFitLogging(l, cfg.Forecast.Verbosity))
}

func ProvideForecaster(e *forecasting.Engine) domsvc.Forecaster { return e }

func ProvideModelCatalog(e *forecasting.Engine) domsvc.ModelCatalog { return e }

// ProvideForecastUseCase creates the forecast use case.
func ProvideForecastUseCase(engine domsvc.Forecaster, m repository.Metrics, l *applogger.Logger, cfg *config.Config) *usecase.ForecastUseCase {
	return usecase.NewForecastUseCase(engine, m, l, cfg.Forecast.MaxRows, cfg.Forecast.MaxHorizon)
}

func ProvideModelsUseCase(catalog domsvc.ModelCatalog) *usecase.ModelsUseCase {
	return usecase.NewModelsUseCase(catalog)
}

// ProvideCache creates the optional response cache; nil when disabled.
func ProvideCache(cfg *config.Config) (cache.BytesCache, error) {
	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return c, nil
}

// ProvideRateLimiter creates the per-client limiter for the forecast route.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst)
}

// ProvideHandler creates the forecast HTTP handler.
func ProvideHandler(
	l *applogger.Logger,
	forecast *usecase.ForecastUseCase,
	models *usecase.ModelsUseCase,
	c cache.BytesCache,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
) xhttp.Handler {
	return api.NewForecastEchoHandler(l, forecast, models).
		WithCache(c, cfg.Cache.TTL).
		WithGuard(middleware.RateLimit(limiter))
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(!cfg.Server.DisableCORS),
		xhttp.WithBodyLimit(cfg.Server.BodyLimit),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	limiter *ratelimit.Limiter,
	c cache.BytesCache,
) *server.App {
	app := server.New(cfg, l, srv, limiter)
	if closer, ok := c.(io.Closer); ok {
		app.OnShutdown(closer)
	}
	if s, ok := c.(cache.Sweeper); ok {
		app.Every("cache swept", cfg.Cache.TTL, s.Sweep)
	}
	return app
}
