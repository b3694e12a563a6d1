package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"storefront-api/internal/app"
	"storefront-api/internal/config"
	"storefront-api/internal/logger"
	"storefront-api/internal/tracing"
)

const (
	serviceName    = "storefront-api"
	serviceVersion = "1.0.0"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(serviceName, cfg.LogLevel, cfg.IsDevelopment())

	if err := cfg.Validate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	var tp *sdktrace.TracerProvider
	if cfg.TracingEnabled {
		var err error
		tp, err = tracing.InitTracer(ctx, serviceName, cfg.JaegerEndpoint, serviceVersion)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Tracing disabled")
		}
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           application.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.Port).
			Str("store", cfg.StoreDriver).
			Str("cache", cfg.CacheDriver).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, cfg.ShutdownTimeout, map[string]gfshutdown.Operation{
		// El store se cierra solo cuando terminan las peticiones en curso.
		"http-server": func(ctx context.Context) error {
			logger.Logger.Info().Msg("Shutting down server...")
			if err := server.Shutdown(ctx); err != nil {
				return err
			}
			return application.Close(ctx)
		},
		"tracer": func(ctx context.Context) error {
			return tracing.Shutdown(ctx, tp)
		},
	})

	exitCode := <-wait
	logger.Logger.Info().Int("exit_code", exitCode).Msg("Server stopped")
	os.Exit(exitCode)
}
