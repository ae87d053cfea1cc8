package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"immichart/internal/config"
	"immichart/internal/core"
	"immichart/internal/dataset"
	"immichart/internal/events"
	apphttp "immichart/internal/http"
	applog "immichart/internal/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentApp,
		Output:    os.Stdout,
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	chartOpts, err := config.LoadChartSettings(cfg.LayoutFile)
	if err != nil {
		logger.Error("Chart layout invalid", applog.FieldError, err, "file", cfg.LayoutFile)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	records, loadErr := loadDataset(ctx, cfg, logger)

	publisher := events.Publisher(events.NopPublisher{})
	if cfg.AMQPURL != "" {
		p, err := events.DialWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, 5,
			logger.WithComponent(applog.ComponentEvents).Logger)
		if err != nil {
			// Events are optional; the chart works without a broker.
			logger.Warn("AMQP unavailable, events disabled", applog.FieldError, err)
		} else {
			publisher = p
			logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}
	defer publisher.Close()

	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:               ":" + cfg.Port,
		Records:            records,
		LoadErr:            loadErr,
		Chart:              chartOpts,
		Publisher:          publisher,
		Logger:             logger,
		SessionTTL:         cfg.SessionTTL,
		SessionMax:         cfg.SessionMax,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	if err != nil {
		logger.Error("Failed to build HTTP server", applog.FieldError, err)
		os.Exit(1)
	}
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting immichart server", "port", cfg.Port, applog.FieldSource, cfg.DataSource)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return srv.Background(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// loadDataset reads the configured source once. Failure is terminal for the
// process lifetime: the server still starts and renders an empty chart.
func loadDataset(ctx context.Context, cfg *config.Config, logger *applog.Logger) ([]core.Record, error) {
	dsLog := logger.WithComponent(applog.ComponentDataset)

	res, err := dataset.NewSource(ctx, cfg.SourceConfig(), dsLog.Logger)
	if err != nil {
		err = &dataset.LoadError{Source: cfg.DataSource, Err: err}
		dsLog.Error("Dataset load failed", applog.FieldError, err)
		return nil, err
	}
	if res.Cleanup != nil {
		defer func() {
			if cerr := res.Cleanup(); cerr != nil {
				dsLog.Warn("Data source cleanup failed", applog.FieldError, cerr)
			}
		}()
	}

	records, err := dataset.NewLoader(res.Source, dsLog.Logger).Load(ctx)
	if err != nil {
		dsLog.Error("Dataset load failed", applog.FieldError, err)
		return nil, err
	}
	return records, nil
}
