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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"revboard/internal/amqp"
	"revboard/internal/config"
	"revboard/internal/log"
	"revboard/internal/metrics"
	"revboard/internal/sheets"
	"revboard/internal/sheets/google"
	"revboard/internal/storage"
	"revboard/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(cfg.LogLevel, log.ComponentWorker)
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("open storage", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var appender sheets.TransactionAppender
	if cfg.GoogleSpreadsheetID != "" {
		client, err := google.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("init Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		appender = client
		logger.Info("exports will be mirrored to Google Sheets", "sheet", cfg.GoogleSheetName)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	w := worker.NewExportWorker(repo, appender, m, logger, cfg.ExportDir)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.WorkerMetricsPort != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		metricsSrv := &http.Server{
			Addr:              ":" + cfg.WorkerMetricsPort,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("metrics listener starting", "port", cfg.WorkerMetricsPort)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return metricsSrv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		logger.Info("export worker starting", "queue", cfg.AMQPQueue, "export_dir", cfg.ExportDir)
		return amqp.ConsumeForever(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, func(msg *amqp.ExportJobMessage) error {
			return w.HandleExportJob(ctx, msg)
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("export worker stopped gracefully")
}
