// critexd runs the design-criteria extraction service as an HTTP daemon.
//
// It exposes a small JSON API for submitting PDF documents and polling the
// resulting extraction jobs:
//
//	POST /api/v1/extract            multipart upload, returns a queued job
//	GET  /api/v1/jobs/{id}          job status
//	GET  /api/v1/jobs/{id}/result   result.json once the job completed
//	GET  /api/v1/jobs/{id}/files    output files written for the job
//	GET  /healthz                   liveness probe
//
// Usage:
//
//	critexd -config config.yml [-addr :8080]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/critex/critex/pkg/api"
	"github.com/critex/critex/pkg/config"
	"github.com/critex/critex/pkg/docai"
	"github.com/critex/critex/pkg/extraction"
	"github.com/critex/critex/pkg/jobs"
)

func main() {
	configPath := flag.String("config", "", "Path to the config YAML file")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	report := flag.Bool("report", false, "Write a summary.pdf report per job")
	xlsx := flag.Bool("xlsx", false, "Write a tables.xlsx workbook per job")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("configuration error", zap.Error(err))
	}
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		logger.Fatal("failed to create upload directory", zap.Error(err))
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		logger.Fatal("failed to create output directory", zap.Error(err))
	}

	ctx := context.Background()
	client, err := docai.New(ctx, cfg, docai.WithLogger(logger))
	if err != nil {
		logger.Fatal("failed to create Document AI client", zap.Error(err))
	}
	defer client.Close()

	orch := extraction.NewOrchestrator(client, jobs.NewStore(), cfg,
		extraction.WithLogger(logger),
		extraction.WithSummaryPDF(*report),
		extraction.WithTablesXLSX(*xlsx),
	)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           api.NewServer(orch, cfg, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", *addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
