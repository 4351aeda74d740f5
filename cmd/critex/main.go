// critex is a command-line tool for extracting engineering design criteria
// from PDF documents with Google Document AI.
//
// Each input document is submitted to the configured processor; the entities
// the processor returns are classified into loads, seismic forces, design
// vehicles and design cranes, detected tables and figures are cropped out of
// the page images, and everything is written to a per-job output directory as
// result.json plus the crop files.
//
// Configuration:
//
// The tool reads a YAML configuration file, with environment variables taking
// precedence (GOOGLE_CLOUD_PROJECT, DOCUMENT_AI_PROCESSOR_ID,
// DOCUMENT_AI_LOCATION, GOOGLE_APPLICATION_CREDENTIALS):
//
//	project_id: "your-gcp-project-id"
//	location: "us"
//	processor_id: "your-processor-id"
//	credentials: "/path/to/service-account.json"
//
// Usage:
//
//	critex -config config.yml -input document.pdf [options]
//	critex -config config.yml -input ./drawings/ -workers 8
//
// Flags:
//
//	-config string   Path to the YAML configuration file
//	-input string    Input PDF file or directory of PDFs (required)
//	-output string   Output root directory (default from config)
//	-workers int     Concurrent jobs when input is a directory
//	-threshold float Minimum entity confidence kept in typed output
//	-report          Also write a summary.pdf report per job
//	-xlsx            Also write a tables.xlsx workbook per job
//	-debug-api string Path to save the raw API response as JSON
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/critex/critex/pkg/config"
	"github.com/critex/critex/pkg/docai"
	"github.com/critex/critex/pkg/extraction"
	"github.com/critex/critex/pkg/jobs"
)

func main() {
	configPath := flag.String("config", "", "Path to the config YAML file")
	inputPath := flag.String("input", "", "Input PDF file or directory (required)")
	outputDir := flag.String("output", "", "Output root directory (overrides config)")
	workers := flag.Int("workers", 0, "Concurrent jobs for directory input (overrides config)")
	threshold := flag.Float64("threshold", 0, "Minimum entity confidence kept in typed output (overrides config)")
	report := flag.Bool("report", false, "Write a summary.pdf report per job")
	xlsx := flag.Bool("xlsx", false, "Write a tables.xlsx workbook per job")
	debugAPIPath := flag.String("debug-api", "", "Path to save raw API response as JSON for debugging purposes")
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -input flag is required")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *threshold > 0 {
		cfg.Threshold = *threshold
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

	info, err := os.Stat(*inputPath)
	if err != nil {
		logger.Fatal("input path does not exist", zap.String("input", *inputPath), zap.Error(err))
	}

	var finished []jobs.Job
	if info.IsDir() {
		finished, err = orch.RunDir(ctx, *inputPath)
		if err != nil {
			logger.Fatal("batch run failed", zap.Error(err))
		}
	} else {
		if !strings.EqualFold(filepath.Ext(*inputPath), ".pdf") {
			logger.Fatal("input file must be a PDF", zap.String("input", *inputPath))
		}
		job := orch.Run(ctx, *inputPath)
		finished = append(finished, job)

		if *debugAPIPath != "" {
			writeDebugAPI(ctx, client, *inputPath, *debugAPIPath, logger)
		}
	}

	failed := 0
	for _, job := range finished {
		if job.Status == jobs.StatusFailed {
			failed++
			fmt.Printf("FAILED    %s  %s  (%s)\n", job.ID, job.Filename, job.Error)
		} else {
			fmt.Printf("COMPLETED %s  %s  -> %s\n", job.ID, job.Filename, job.OutputDir)
		}
	}
	fmt.Printf("%d job(s), %d failed\n", len(finished), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// writeDebugAPI reprocesses the file once and dumps the raw proto response.
func writeDebugAPI(ctx context.Context, client *docai.Client, inputPath, debugPath string, logger *zap.Logger) {
	pdfBytes, err := os.ReadFile(inputPath)
	if err != nil {
		logger.Error("failed to read input for API dump", zap.Error(err))
		return
	}
	res, err := client.Process(ctx, pdfBytes)
	if err != nil {
		logger.Error("failed to reprocess input for API dump", zap.Error(err))
		return
	}
	apiJSON, err := docai.ToJSON(res.Raw)
	if err != nil {
		logger.Error("failed to convert API response to JSON", zap.Error(err))
		return
	}
	if err := os.WriteFile(debugPath, []byte(apiJSON), 0644); err != nil {
		logger.Error("failed to write API response JSON", zap.Error(err))
		return
	}
	fmt.Println("API response JSON saved to:", debugPath)
}
