// Package extraction coordinates one extraction job end to end: submit the
// document, map the response to design criteria, save region crops, and write
// the structured result, advancing the job's status as it goes.
package extraction

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/critex/critex/pkg/config"
	"github.com/critex/critex/pkg/criteria"
	"github.com/critex/critex/pkg/docai"
	"github.com/critex/critex/pkg/jobs"
	"github.com/critex/critex/pkg/regions"
	"github.com/critex/critex/pkg/report"
)

// Submitter is the document-processing dependency of the orchestrator.
// *docai.Client implements it; tests substitute fakes.
type Submitter interface {
	Process(ctx context.Context, pdfBytes []byte) (*docai.Result, error)
}

// Orchestrator runs extraction jobs against a single processor and records
// their lifecycle in the job store. Jobs share no state besides the store, so
// any number may run concurrently.
type Orchestrator struct {
	client     Submitter
	store      *jobs.Store
	cfg        *config.Config
	logger     *zap.Logger
	summaryPDF bool
	tablesXLSX bool
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithSummaryPDF enables writing a summary.pdf report per job.
func WithSummaryPDF(enabled bool) Option {
	return func(o *Orchestrator) { o.summaryPDF = enabled }
}

// WithTablesXLSX enables writing a tables.xlsx workbook per job.
func WithTablesXLSX(enabled bool) Option {
	return func(o *Orchestrator) { o.tablesXLSX = enabled }
}

// NewOrchestrator wires an orchestrator over the given submitter and store.
func NewOrchestrator(client Submitter, store *jobs.Store, cfg *config.Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client: client,
		store:  store,
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Store exposes the job table for status polling.
func (o *Orchestrator) Store() *jobs.Store {
	return o.store
}

// Run creates a job for the input file, processes it to a terminal state and
// returns the final job snapshot. Processing errors are recorded on the job,
// not returned.
func (o *Orchestrator) Run(ctx context.Context, inputPath string) jobs.Job {
	job := o.store.Create(inputPath, o.cfg.OutputDir)
	o.process(ctx, job)
	final, _ := o.store.Get(job.ID)
	return final
}

// Start creates a job and processes it in the background, returning the
// queued snapshot immediately. Callers poll the store for progress.
func (o *Orchestrator) Start(ctx context.Context, inputPath string) jobs.Job {
	job := o.store.Create(inputPath, o.cfg.OutputDir)
	go o.process(ctx, job)
	return job
}

// RunDir processes every *.pdf in dir with a bounded worker pool and returns
// the final job snapshots, oldest first.
func (o *Orchestrator) RunDir(ctx context.Context, dir string) ([]jobs.Job, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	if len(paths) == 0 {
		o.logger.Warn("no pdf files found", zap.String("dir", dir))
		return nil, nil
	}
	sort.Strings(paths)

	ids := make([]string, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)
	for i, path := range paths {
		job := o.store.Create(path, o.cfg.OutputDir)
		ids[i] = job.ID
		g.Go(func() error {
			o.process(gctx, job)
			return nil
		})
	}
	_ = g.Wait() // per-job errors live on the jobs themselves

	out := make([]jobs.Job, 0, len(ids))
	for _, id := range ids {
		if job, ok := o.store.Get(id); ok {
			out = append(out, job)
		}
	}
	return out, nil
}

// process drives one job to a terminal state. Every error path records the
// original failure reason on the job; no step reports partial success.
func (o *Orchestrator) process(ctx context.Context, job jobs.Job) {
	if err := o.store.MarkProcessing(job.ID); err != nil {
		o.logger.Error("job transition rejected", zap.String("job_id", job.ID), zap.Error(err))
		return
	}
	o.logger.Info("processing document",
		zap.String("job_id", job.ID),
		zap.String("file", job.Filename),
	)

	pdfBytes, err := os.ReadFile(job.InputPath)
	if err != nil {
		o.fail(job, fmt.Errorf("failed to read input %s: %w", job.InputPath, err))
		return
	}

	res, err := o.client.Process(ctx, pdfBytes)
	if err != nil {
		o.fail(job, err)
		return
	}

	dc := criteria.Map(res, criteria.Options{
		Threshold:   o.cfg.Threshold,
		Filename:    job.Filename,
		Processor:   res.Processor,
		ProcessedAt: time.Now().UTC(),
	})

	crops, err := regions.Extract(res, dc, job.OutputDir)
	if err != nil {
		o.fail(job, err)
		return
	}

	if o.summaryPDF {
		if err := report.WriteSummaryPDF(dc, filepath.Join(job.OutputDir, report.SummaryFilename)); err != nil {
			o.fail(job, err)
			return
		}
	}
	if o.tablesXLSX {
		if err := report.WriteTablesXLSX(dc, filepath.Join(job.OutputDir, report.TablesFilename)); err != nil {
			o.fail(job, err)
			return
		}
	}

	if err := WriteText(dc, job.OutputDir); err != nil {
		o.fail(job, err)
		return
	}
	if _, err := WriteResult(dc, job.OutputDir); err != nil {
		o.fail(job, err)
		return
	}

	if err := o.store.MarkCompleted(job.ID); err != nil {
		o.logger.Error("job transition rejected", zap.String("job_id", job.ID), zap.Error(err))
		return
	}
	o.logger.Info("extraction completed",
		zap.String("job_id", job.ID),
		zap.Int("entities", dc.Metadata.EntityCount),
		zap.Int("loads", len(dc.Loads)),
		zap.Int("tables", len(dc.Tables)),
		zap.Int("crops", len(crops)),
		zap.Int("attempts", res.Attempts),
	)
}

func (o *Orchestrator) fail(job jobs.Job, err error) {
	reason := docai.Reason(err)
	if markErr := o.store.MarkFailed(job.ID, reason); markErr != nil {
		o.logger.Error("job transition rejected", zap.String("job_id", job.ID), zap.Error(markErr))
	}
	o.logger.Error("extraction failed",
		zap.String("job_id", job.ID),
		zap.String("file", job.Filename),
		zap.Error(err),
	)
}
