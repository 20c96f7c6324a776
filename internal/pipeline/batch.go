package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of record files processed at once when
// WithConcurrency is not given.
const DefaultConcurrency = 4

// BatchProcessor handles concurrent processing of multiple record files.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on a single record file
// 2. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each record file.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent pipelines.
	concurrency int

	// runID is stamped on every result. A new UUID is generated per batch
	// when it is empty.
	runID string

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent pipelines.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithRunID sets the run ID stamped on every result.
func WithRunID(runID string) BatchOption {
	return func(b *BatchProcessor) {
		b.runID = runID
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each record file so that
// pipeline state doesn't leak between files.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// newRunID returns the configured run ID or a fresh one.
func (bp *BatchProcessor) newRunID() string {
	if bp.runID != "" {
		return bp.runID
	}
	return uuid.NewString()
}

// ProcessBatch runs the pipeline over multiple record files concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because errgroup handles the concurrency correctly with less code.
//
// The returned slice has one Result per path, in input order. A failing
// file records its error in Result.Err and does not stop the others.
// The error return is non-nil only when the batch was cancelled; results
// of files that never started carry the context error.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]*Result, error) {
	runID := bp.newRunID()

	bp.logger.Info("starting batch processing",
		"run_id", runID,
		"total_records", len(paths),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Each goroutine writes only its own index.
	results := make([]*Result, len(paths))
	for i, path := range paths {
		results[i] = NewResult(path, runID)
	}

	err := bp.run(ctx, results, nil)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	bp.logger.Info("batch processing complete",
		"run_id", runID,
		"total_records", len(paths),
		"failed", failed,
		"elapsed", time.Since(startTime),
	)

	return results, err
}

// ProcessBatchWithCallback runs the pipeline over multiple record files and
// calls callback for each completed file. This is useful for streaming
// results.
//
// The callback receives the result and the index of the path in the
// original slice. It is called from the goroutine that completed the file,
// so it should be thread-safe if it accesses shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	paths []string,
	callback func(result *Result, index int),
) error {
	runID := bp.newRunID()

	bp.logger.Info("starting batch processing with callback",
		"run_id", runID,
		"total_records", len(paths),
		"concurrency", bp.concurrency,
	)

	results := make([]*Result, len(paths))
	for i, path := range paths {
		results[i] = NewResult(path, runID)
	}

	return bp.run(ctx, results, callback)
}

// run executes one pipeline per result. Pipeline errors are kept in the
// results; only cancellation is returned.
func (bp *BatchProcessor) run(ctx context.Context, results []*Result, callback func(*Result, int)) error {
	g := new(errgroup.Group)
	g.SetLimit(bp.concurrency)

	for i, result := range results {
		// Go blocks while the limit is reached, so a cancelled context
		// stops scheduling here.
		if ctx.Err() != nil {
			result.Err = ctx.Err()
			continue
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				result.Err = ctx.Err()
				return nil
			}

			bp.logger.Debug("processing record",
				"path", result.Path,
				"index", i+1,
				"total", len(results),
			)

			p := bp.pipelineFactory()
			if err := p.Execute(ctx, result); err != nil {
				bp.logger.Warn("record failed",
					"path", result.Path,
					"error", err,
				)
			}

			if callback != nil {
				callback(result, i)
			}
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // Goroutines never return errors; failures live in results

	return ctx.Err()
}
