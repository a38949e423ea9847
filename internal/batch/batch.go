package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tradelens/tradelens/internal/model"
	"golang.org/x/sync/errgroup"
)

// RenderFunc loads and projects a single analysis payload file.
// Each invocation must be independent; the processor calls it from
// multiple goroutines.
type RenderFunc func(ctx context.Context, path string) (*model.RenderModel, error)

// Result is the outcome of rendering one payload file.
// A failed file carries its error here rather than aborting the batch.
type Result struct {
	// Path is the payload file that was rendered.
	Path string

	// Model is the projected render model, nil when Err is set.
	Model *model.RenderModel

	// Err is the per-file failure, nil on success.
	Err error
}

// Processor handles concurrent rendering of multiple payload files.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate Processor rather than looping in the
// command layer because:
// 1. It keeps the render command focused on single-file execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type Processor struct {
	// render produces a render model for one payload file.
	render RenderFunc

	// concurrency is the maximum number of concurrent renders.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed renders. Access is synchronized via mutex.
	results []Result
	mu      sync.Mutex
}

// Option configures a Processor.
type Option func(*Processor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent renders.
// Default is 4 if not specified.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// NewProcessor creates a new Processor around the given render function.
func NewProcessor(render RenderFunc, opts ...Option) *Processor {
	p := &Processor{
		render:      render,
		concurrency: 4,
		results:     make([]Result, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// ProcessBatch renders multiple payload files concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each file gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Results keep the input order and include per-file errors. The error
// return indicates batch-level failure, such as cancellation.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string) ([]Result, error) {
	p.logger.Info("starting batch render",
		"total_files", len(paths),
		"concurrency", p.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	p.results = make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			p.logger.Info("rendering file",
				"path", path,
				"index", i+1,
				"total", len(paths),
			)

			m, err := p.render(ctx, path)

			// Store result regardless of error so one malformed file
			// doesn't abort the rest of the batch.
			p.mu.Lock()
			p.results[i] = Result{Path: path, Model: m, Err: err}
			p.mu.Unlock()

			if err != nil {
				p.logger.Warn("render failed",
					"path", path,
					"error", err,
				)
				return nil
			}

			p.logger.Info("render completed", "path", path)
			return nil
		})
	}

	err := g.Wait()

	elapsed := time.Since(startTime)
	p.logger.Info("batch render complete",
		"total_files", len(paths),
		"elapsed", elapsed,
	)

	return p.results, err
}

// ProcessBatchWithCallback renders multiple files and calls a callback for
// each completed render. This is useful for streaming results.
//
// The callback receives the result and the index of the file in the
// original slice. The callback is called from the goroutine that completed
// the render, so it should be thread-safe if it accesses shared state.
func (p *Processor) ProcessBatchWithCallback(
	ctx context.Context,
	paths []string,
	callback func(result Result, index int),
) error {
	p.logger.Info("starting batch render with callback",
		"total_files", len(paths),
		"concurrency", p.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			m, err := p.render(ctx, path)
			callback(Result{Path: path, Model: m, Err: err}, i)

			return nil
		})
	}

	return g.Wait()
}
