package services

import (
	"context"
	"fmt"

	"github.com/ajramos/awaitbench/internal/bench"
)

const (
	// DefaultIterations is the number of invocations per run
	DefaultIterations = 1000
	// DefaultParallelTasks is the number of invocations per wave
	DefaultParallelTasks = 10
)

// Measurer times an operation
type Measurer interface {
	Measure(ctx context.Context, op bench.Operation, iterations, parallelTasks int) (int64, error)
}

// BenchmarkOptions holds the suite parameters
type BenchmarkOptions struct {
	Iterations    int
	ParallelTasks int
	PageURLs      []string
}

// DefaultBenchmarkOptions returns the fixed parameters of the suite
func DefaultBenchmarkOptions() BenchmarkOptions {
	return BenchmarkOptions{
		Iterations:    DefaultIterations,
		ParallelTasks: DefaultParallelTasks,
		PageURLs:      DefaultPageURLs,
	}
}

// variant is one labelled operation of the suite
type variant struct {
	measuring string
	timing    string
	op        bench.Operation
}

// family is a pair of variants compared against each other
type family struct {
	name     string
	captured variant
	released variant
}

// BenchmarkServiceImpl implements BenchmarkService
type BenchmarkServiceImpl struct {
	downloads DownloadService
	measurer  Measurer
	reporter  Reporter
	opts      BenchmarkOptions
}

// NewBenchmarkService creates a new benchmark service. A nil measurer uses
// the default harness and a nil reporter discards progress.
func NewBenchmarkService(downloads DownloadService, measurer Measurer, reporter Reporter, opts BenchmarkOptions) *BenchmarkServiceImpl {
	if measurer == nil {
		measurer = bench.NewHarness()
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	if opts.Iterations == 0 {
		opts.Iterations = DefaultIterations
	}
	if opts.ParallelTasks == 0 {
		opts.ParallelTasks = DefaultParallelTasks
	}
	if len(opts.PageURLs) == 0 {
		opts.PageURLs = DefaultPageURLs
	}
	return &BenchmarkServiceImpl{
		downloads: downloads,
		measurer:  measurer,
		reporter:  reporter,
		opts:      opts,
	}
}

func (s *BenchmarkServiceImpl) families() []family {
	urls := s.opts.PageURLs
	d := s.downloads

	return []family{
		{
			name: "simple",
			captured: variant{
				measuring: "Measuring performance for a simple method resuming on the captured context in parallel",
				timing:    "Time for a simple method resuming on the captured context in parallel",
				op:        func(ctx context.Context) error { return d.Download(ctx, true) },
			},
			released: variant{
				measuring: "Measuring performance for a simple method releasing the captured context in parallel",
				timing:    "Time for a simple method releasing the captured context in parallel",
				op:        func(ctx context.Context) error { return d.Download(ctx, false) },
			},
		},
		{
			name: "complex",
			captured: variant{
				measuring: "Measuring performance with complex method resuming on the captured context in parallel",
				timing:    "Time resuming on the captured context in parallel",
				op:        func(ctx context.Context) error { return d.DownloadAndParse(ctx, urls, true) },
			},
			released: variant{
				measuring: "Measuring performance with complex method releasing the captured context in parallel",
				timing:    "Time releasing the captured context in parallel",
				op:        func(ctx context.Context) error { return d.DownloadAndParse(ctx, urls, false) },
			},
		},
	}
}

// RunAll measures every family in order, captured variant first, and reports
// a comparison after each pair. The first failure aborts the suite.
func (s *BenchmarkServiceImpl) RunAll(ctx context.Context) ([]Comparison, error) {
	if s.downloads == nil {
		return nil, ErrNilDownloads
	}
	if len(s.opts.PageURLs) == 0 {
		return nil, ErrNoURLs
	}

	s.reporter.Intro()

	results := make([]Comparison, 0, 2)
	for _, f := range s.families() {
		captured, err := s.run(ctx, f.captured)
		if err != nil {
			return results, fmt.Errorf("%w: %s: %w", ErrBenchmarkRun, f.name, err)
		}
		released, err := s.run(ctx, f.released)
		if err != nil {
			return results, fmt.Errorf("%w: %s: %w", ErrBenchmarkRun, f.name, err)
		}

		c := Comparison{Name: f.name, Captured: captured, Released: released}
		s.reporter.Comparison(c)
		results = append(results, c)
	}
	return results, nil
}

func (s *BenchmarkServiceImpl) run(ctx context.Context, v variant) (int64, error) {
	s.reporter.Measuring(v.measuring)
	ms, err := s.measurer.Measure(ctx, v.op, s.opts.Iterations, s.opts.ParallelTasks)
	if err != nil {
		return 0, err
	}
	s.reporter.Timing(v.timing, ms)
	return ms, nil
}

type nopReporter struct{}

func (nopReporter) Intro() {}
func (nopReporter) Measuring(string) {}
func (nopReporter) Timing(string, int64) {}
func (nopReporter) Comparison(Comparison) {}
