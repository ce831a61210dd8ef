package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidParallelism is returned when parallelTasks is not positive
	ErrInvalidParallelism = errors.New("parallel tasks must be positive")
	// ErrInvalidIterations is returned when iterations is negative
	ErrInvalidIterations = errors.New("iterations must not be negative")
	// ErrNilOperation is returned when no operation is supplied
	ErrNilOperation = errors.New("operation is nil")
)

// Operation is a single unit of benchmarked work. It must be safe to call
// from several goroutines at once.
type Operation func(ctx context.Context) error

// Result holds the outcome of one benchmark run
type Result struct {
	Waves       int
	Invocations int
	Elapsed     time.Duration
}

// Milliseconds returns the elapsed time in whole milliseconds
func (r Result) Milliseconds() int64 {
	return r.Elapsed.Milliseconds()
}

// Harness runs an operation in sequential waves of concurrent invocations
type Harness struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// OnWave, if set, is called after each wave joins successfully.
	OnWave func(wave int, elapsed time.Duration)
}

// NewHarness creates a harness using the wall clock
func NewHarness() *Harness {
	return &Harness{Now: time.Now}
}

// Measure runs operation and returns the elapsed milliseconds
func Measure(ctx context.Context, operation Operation, iterations, parallelTasks int) (int64, error) {
	return NewHarness().Measure(ctx, operation, iterations, parallelTasks)
}

// Measure runs operation and returns the elapsed milliseconds
func (h *Harness) Measure(ctx context.Context, operation Operation, iterations, parallelTasks int) (int64, error) {
	res, err := h.Run(ctx, operation, iterations, parallelTasks)
	if err != nil {
		return 0, err
	}
	return res.Milliseconds(), nil
}

// Run executes iterations/parallelTasks waves. Each wave starts parallelTasks
// invocations and waits for all of them before the next wave begins. When
// parallelTasks does not divide iterations the remainder is not executed.
// The first failure in a wave is returned once that wave has joined and no
// further waves run.
func (h *Harness) Run(ctx context.Context, operation Operation, iterations, parallelTasks int) (Result, error) {
	if operation == nil {
		return Result{}, ErrNilOperation
	}
	if parallelTasks <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidParallelism, parallelTasks)
	}
	if iterations < 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidIterations, iterations)
	}

	now := h.Now
	if now == nil {
		now = time.Now
	}

	waves := iterations / parallelTasks
	start := now()

	for i := 0; i < waves; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if err := runWave(ctx, operation, parallelTasks); err != nil {
			return Result{}, fmt.Errorf("wave %d: %w", i, err)
		}
		if h.OnWave != nil {
			h.OnWave(i, now().Sub(start))
		}
	}

	elapsed := now().Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	return Result{
		Waves:       waves,
		Invocations: waves * parallelTasks,
		Elapsed:     elapsed,
	}, nil
}

// runWave starts n invocations and waits for every one of them. The group is
// not derived from ctx so a failing invocation does not cancel its siblings.
func runWave(ctx context.Context, operation Operation, n int) error {
	var g errgroup.Group
	for j := 0; j < n; j++ {
		g.Go(func() error {
			return operation(ctx)
		})
	}
	return g.Wait()
}
