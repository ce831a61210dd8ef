package services

import "context"

// Fetcher downloads a URL as text
type Fetcher interface {
	GetString(ctx context.Context, url string) (string, error)
}

// DownloadService provides the benchmarked operations. Every operation takes
// resumeOnCaptured, which selects how each continuation resumes after a
// suspension point.
type DownloadService interface {
	Download(ctx context.Context, resumeOnCaptured bool) error
	DownloadAndParse(ctx context.Context, urls []string, resumeOnCaptured bool) error
}

// BenchmarkService runs the full comparison suite
type BenchmarkService interface {
	RunAll(ctx context.Context) ([]Comparison, error)
}

// Reporter receives suite progress
type Reporter interface {
	Intro()
	Measuring(label string)
	Timing(label string, ms int64)
	Comparison(c Comparison)
}

// Comparison holds the two timings of one operation family
type Comparison struct {
	Name string
	// Captured is the run that resumes on the captured context
	Captured int64
	// Released is the run that releases the captured context
	Released int64
}

// Difference returns Captured minus Released in milliseconds
func (c Comparison) Difference() int64 {
	return c.Captured - c.Released
}
