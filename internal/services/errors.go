package services

import "errors"

// Standard service errors
var (
	// Configuration errors
	ErrNilFetcher   = errors.New("fetcher is nil")
	ErrNilDownloads = errors.New("download service is nil")
	ErrNoURLs       = errors.New("no URLs to download")

	// Operation errors
	ErrDownloadFailed = errors.New("download failed")
	ErrParseFailed    = errors.New("parse failed")
	ErrBenchmarkRun   = errors.New("benchmark run failed")
)
