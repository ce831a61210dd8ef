package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ajramos/awaitbench/internal/awaitctx"
	"github.com/ajramos/awaitbench/internal/render"
)

const (
	// DefaultSimpleURL is fetched by the bare download
	DefaultSimpleURL = "https://example.com"
	// DefaultParseDelay is the pause after each parsed page
	DefaultParseDelay = 10 * time.Millisecond
)

// DefaultPageURLs are fetched in order by the compound download
var DefaultPageURLs = []string{
	"https://www.wikipedia.org",
	"https://www.github.com",
}

// TitleFunc observes the title extracted from each page
type TitleFunc func(url, title string, ok bool)

// DownloadServiceImpl implements DownloadService
type DownloadServiceImpl struct {
	fetcher    Fetcher
	simpleURL  string
	parseDelay time.Duration
	onTitle    TitleFunc
}

// DownloadOption configures a DownloadServiceImpl
type DownloadOption func(*DownloadServiceImpl)

// WithSimpleURL overrides the URL used by Download
func WithSimpleURL(url string) DownloadOption {
	return func(s *DownloadServiceImpl) {
		if url != "" {
			s.simpleURL = url
		}
	}
}

// WithParseDelay overrides the pause after each parsed page
func WithParseDelay(d time.Duration) DownloadOption {
	return func(s *DownloadServiceImpl) {
		if d >= 0 {
			s.parseDelay = d
		}
	}
}

// WithTitleObserver registers fn to receive every extracted title
func WithTitleObserver(fn TitleFunc) DownloadOption {
	return func(s *DownloadServiceImpl) {
		s.onTitle = fn
	}
}

// NewDownloadService creates a new download service
func NewDownloadService(fetcher Fetcher, opts ...DownloadOption) *DownloadServiceImpl {
	s := &DownloadServiceImpl{
		fetcher:    fetcher,
		simpleURL:  DefaultSimpleURL,
		parseDelay: DefaultParseDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Download fetches the simple URL and discards the body
func (s *DownloadServiceImpl) Download(ctx context.Context, resumeOnCaptured bool) error {
	if s.fetcher == nil {
		return ErrNilFetcher
	}

	content, err := s.fetcher.GetString(ctx, s.simpleURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	return awaitctx.Resume(ctx, resumeOnCaptured, func(context.Context) error {
		_ = content
		return nil
	})
}

// DownloadAndParse fetches each URL in order, extracts the page title and
// pauses for the parse delay. Both suspension points of every step resume
// the same way.
func (s *DownloadServiceImpl) DownloadAndParse(ctx context.Context, urls []string, resumeOnCaptured bool) error {
	if s.fetcher == nil {
		return ErrNilFetcher
	}

	for _, url := range urls {
		content, err := s.fetcher.GetString(ctx, url)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDownloadFailed, err)
		}

		err = awaitctx.Resume(ctx, resumeOnCaptured, func(context.Context) error {
			title, ok, err := render.ExtractTitle(content)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrParseFailed, url, err)
			}
			if s.onTitle != nil {
				s.onTitle(url, title, ok)
			}
			return nil
		})
		if err != nil {
			return err
		}

		if err := awaitctx.Delay(ctx, s.parseDelay); err != nil {
			return err
		}
		if err := awaitctx.Resume(ctx, resumeOnCaptured, nil); err != nil {
			return err
		}
	}
	return nil
}
