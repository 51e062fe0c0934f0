package search

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/bornholm/serpscraper/pkg/scraper"
	"github.com/bornholm/serpscraper/pkg/serp"
	"github.com/pkg/errors"
)

type Retry struct {
	client     Client
	baseDelay  time.Duration
	maxRetries int
}

// Search implements Client.
//
// Extraction errors are never retried: the fetched page was read but did
// not have the expected shape, and asking again would not change it.
func (r *Retry) Search(ctx context.Context, search string) ([]Result, error) {
	backoff := r.baseDelay
	retries := 0
	for {
		results, err := r.client.Search(ctx, search)
		if err != nil {
			if retries < r.maxRetries && isRetryable(err) {
				slog.WarnContext(ctx, "search failed, will retry", slog.Duration("backoff", backoff), slog.Int("retries", retries), slog.Any("error", errors.WithStack(err)))

				timer := time.NewTimer(backoff + time.Duration(rand.Float64()*float64(r.baseDelay)))
				select {
				case <-ctx.Done():
					timer.Stop()
					return nil, errors.WithStack(ctx.Err())
				case <-timer.C:
				}

				backoff *= 2
				retries++
				continue
			}

			return nil, errors.WithStack(err)
		}

		return results, nil
	}
}

func isRetryable(err error) bool {
	if serp.IsExtractionError(err) {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *scraper.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Temporary()
	}

	return true
}

var _ Client = &Retry{}

func WithRetry(client Client, maxRetries int, baseDelay time.Duration) *Retry {
	return &Retry{client: client, maxRetries: maxRetries, baseDelay: baseDelay}
}
