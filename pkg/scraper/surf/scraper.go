package surf

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/bornholm/serpscraper/pkg/scraper"
	"github.com/enetx/g"
	"github.com/enetx/surf"
	"github.com/pkg/errors"
)

type Options struct {
	// Proxy is an optional proxy URL used for every request.
	Proxy      string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

func DefaultOptions() Options {
	return Options{
		Timeout:    30 * time.Second,
		Retries:    5,
		RetryDelay: 5 * time.Second,
	}
}

// Scraper fetches pages with a client impersonating a desktop Chrome browser.
type Scraper struct {
	options Options
}

// Check implements scraper.Scraper.
func (s *Scraper) Check(ctx context.Context, url string) (bool, error) {
	client := s.getClient()
	resp := client.Get(g.String(url)).WithContext(ctx).Do()
	if resp.IsErr() {
		return false, errors.WithStack(resp.Err())
	}

	statusCode := int(resp.Ok().StatusCode)

	return scraper.IsOK(statusCode), nil
}

// Get implements scraper.Scraper.
func (s *Scraper) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	client := s.getClient()
	resp := client.Get(g.String(url)).WithContext(ctx).Do()
	if resp.IsErr() {
		return nil, errors.WithStack(resp.Err())
	}

	res := resp.Ok()
	body := res.Body.Reader

	statusCode := int(res.StatusCode)
	if !scraper.IsOK(statusCode) {
		defer body.Close()

		data, err := io.ReadAll(io.LimitReader(body, 4e+6))
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return nil, errors.WithStack(&scraper.HTTPError{
			StatusCode: statusCode,
			Status:     http.StatusText(statusCode),
			Body:       data,
		})
	}

	return body, nil
}

func (s *Scraper) getClient() *surf.Client {
	builder := surf.NewClient().
		Builder()

	if s.options.Proxy != "" {
		builder = builder.Proxy(s.options.Proxy)
	}

	builder = builder.Impersonate().RandomOS().Chrome().
		Timeout(s.options.Timeout).
		Retry(s.options.Retries, s.options.RetryDelay).
		Session()

	return builder.Build()
}

func NewScraper(options Options) *Scraper {
	return &Scraper{
		options: options,
	}
}

var _ scraper.Scraper = &Scraper{}
