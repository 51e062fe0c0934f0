package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

const maxErrorBodySize = 4e+6 // Restrict to 4MB

// HTTPError is returned when the remote server answers with a status
// outside of the 2xx-3xx range.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected response http status %d (%s):\n%s", e.StatusCode, e.Status, e.Body)
}

// Temporary reports whether the request may succeed if sent again.
func (e *HTTPError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

type HTTPScraper struct {
	client    *http.Client
	userAgent string
}

// Check implements scraper.Scraper.
func (s *HTTPScraper) Check(ctx context.Context, url string) (bool, error) {
	res, err := s.do(ctx, http.MethodGet, url)
	if err != nil {
		return false, errors.WithStack(err)
	}

	defer res.Body.Close()

	return IsOK(res.StatusCode), nil
}

// Get implements scraper.Scraper.
func (s *HTTPScraper) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	res, err := s.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if !IsOK(res.StatusCode) {
		defer res.Body.Close()

		body, err := io.ReadAll(io.LimitReader(res.Body, maxErrorBodySize))
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return nil, errors.WithStack(&HTTPError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Body:       body,
		})
	}

	return res.Body, nil
}

func (s *HTTPScraper) do(ctx context.Context, method string, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return res, nil
}

// IsOK reports whether a response status is accepted by the scrapers.
func IsOK(statusCode int) bool {
	return statusCode >= http.StatusOK && statusCode < http.StatusBadRequest
}

type HTTPScraperOptionFunc func(s *HTTPScraper)

func WithUserAgent(userAgent string) HTTPScraperOptionFunc {
	return func(s *HTTPScraper) {
		s.userAgent = userAgent
	}
}

func NewHTTPScraper(client *http.Client, funcs ...HTTPScraperOptionFunc) *HTTPScraper {
	s := &HTTPScraper{
		client: client,
	}

	for _, fn := range funcs {
		fn(s)
	}

	return s
}

var _ Scraper = &HTTPScraper{}
