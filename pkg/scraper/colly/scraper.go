package colly

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/bornholm/serpscraper/pkg/scraper"
	"github.com/gocolly/colly"
	"github.com/pkg/errors"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36"

type Options struct {
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
}

func DefaultOptions() Options {
	return Options{
		UserAgent:      defaultUserAgent,
		AcceptLanguage: "en-US,en;q=0.9",
		Timeout:        30 * time.Second,
	}
}

// Scraper fetches pages with a colly collector sending browser-like headers.
type Scraper struct {
	options Options
}

// Check implements scraper.Scraper.
func (s *Scraper) Check(ctx context.Context, url string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errors.WithStack(err)
	}

	var statusCode int

	collector := s.newCollector(ctx)

	collector.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
	})

	if err := collector.Head(url); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, errors.WithStack(ctxErr)
		}

		return false, errors.WithStack(err)
	}

	return scraper.IsOK(statusCode), nil
}

// Get implements scraper.Scraper.
func (s *Scraper) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	var (
		body     []byte
		fetchErr error
	)

	collector := s.newCollector(ctx)

	collector.OnResponse(func(r *colly.Response) {
		if !scraper.IsOK(r.StatusCode) {
			fetchErr = &scraper.HTTPError{
				StatusCode: r.StatusCode,
				Status:     http.StatusText(r.StatusCode),
				Body:       r.Body,
			}

			return
		}

		body = r.Body
	})

	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	err := collector.Visit(url)

	if ctxErr := ctx.Err(); ctxErr != nil && (err != nil || fetchErr != nil) {
		return nil, errors.WithStack(ctxErr)
	}

	if fetchErr != nil {
		return nil, errors.WithStack(fetchErr)
	}

	if err != nil {
		return nil, errors.WithStack(err)
	}

	return io.NopCloser(bytes.NewReader(body)), nil
}

// newCollector returns a collector whose requests are bound to ctx and which
// hands every response, whatever its status, to the OnResponse callbacks.
func (s *Scraper) newCollector(ctx context.Context) *colly.Collector {
	collector := colly.NewCollector(
		colly.UserAgent(s.options.UserAgent),
		colly.AllowURLRevisit(),
	)

	collector.ParseHTTPErrorResponse = true

	collector.WithTransport(&contextTransport{
		ctx: ctx,
		transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	})

	if s.options.Timeout > 0 {
		collector.SetRequestTimeout(s.options.Timeout)
	}

	collector.OnRequest(func(r *colly.Request) {
		if s.options.AcceptLanguage != "" {
			r.Headers.Set("Accept-Language", s.options.AcceptLanguage)
		}
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
		r.Headers.Set("Sec-Fetch-Mode", "navigate")
		r.Headers.Set("Sec-Fetch-Dest", "document")
		r.Headers.Set("Pragma", "no-cache")
		r.Headers.Set("Cache-Control", "no-cache")
	})

	return collector
}

// contextTransport binds the requests of a collector to a context, colly
// having no request level context of its own.
type contextTransport struct {
	ctx       context.Context
	transport http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.transport.RoundTrip(req.WithContext(t.ctx))
}

func NewScraper(options Options) *Scraper {
	if options.UserAgent == "" {
		options.UserAgent = defaultUserAgent
	}

	return &Scraper{
		options: options,
	}
}

var _ scraper.Scraper = &Scraper{}
