// Package proxy queries search engines through a scraping proxy API: the
// API receives the target page URL as a query parameter, fetches it on our
// behalf and answers with the raw HTML.
package proxy

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/bornholm/serpscraper/pkg/scraper"
	"github.com/bornholm/serpscraper/pkg/search"
	"github.com/bornholm/serpscraper/pkg/serp"
	"github.com/pkg/errors"
)

type Client struct {
	config  Config
	scraper scraper.Scraper
}

// Search implements search.Client.
func (c *Client) Search(ctx context.Context, query string) ([]search.Result, error) {
	targetURL, err := c.config.TargetURL(query)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return c.Fetch(ctx, targetURL)
}

// Fetch retrieves the given search page through the proxy API and extracts
// its results.
func (c *Client) Fetch(ctx context.Context, targetURL string) ([]search.Result, error) {
	requestURL, err := c.config.RequestURL(targetURL)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	slog.DebugContext(ctx, "fetching search page", slog.String("target", targetURL), slog.String("country", c.config.Country))

	document, err := scraper.ReadAll(ctx, c.scraper, requestURL)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch search page")
	}

	slog.DebugContext(ctx, "search page fetched", slog.Int("size", len(document)))

	extracted, err := serp.Parse(document, c.config.Selectors)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if len(extracted) == 0 {
		slog.WarnContext(ctx, "no result found in search page, selectors may be outdated", slog.String("target", targetURL))
	}

	return search.FromSERP(extracted), nil
}

func NewClient(config Config, s scraper.Scraper) *Client {
	if s == nil {
		s = scraper.DefaultScraper()
	}

	return &Client{
		config:  config,
		scraper: s,
	}
}

var _ search.Client = &Client{}

// TargetURL returns the search page URL for the given query.
func (c Config) TargetURL(query string) (string, error) {
	target, err := url.Parse(c.SearchURL)
	if err != nil {
		return "", errors.WithStack(err)
	}

	values := target.Query()
	values.Set("q", query)
	target.RawQuery = values.Encode()

	return target.String(), nil
}

// RequestURL returns the proxy API URL fetching the given target page.
func (c Config) RequestURL(targetURL string) (string, error) {
	endpoint, err := url.Parse(c.Endpoint)
	if err != nil {
		return "", errors.WithStack(err)
	}

	values := endpoint.Query()
	values.Set("api_key", c.APIKey)
	values.Set("url", targetURL)

	if c.Country != "" {
		values.Set("country", c.Country)
	}

	endpoint.RawQuery = values.Encode()

	return endpoint.String(), nil
}
