package scraper

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

var defaultScraper Scraper = NewHTTPScraper(http.DefaultClient)

func SetDefault(scraper Scraper) {
	defaultScraper = scraper
}

func DefaultScraper() Scraper {
	return defaultScraper
}

// ReadAll fetches the page with the given scraper and returns its body as text.
func ReadAll(ctx context.Context, scraper Scraper, url string) (string, error) {
	body, err := scraper.Get(ctx, url)
	if err != nil {
		return "", errors.WithStack(err)
	}

	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return string(data), nil
}
