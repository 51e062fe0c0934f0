package scraper

import (
	"context"
	"io"
)

// Scraper retrieves raw pages. Get returns the full response body of a
// successful request; Check only reports whether the page answers.
type Scraper interface {
	Get(ctx context.Context, url string) (io.ReadCloser, error)
	Check(ctx context.Context, url string) (bool, error)
}

// Closer is implemented by scrapers holding resources, such as a browser.
type Closer interface {
	Close()
}
