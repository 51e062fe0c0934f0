package page

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/bornholm/serpscraper/pkg/scraper"
	"github.com/pkg/errors"
)

type staticScraper struct {
	pages map[string]string
}

func (s *staticScraper) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	page, exists := s.pages[url]
	if !exists {
		return nil, errors.Errorf("page '%s' not found", url)
	}

	return io.NopCloser(strings.NewReader(page)), nil
}

func (s *staticScraper) Check(ctx context.Context, url string) (bool, error) {
	_, exists := s.pages[url]
	return exists, nil
}

var _ scraper.Scraper = &staticScraper{}

func TestFetch(t *testing.T) {
	s := &staticScraper{
		pages: map[string]string{
			"https://nodejs.org/": `<html>
<head><title> Node.js - Run JavaScript Everywhere </title></head>
<body>
	<script>window.dataLayer = [];</script>
	<h1>Node.js</h1>
	<p>Node.js is a free, open-source JavaScript runtime.</p>
	<p><a href="https://nodejs.org/download">Download</a></p>
</body>
</html>`,
		},
	}

	page, err := Fetch(context.Background(), s, "https://nodejs.org/")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if want := "Node.js - Run JavaScript Everywhere"; page.Title != want {
		t.Errorf("title: got '%s', want '%s'", page.Title, want)
	}

	for _, expected := range []string{
		"# Node.js",
		"Node.js is a free, open-source JavaScript runtime.",
		"[Download](https://nodejs.org/download)",
	} {
		if !strings.Contains(page.Markdown, expected) {
			t.Errorf("markdown does not contain '%s':\n%s", expected, page.Markdown)
		}
	}

	if strings.Contains(page.Markdown, "dataLayer") {
		t.Errorf("scripts should be removed:\n%s", page.Markdown)
	}

	if _, err := Fetch(context.Background(), s, "https://missing.example.com/"); err == nil {
		t.Errorf("expected an error for a missing page")
	}
}
