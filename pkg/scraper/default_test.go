package scraper_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bornholm/serpscraper/pkg/scraper"
	"github.com/pkg/errors"
)

func TestDefaultScraper(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<h3>Node.js</h3>`)
	}))
	defer testServer.Close()

	previous := scraper.DefaultScraper()
	defer scraper.SetDefault(previous)

	s := scraper.NewHTTPScraper(testServer.Client())
	scraper.SetDefault(s)

	if scraper.DefaultScraper() != scraper.Scraper(s) {
		t.Fatalf("default scraper was not replaced")
	}

	body, err := scraper.ReadAll(context.Background(), scraper.DefaultScraper(), testServer.URL)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if want := `<h3>Node.js</h3>`; body != want {
		t.Errorf("got '%s', want '%s'", body, want)
	}
}

func TestIsOK(t *testing.T) {
	testCases := []struct {
		statusCode int
		expected   bool
	}{
		{http.StatusOK, true},
		{http.StatusNonAuthoritativeInfo, true},
		{http.StatusFound, true},
		{http.StatusNotFound, false},
		{http.StatusBadGateway, false},
	}

	for _, testCase := range testCases {
		if got := scraper.IsOK(testCase.statusCode); got != testCase.expected {
			t.Errorf("IsOK(%d): got %v, want %v", testCase.statusCode, got, testCase.expected)
		}
	}
}
