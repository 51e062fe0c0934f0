package proxy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/bornholm/serpscraper/pkg/scraper"
	"github.com/bornholm/serpscraper/pkg/search"
	"github.com/bornholm/serpscraper/pkg/serp"
	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const nodejsPage = `<html><body><div id="rso">
<div class="g"><div class="yuRUbf"><a href="https://nodejs.org/"><br><h3 class="LC20lb DKV0Md">Node.js</h3></a></div></div>
<div class="g"><div class="yuRUbf"><a href="https://en.wikipedia.org/wiki/Node.js"><br><h3 class="LC20lb DKV0Md">Node.js - Wikipedia</h3></a></div></div>
</div></body></html>`

const brokenPage = `<html><body>
<div class="yuRUbf"><a href="https://nodejs.org/"><h3 class="LC20lb DKV0Md">Node.js</h3></a></div>
<div class="yuRUbf"><a href="https://github.com/nodejs/node"><h3 class="LC20lb DKV0Md"></h3></a></div>
</body></html>`

func newProxyServer(t *testing.T, pages map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if got := query.Get("api_key"); got != "secret" {
			http.Error(w, "invalid api key", http.StatusUnauthorized)
			return
		}

		if got := query.Get("country"); got != "US" {
			t.Errorf("country: got '%s', want 'US'", got)
		}

		target, err := url.Parse(query.Get("url"))
		if err != nil {
			t.Errorf("%+v", errors.WithStack(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		page, exists := pages[target.Query().Get("q")]
		if !exists {
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
			return
		}

		io.WriteString(w, page)
	}))
}

func newTestClient(endpoint string, apiKey string) *Client {
	config := DefaultConfig()
	config.Endpoint = endpoint
	config.APIKey = apiKey

	return NewClient(config, scraper.NewHTTPScraper(http.DefaultClient))
}

func TestClientSearch(t *testing.T) {
	testServer := newProxyServer(t, map[string]string{
		"nodejs": nodejsPage,
		"broken": brokenPage,
		"empty":  `<html><body>No results</body></html>`,
	})
	defer testServer.Close()

	ctx := context.Background()
	client := newTestClient(testServer.URL, "secret")

	t.Run("results in rank order", func(t *testing.T) {
		got, err := client.Search(ctx, "nodejs")
		if err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}

		want := []search.Result{
			{Rank: 1, Title: "Node.js", URL: "https://nodejs.org/"},
			{Rank: 2, Title: "Node.js - Wikipedia", URL: "https://en.wikipedia.org/wiki/Node.js"},
		}

		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Search() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no results", func(t *testing.T) {
		got, err := client.Search(ctx, "empty")
		if err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}

		if len(got) != 0 {
			t.Errorf("expected no results, got %v", got)
		}
	})

	t.Run("malformed result aborts the whole page", func(t *testing.T) {
		got, err := client.Search(ctx, "broken")
		if err == nil {
			t.Fatalf("expected an error, got %v", got)
		}

		if got != nil {
			t.Errorf("expected no partial results, got %v", got)
		}

		var extractionErr *serp.ExtractionError
		if !errors.As(err, &extractionErr) {
			t.Fatalf("expected an *serp.ExtractionError, got %+v", err)
		}

		if extractionErr.Index != 1 || extractionErr.Field != serp.FieldTitle {
			t.Errorf("unexpected extraction error %+v", extractionErr)
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		_, err := client.Search(ctx, "unknown")

		var httpErr *scraper.HTTPError
		if !errors.As(err, &httpErr) {
			t.Fatalf("expected an *scraper.HTTPError, got %+v", err)
		}

		if httpErr.StatusCode != http.StatusBadGateway {
			t.Errorf("got status %d, want %d", httpErr.StatusCode, http.StatusBadGateway)
		}

		if serp.IsExtractionError(err) {
			t.Errorf("fetch errors must not be reported as extraction errors")
		}
	})

	t.Run("invalid api key", func(t *testing.T) {
		_, err := newTestClient(testServer.URL, "wrong").Search(ctx, "nodejs")

		var httpErr *scraper.HTTPError
		if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected an unauthorized error, got %+v", err)
		}
	})
}

func TestClientFetchWithContainerSelectors(t *testing.T) {
	testServer := newProxyServer(t, map[string]string{"broken": brokenPage})
	defer testServer.Close()

	config := DefaultConfig()
	config.Endpoint = testServer.URL
	config.APIKey = "secret"
	config.Selectors = serp.GoogleContainerSelectors()

	client := NewClient(config, nil)

	targetURL, err := config.TargetURL("broken")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	_, err = client.Fetch(context.Background(), targetURL)

	var extractionErr *serp.ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected an *serp.ExtractionError, got %+v", err)
	}

	if extractionErr.Index != 1 || extractionErr.Field != serp.FieldTitle {
		t.Errorf("unexpected extraction error %+v", extractionErr)
	}
}

func TestConfigRequestURL(t *testing.T) {
	config := DefaultConfig()
	config.Endpoint = "https://api.example.com/v1/?render=false"
	config.APIKey = "secret"

	targetURL, err := config.TargetURL("node js")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if want := "https://www.google.com/search?q=node+js"; targetURL != want {
		t.Errorf("TargetURL(): got '%s', want '%s'", targetURL, want)
	}

	requestURL, err := config.RequestURL(targetURL)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	want := fmt.Sprintf(
		"https://api.example.com/v1/?api_key=secret&country=US&render=false&url=%s",
		url.QueryEscape(targetURL),
	)

	if requestURL != want {
		t.Errorf("RequestURL(): got '%s', want '%s'", requestURL, want)
	}
}

func TestConfigValidate(t *testing.T) {
	config := DefaultConfig()
	config.Endpoint = "https://api.example.com"
	config.APIKey = "secret"

	if err := config.Validate(); err != nil {
		t.Errorf("%+v", err)
	}

	invalid := Config{
		Endpoint:  "api.example.com",
		Country:   "USA",
		SearchURL: "/search",
		Selectors: serp.Selectors{Title: "h3"},
	}

	err := invalid.Validate()

	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("expected a *multierror.Error, got %+v", err)
	}

	// endpoint, api key, country, search url, link selector
	if got, want := len(merr.Errors), 5; got != want {
		t.Errorf("got %d errors, want %d: %v", got, want, merr.Errors)
	}
}
