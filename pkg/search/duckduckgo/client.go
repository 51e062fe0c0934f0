package duckduckgo

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/bornholm/serpscraper/pkg/scraper"
	"github.com/bornholm/serpscraper/pkg/search"
	"github.com/bornholm/serpscraper/pkg/serp"
	"github.com/pkg/errors"
)

var ErrCaptcha = errors.New("captcha challenge")

// Selectors matches the organic results of the DuckDuckGo HTML frontend.
// Ads, the "no results" placeholder and the "more results" form share the
// .result class and are left out.
func Selectors() serp.Selectors {
	return serp.Selectors{
		Container:   ".result:not(.result--ad):not(.result--no-result):not(.result--more)",
		Title:       ".result__title",
		Link:        "a.result__a",
		Description: ".result__snippet",
	}
}

type Client struct {
	scraper scraper.Scraper
	baseURL string
}

func (c *Client) Search(ctx context.Context, query string) ([]search.Result, error) {
	searchURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	values := searchURL.Query()
	values.Set("q", query)
	searchURL.RawQuery = values.Encode()

	slog.DebugContext(ctx, "scraping duckduckgo results", slog.String("url", searchURL.String()))

	body, err := c.scraper.Get(ctx, searchURL.String())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	captcha := doc.Find("#challenge-form")
	if captcha.Length() > 0 {
		return nil, errors.WithStack(ErrCaptcha)
	}

	extracted, err := serp.ExtractDocumentByContainer(doc, Selectors())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	results := search.FromSERP(extracted)

	for i, r := range results {
		results[i].URL = unwrapRedirect(r.URL)
	}

	return results, nil
}

// unwrapRedirect returns the destination of a DuckDuckGo redirect link
// ("//duckduckgo.com/l/?uddg=<url>"), or the link itself.
func unwrapRedirect(rawLink string) string {
	link, err := url.Parse(rawLink)
	if err != nil {
		return rawLink
	}

	if target := link.Query().Get("uddg"); target != "" {
		return target
	}

	return rawLink
}

type OptionFunc func(c *Client)

func WithBaseURL(baseURL string) OptionFunc {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func NewClient(scraper scraper.Scraper, funcs ...OptionFunc) *Client {
	c := &Client{
		scraper: scraper,
		baseURL: "https://html.duckduckgo.com/html/",
	}

	for _, fn := range funcs {
		fn(c)
	}

	return c
}

var _ search.Client = &Client{}
