// Package page renders fetched web pages in a readable form.
package page

import (
	"context"
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/bornholm/serpscraper/pkg/scraper"
	"github.com/pkg/errors"
)

// Page is the markdown rendition of a web page.
type Page struct {
	URL      string
	Title    string
	Markdown string
}

// Fetch scrapes the given url and converts the page body to markdown.
func Fetch(ctx context.Context, s scraper.Scraper, url string) (*Page, error) {
	slog.DebugContext(ctx, "scraping page", slog.String("url", url))

	res, err := s.Get(ctx, url)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer res.Close()

	doc, err := goquery.NewDocumentFromReader(res)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	markdown, err := Markdown(doc)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Page{
		URL:      url,
		Title:    strings.TrimSpace(doc.Find("head > title").First().Text()),
		Markdown: markdown,
	}, nil
}

// Markdown converts the body of the document, dropping scripts and styles.
func Markdown(doc *goquery.Document) (string, error) {
	body := doc.Find("body")
	body.Find("script, style, noscript").Remove()

	html, err := body.Html()
	if err != nil {
		return "", errors.WithStack(err)
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	markdown, err := conv.ConvertString(html)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return strings.TrimSpace(markdown), nil
}
