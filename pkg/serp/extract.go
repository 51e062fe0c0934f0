package serp

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// Parse extracts results with the container strategy when selectors
// declare a container, and by positional pairing otherwise.
func Parse(document string, selectors Selectors) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if selectors.Container != "" {
		return ExtractDocumentByContainer(doc, selectors)
	}

	return ExtractDocument(doc, selectors)
}

// Extract pairs the i-th title element with the i-th link element of the
// document. Titles are the text of each title element's first child node,
// links the href attribute of each link element.
//
// Extraction is all or nothing: the first index missing either part aborts
// with an *ExtractionError and no results.
func Extract(document string, selectors Selectors) ([]Result, error) {
	return ExtractFromReader(strings.NewReader(document), selectors)
}

func ExtractFromReader(r io.Reader, selectors Selectors) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return ExtractDocument(doc, selectors)
}

func ExtractDocument(doc *goquery.Document, selectors Selectors) ([]Result, error) {
	titles := doc.Find(selectors.Title)
	links := doc.Find(selectors.Link)

	total := titles.Length()
	results := make([]Result, 0, total)

	for i := 0; i < total; i++ {
		if i >= links.Length() {
			return nil, errors.WithStack(&ExtractionError{Index: i, Field: FieldLink})
		}

		link, exists := links.Eq(i).Attr("href")
		if !exists {
			return nil, errors.WithStack(&ExtractionError{Index: i, Field: FieldLink})
		}

		title, ok := firstChildText(titles.Get(i))
		if !ok {
			return nil, errors.WithStack(&ExtractionError{Index: i, Field: FieldTitle})
		}

		results = append(results, Result{
			Rank:  i + 1,
			Title: title,
			Link:  link,
		})
	}

	return results, nil
}

func firstChildText(node *html.Node) (string, bool) {
	if node == nil || node.FirstChild == nil {
		return "", false
	}

	if node.FirstChild.Type != html.TextNode {
		return "", false
	}

	return node.FirstChild.Data, true
}
