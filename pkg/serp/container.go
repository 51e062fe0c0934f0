package serp

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// ExtractByContainer resolves the title and the link of each result inside
// its own container element, so a broken result block is reported at its
// own index instead of shifting every following pair.
func ExtractByContainer(document string, selectors Selectors) ([]Result, error) {
	return ExtractByContainerFromReader(strings.NewReader(document), selectors)
}

func ExtractByContainerFromReader(r io.Reader, selectors Selectors) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return ExtractDocumentByContainer(doc, selectors)
}

func ExtractDocumentByContainer(doc *goquery.Document, selectors Selectors) ([]Result, error) {
	if selectors.Container == "" {
		return nil, errors.New("container selector is required")
	}

	containers := doc.Find(selectors.Container)
	results := make([]Result, 0, containers.Length())

	var extractionErr error

	containers.EachWithBreak(func(i int, s *goquery.Selection) bool {
		link, exists := s.Find(selectors.Link).First().Attr("href")
		if !exists {
			extractionErr = &ExtractionError{Index: i, Field: FieldLink}
			return false
		}

		title := strings.TrimSpace(s.Find(selectors.Title).First().Text())
		if title == "" {
			extractionErr = &ExtractionError{Index: i, Field: FieldTitle}
			return false
		}

		var description string
		if selectors.Description != "" {
			description = strings.TrimSpace(s.Find(selectors.Description).First().Text())
		}

		results = append(results, Result{
			Rank:        i + 1,
			Title:       title,
			Link:        link,
			Description: description,
		})

		return true
	})

	if extractionErr != nil {
		return nil, errors.WithStack(extractionErr)
	}

	return results, nil
}
