package search

import (
	"context"

	"github.com/bornholm/serpscraper/pkg/serp"
)

type Client interface {
	Search(ctx context.Context, search string) ([]Result, error)
}

type Result struct {
	Rank        int    `json:"rank" yaml:"rank" jsonschema:"minimum=1,description=1-based position of the result in the page"`
	Title       string `json:"title" yaml:"title"`
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// FromSERP converts extracted page results, keeping their ranks.
func FromSERP(extracted []serp.Result) []Result {
	results := make([]Result, 0, len(extracted))

	for _, r := range extracted {
		results = append(results, Result{
			Rank:        r.Rank,
			Title:       r.Title,
			URL:         r.Link,
			Description: r.Description,
		})
	}

	return results
}
