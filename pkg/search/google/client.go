package google

import (
	"context"
	"log/slog"

	"github.com/bornholm/serpscraper/pkg/search"
	"github.com/pkg/errors"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// maxResults is the largest page the Custom Search API accepts.
const maxResults = 10

// Client implements search.Client using the Google Custom Search JSON API,
// for callers who own an API key instead of going through a scraping proxy.
type Client struct {
	apiKey   string
	cx       string
	num      int64
	endpoint string
}

// Search implements search.Client.
func (c *Client) Search(ctx context.Context, query string) ([]search.Result, error) {
	options := []option.ClientOption{option.WithAPIKey(c.apiKey)}
	if c.endpoint != "" {
		options = append(options, option.WithEndpoint(c.endpoint))
	}

	service, err := customsearch.NewService(ctx, options...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	slog.DebugContext(ctx, "executing search", slog.String("query", query), slog.Int64("num", c.num))

	call := service.Cse.List().
		Q(query).
		Cx(c.cx).
		Num(c.num).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	results := make([]search.Result, 0, len(response.Items))
	for i, item := range response.Items {
		results = append(results, search.Result{
			Rank:        i + 1,
			Title:       item.Title,
			URL:         item.Link,
			Description: item.Snippet,
		})
	}

	return results, nil
}

type OptionFunc func(c *Client)

// WithNum sets the number of results requested, capped to 10.
func WithNum(num int64) OptionFunc {
	return func(c *Client) {
		if num > 0 && num <= maxResults {
			c.num = num
		}
	}
}

func WithEndpoint(endpoint string) OptionFunc {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// NewClient creates a new Google Custom Search API client for the given
// search engine id (cx).
func NewClient(apiKey, cx string, funcs ...OptionFunc) *Client {
	c := &Client{
		apiKey: apiKey,
		cx:     cx,
		num:    maxResults,
	}

	for _, fn := range funcs {
		fn(c)
	}

	return c
}

var _ search.Client = &Client{}
