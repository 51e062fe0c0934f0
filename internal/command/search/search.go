package search

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bornholm/serpscraper/internal/command/common"
	"github.com/bornholm/serpscraper/internal/logx"
	"github.com/bornholm/serpscraper/pkg/scraper"
	se "github.com/bornholm/serpscraper/pkg/search"
	"github.com/bornholm/serpscraper/pkg/search/duckduckgo"
	"github.com/bornholm/serpscraper/pkg/search/google"
	"github.com/bornholm/serpscraper/pkg/search/proxy"
	"github.com/bornholm/serpscraper/pkg/serp"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	EngineProxy      = "proxy"
	EngineDuckDuckGo = "duckduckgo"
	EngineGoogle     = "google"
)

const defaultQuery = "nodejs"

func Search() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "engine",
			Value:   EngineProxy,
			Aliases: []string{"e"},
			EnvVars: []string{"SERPSCRAPER_ENGINE"},
			Usage:   "Search engine (proxy, duckduckgo or google)",
		},
		&cli.StringFlag{
			Name:    "api-url",
			EnvVars: []string{"SERPSCRAPER_API_URL", "API_URL"},
			Usage:   "Scraping proxy API endpoint",
		},
		&cli.StringFlag{
			Name:    "api-key",
			EnvVars: []string{"SERPSCRAPER_API_KEY", "API_KEY"},
			Usage:   "Scraping proxy API key",
		},
		&cli.StringFlag{
			Name:    "country",
			Value:   "US",
			EnvVars: []string{"SERPSCRAPER_COUNTRY"},
			Usage:   "Country the proxy sends the request from",
		},
		&cli.StringFlag{
			Name:    "search-url",
			Value:   proxy.DefaultSearchURL,
			EnvVars: []string{"SERPSCRAPER_SEARCH_URL"},
			Usage:   "Search engine page the query is sent to",
		},
		&cli.StringFlag{
			Name:    "target-url",
			Aliases: []string{"u"},
			EnvVars: []string{"SERPSCRAPER_TARGET_URL"},
			Usage:   "Complete search page url to fetch through the proxy, the query is ignored",
		},
		&cli.StringFlag{
			Name:      "selectors",
			EnvVars:   []string{"SERPSCRAPER_SELECTORS"},
			Usage:     "YAML file overriding the result selectors",
			TakesFile: true,
		},
		&cli.BoolFlag{
			Name:    "container",
			EnvVars: []string{"SERPSCRAPER_CONTAINER"},
			Usage:   "Resolve titles and links inside each result container instead of pairing them by position",
		},
		&cli.StringFlag{
			Name:    "google-api-key",
			EnvVars: []string{"SERPSCRAPER_GOOGLE_API_KEY", "GOOGLE_API_KEY"},
			Usage:   "Google Custom Search API key",
		},
		&cli.StringFlag{
			Name:    "cse-id",
			EnvVars: []string{"SERPSCRAPER_GOOGLE_CSE_ID"},
			Usage:   "Google Custom Search engine id",
		},
		&cli.Int64Flag{
			Name:    "google-num",
			Value:   10,
			EnvVars: []string{"SERPSCRAPER_GOOGLE_NUM"},
			Usage:   "Number of results requested from Google Custom Search (1 to 10)",
		},
		&cli.StringFlag{
			Name:    "google-api-url",
			EnvVars: []string{"SERPSCRAPER_GOOGLE_API_URL"},
			Usage:   "Google Custom Search API base url",
			Hidden:  true,
		},
		&cli.IntFlag{
			Name:    "retries",
			Value:   0,
			EnvVars: []string{"SERPSCRAPER_RETRIES"},
			Usage:   "Number of retries when the page cannot be fetched",
		},
		&cli.DurationFlag{
			Name:    "retry-delay",
			Value:   time.Second,
			EnvVars: []string{"SERPSCRAPER_RETRY_DELAY"},
			Usage:   "Base delay between retries",
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Value:   time.Minute,
			EnvVars: []string{"SERPSCRAPER_TIMEOUT"},
			Usage:   "Overall search timeout",
		},
		&cli.StringFlag{
			Name:    "format",
			Value:   FormatText,
			Aliases: []string{"f"},
			EnvVars: []string{"SERPSCRAPER_FORMAT"},
			Usage:   "Output format (text, markdown, json or yaml)",
		},
		&cli.StringSliceFlag{
			Name:    "host",
			EnvVars: []string{"SERPSCRAPER_HOST"},
			Usage:   "Only print results whose host matches this glob pattern",
		},
	}

	return &cli.Command{
		Name:      "search",
		Usage:     "Search the web and print the ranked results",
		ArgsUsage: "[query]",
		Flags:     append(flags, common.ScraperFlags()...),
		Action: func(cliCtx *cli.Context) error {
			format := cliCtx.String("format")
			if !isKnownFormat(format) {
				return errors.Errorf("unknown output format '%s'", format)
			}

			query := strings.TrimSpace(strings.Join(cliCtx.Args().Slice(), " "))
			if query == "" {
				query = defaultQuery
			}

			engine := cliCtx.String("engine")

			ctx, cancel := context.WithTimeout(cliCtx.Context, cliCtx.Duration("timeout"))
			defer cancel()

			ctx = logx.WithAttrs(ctx, slog.String("engine", engine))

			s, closeScraper, err := common.NewScraper(cliCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			defer closeScraper()

			scraper.SetDefault(s)

			client, err := newClient(cliCtx, engine)
			if err != nil {
				return errors.WithStack(err)
			}

			if retries := cliCtx.Int("retries"); retries > 0 {
				client = se.WithRetry(client, retries, cliCtx.Duration("retry-delay"))
			}

			slog.InfoContext(ctx, "searching", slog.String("query", query))

			results, err := client.Search(ctx, query)
			if err != nil {
				if serp.IsExtractionError(err) {
					return errors.Wrap(err, "could not extract search results, the page layout may have changed")
				}

				return errors.Wrap(err, "search failed")
			}

			slog.InfoContext(ctx, "search completed", slog.Int("results", len(results)))

			results, err = se.FilterHosts(results, cliCtx.StringSlice("host")...)
			if err != nil {
				return errors.WithStack(err)
			}

			var buff bytes.Buffer

			if err := WriteResults(&buff, format, results); err != nil {
				return errors.WithStack(err)
			}

			if _, err := cliCtx.App.Writer.Write(buff.Bytes()); err != nil {
				return errors.WithStack(err)
			}

			return nil
		},
	}
}

func newClient(cliCtx *cli.Context, engine string) (se.Client, error) {
	switch engine {
	case EngineProxy:
		config, err := proxyConfig(cliCtx)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		client := proxy.NewClient(config, scraper.DefaultScraper())

		if targetURL := cliCtx.String("target-url"); targetURL != "" {
			return &targetClient{client: client, targetURL: targetURL}, nil
		}

		return client, nil

	case EngineDuckDuckGo:
		return duckduckgo.NewClient(scraper.DefaultScraper()), nil

	case EngineGoogle:
		apiKey := cliCtx.String("google-api-key")
		cx := cliCtx.String("cse-id")

		if apiKey == "" || cx == "" {
			return nil, errors.New("google engine requires --google-api-key and --cse-id")
		}

		num := cliCtx.Int64("google-num")
		if num < 1 || num > 10 {
			return nil, errors.Errorf("--google-num must be between 1 and 10, got %d", num)
		}

		options := []google.OptionFunc{google.WithNum(num)}
		if endpoint := cliCtx.String("google-api-url"); endpoint != "" {
			options = append(options, google.WithEndpoint(endpoint))
		}

		return google.NewClient(apiKey, cx, options...), nil

	default:
		return nil, errors.Errorf("unknown search engine '%s'", engine)
	}
}

func proxyConfig(cliCtx *cli.Context) (proxy.Config, error) {
	config := proxy.DefaultConfig()
	config.Endpoint = cliCtx.String("api-url")
	config.APIKey = cliCtx.String("api-key")
	config.Country = cliCtx.String("country")
	config.SearchURL = cliCtx.String("search-url")

	filename := cliCtx.String("selectors")

	if cliCtx.Bool("container") {
		if filename != "" {
			return proxy.Config{}, errors.New("--container and --selectors cannot be combined, set 'container' in the selectors profile instead")
		}

		config.Selectors = serp.GoogleContainerSelectors()
	}

	if filename != "" {
		selectors, err := serp.LoadSelectorsFile(filename)
		if err != nil {
			return proxy.Config{}, errors.WithStack(err)
		}

		config.Selectors = selectors
	}

	if err := config.Validate(); err != nil {
		return proxy.Config{}, errors.Wrap(err, "invalid proxy configuration")
	}

	return config, nil
}

// targetClient fetches a fixed search page whatever the query.
type targetClient struct {
	client    *proxy.Client
	targetURL string
}

// Search implements search.Client.
func (c *targetClient) Search(ctx context.Context, _ string) ([]se.Result, error) {
	return c.client.Fetch(ctx, c.targetURL)
}

var _ se.Client = &targetClient{}
