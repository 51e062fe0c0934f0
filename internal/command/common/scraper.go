package common

import (
	"net/http"
	"net/url"
	"time"

	"github.com/bornholm/serpscraper/pkg/scraper"
	"github.com/bornholm/serpscraper/pkg/scraper/chromedp"
	"github.com/bornholm/serpscraper/pkg/scraper/colly"
	"github.com/bornholm/serpscraper/pkg/scraper/surf"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	ScraperHTTP     = "http"
	ScraperSurf     = "surf"
	ScraperColly    = "colly"
	ScraperChromedp = "chromedp"
)

// ScraperFlags are shared by every command fetching pages.
func ScraperFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "scraper",
			Value:   ScraperHTTP,
			EnvVars: []string{"SERPSCRAPER_SCRAPER"},
			Usage:   "Page fetching backend (http, surf, colly or chromedp)",
		},
		&cli.StringFlag{
			Name:    "http-proxy",
			EnvVars: []string{"SERPSCRAPER_HTTP_PROXY", "HTTP_PROXY"},
			Usage:   "Proxy server used to fetch pages",
		},
		&cli.StringFlag{
			Name:    "user-agent",
			EnvVars: []string{"SERPSCRAPER_USER_AGENT"},
			Usage:   "User agent sent by the http and colly scrapers",
		},
		&cli.BoolFlag{
			Name:    "headless",
			Value:   true,
			EnvVars: []string{"SERPSCRAPER_HEADLESS"},
			Usage:   "Run the chromedp browser without window",
		},
		&cli.StringFlag{
			Name:    "wait-visible",
			EnvVars: []string{"SERPSCRAPER_WAIT_VISIBLE"},
			Usage:   "With chromedp, wait for an element matching this selector before reading the page",
		},
		&cli.DurationFlag{
			Name:    "request-timeout",
			Value:   30 * time.Second,
			EnvVars: []string{"SERPSCRAPER_REQUEST_TIMEOUT"},
			Usage:   "Timeout of a single page request",
		},
	}
}

// NewScraper creates the scraper selected by the command flags. The returned
// function releases its resources and must always be called.
func NewScraper(ctx *cli.Context) (scraper.Scraper, func(), error) {
	noop := func() {}

	httpProxy := ctx.String("http-proxy")
	userAgent := ctx.String("user-agent")
	timeout := ctx.Duration("request-timeout")

	switch name := ctx.String("scraper"); name {
	case ScraperHTTP:
		transport := http.DefaultTransport.(*http.Transport).Clone()

		if httpProxy != "" {
			proxyURL, err := url.Parse(httpProxy)
			if err != nil {
				return nil, noop, errors.Wrapf(err, "invalid http proxy '%s'", httpProxy)
			}

			transport.Proxy = http.ProxyURL(proxyURL)
		}

		client := &http.Client{
			Transport: transport,
			Timeout:   timeout,
		}

		return scraper.NewHTTPScraper(client, scraper.WithUserAgent(userAgent)), noop, nil

	case ScraperSurf:
		options := surf.DefaultOptions()
		options.Proxy = httpProxy
		options.Timeout = timeout

		return surf.NewScraper(options), noop, nil

	case ScraperColly:
		options := colly.DefaultOptions()
		options.Timeout = timeout
		if userAgent != "" {
			options.UserAgent = userAgent
		}

		return colly.NewScraper(options), noop, nil

	case ScraperChromedp:
		s, err := chromedp.NewScraper(chromedp.Options{
			Headless:    ctx.Bool("headless"),
			Proxy:       httpProxy,
			WaitVisible: ctx.String("wait-visible"),
		})
		if err != nil {
			return nil, noop, errors.Wrap(err, "could not start browser")
		}

		return s, s.Close, nil

	default:
		return nil, noop, errors.Errorf("unknown scraper '%s'", name)
	}
}
