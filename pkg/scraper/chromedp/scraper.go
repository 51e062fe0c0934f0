package chromedp

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/bornholm/serpscraper/pkg/scraper"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"

	cu "github.com/Davincible/chromedp-undetected"
)

type Options struct {
	Headless bool
	// Proxy is passed to the browser as its proxy server.
	Proxy string
	// WaitVisible, when set, delays the DOM dump until an element matching
	// this selector is visible. Search pages render their results late.
	WaitVisible string
}

// Scraper drives an undetected Chrome instance and returns the rendered DOM.
type Scraper struct {
	chromeCtx    context.Context
	cancelChrome context.CancelFunc
	waitVisible  string
}

// Check implements scraper.Scraper.
func (s *Scraper) Check(ctx context.Context, url string) (bool, error) {
	runCtx, cancel := s.runContext(ctx)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return false, errors.WithStack(err)
	}

	return true, nil
}

// Get implements scraper.Scraper.
func (s *Scraper) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	runCtx, cancel := s.runContext(ctx)
	defer cancel()

	var html string

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	}

	if s.waitVisible != "" {
		slog.DebugContext(ctx, "waiting for element", slog.String("selector", s.waitVisible))
		actions = append(actions, chromedp.WaitVisible(s.waitVisible, chromedp.ByQuery))
	}

	actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
		node, err := dom.GetDocument().Do(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		html = res

		return nil
	}))

	if err := chromedp.Run(runCtx, actions...); err != nil {
		return nil, errors.WithStack(err)
	}

	return io.NopCloser(bytes.NewBufferString(html)), nil
}

// runContext bounds the browser tab context with the caller's deadline and
// cancellation.
func (s *Scraper) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)

	if deadline, ok := ctx.Deadline(); ok {
		runCtx, cancel = context.WithDeadline(s.chromeCtx, deadline)
	} else {
		runCtx, cancel = context.WithCancel(s.chromeCtx)
	}

	stop := context.AfterFunc(ctx, cancel)

	return runCtx, func() {
		stop()
		cancel()
	}
}

func (s *Scraper) Close() {
	s.cancelChrome()
}

func NewScraper(options Options) (*Scraper, error) {
	chromeOptions := []cu.Option{}
	if options.Headless {
		chromeOptions = append(chromeOptions, cu.WithHeadless())
	}

	if options.Proxy != "" {
		chromeOptions = append(chromeOptions, cu.WithChromeFlags(chromedp.ProxyServer(options.Proxy)))
	}

	chromeCtx, cancelChrome, err := cu.New(cu.NewConfig(chromeOptions...))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Scraper{
		chromeCtx:    chromeCtx,
		cancelChrome: cancelChrome,
		waitVisible:  options.WaitVisible,
	}, nil
}

var _ scraper.Scraper = &Scraper{}
var _ scraper.Closer = &Scraper{}
