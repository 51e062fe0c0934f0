package page

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bornholm/serpscraper/internal/command/common"
	"github.com/bornholm/serpscraper/pkg/page"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Page() *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:    "check",
			EnvVars: []string{"SERPSCRAPER_PAGE_CHECK"},
			Usage:   "Only report whether the page is reachable",
		},
		&cli.BoolFlag{
			Name:    "save",
			Aliases: []string{"s"},
			EnvVars: []string{"SERPSCRAPER_PAGE_SAVE"},
			Usage:   "Write the markdown to a file named after the page title",
		},
		&cli.StringFlag{
			Name:      "output",
			Aliases:   []string{"o"},
			EnvVars:   []string{"SERPSCRAPER_PAGE_OUTPUT"},
			Usage:     "Write the markdown to this file",
			TakesFile: true,
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Value:   time.Minute,
			EnvVars: []string{"SERPSCRAPER_TIMEOUT"},
		},
	}

	return &cli.Command{
		Name:      "page",
		Usage:     "Fetch a result page and print it as markdown",
		ArgsUsage: "<url>",
		Flags:     append(flags, common.ScraperFlags()...),
		Action: func(cliCtx *cli.Context) error {
			url := cliCtx.Args().First()
			if url == "" {
				return errors.New("missing page url")
			}

			ctx, cancel := context.WithTimeout(cliCtx.Context, cliCtx.Duration("timeout"))
			defer cancel()

			s, closeScraper, err := common.NewScraper(cliCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			defer closeScraper()

			if cliCtx.Bool("check") {
				ok, err := s.Check(ctx, url)
				if err != nil {
					return errors.Wrapf(err, "could not check '%s'", url)
				}

				status := "unreachable"
				if ok {
					status = "reachable"
				}

				if _, err := fmt.Fprintf(cliCtx.App.Writer, "%s: %s\n", url, status); err != nil {
					return errors.WithStack(err)
				}

				if !ok {
					return errors.Errorf("page '%s' is unreachable", url)
				}

				return nil
			}

			p, err := page.Fetch(ctx, s, url)
			if err != nil {
				return errors.Wrapf(err, "could not fetch '%s'", url)
			}

			output := cliCtx.String("output")
			if output == "" && cliCtx.Bool("save") {
				output = Filename(p)
			}

			if output == "" {
				if _, err := fmt.Fprintln(cliCtx.App.Writer, p.Markdown); err != nil {
					return errors.WithStack(err)
				}

				return nil
			}

			if err := os.WriteFile(output, []byte(p.Markdown+"\n"), 0644); err != nil {
				return errors.Wrapf(err, "failed to write page")
			}

			slog.InfoContext(ctx, "page written", slog.String("output", output))

			return nil
		},
	}
}

// Filename names the markdown file of a page after its title, or its url
// when it has none.
func Filename(p *page.Page) string {
	name := p.Title
	if name == "" {
		name = p.URL
	}

	return slug.Make(name) + ".md"
}
