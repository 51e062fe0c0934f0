package command

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"github.com/bornholm/serpscraper/internal/logx"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const envFileVar = "SERPSCRAPER_ENV_FILE"

func Main(name string, version string, usage string, commands ...*cli.Command) {
	// Environment files are loaded before flags are parsed so their values
	// can serve as flag defaults. Variables already set are not overridden.
	if err := loadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "could not load environment file: %+v\n", err)
		os.Exit(1)
	}

	app := &cli.App{
		Name:     name,
		Usage:    usage,
		Commands: commands,
		Version:  version,
		Before: func(ctx *cli.Context) error {
			workdir := ctx.String("workdir")
			// Switch to new working directory if defined
			if workdir != "" {
				if err := os.Chdir(workdir); err != nil {
					return errors.Wrap(err, "could not change working directory")
				}
			}

			slog.SetDefault(newLogger(ctx.String("log-level")))

			return nil
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "workdir",
				Value:   "",
				EnvVars: []string{"SERPSCRAPER_WORKDIR"},
				Usage:   "The working directory",
			},
			&cli.BoolFlag{
				Name:    "debug",
				EnvVars: []string{"SERPSCRAPER_DEBUG"},
				Usage:   "Enable debug mode",
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"SERPSCRAPER_LOG_LEVEL"},
				Usage:   "Set logging level",
				Value:   "warn",
			},
		},
	}

	app.ExitErrHandler = func(ctx *cli.Context, err error) {
		if err == nil {
			return
		}

		debug := ctx.Bool("debug")

		if !debug {
			slog.ErrorContext(ctx.Context, err.Error())
		} else {
			slog.ErrorContext(ctx.Context, fmt.Sprintf("%+v", err))
		}
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func newLogger(logLevel string) *slog.Logger {
	slogLevel := slog.LevelWarn

	switch logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	}

	return slog.New(logx.ContextHandler{
		Handler: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slogLevel,
		}),
	})
}

func loadEnvFile() error {
	filename := os.Getenv(envFileVar)
	if filename == "" {
		filename = ".env"
	}

	if err := godotenv.Load(filename); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return errors.Wrapf(err, "could not load '%s'", filename)
	}

	return nil
}
