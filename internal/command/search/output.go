package search

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	se "github.com/bornholm/serpscraper/pkg/search"
	"github.com/bornholm/serpscraper/pkg/serp"
	"github.com/pkg/errors"
	"go.yaml.in/yaml/v3"
)

const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

var formats = []string{FormatText, FormatMarkdown, FormatJSON, FormatYAML}

func isKnownFormat(format string) bool {
	return slices.Contains(formats, format)
}

func WriteResults(w io.Writer, format string, results []se.Result) error {
	switch format {
	case FormatText:
		for _, r := range results {
			line := serp.Format(serp.Result{Rank: r.Rank, Title: r.Title, Link: r.URL})
			if _, err := fmt.Fprintln(w, line); err != nil {
				return errors.WithStack(err)
			}
		}

	case FormatMarkdown:
		if _, err := io.WriteString(w, "# Search results\n\n"); err != nil {
			return errors.WithStack(err)
		}

		for _, r := range results {
			if _, err := fmt.Fprintf(w, "## %d. %s\n\n**URL**: %s\n\n", r.Rank, r.Title, r.URL); err != nil {
				return errors.WithStack(err)
			}

			if r.Description == "" {
				continue
			}

			if _, err := fmt.Fprintf(w, "**Description**:\n%s\n\n", r.Description); err != nil {
				return errors.WithStack(err)
			}
		}

	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(results); err != nil {
			return errors.WithStack(err)
		}

	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)

		if err := encoder.Encode(results); err != nil {
			return errors.WithStack(err)
		}

		if err := encoder.Close(); err != nil {
			return errors.WithStack(err)
		}

	default:
		return errors.Errorf("unknown output format '%s'", format)
	}

	return nil
}
