package schema

import (
	"encoding/json"
	"fmt"

	"github.com/bornholm/serpscraper/pkg/search"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Schema() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of the results written by 'search --format json'",
		Action: func(cliCtx *cli.Context) error {
			data, err := Generate()
			if err != nil {
				return errors.WithStack(err)
			}

			if _, err := fmt.Fprintln(cliCtx.App.Writer, string(data)); err != nil {
				return errors.WithStack(err)
			}

			return nil
		},
	}
}

// Generate returns the JSON schema of a list of search results.
func Generate() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	item := reflector.Reflect(&search.Result{})
	item.Version = ""

	schema := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Search results",
		Description: "Ranked search results, in page order",
		Type:        "array",
		Items:       item,
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return data, nil
}
