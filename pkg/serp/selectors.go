package serp

import (
	"io"
	"os"

	"github.com/andybalholm/cascadia"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.yaml.in/yaml/v3"
)

// Selectors describes where results live in a search engine page.
//
// Without a Container, Title and Link are evaluated independently over the
// whole document and paired by position. With a Container, they are
// evaluated inside each container element.
type Selectors struct {
	Title       string `yaml:"title"`
	Link        string `yaml:"link"`
	Container   string `yaml:"container,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// GoogleSelectors returns the selectors matching Google organic results:
// the result headings and the anchors of the clickable result wrappers.
func GoogleSelectors() Selectors {
	return Selectors{
		Title: "h3.LC20lb.DKV0Md",
		Link:  ".yuRUbf > a",
	}
}

// GoogleContainerSelectors resolves Google results inside each
// ".yuRUbf" wrapper instead of pairing them by position.
func GoogleContainerSelectors() Selectors {
	return Selectors{
		Container: ".yuRUbf",
		Title:     "h3",
		Link:      "a",
	}
}

func (s Selectors) Validate() error {
	var err *multierror.Error

	if s.Title == "" {
		err = multierror.Append(err, errors.New("title selector is required"))
	}

	if s.Link == "" {
		err = multierror.Append(err, errors.New("link selector is required"))
	}

	named := []struct {
		name     string
		selector string
	}{
		{"title", s.Title},
		{"link", s.Link},
		{"container", s.Container},
		{"description", s.Description},
	}

	for _, n := range named {
		if n.selector == "" {
			continue
		}

		if _, compileErr := cascadia.Compile(n.selector); compileErr != nil {
			err = multierror.Append(err, errors.Wrapf(compileErr, "invalid %s selector '%s'", n.name, n.selector))
		}
	}

	return err.ErrorOrNil()
}

// LoadSelectors decodes a YAML selector profile and validates it.
func LoadSelectors(r io.Reader) (Selectors, error) {
	var selectors Selectors

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&selectors); err != nil {
		if errors.Is(err, io.EOF) {
			return Selectors{}, errors.New("empty selector profile")
		}

		return Selectors{}, errors.Wrap(err, "could not decode selector profile")
	}

	if err := selectors.Validate(); err != nil {
		return Selectors{}, errors.WithStack(err)
	}

	return selectors, nil
}

func LoadSelectorsFile(path string) (Selectors, error) {
	file, err := os.Open(path)
	if err != nil {
		return Selectors{}, errors.WithStack(err)
	}

	defer file.Close()

	selectors, err := LoadSelectors(file)
	if err != nil {
		return Selectors{}, errors.Wrapf(err, "could not load selectors from '%s'", path)
	}

	return selectors, nil
}
