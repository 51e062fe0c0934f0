package proxy

import (
	"net/url"
	"regexp"

	"github.com/bornholm/serpscraper/pkg/serp"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const DefaultSearchURL = "https://www.google.com/search"

var countryCodePattern = regexp.MustCompile(`^[A-Za-z]{2}$`)

type Config struct {
	// Endpoint is the proxy API URL.
	Endpoint string
	APIKey   string
	// Country is the two letters code of the country the proxy should
	// send the request from. Empty lets the proxy decide.
	Country string
	// SearchURL is the search engine page queries are appended to.
	SearchURL string
	Selectors serp.Selectors
}

func DefaultConfig() Config {
	return Config{
		Country:   "US",
		SearchURL: DefaultSearchURL,
		Selectors: serp.GoogleSelectors(),
	}
}

func (c Config) Validate() error {
	var err *multierror.Error

	if c.Endpoint == "" {
		err = multierror.Append(err, errors.New("proxy api endpoint is required"))
	} else if !isAbsoluteURL(c.Endpoint) {
		err = multierror.Append(err, errors.Errorf("proxy api endpoint '%s' is not an absolute url", c.Endpoint))
	}

	if c.APIKey == "" {
		err = multierror.Append(err, errors.New("proxy api key is required"))
	}

	if c.Country != "" && !countryCodePattern.MatchString(c.Country) {
		err = multierror.Append(err, errors.Errorf("invalid country code '%s'", c.Country))
	}

	if c.SearchURL != "" && !isAbsoluteURL(c.SearchURL) {
		err = multierror.Append(err, errors.Errorf("search url '%s' is not an absolute url", c.SearchURL))
	}

	if selectorsErr := c.Selectors.Validate(); selectorsErr != nil {
		err = multierror.Append(err, selectorsErr)
	}

	return err.ErrorOrNil()
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return u.Scheme != "" && u.Host != ""
}
