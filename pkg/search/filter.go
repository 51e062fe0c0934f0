package search

import (
	"net/url"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// FilterHosts keeps the results whose URL host matches one of the glob
// patterns (e.g. "*.nodejs.org"). Ranks are left untouched so the output
// still reflects the position in the original page.
func FilterHosts(results []Result, patterns ...string) ([]Result, error) {
	if len(patterns) == 0 {
		return results, nil
	}

	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '.')
		if err != nil {
			return nil, errors.Wrapf(err, "invalid host pattern '%s'", p)
		}

		globs = append(globs, g)
	}

	filtered := make([]Result, 0, len(results))

	for _, r := range results {
		u, err := url.Parse(r.URL)
		if err != nil {
			continue
		}

		host := u.Hostname()

		for _, g := range globs {
			if g.Match(host) {
				filtered = append(filtered, r)
				break
			}
		}
	}

	return filtered, nil
}
