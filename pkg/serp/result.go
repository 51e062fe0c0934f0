package serp

import "fmt"

// Result is one organic search result, ranked from 1 in document order.
type Result struct {
	Rank        int
	Title       string
	Link        string
	Description string
}

// Format renders the result the way the command line prints it.
func Format(r Result) string {
	return fmt.Sprintf("%d. %s :- %s", r.Rank, r.Title, r.Link)
}
