package main

import (
	"github.com/bornholm/serpscraper/internal/command"
	"github.com/bornholm/serpscraper/internal/command/page"
	"github.com/bornholm/serpscraper/internal/command/schema"
	"github.com/bornholm/serpscraper/internal/command/search"
)

var version = "dev"

func main() {
	command.Main(
		"serpscraper",
		version,
		"Extract ranked results from search engine pages",
		search.Search(),
		page.Page(),
		schema.Schema(),
	)
}
