package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

// searchCmd looks symbols up in the search index.
type searchCmd struct {
	limit  int
	asJSON bool
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search symbols by ticker or company name" }
func (*searchCmd) Usage() string {
	return `search [-n <limit>] [-json] <search term>

  Searches the listings and the last enriched records by symbol, company
  name and domain.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 10, "Maximum number of results")
	f.BoolVar(&c.asJSON, "json", false, "Print results as JSON")
}

func (c *searchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a search term is required.")
		return subcommands.ExitUsageError
	}
	query := strings.Join(f.Args(), " ")

	cfg, err := LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	app, err := NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	index, err := app.OpenIndex()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening search index: %v\n", err)
		return subcommands.ExitFailure
	}
	defer index.Close()

	results := index.Search(query, c.limit)
	if c.asJSON {
		json.NewEncoder(os.Stdout).Encode(results)
		return subcommands.ExitSuccess
	}
	printMarkdown(searchMarkdown(query, results))
	return subcommands.ExitSuccess
}
