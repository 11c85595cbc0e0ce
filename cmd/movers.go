package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/subcommands"

	"stock-movers/enrich"
	"stock-movers/models"
)

// moversCmd holds the flags for the 'movers' subcommand.
type moversCmd struct {
	period   string
	limit    int
	progress bool
	asJSON   bool
}

func (*moversCmd) Name() string     { return "movers" }
func (*moversCmd) Synopsis() string { return "discover and display today's top movers" }
func (*moversCmd) Usage() string {
	return `movers [-p <period>] [-n <limit>] [-progress] [-json]

  Discovers the current movers (or the watchlist when discovery fails),
  enriches them in batches and prints the board, sorted by percent change.
  Periods: LIVE, 1D, 1W, 1M, 6M, YTD, 1Y, 5Y.
`
}

func (c *moversCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Period the percent change is measured over (default from config)")
	f.IntVar(&c.limit, "n", 0, "Show only the top n records")
	f.BoolVar(&c.progress, "progress", false, "Print the board after every batch, not only at the end")
	f.BoolVar(&c.asJSON, "json", false, "Print snapshots as JSON lines")
}

func (c *moversCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runBoard(ctx, c.period, nil, c.limit, c.progress, c.asJSON)
}

// enrichCmd enriches the symbols given on the command line.
type enrichCmd struct {
	period string
	asJSON bool
}

func (*enrichCmd) Name() string     { return "enrich" }
func (*enrichCmd) Synopsis() string { return "enrich the given symbols and display them" }
func (*enrichCmd) Usage() string {
	return `enrich [-p <period>] [-json] SYMBOL...

  Resolves name, quote and logo for each symbol, skipping discovery.
`
}

func (c *enrichCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Period the percent change is measured over (default from config)")
	f.BoolVar(&c.asJSON, "json", false, "Print snapshots as JSON lines")
}

func (c *enrichCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one symbol is required.")
		return subcommands.ExitUsageError
	}
	return runBoard(ctx, c.period, enrich.Symbols(f.Args()), 0, false, c.asJSON)
}

// runBoard runs one pipeline generation and prints the result. A nil
// discoverer uses the screener.
func runBoard(ctx context.Context, periodFlag string, d enrich.Discoverer, limit int, progress, asJSON bool) subcommands.ExitStatus {
	cfg, err := LoadConfig(periodFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	period, err := models.ParsePeriod(cfg.Pipeline.Period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	app, err := NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	enc := json.NewEncoder(os.Stdout)
	var last models.Snapshot
	for s := range app.Pipeline(d).Stream(ctx, period) {
		last = s
		switch {
		case asJSON:
			if progress || s.Final {
				enc.Encode(s)
			}
		case progress && !s.Final:
			printMarkdown(moversMarkdown(s, limit))
		}
	}

	if !last.Final {
		// interrupted: whatever was published is still a consistent board
		fmt.Fprintln(os.Stderr, "Interrupted.")
		if !asJSON && len(last.Records) > 0 {
			printMarkdown(moversMarkdown(last, limit))
		}
		return subcommands.ExitFailure
	}
	if !asJSON {
		printMarkdown(moversMarkdown(last, limit))
	}
	return subcommands.ExitSuccess
}
