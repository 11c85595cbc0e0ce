package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/subcommands"
)

// pruneCacheCmd evicts old or excess logo cache entries.
type pruneCacheCmd struct {
	maxAge   string
	maxBytes string
	list     bool
}

func (*pruneCacheCmd) Name() string     { return "prune-cache" }
func (*pruneCacheCmd) Synopsis() string { return "evict old logos from the disk cache" }
func (*pruneCacheCmd) Usage() string {
	return `prune-cache [-max-age <duration>] [-max-bytes <size>] [-l]

  Removes cached logos older than max-age, then the oldest ones until the
  cache fits in max-bytes. Defaults come from the [cache] config section.
`
}

func (c *pruneCacheCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.maxAge, "max-age", "", "Evict entries older than this, e.g. 720h")
	f.StringVar(&c.maxBytes, "max-bytes", "", "Byte budget, e.g. 64MB")
	f.BoolVar(&c.list, "l", false, "List the remaining entries")
}

func (c *pruneCacheCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.maxAge != "" {
		cfg.Cache.MaxAge = c.maxAge
	}
	if c.maxBytes != "" {
		n, err := humanize.ParseBytes(c.maxBytes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -max-bytes: %v\n", err)
			return subcommands.ExitUsageError
		}
		cfg.Cache.MaxBytes = int64(n)
	}

	app, err := NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	removed, err := app.Cache.Prune(cfg.Cache.GetMaxAge(), cfg.Cache.MaxBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error pruning cache: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Removed %d entries from %s\n", removed, app.Cache.Dir())

	if c.list {
		entries, err := app.Cache.Entries()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing cache: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(cacheMarkdown(entries))
	}
	return subcommands.ExitSuccess
}
