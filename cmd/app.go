// Package cmd implements the stock-movers command line.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/phuslu/log"

	"stock-movers/cache"
	"stock-movers/config"
	"stock-movers/enrich"
	"stock-movers/loader"
	"stock-movers/logging"
	"stock-movers/logos"
	"stock-movers/models"
	"stock-movers/names"
	"stock-movers/quotes"
	"stock-movers/search"
	"stock-movers/sources"
	"stock-movers/webclient"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&moversCmd{}, "board")
	c.Register(&enrichCmd{}, "board")
	c.Register(&serveCmd{}, "board")
	c.Register(&searchCmd{}, "symbols")
	c.Register(&pruneCacheCmd{}, "cache")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFiles = flag.String("config", "", "Comma-separated list of TOML config files, later files win")
var logLevel = flag.String("log-level", "", "Log level override (trace, debug, info, warn, error)")

// LoadConfig reads the -config files and applies the global flag overrides.
func LoadConfig(period string) (*config.Config, error) {
	var paths []string
	for _, p := range strings.Split(*configFiles, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	cfg, err := config.LoadFromFiles(paths...)
	if err != nil {
		return nil, err
	}
	config.ApplyFlagOverrides(cfg, period, *logLevel)
	return cfg, nil
}

// App holds the wired components for one command.
type App struct {
	Config   *config.Config
	Logger   *log.Logger
	Sources  *sources.Set
	Listings []models.Listing
	Client   *webclient.Client
	Cache    *cache.Disk
	Logos    *logos.Resolver
	Enricher *enrich.Enricher
}

// NewApp wires config -> logger -> sources -> resolvers -> cache. Close must
// be called to flush pending logo writes.
func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	set, listings, err := loadSources(cfg.Sources)
	if err != nil {
		return nil, err
	}

	client := webclient.New(logger)

	lookups := names.JSONLookups(client, set)
	if cfg.Names.FinanceFeed {
		lookups = append(lookups, names.NewQuoteLookup())
	}
	nameResolver := names.NewResolver(set, lookups,
		names.WithTimeout(cfg.Names.GetTimeout()),
		names.WithLogger(logger),
	)

	quoteOpts := []quotes.Option{
		quotes.WithTimeout(cfg.Quotes.GetTimeout()),
		quotes.WithHaircut(cfg.Quotes.Haircut),
		quotes.WithLogger(logger),
	}
	if feed := quotes.NewTargetFeed(client, set); feed != nil {
		quoteOpts = append(quoteOpts, quotes.WithTargets(feed))
	}
	quoteResolver := quotes.NewResolver(quotes.NewYahooChart(client, set), set, quoteOpts...)

	disk, err := cache.Open(cfg.Cache.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open logo cache: %w", err)
	}
	logoResolver := logos.NewResolver(set, client, disk,
		logos.WithTimeout(cfg.Logos.GetTimeout()),
		logos.WithSize(cfg.Logos.Size),
		logos.WithMinSize(cfg.Logos.MinSize),
		logos.WithLogger(logger),
	)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Sources:  set,
		Listings: listings,
		Client:   client,
		Cache:    disk,
		Logos:    logoResolver,
		Enricher: enrich.NewEnricher(nameResolver, quoteResolver, logoResolver),
	}, nil
}

// Pipeline builds an orchestrator over d. A nil d uses the screener.
func (a *App) Pipeline(d enrich.Discoverer) *enrich.Pipeline {
	if d == nil {
		d = enrich.NewScreener(a.Client, a.Sources.Screener(), a.Config.Pipeline.MaxUniverse)
	}
	return enrich.NewPipeline(a.Enricher, d, a.Sources,
		enrich.WithBatchSize(a.Config.Pipeline.BatchSize),
		enrich.WithPause(a.Config.Pipeline.GetBatchPause()),
		enrich.WithDiscoveryTimeout(a.Config.Pipeline.GetDiscoveryTimeout()),
		enrich.WithLogger(a.Logger),
	)
}

// OpenIndex opens the search index seeded with the listings, or with the
// built-in name table when no listings file is configured.
func (a *App) OpenIndex() (*search.Index, error) {
	listings := a.Listings
	if len(listings) == 0 {
		listings = catalogListings(a.Sources)
	}
	return search.Open(a.Config.Search.Path, listings, a.Logger)
}

// Close waits for pending logo writes and closes the cache.
func (a *App) Close() error {
	a.Logos.Wait()
	return a.Cache.Close()
}

func loadSources(cfg config.SourcesConfig) (*sources.Set, []models.Listing, error) {
	var (
		opts     []sources.Option
		listings []models.Listing
	)
	if cfg.Listings != "" {
		l, err := loader.LoadListings(cfg.Listings)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load listings %s: %w", cfg.Listings, err)
		}
		listings = l
		opts = append(opts, loader.ListingOptions(l)...)
	}
	if cfg.File != "" {
		o, err := loader.LoadSourceFile(cfg.File)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, o...)
	}
	if cfg.Watchlist != "" {
		wl, err := loader.LoadWatchlist(cfg.Watchlist)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load watchlist %s: %w", cfg.Watchlist, err)
		}
		opts = append(opts, sources.WithWatchlist(wl...))
	}
	if cfg.Prices != "" {
		p, err := loader.LoadPriceTable(cfg.Prices)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load prices %s: %w", cfg.Prices, err)
		}
		opts = append(opts, sources.WithPrices(p))
	}
	return sources.Default(opts...), listings, nil
}

// catalogListings derives listings from every symbol the set knows.
func catalogListings(set *sources.Set) []models.Listing {
	symbols := set.Symbols()
	out := make([]models.Listing, 0, len(symbols))
	for _, sym := range symbols {
		l := models.Listing{Symbol: sym, Type: "Stock"}
		l.Name, _ = set.Name(sym)
		l.Domain, _ = set.Domain(sym)
		out = append(out, l)
	}
	return out
}
