package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"

	"stock-movers/api"
	"stock-movers/board"
	"stock-movers/enrich"
	"stock-movers/models"
)

// serveCmd keeps a live board and serves it over HTTP.
type serveCmd struct {
	period  string
	refresh string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve a continuously refreshed movers board over HTTP" }
func (*serveCmd) Usage() string {
	return `serve [-p <period>] [-refresh <duration>]

  Runs the enrichment pipeline in the background and serves:
    GET  /api/movers        current board
    POST /api/period?period restart with another period
    GET  /api/stock?symbol  one record
    GET  /api/logo?symbol   cached logo, 404 when none
    GET  /search?q          symbol search
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Initial period (default from config)")
	f.StringVar(&c.refresh, "refresh", "", "Re-run the board this often, e.g. 1m (default from config, empty disables)")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.refresh != "" {
		cfg.Pipeline.RefreshInterval = c.refresh
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

	index, err := app.OpenIndex()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening search index: %v\n", err)
		return subcommands.ExitFailure
	}
	defer index.Close()

	b, err := board.New(app.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating board: %v\n", err)
		return subcommands.ExitFailure
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := enrich.NewRunner(app.Pipeline(nil), func(s models.Snapshot) {
		if err := b.Publish(s); err != nil && !errors.Is(err, board.ErrStale) {
			app.Logger.Error().Err(err).Msg("publish failed")
		}
	}, cfg.Pipeline.GetRefreshInterval(), app.Logger)

	updates, err := b.Watch(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error watching board: %v\n", err)
		return subcommands.ExitFailure
	}
	indexed := make(chan struct{})
	go func() {
		defer close(indexed)
		for s := range updates {
			if err := index.Update(s.Records); err != nil {
				app.Logger.Warn().Err(err).Msg("index update failed")
			}
		}
	}()
	defer func() { <-indexed }()

	// Enrich tasks persist logos, so the runner must be done before the
	// deferred app.Close.
	ran := make(chan struct{})
	go func() {
		defer close(ran)
		runner.Run(ctx, period)
	}()
	defer func() {
		stop()
		<-ran
	}()

	mux := http.NewServeMux()
	api.NewHandler(b, runner, index, app.Cache, app.Logger).Register(mux)
	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	app.Logger.Info().Str("addr", srv.Addr).Str("period", period.String()).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		stop()
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
