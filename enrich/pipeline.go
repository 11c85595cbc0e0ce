package enrich

import (
	"context"
	"sort"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"stock-movers/logging"
	"stock-movers/models"
	"stock-movers/sources"
)

// SymbolEnricher produces one record per symbol and never fails.
type SymbolEnricher interface {
	Enrich(ctx context.Context, symbol string, period models.Period) models.StockRecord
}

// Pipeline discovers a universe and enriches it batch by batch.
type Pipeline struct {
	enricher         SymbolEnricher
	discoverer       Discoverer
	set              *sources.Set
	batchSize        int
	pause            time.Duration
	discoveryTimeout time.Duration
	logger           *log.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithBatchSize sets how many symbols run in parallel. Defaults to 15.
func WithBatchSize(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithPause sets the delay between batches. Defaults to 250ms.
func WithPause(d time.Duration) PipelineOption { return func(p *Pipeline) { p.pause = d } }

// WithDiscoveryTimeout bounds the screener call. Defaults to 4s.
func WithDiscoveryTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) { p.discoveryTimeout = d }
}

func WithLogger(l *log.Logger) PipelineOption { return func(p *Pipeline) { p.logger = l } }

// NewPipeline builds a Pipeline. discoverer may be nil, in which case the
// set's watchlist is always used.
func NewPipeline(enricher SymbolEnricher, discoverer Discoverer, set *sources.Set, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		enricher:         enricher,
		discoverer:       discoverer,
		set:              set,
		batchSize:        15,
		pause:            250 * time.Millisecond,
		discoveryTimeout: 4 * time.Second,
	}
	for _, o := range opts {
		o(p)
	}
	p.logger = logging.OrDiscard(p.logger)
	return p
}

// Universe returns the discovered movers, or the static watchlist when
// discovery fails, times out or finds nothing.
func (p *Pipeline) Universe(ctx context.Context) []string {
	if p.discoverer != nil {
		dctx, cancel := context.WithTimeout(ctx, p.discoveryTimeout)
		symbols, err := p.discoverer.Discover(dctx)
		cancel()
		if err == nil && len(symbols) > 0 {
			p.logger.Info().Int("symbols", len(symbols)).Msg("discovered movers")
			return dedupe(symbols)
		}
		p.logger.Warn().Err(err).Msg("discovery failed, using watchlist")
	}
	return dedupe(p.set.Watchlist())
}

// Run publishes after every batch and once more, marked Final, when all
// batches are done. Batches run strictly in order; symbols inside a batch run
// concurrently and each writes only its own result slot. When ctx is
// cancelled Run returns ctx.Err() without publishing the interrupted batch.
func (p *Pipeline) Run(ctx context.Context, period models.Period, publish func(models.Snapshot)) error {
	symbols := p.Universe(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	batches := chunk(symbols, p.batchSize)
	acc := make(map[string]models.StockRecord, len(symbols))

	for i, batch := range batches {
		start := time.Now()
		results := make([]models.StockRecord, len(batch))

		var g errgroup.Group
		for j, symbol := range batch {
			g.Go(func() error {
				results[j] = p.enricher.Enrich(ctx, symbol, period)
				return nil
			})
		}
		g.Wait()

		if err := ctx.Err(); err != nil {
			p.logger.Info().Int("batch", i+1).Msg("run cancelled")
			return err
		}

		for _, r := range results {
			acc[r.Symbol] = r
		}
		publish(models.Snapshot{
			Period:  period,
			Batch:   i + 1,
			Batches: len(batches),
			Records: sorted(acc),
		})
		p.logger.Info().Int("batch", i+1).Int("of", len(batches)).Int("records", len(acc)).Dur("elapsed", time.Since(start)).Msg("batch published")

		if i < len(batches)-1 && p.pause > 0 {
			select {
			case <-time.After(p.pause):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	publish(models.Snapshot{
		Period:  period,
		Batch:   len(batches),
		Batches: len(batches),
		Final:   true,
		Records: sorted(acc),
	})
	return nil
}

// Stream runs the pipeline in the background and delivers every snapshot on
// the returned channel, which is closed when the run ends.
func (p *Pipeline) Stream(ctx context.Context, period models.Period) <-chan models.Snapshot {
	out := make(chan models.Snapshot, 1)
	go func() {
		defer close(out)
		p.Run(ctx, period, func(s models.Snapshot) {
			select {
			case out <- s:
			case <-ctx.Done():
			}
		})
	}()
	return out
}

// sorted returns a fresh slice ordered by descending percent change, ties
// broken by symbol.
func sorted(acc map[string]models.StockRecord) []models.StockRecord {
	out := make([]models.StockRecord, 0, len(acc))
	for _, r := range acc {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PercentChange != out[j].PercentChange {
			return out[i].PercentChange > out[j].PercentChange
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

func chunk(symbols []string, size int) [][]string {
	var out [][]string
	for len(symbols) > 0 {
		n := min(size, len(symbols))
		out = append(out, symbols[:n])
		symbols = symbols[n:]
	}
	return out
}

func dedupe(symbols []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range symbols {
		s = sources.Key(s)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
