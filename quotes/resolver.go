// Package quotes resolves price, percent change and analyst target for a
// symbol over a reporting period.
package quotes

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/phuslu/log"
	"github.com/shopspring/decimal"

	"stock-movers/logging"
	"stock-movers/models"
	"stock-movers/sources"
)

// Resolver never fails: when the chart source cannot produce a usable quote
// it falls back to the last-known price table, then to a synthesized quote.
type Resolver struct {
	chart   ChartSource
	targets TargetSource
	set     *sources.Set
	timeout time.Duration
	haircut float64
	random  func() float64
	logger  *log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout bounds the chart request and the target lookup. Defaults to 2.5s.
func WithTimeout(d time.Duration) Option { return func(r *Resolver) { r.timeout = d } }

// WithTargets adds a source of real analyst targets.
func WithTargets(t TargetSource) Option { return func(r *Resolver) { r.targets = t } }

func WithHaircut(h float64) Option { return func(r *Resolver) { r.haircut = h } }

// WithRand replaces the source of randomness used for synthesized values.
// f must return values in [0, 1) and be safe for concurrent use.
func WithRand(f func() float64) Option { return func(r *Resolver) { r.random = f } }

func WithLogger(l *log.Logger) Option { return func(r *Resolver) { r.logger = l } }

func NewResolver(chart ChartSource, set *sources.Set, opts ...Option) *Resolver {
	r := &Resolver{
		chart:   chart,
		set:     set,
		timeout: 2500 * time.Millisecond,
		haircut: DefaultHaircut,
		random:  rand.Float64,
	}
	for _, o := range opts {
		o(r)
	}
	r.logger = logging.OrDiscard(r.logger)
	return r
}

// Resolve returns a quote whose Price is always positive.
func (r *Resolver) Resolve(ctx context.Context, symbol string, period models.Period) models.Quote {
	symbol = sources.Key(symbol)

	q, err := r.fromChart(ctx, symbol, period)
	if err != nil {
		r.logger.Debug().Str("symbol", symbol).Str("period", period.String()).Err(err).Msg("chart unavailable, using fallback quote")
		q = r.fallback(symbol)
	}
	q.AnalystTarget = r.analystTarget(ctx, symbol, q.Price)
	return q
}

type chartResult struct {
	series *Series
	err    error
}

func (r *Resolver) fromChart(ctx context.Context, symbol string, period models.Period) (models.Quote, error) {
	if r.chart == nil {
		return models.Quote{}, errNoResult
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan chartResult, 1)
	go func() {
		s, err := r.chart.Chart(ctx, symbol, period.Plan())
		done <- chartResult{s, err}
	}()

	var res chartResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return models.Quote{}, ctx.Err()
	}
	if res.err != nil {
		return models.Quote{}, res.err
	}

	s := res.series
	change, ok := PercentChange(period, s.Price, s.PreviousClose, s.Samples)
	if !ok {
		return models.Quote{}, errIncomplete
	}

	q := models.Quote{
		Price:           s.Price,
		PercentChange:   change,
		TrailingAverage: TrailingAverage(s.Samples, s.Price),
		MarketCap:       s.MarketCap,
		Source:          "chart",
	}
	if q.MarketCap <= 0 {
		if fb, ok := r.set.Price(symbol); ok {
			q.MarketCap = fb.MarketCap
		}
	}
	return q, nil
}

// fallback uses the static table when it knows the symbol, otherwise a
// bounded random quote.
func (r *Resolver) fallback(symbol string) models.Quote {
	if fb, ok := r.set.Price(symbol); ok {
		return models.Quote{
			Price:           fb.Price,
			PercentChange:   fb.Change,
			TrailingAverage: fb.Price,
			MarketCap:       fb.MarketCap,
			Source:          "table",
		}
	}

	price := round2(10 + r.random()*490)
	return models.Quote{
		Price:           price,
		PercentChange:   round2(-5 + r.random()*10),
		TrailingAverage: price,
		Source:          "synthetic",
	}
}

func (r *Resolver) analystTarget(ctx context.Context, symbol string, price float64) float64 {
	if r.targets != nil {
		ctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		targets, consensus, err := r.targets.Targets(ctx, symbol)
		if err == nil {
			if anchor, method := Anchor(targets, consensus, r.haircut); anchor > 0 {
				r.logger.Debug().Str("symbol", symbol).Str("method", string(method)).Float64("anchor", anchor).Msg("analyst anchor")
				return anchor
			}
		}
	}

	// Tight band around the current price.
	target := round2(price * (0.95 + r.random()*0.25))
	if target <= 0 {
		return price
	}
	return target
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
