// Package enrich turns symbols into StockRecords: one task per symbol, run
// in ordered batches by a Pipeline and restarted by a Runner.
package enrich

import (
	"context"
	"strings"
	"sync"

	"stock-movers/models"
	"stock-movers/names"
	"stock-movers/sources"
)

// NameResolver returns a non-empty display name.
type NameResolver interface {
	Resolve(ctx context.Context, symbol string) names.Result
}

// QuoteResolver returns a quote with a positive price.
type QuoteResolver interface {
	Resolve(ctx context.Context, symbol string, period models.Period) models.Quote
}

// LogoResolver returns nil when no logo is available.
type LogoResolver interface {
	Resolve(ctx context.Context, symbol, name string) *models.LogoRef
}

// Enricher builds one record per symbol. The logo resolver may be nil.
type Enricher struct {
	names  NameResolver
	quotes QuoteResolver
	logos  LogoResolver
}

func NewEnricher(n NameResolver, q QuoteResolver, l LogoResolver) *Enricher {
	return &Enricher{names: n, quotes: q, logos: l}
}

// Enrich resolves name and quote concurrently. The logo lookup needs the
// name, so it starts as soon as the name is known while the quote may still
// be in flight. Enrich cannot fail.
func (e *Enricher) Enrich(ctx context.Context, symbol string, period models.Period) models.StockRecord {
	symbol = sources.Key(symbol)

	var (
		wg    sync.WaitGroup
		quote models.Quote
		name  names.Result
		logo  *models.LogoRef
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		quote = e.quotes.Resolve(ctx, symbol, period)
	}()
	go func() {
		defer wg.Done()
		name = e.names.Resolve(ctx, symbol)
		if e.logos != nil {
			logo = e.logos.Resolve(ctx, symbol, name.Name)
		}
	}()
	wg.Wait()

	if strings.TrimSpace(name.Name) == "" {
		name = names.Result{Name: symbol, Source: "symbol"}
	}

	return models.StockRecord{
		Symbol:          symbol,
		DisplayName:     name.Name,
		CurrentPrice:    quote.Price,
		PercentChange:   quote.PercentChange,
		AnalystTarget:   quote.AnalystTarget,
		TrailingAverage: quote.TrailingAverage,
		MarketCap:       quote.MarketCap,
		Logo:            logo,
		Period:          period.String(),
		NameSource:      name.Source,
		QuoteSource:     quote.Source,
	}
}
