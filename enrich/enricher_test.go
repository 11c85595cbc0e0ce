package enrich

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"stock-movers/models"
	"stock-movers/names"
)

type stubNames struct {
	delay time.Duration
	name  string
	done  atomic.Int64 // unix nanos when the name was returned
}

func (s *stubNames) Resolve(ctx context.Context, symbol string) names.Result {
	time.Sleep(s.delay)
	s.done.Store(time.Now().UnixNano())
	if s.name == "" {
		return names.Result{}
	}
	return names.Result{Name: s.name, Source: "race:stub"}
}

type stubQuotes struct {
	delay   time.Duration
	changes map[string]float64
}

func (s *stubQuotes) Resolve(ctx context.Context, symbol string, period models.Period) models.Quote {
	time.Sleep(s.delay)
	return models.Quote{Price: 10, PercentChange: s.changes[symbol], AnalystTarget: 11, TrailingAverage: 10, Source: "chart"}
}

type stubLogos struct {
	gotName string
	started atomic.Int64
}

func (s *stubLogos) Resolve(ctx context.Context, symbol, name string) *models.LogoRef {
	s.started.Store(time.Now().UnixNano())
	s.gotName = name
	return &models.LogoRef{URL: "https://logo/" + symbol}
}

func TestEnrichComposesFields(t *testing.T) {
	n := &stubNames{name: "Acme"}
	l := &stubLogos{}
	e := NewEnricher(n, &stubQuotes{changes: map[string]float64{"ACME": 3.5}}, l)

	rec := e.Enrich(context.Background(), "acme", models.OneWeek)
	if rec.Symbol != "ACME" || rec.DisplayName != "Acme" || rec.PercentChange != 3.5 {
		t.Errorf("Unexpected record %+v", rec)
	}
	if rec.Logo == nil || rec.Logo.URL != "https://logo/ACME" {
		t.Errorf("Expected logo reference, got %+v", rec.Logo)
	}
	if l.gotName != "Acme" {
		t.Errorf("Expected logo resolver to receive the resolved name, got %q", l.gotName)
	}
	if rec.Period != "1W" || rec.QuoteSource != "chart" || rec.NameSource != "race:stub" {
		t.Errorf("Unexpected provenance %+v", rec)
	}
}

func TestEnrichRunsNameAndQuoteConcurrently(t *testing.T) {
	n := &stubNames{name: "Acme", delay: 100 * time.Millisecond}
	q := &stubQuotes{delay: 100 * time.Millisecond}
	l := &stubLogos{}

	start := time.Now()
	NewEnricher(n, q, l).Enrich(context.Background(), "ACME", models.OneDay)
	if elapsed := time.Since(start); elapsed > 180*time.Millisecond {
		t.Errorf("Expected name and quote to overlap, took %s", elapsed)
	}
	if l.started.Load() < n.done.Load() {
		t.Errorf("Logo resolution started before the name was known")
	}
}

func TestEnrichEmptyNameFallsBackToSymbol(t *testing.T) {
	e := NewEnricher(&stubNames{}, &stubQuotes{}, nil)
	rec := e.Enrich(context.Background(), "zz", models.OneDay)
	if rec.DisplayName != "ZZ" {
		t.Errorf("Expected symbol as name, got %q", rec.DisplayName)
	}
	if rec.Logo != nil {
		t.Errorf("Expected no logo without a logo resolver")
	}
}
