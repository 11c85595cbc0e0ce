// Package sources holds the read-only catalogue of upstream endpoints and
// static fallback tables used by the resolvers. A Set never changes after
// construction; options produce a new Set.
package sources

import (
	"net/url"
	"sort"
	"strings"
)

// NameSource describes one name-lookup endpoint. URL may contain {symbol};
// Paths are JSONPath expressions tried in order against the response.
type NameSource struct {
	Name  string   `json:"name"`
	URL   string   `json:"url"`
	Paths []string `json:"paths"`
}

// Screener describes the movers endpoint. Path selects the symbol list.
type Screener struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// TargetFeed describes optional analyst price-target endpoints. Both URLs may
// contain {symbol}. An empty feed means targets are synthesized.
type TargetFeed struct {
	TargetsURL   string `json:"targetsUrl"`
	ConsensusURL string `json:"consensusUrl"`
}

// Fallback is a last-known quote used when the chart source fails.
type Fallback struct {
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	MarketCap float64 `json:"marketCap"`
}

// Set is the immutable catalogue.
type Set struct {
	nameSources []NameSource
	symbolLogos []string
	domainLogos []string
	screener    Screener
	chart       string
	targets     TargetFeed
	watchlist   []string
	names       map[string]string
	domains     map[string]string
	prices      map[string]Fallback
}

// Option modifies a Set under construction.
type Option func(*Set)

// New builds an empty Set and applies opts.
func New(opts ...Option) *Set {
	s := &Set{
		names:   map[string]string{},
		domains: map[string]string{},
		prices:  map[string]Fallback{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Default returns the built-in catalogue with opts applied on top.
func Default(opts ...Option) *Set {
	base := []Option{
		WithNameSources(defaultNameSources...),
		WithSymbolLogos(defaultSymbolLogos...),
		WithDomainLogos(defaultDomainLogos...),
		WithScreener(defaultScreener),
		WithChart(defaultChart),
		WithWatchlist(defaultWatchlist...),
		WithNames(defaultNames),
		WithDomains(defaultDomains),
		WithPrices(defaultPrices),
	}
	return New(append(base, opts...)...)
}

// With returns a copy of s with opts applied.
func (s *Set) With(opts ...Option) *Set {
	c := New(
		WithNameSources(s.nameSources...),
		WithSymbolLogos(s.symbolLogos...),
		WithDomainLogos(s.domainLogos...),
		WithScreener(s.screener),
		WithChart(s.chart),
		WithTargets(s.targets),
		WithWatchlist(s.watchlist...),
		WithNames(s.names),
		WithDomains(s.domains),
		WithPrices(s.prices),
	)
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithNameSources replaces the name-lookup endpoints.
func WithNameSources(ns ...NameSource) Option {
	return func(s *Set) {
		s.nameSources = make([]NameSource, len(ns))
		for i, n := range ns {
			n.Paths = append([]string(nil), n.Paths...)
			s.nameSources[i] = n
		}
	}
}

// WithSymbolLogos replaces the symbol-keyed logo templates, highest priority first.
func WithSymbolLogos(tmpl ...string) Option {
	return func(s *Set) { s.symbolLogos = append([]string(nil), tmpl...) }
}

// WithDomainLogos replaces the domain-keyed logo templates.
func WithDomainLogos(tmpl ...string) Option {
	return func(s *Set) { s.domainLogos = append([]string(nil), tmpl...) }
}

func WithScreener(sc Screener) Option { return func(s *Set) { s.screener = sc } }

func WithChart(tmpl string) Option { return func(s *Set) { s.chart = tmpl } }

func WithTargets(tf TargetFeed) Option { return func(s *Set) { s.targets = tf } }

// WithWatchlist replaces the static universe used when discovery fails.
func WithWatchlist(symbols ...string) Option {
	return func(s *Set) {
		s.watchlist = s.watchlist[:0:0]
		for _, sym := range symbols {
			if sym = Key(sym); sym != "" {
				s.watchlist = append(s.watchlist, sym)
			}
		}
	}
}

// WithNames merges entries into the symbol to display-name table.
func WithNames(m map[string]string) Option {
	return func(s *Set) {
		for k, v := range m {
			s.names[Key(k)] = v
		}
	}
}

// WithDomains merges entries into the symbol to domain override table.
func WithDomains(m map[string]string) Option {
	return func(s *Set) {
		for k, v := range m {
			s.domains[Key(k)] = strings.ToLower(v)
		}
	}
}

// WithPrices merges entries into the last-known price table.
func WithPrices(m map[string]Fallback) Option {
	return func(s *Set) {
		for k, v := range m {
			s.prices[Key(k)] = v
		}
	}
}

// Key normalizes a symbol to its table key.
func Key(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (s *Set) NameSources() []NameSource {
	out := make([]NameSource, len(s.nameSources))
	for i, n := range s.nameSources {
		n.Paths = append([]string(nil), n.Paths...)
		out[i] = n
	}
	return out
}

func (s *Set) SymbolLogos() []string { return append([]string(nil), s.symbolLogos...) }
func (s *Set) DomainLogos() []string { return append([]string(nil), s.domainLogos...) }
func (s *Set) Screener() Screener    { return s.screener }
func (s *Set) Chart() string         { return s.chart }
func (s *Set) Targets() TargetFeed   { return s.targets }
func (s *Set) Watchlist() []string   { return append([]string(nil), s.watchlist...) }

// Name looks up the static display name for symbol.
func (s *Set) Name(symbol string) (string, bool) {
	n, ok := s.names[Key(symbol)]
	return n, ok && n != ""
}

// Domain looks up the static domain override for symbol.
func (s *Set) Domain(symbol string) (string, bool) {
	d, ok := s.domains[Key(symbol)]
	return d, ok && d != ""
}

// Price looks up the last-known quote for symbol.
func (s *Set) Price(symbol string) (Fallback, bool) {
	p, ok := s.prices[Key(symbol)]
	return p, ok && p.Price > 0
}

// Symbols returns every symbol that has a static name, sorted.
func (s *Set) Symbols() []string {
	out := make([]string, 0, len(s.names))
	for k := range s.names {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Fill substitutes {key} placeholders in tmpl. Values are path-escaped.
func Fill(tmpl string, kv ...string) string {
	pairs := make([]string, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, "{"+kv[i]+"}", url.PathEscape(kv[i+1]))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
