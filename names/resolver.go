package names

import (
	"context"
	"strings"
	"time"

	"github.com/phuslu/log"

	"stock-movers/logging"
	"stock-movers/sources"
)

// Lookup is one independent name-lookup strategy.
type Lookup interface {
	Name() string
	Lookup(ctx context.Context, symbol string) (string, error)
}

// Result is a resolved display name and where it came from: "race:<lookup>",
// "table" or "symbol".
type Result struct {
	Name   string
	Source string
}

// Resolver races every Lookup and accepts the first valid answer.
type Resolver struct {
	lookups []Lookup
	set     *sources.Set
	timeout time.Duration
	logger  *log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout bounds the whole race. Defaults to one second.
func WithTimeout(d time.Duration) Option { return func(r *Resolver) { r.timeout = d } }

func WithLogger(l *log.Logger) Option { return func(r *Resolver) { r.logger = l } }

// NewResolver builds a Resolver over lookups, falling back to the static
// name table in set.
func NewResolver(set *sources.Set, lookups []Lookup, opts ...Option) *Resolver {
	r := &Resolver{
		lookups: lookups,
		set:     set,
		timeout: time.Second,
	}
	for _, o := range opts {
		o(r)
	}
	r.logger = logging.OrDiscard(r.logger)
	return r
}

type answer struct {
	lookup string
	name   string
	err    error
}

// Resolve always returns a non-empty name. The race stops at the first
// answer that is neither empty nor an echo of the symbol; the remaining
// lookups are cancelled.
func (r *Resolver) Resolve(ctx context.Context, symbol string) Result {
	symbol = sources.Key(symbol)

	if name, ok := r.race(ctx, symbol); ok {
		return name
	}

	if name, ok := r.set.Name(symbol); ok {
		if n := Normalize(name); n != "" {
			return Result{Name: n, Source: "table"}
		}
	}
	return Result{Name: symbol, Source: "symbol"}
}

func (r *Resolver) race(ctx context.Context, symbol string) (Result, bool) {
	if len(r.lookups) == 0 {
		return Result{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// Buffered so losers never block after the winner returns.
	answers := make(chan answer, len(r.lookups))
	for _, l := range r.lookups {
		go func(l Lookup) {
			name, err := l.Lookup(ctx, symbol)
			answers <- answer{lookup: l.Name(), name: name, err: err}
		}(l)
	}

	for pending := len(r.lookups); pending > 0; pending-- {
		select {
		case a := <-answers:
			if a.err != nil {
				r.logger.Debug().Str("symbol", symbol).Str("lookup", a.lookup).Err(a.err).Msg("name lookup failed")
				continue
			}
			if name, ok := accept(symbol, a.name); ok {
				return Result{Name: name, Source: "race:" + a.lookup}, true
			}
			r.logger.Debug().Str("symbol", symbol).Str("lookup", a.lookup).Str("name", a.name).Msg("name lookup rejected")
		case <-ctx.Done():
			r.logger.Debug().Str("symbol", symbol).Err(ctx.Err()).Msg("name race timed out")
			return Result{}, false
		}
	}
	return Result{}, false
}

// accept applies the validity predicate and returns the normalized name.
func accept(symbol, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, symbol) {
		return "", false
	}
	n := Normalize(raw)
	if n == "" || strings.EqualFold(n, symbol) {
		return "", false
	}
	return n, true
}
