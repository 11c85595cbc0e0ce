package names

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"

	"stock-movers/sources"
	"stock-movers/webclient"
)

var errNoName = errors.New("no name in response")

// JSONLookup queries a JSON endpoint and extracts the name with JSONPath.
type JSONLookup struct {
	client *webclient.Client
	source sources.NameSource
}

func NewJSONLookup(client *webclient.Client, source sources.NameSource) *JSONLookup {
	return &JSONLookup{client: client, source: source}
}

func (l *JSONLookup) Name() string { return l.source.Name }

func (l *JSONLookup) Lookup(ctx context.Context, symbol string) (string, error) {
	doc, err := l.client.GetJSON(ctx, sources.Fill(l.source.URL, "symbol", symbol))
	if err != nil {
		return "", err
	}
	for _, path := range l.source.Paths {
		if name, ok := firstString(path, doc); ok {
			return name, nil
		}
	}
	return "", fmt.Errorf("%s: %w", l.source.Name, errNoName)
}

// firstString evaluates path and returns the first non-empty string. JSONPath
// may yield either a single value or a list of matches.
func firstString(path string, doc any) (string, bool) {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return "", false
	}
	if list, ok := v.([]any); ok {
		for _, item := range list {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				return s, true
			}
		}
		return "", false
	}
	s, ok := v.(string)
	return s, ok && strings.TrimSpace(s) != ""
}

// JSONLookups builds one JSONLookup per name source in set.
func JSONLookups(client *webclient.Client, set *sources.Set) []Lookup {
	var out []Lookup
	for _, src := range set.NameSources() {
		out = append(out, NewJSONLookup(client, src))
	}
	return out
}

// QuoteLookup uses the finance-go equity client, preferring the long name.
// That client has no context support, so the call runs in its own goroutine
// and is abandoned when ctx ends.
type QuoteLookup struct {
	get func(symbol string) (string, error)
}

func NewQuoteLookup() *QuoteLookup {
	return &QuoteLookup{get: func(symbol string) (string, error) {
		e, err := equity.Get(symbol)
		if err != nil {
			return "", err
		}
		return equityName(e)
	}}
}

func equityName(e *finance.Equity) (string, error) {
	if e == nil {
		return "", errNoName
	}
	for _, n := range []string{e.LongName, e.ShortName} {
		if n = strings.TrimSpace(n); n != "" {
			return n, nil
		}
	}
	return "", errNoName
}

func (l *QuoteLookup) Name() string { return "finance-go" }

func (l *QuoteLookup) Lookup(ctx context.Context, symbol string) (string, error) {
	type result struct {
		name string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		name, err := l.get(symbol)
		done <- result{name, err}
	}()

	select {
	case r := <-done:
		return r.name, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
