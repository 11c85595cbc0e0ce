package enrich

import (
	"context"
	"errors"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"stock-movers/sources"
	"stock-movers/webclient"
)

// Discoverer produces the symbol universe for one run.
type Discoverer interface {
	Discover(ctx context.Context) ([]string, error)
}

var (
	errScreenerStatus = errors.New("screener reported an error")
	errNoSymbols      = errors.New("screener returned no symbols")
)

// Screener reads a movers endpoint. Besides the configured JSONPath it
// understands a bare list of symbols, a list of {"symbol": ...} objects and
// either of those wrapped in {"data": [...]}.
type Screener struct {
	client *webclient.Client
	desc   sources.Screener
	limit  int
}

// NewScreener caps results at limit symbols; zero means 50.
func NewScreener(client *webclient.Client, desc sources.Screener, limit int) *Screener {
	if limit <= 0 {
		limit = 50
	}
	return &Screener{client: client, desc: desc, limit: limit}
}

func (s *Screener) Discover(ctx context.Context) ([]string, error) {
	if s.desc.URL == "" {
		return nil, errNoSymbols
	}
	doc, err := s.client.GetJSON(ctx, s.desc.URL)
	if err != nil {
		return nil, err
	}
	symbols, err := ParseMovers(doc, s.desc.Path)
	if err != nil {
		return nil, err
	}
	if len(symbols) > s.limit {
		symbols = symbols[:s.limit]
	}
	return symbols, nil
}

// ParseMovers extracts upper-cased, de-duplicated symbols from a screener
// payload, in payload order.
func ParseMovers(doc any, path string) ([]string, error) {
	if m, ok := doc.(map[string]any); ok {
		if status, _ := m["status"].(string); strings.EqualFold(status, "error") {
			return nil, errScreenerStatus
		}
	}

	var items any = doc
	if path != "" {
		// A wildcard path that matches nothing yields an empty list.
		if v, err := jsonpath.Get(path, doc); err == nil {
			if l, ok := v.([]any); !ok || len(l) > 0 {
				items = v
			}
		}
	}
	if m, ok := items.(map[string]any); ok {
		items = m["data"]
	}

	list, ok := items.([]any)
	if !ok {
		return nil, errNoSymbols
	}

	var out []string
	seen := map[string]bool{}
	for _, item := range list {
		var sym string
		switch v := item.(type) {
		case string:
			sym = v
		case map[string]any:
			sym, _ = v["symbol"].(string)
		}
		sym = sources.Key(sym)
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	if len(out) == 0 {
		return nil, errNoSymbols
	}
	return out, nil
}

// Symbols is a fixed universe, used when the caller names the symbols.
type Symbols []string

func (s Symbols) Discover(context.Context) ([]string, error) {
	if len(s) == 0 {
		return nil, errNoSymbols
	}
	return append([]string(nil), s...), nil
}
