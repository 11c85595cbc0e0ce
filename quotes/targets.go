package quotes

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"stock-movers/sources"
	"stock-movers/webclient"
)

// TargetSource supplies analyst price targets for a symbol.
type TargetSource interface {
	Targets(ctx context.Context, symbol string) (targets []float64, consensus float64, err error)
}

var errNoTargets = errors.New("no analyst targets")

// TargetFeed reads price targets from the JSON endpoints in a
// sources.TargetFeed. The individual endpoint returns a list of objects with
// a "target" or "priceTarget" field; the consensus endpoint returns a list
// whose first object carries "targetConsensus", "consensus" or "mean".
type TargetFeed struct {
	client *webclient.Client
	feed   sources.TargetFeed
}

// NewTargetFeed returns nil when the set has no target endpoints.
func NewTargetFeed(client *webclient.Client, set *sources.Set) *TargetFeed {
	feed := set.Targets()
	if feed.TargetsURL == "" && feed.ConsensusURL == "" {
		return nil
	}
	return &TargetFeed{client: client, feed: feed}
}

func (f *TargetFeed) Targets(ctx context.Context, symbol string) ([]float64, float64, error) {
	var targets []float64
	if f.feed.TargetsURL != "" {
		doc, err := f.client.GetJSON(ctx, sources.Fill(f.feed.TargetsURL, "symbol", symbol))
		if err == nil {
			if list, ok := doc.([]any); ok {
				for _, entry := range list {
					if v, ok := numberField(entry, "target", "priceTarget"); ok {
						targets = append(targets, v)
					}
				}
			}
		}
	}
	if len(targets) >= 3 || f.feed.ConsensusURL == "" {
		if len(targets) == 0 {
			return nil, 0, errNoTargets
		}
		return targets, 0, nil
	}

	doc, err := f.client.GetJSON(ctx, sources.Fill(f.feed.ConsensusURL, "symbol", symbol))
	if err != nil {
		if len(targets) > 0 {
			return targets, 0, nil
		}
		return nil, 0, err
	}
	var consensus float64
	if list, ok := doc.([]any); ok && len(list) > 0 {
		consensus, _ = numberField(list[0], "targetConsensus", "consensus", "mean")
	}
	if len(targets) == 0 && consensus <= 0 {
		return nil, 0, errNoTargets
	}
	return targets, consensus, nil
}

// numberField returns the first positive numeric field among keys. Some
// endpoints send numbers as strings.
func numberField(entry any, keys ...string) (float64, bool) {
	m, ok := entry.(map[string]any)
	if !ok {
		return 0, false
	}
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			if v > 0 {
				return v, true
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f > 0 {
				return f, true
			}
		}
	}
	return 0, false
}
