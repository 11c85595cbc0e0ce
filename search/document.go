package search

import "stock-movers/models"

// Document is what the index stores per symbol: the static listing merged
// with the latest enriched record, when there is one.
type Document struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Exchange      string  `json:"exchange"`
	Type          string  `json:"type"`
	Domain        string  `json:"domain"`
	Price         float64 `json:"price"`
	PercentChange float64 `json:"percent_change"`
	Period        string  `json:"period"`
}

var storedFields = []string{"symbol", "name", "exchange", "type", "domain", "price", "percent_change", "period"}

func fromListing(l models.Listing) Document {
	return Document{Symbol: l.Symbol, Name: l.Name, Exchange: l.Exchange, Type: l.Type, Domain: l.Domain}
}

// merge overlays a record on d. The record's display name wins over the
// listing name since it has been normalized.
func (d Document) merge(r models.StockRecord) Document {
	d.Symbol = r.Symbol
	if r.DisplayName != "" {
		d.Name = r.DisplayName
	}
	d.Price = r.CurrentPrice
	d.PercentChange = r.PercentChange
	d.Period = r.Period
	return d
}

func fromFields(fields map[string]interface{}) Document {
	getString := func(key string) string {
		if val, ok := fields[key].(string); ok {
			return val
		}
		return ""
	}
	getFloat := func(key string) float64 {
		if val, ok := fields[key].(float64); ok {
			return val
		}
		return 0.0
	}
	return Document{
		Symbol:        getString("symbol"),
		Name:          getString("name"),
		Exchange:      getString("exchange"),
		Type:          getString("type"),
		Domain:        getString("domain"),
		Price:         getFloat("price"),
		PercentChange: getFloat("percent_change"),
		Period:        getString("period"),
	}
}
