package models

// Listing is a searchable symbol entry.
type Listing struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
	Domain   string `json:"domain"` // web domain used for logo lookups, e.g. "apple.com"
}

// StockRecord is one fully enriched row. Records are values: once a
// slice of them has been published it is never modified again.
type StockRecord struct {
	Symbol          string   `json:"symbol"`
	DisplayName     string   `json:"displayName"`
	CurrentPrice    float64  `json:"currentPrice"`
	PercentChange   float64  `json:"percentChange"`
	AnalystTarget   float64  `json:"analystTarget"`
	TrailingAverage float64  `json:"trailingAverage"`
	MarketCap       float64  `json:"marketCap"`
	Logo            *LogoRef `json:"logo,omitempty"` // nil means show a placeholder
	Period          string   `json:"period"`
	NameSource      string   `json:"nameSource"`  // "race:<lookup>", "table" or "symbol"
	QuoteSource     string   `json:"quoteSource"` // "chart", "table" or "synthetic"
}

// LogoRef points at a logo image. Path is set when the image came from the
// disk cache, URL when it was fetched from a remote candidate.
type LogoRef struct {
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Quote is the price side of a record.
type Quote struct {
	Price           float64
	PercentChange   float64
	AnalystTarget   float64
	TrailingAverage float64
	MarketCap       float64
	Source          string
}

// Snapshot is one publication of the board: the full de-duplicated record
// set accumulated so far, sorted by descending percent change.
type Snapshot struct {
	Generation uint64        `json:"generation"`
	Period     Period        `json:"period"`
	Batch      int           `json:"batch"`
	Batches    int           `json:"batches"`
	Final      bool          `json:"final"`
	Records    []StockRecord `json:"records"`
}
