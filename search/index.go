// Package search indexes listings and enriched records in bleve for symbol
// and company name lookups.
package search

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/phuslu/log"

	"stock-movers/logging"
	"stock-movers/models"
	"stock-movers/sources"
)

// Index is safe for concurrent use. listings is read-only after Open.
type Index struct {
	index    bleve.Index
	logger   *log.Logger
	listings map[string]models.Listing
}

// Open opens the index at path, creating and seeding it from listings when
// it does not exist. An empty path keeps the index in memory.
func Open(path string, listings []models.Listing, logger *log.Logger) (*Index, error) {
	logger = logging.OrDiscard(logger)

	var (
		index bleve.Index
		err   error
		seed  bool
	)
	switch {
	case path == "":
		index, err = bleve.NewMemOnly(buildIndexMapping())
		seed = true
	default:
		index, err = bleve.Open(path)
		if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
			index, err = bleve.New(path, buildIndexMapping())
			seed = true
		} else if err == nil {
			logger.Info().Str("path", path).Msg("opened existing index")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	ix := &Index{index: index, logger: logger, listings: make(map[string]models.Listing, len(listings))}
	for _, l := range listings {
		l.Symbol = sources.Key(l.Symbol)
		if l.Symbol != "" {
			ix.listings[l.Symbol] = l
		}
	}

	if seed && len(listings) > 0 {
		batch := index.NewBatch()
		for sym, l := range ix.listings {
			if err := batch.Index(sym, fromListing(l)); err != nil {
				index.Close()
				return nil, fmt.Errorf("failed to add to batch: %w", err)
			}
		}
		if err := index.Batch(batch); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to execute batch: %w", err)
		}
		logger.Info().Int("listings", len(ix.listings)).Msg("indexed listings")
	}
	return ix, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	doc := bleve.NewDocumentMapping()

	numeric := bleve.NewNumericFieldMapping()
	numeric.Store = true
	numeric.Index = true
	doc.AddFieldMappingsAt("price", numeric)
	doc.AddFieldMappingsAt("percent_change", numeric)

	text := bleve.NewTextFieldMapping()
	text.Store = true
	text.Index = true
	doc.AddFieldMappingsAt("symbol", text)
	doc.AddFieldMappingsAt("name", text)
	doc.AddFieldMappingsAt("domain", text)

	keyword := bleve.NewKeywordFieldMapping()
	keyword.Store = true
	doc.AddFieldMappingsAt("exchange", keyword)
	doc.AddFieldMappingsAt("type", keyword)
	doc.AddFieldMappingsAt("period", keyword)

	indexMapping.AddDocumentMapping("_default", doc)
	return indexMapping
}

// Update merges published records into the index.
func (ix *Index) Update(records []models.StockRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := ix.index.NewBatch()
	for _, r := range records {
		sym := sources.Key(r.Symbol)
		l, ok := ix.listings[sym]
		if !ok {
			l = models.Listing{Symbol: sym}
		}
		if err := batch.Index(sym, fromListing(l).merge(r)); err != nil {
			return fmt.Errorf("failed to add %s to batch: %w", sym, err)
		}
	}
	return ix.index.Batch(batch)
}

// Search ranks documents by text relevance with a small boost for large
// moves. limit <= 0 means 20.
func (ix *Index) Search(query string, limit int) []Document {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = 20
	}
	q := strings.ToLower(query)

	exact := bleve.NewTermQuery(q)
	exact.SetField("symbol")
	exact.SetBoost(10.0)

	prefix := bleve.NewPrefixQuery(q)
	prefix.SetField("symbol")
	prefix.SetBoost(5.0)

	nameMatch := bleve.NewMatchQuery(query)
	nameMatch.SetField("name")
	nameMatch.SetBoost(3.0)

	wildcardSymbol := bleve.NewWildcardQuery("*" + q + "*")
	wildcardSymbol.SetField("symbol")
	wildcardSymbol.SetBoost(2.0)

	wildcardName := bleve.NewWildcardQuery("*" + q + "*")
	wildcardName.SetField("name")
	wildcardName.SetBoost(1.5)

	wildcardDomain := bleve.NewWildcardQuery("*" + q + "*")
	wildcardDomain.SetField("domain")
	wildcardDomain.SetBoost(1.0)

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(
		exact, prefix, nameMatch, wildcardSymbol, wildcardName, wildcardDomain,
	))
	req.Fields = storedFields
	req.Size = 100

	res, err := ix.index.Search(req)
	if err != nil {
		ix.logger.Error().Err(err).Str("query", query).Msg("search failed")
		return nil
	}

	type scored struct {
		doc   Document
		score float64
	}
	hits := make([]scored, 0, len(res.Hits))
	for _, h := range res.Hits {
		d := fromFields(h.Fields)
		// relevance first, movement only separates near ties
		move := math.Min(math.Abs(d.PercentChange), 10) / 10
		hits = append(hits, scored{doc: d, score: h.Score*0.7 + move*0.3})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].doc.Symbol < hits[j].doc.Symbol
	})

	out := make([]Document, 0, min(limit, len(hits)))
	for _, h := range hits {
		if len(out) == limit {
			break
		}
		out = append(out, h.doc)
	}
	return out
}

// Get returns the document stored for symbol, or nil.
func (ix *Index) Get(symbol string) *Document {
	sym := sources.Key(symbol)
	if sym == "" {
		return nil
	}
	req := bleve.NewSearchRequest(bleve.NewDocIDQuery([]string{sym}))
	req.Fields = storedFields
	req.Size = 1

	res, err := ix.index.Search(req)
	if err != nil || len(res.Hits) == 0 {
		return nil
	}
	d := fromFields(res.Hits[0].Fields)
	return &d
}

// Listing returns the static listing for symbol.
func (ix *Index) Listing(symbol string) (models.Listing, bool) {
	l, ok := ix.listings[sources.Key(symbol)]
	return l, ok
}

// Count is the number of indexed documents.
func (ix *Index) Count() (uint64, error) { return ix.index.DocCount() }

func (ix *Index) Close() error { return ix.index.Close() }
