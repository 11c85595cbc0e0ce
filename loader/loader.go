// Package loader reads the optional data files that extend the built-in
// source catalogue: listings, watchlists, price tables and JSONC source files.
package loader

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"

	"stock-movers/models"
	"stock-movers/sources"
)

// LoadListings reads Symbol,Name,Exchange,Type,Domain rows. Only the first
// two columns are required; a leading header row is skipped.
func LoadListings(filePath string) ([]models.Listing, error) {
	records, err := readCSV(filePath)
	if err != nil {
		return nil, err
	}

	var listings []models.Listing
	for _, record := range records {
		if len(record) < 2 || sources.Key(record[0]) == "" {
			continue
		}
		l := models.Listing{
			Symbol:   sources.Key(record[0]),
			Name:     strings.TrimSpace(record[1]),
			Exchange: column(record, 2),
			Type:     column(record, 3),
			Domain:   strings.ToLower(column(record, 4)),
		}
		if l.Type == "" {
			l.Type = "Stock"
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// ListingOptions turns listings into name and domain table entries.
func ListingOptions(listings []models.Listing) []sources.Option {
	names := map[string]string{}
	domains := map[string]string{}
	for _, l := range listings {
		if l.Name != "" {
			names[l.Symbol] = l.Name
		}
		if l.Domain != "" {
			domains[l.Symbol] = l.Domain
		}
	}
	return []sources.Option{sources.WithNames(names), sources.WithDomains(domains)}
}

// LoadWatchlist reads one symbol per row from the first column. Lines
// starting with # are ignored.
func LoadWatchlist(filePath string) ([]string, error) {
	records, err := readCSV(filePath)
	if err != nil {
		return nil, err
	}

	var symbols []string
	for _, record := range records {
		if sym := sources.Key(record[0]); sym != "" {
			symbols = append(symbols, sym)
		}
	}
	return symbols, nil
}

// LoadPriceTable reads Symbol,Price,Change[,MarketCap] rows. Rows with a
// non-positive price are skipped.
func LoadPriceTable(filePath string) (map[string]sources.Fallback, error) {
	records, err := readCSV(filePath)
	if err != nil {
		return nil, err
	}

	prices := map[string]sources.Fallback{}
	for i, record := range records {
		if len(record) < 3 {
			continue
		}
		var fb sources.Fallback
		if fb.Price, err = parseFloat(record[1]); err != nil {
			return nil, fmt.Errorf("row %d: price: %w", i+1, err)
		}
		if fb.Change, err = parseFloat(record[2]); err != nil {
			return nil, fmt.Errorf("row %d: change: %w", i+1, err)
		}
		if v := column(record, 3); v != "" {
			if fb.MarketCap, err = parseFloat(v); err != nil {
				return nil, fmt.Errorf("row %d: market cap: %w", i+1, err)
			}
		}
		if fb.Price > 0 {
			prices[sources.Key(record[0])] = fb
		}
	}
	return prices, nil
}

// SourceFile is the JSONC document accepted by LoadSourceFile. Every field
// is optional; absent fields leave the catalogue untouched.
type SourceFile struct {
	NameSources []sources.NameSource        `json:"nameSources"`
	SymbolLogos []string                    `json:"symbolLogos"`
	DomainLogos []string                    `json:"domainLogos"`
	Screener    *sources.Screener           `json:"screener"`
	Chart       string                      `json:"chart"`
	Targets     *sources.TargetFeed         `json:"targets"`
	Watchlist   []string                    `json:"watchlist"`
	Names       map[string]string           `json:"names"`
	Domains     map[string]string           `json:"domains"`
	Prices      map[string]sources.Fallback `json:"prices"`
}

// ParseSourceFile strips comments and trailing commas before decoding.
func ParseSourceFile(data []byte) (*SourceFile, error) {
	var sf SourceFile
	if err := json.Unmarshal(jsonc.ToJSON(data), &sf); err != nil {
		return nil, fmt.Errorf("parsing source file: %w", err)
	}
	return &sf, nil
}

// LoadSourceFile reads a JSONC source file and returns it as options.
func LoadSourceFile(filePath string) ([]sources.Option, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	sf, err := ParseSourceFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return sf.Options(), nil
}

// Options converts the present fields.
func (sf *SourceFile) Options() []sources.Option {
	var opts []sources.Option
	if len(sf.NameSources) > 0 {
		opts = append(opts, sources.WithNameSources(sf.NameSources...))
	}
	if len(sf.SymbolLogos) > 0 {
		opts = append(opts, sources.WithSymbolLogos(sf.SymbolLogos...))
	}
	if len(sf.DomainLogos) > 0 {
		opts = append(opts, sources.WithDomainLogos(sf.DomainLogos...))
	}
	if sf.Screener != nil {
		opts = append(opts, sources.WithScreener(*sf.Screener))
	}
	if sf.Chart != "" {
		opts = append(opts, sources.WithChart(sf.Chart))
	}
	if sf.Targets != nil {
		opts = append(opts, sources.WithTargets(*sf.Targets))
	}
	if len(sf.Watchlist) > 0 {
		opts = append(opts, sources.WithWatchlist(sf.Watchlist...))
	}
	if len(sf.Names) > 0 {
		opts = append(opts, sources.WithNames(sf.Names))
	}
	if len(sf.Domains) > 0 {
		opts = append(opts, sources.WithDomains(sf.Domains))
	}
	if len(sf.Prices) > 0 {
		opts = append(opts, sources.WithPrices(sf.Prices))
	}
	return opts
}

func readCSV(filePath string) ([][]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) == 0 {
			continue
		}
		records = append(records, record)
	}

	// Skip header row if present
	if len(records) > 0 && strings.EqualFold(strings.TrimSpace(records[0][0]), "symbol") {
		records = records[1:]
	}
	return records, nil
}

func column(record []string, i int) string {
	if i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
