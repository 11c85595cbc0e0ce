package search

import (
	"path/filepath"
	"testing"

	"stock-movers/models"
)

var testListings = []models.Listing{
	{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ", Type: "Stock", Domain: "apple.com"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ", Type: "Stock", Domain: "microsoft.com"},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Exchange: "NASDAQ", Type: "Stock", Domain: "amazon.com"},
	{Symbol: "KO", Name: "Coca-Cola Company", Exchange: "NYSE", Type: "Stock", Domain: "coca-colacompany.com"},
}

func openMem(t *testing.T) *Index {
	t.Helper()
	ix, err := Open("", testListings, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestSearchExactSymbolFirst(t *testing.T) {
	ix := openMem(t)

	results := ix.Search("AAPL", 0)
	if len(results) == 0 {
		t.Fatal("Expected results for AAPL")
	}
	if results[0].Symbol != "AAPL" {
		t.Errorf("Expected AAPL first, got %s", results[0].Symbol)
	}
	if results[0].Exchange != "NASDAQ" {
		t.Errorf("Expected stored exchange NASDAQ, got %q", results[0].Exchange)
	}
}

func TestSearchByName(t *testing.T) {
	ix := openMem(t)

	results := ix.Search("microsoft", 5)
	if len(results) == 0 || results[0].Symbol != "MSFT" {
		t.Errorf("Expected MSFT for name query, got %+v", results)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	ix := openMem(t)
	if got := ix.Search("  ", 5); got != nil {
		t.Errorf("Expected no results for blank query, got %+v", got)
	}
}

func TestSearchLimit(t *testing.T) {
	ix := openMem(t)
	if got := ix.Search("a", 1); len(got) > 1 {
		t.Errorf("Expected at most 1 result, got %d", len(got))
	}
}

func TestUpdateMergesRecords(t *testing.T) {
	ix := openMem(t)

	err := ix.Update([]models.StockRecord{
		{Symbol: "AAPL", DisplayName: "Apple", CurrentPrice: 190.5, PercentChange: 2.5, Period: "1D"},
		{Symbol: "NEWCO", DisplayName: "New Company", CurrentPrice: 12, PercentChange: -3, Period: "1D"},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	d := ix.Get("aapl")
	if d == nil {
		t.Fatal("Expected AAPL document")
	}
	if d.Name != "Apple" || d.Price != 190.5 || d.PercentChange != 2.5 || d.Period != "1D" {
		t.Errorf("Unexpected merged document %+v", d)
	}
	if d.Domain != "apple.com" {
		t.Errorf("Expected listing domain to survive the merge, got %q", d.Domain)
	}

	if d := ix.Get("NEWCO"); d == nil || d.Name != "New Company" {
		t.Errorf("Expected unlisted record to be indexed, got %+v", d)
	}

	n, err := ix.Count()
	if err != nil || n != uint64(len(testListings)+1) {
		t.Errorf("Expected %d documents, got %d (%v)", len(testListings)+1, n, err)
	}
}

func TestGetMissing(t *testing.T) {
	ix := openMem(t)
	if d := ix.Get("NOPE"); d != nil {
		t.Errorf("Expected nil, got %+v", d)
	}
	if d := ix.Get(""); d != nil {
		t.Errorf("Expected nil for empty symbol, got %+v", d)
	}
}

func TestOpenExistingIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movers.bleve")

	ix, err := Open(path, testListings, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	ix.Update([]models.StockRecord{{Symbol: "KO", DisplayName: "Coca-Cola", CurrentPrice: 60}})
	if err := ix.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopening must not reseed over the stored record.
	ix, err = Open(path, testListings, nil)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer ix.Close()

	d := ix.Get("KO")
	if d == nil || d.Price != 60 {
		t.Errorf("Expected persisted KO record, got %+v", d)
	}
	if _, ok := ix.Listing("ko"); !ok {
		t.Errorf("Expected listing lookup to work after reopen")
	}
}
