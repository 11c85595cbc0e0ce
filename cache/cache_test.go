package cache

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func setupTestCache(t *testing.T) *Disk {
	t.Helper()
	d, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestPutGet(t *testing.T) {
	d := setupTestCache(t)

	if _, ok := d.Get("AAPL"); ok {
		t.Fatal("Expected miss on empty cache")
	}
	if err := d.Put("aapl", []byte("png-bytes"), "https://example.com/aapl.png"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	p, ok := d.Get("AAPL")
	if !ok {
		t.Fatal("Expected hit after Put")
	}
	if filepath.Base(p) != "AAPL.png" {
		t.Errorf("Expected AAPL.png, got %s", p)
	}
	data, _ := os.ReadFile(p)
	if !bytes.Equal(data, []byte("png-bytes")) {
		t.Errorf("Unexpected content %q", data)
	}

	e, err := d.Entry("AAPL")
	if err != nil {
		t.Fatalf("Entry failed: %v", err)
	}
	if e.Source != "https://example.com/aapl.png" || e.Size != 9 || len(e.Digest) != 32 {
		t.Errorf("Unexpected entry %+v", e)
	}
}

func TestEntryNotFound(t *testing.T) {
	d := setupTestCache(t)
	if _, err := d.Entry("NOPE"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPutLeavesNoTempFiles(t *testing.T) {
	d := setupTestCache(t)
	for i := 0; i < 3; i++ {
		if err := d.Put("MSFT", []byte(fmt.Sprintf("v%d", i)), "src"); err != nil {
			t.Fatal(err)
		}
	}
	files, _ := os.ReadDir(d.Dir())
	for _, f := range files {
		if strings.HasSuffix(f.Name(), ".tmp") {
			t.Errorf("Leftover temp file %s", f.Name())
		}
	}
	data, _ := os.ReadFile(d.Path("MSFT"))
	if string(data) != "v2" {
		t.Errorf("Expected last write to win, got %q", data)
	}
}

func TestConcurrentPutSameSymbol(t *testing.T) {
	d := setupTestCache(t)
	content := []byte("identical-logo")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.Put("NVDA", content, "src"); err != nil {
				t.Errorf("Put failed: %v", err)
			}
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(d.Path("NVDA"))
	if err != nil || !bytes.Equal(data, content) {
		t.Errorf("Expected intact content, got %q (%v)", data, err)
	}
}

func TestKeySanitizes(t *testing.T) {
	tests := map[string]string{
		"brk.b":   "BRK.B",
		" aapl ":  "AAPL",
		"../etc":  "_._ETC",
		"a/b":     "A_B",
		".hidden": "_HIDDEN",
		"RDS-A":   "RDS-A",
		"":        "",
	}
	for in, want := range tests {
		if got := Key(in); got != want {
			t.Errorf("Key(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPutRejectsEmpty(t *testing.T) {
	d := setupTestCache(t)
	if err := d.Put("X", nil, "src"); err == nil {
		t.Error("Expected error for empty image")
	}
	if err := d.Put("", []byte("x"), "src"); err == nil {
		t.Error("Expected error for empty symbol")
	}
}

func TestPruneByAge(t *testing.T) {
	d := setupTestCache(t)
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	d.now = func() time.Time { return now.Add(-48 * time.Hour) }
	d.Put("OLD", []byte("old"), "src")
	d.now = func() time.Time { return now }
	d.Put("NEW", []byte("new"), "src")

	removed, err := d.Prune(24*time.Hour, 0)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 removal, got %d", removed)
	}
	if _, ok := d.Get("OLD"); ok {
		t.Error("Expected OLD to be evicted")
	}
	if _, ok := d.Get("NEW"); !ok {
		t.Error("Expected NEW to survive")
	}
	if _, err := d.Entry("OLD"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected OLD index entry removed, got %v", err)
	}
}

func TestPruneBySize(t *testing.T) {
	d := setupTestCache(t)
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	for i, sym := range []string{"A", "B", "C"} {
		ts := base.Add(time.Duration(i) * time.Minute)
		d.now = func() time.Time { return ts }
		d.Put(sym, bytes.Repeat([]byte{'x'}, 10), "src")
	}

	removed, err := d.Prune(0, 20)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 removal, got %d", removed)
	}
	if _, ok := d.Get("A"); ok {
		t.Error("Expected oldest entry A to be evicted")
	}
	entries, _ := d.Entries()
	if len(entries) != 2 || entries[0].Symbol != "B" {
		t.Errorf("Unexpected remaining entries %+v", entries)
	}
}
