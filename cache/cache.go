// Package cache stores resized logo images on disk as <SYMBOL>.png, with a
// bbolt index recording provenance and age for eviction.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/phuslu/log"
	"github.com/zeebo/blake3"
	bolt "go.etcd.io/bbolt"

	"stock-movers/logging"
)

// ErrNotFound is returned when a symbol has no index entry.
var ErrNotFound = errors.New("cache entry not found")

const (
	indexFile = "index.db"
	bucket    = "logos"
)

// encMode produces identical bytes for identical entries.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cache: CBOR encoder initialization failed: " + err.Error())
	}
}

// Entry is the index record for one cached image.
type Entry struct {
	Symbol   string `cbor:"1,keyasint"`
	Source   string `cbor:"2,keyasint"` // URL the image was fetched from
	Size     int64  `cbor:"3,keyasint"`
	Digest   []byte `cbor:"4,keyasint"` // BLAKE3-256 of the stored bytes
	StoredAt int64  `cbor:"5,keyasint"` // unix nanoseconds
}

// Time returns when the entry was written.
func (e Entry) Time() time.Time { return time.Unix(0, e.StoredAt) }

// Disk is safe for concurrent use. Writes for the same symbol race benignly:
// each goes through its own temp file and the last rename wins.
type Disk struct {
	dir    string
	db     *bolt.DB
	now    func() time.Time
	logger *log.Logger
}

// Open creates dir if needed and opens its index.
func Open(dir string, logger *log.Logger) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dir, indexFile), 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache index: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache index: %w", err)
	}

	return &Disk{dir: dir, db: db, now: time.Now, logger: logging.OrDiscard(logger)}, nil
}

// Dir is the directory holding the image files.
func (d *Disk) Dir() string { return d.dir }

// Close releases the index.
func (d *Disk) Close() error { return d.db.Close() }

// Key maps a symbol to its file stem: upper case, with anything outside
// [A-Z0-9._-] replaced so a symbol can never escape the directory.
func Key(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	var b strings.Builder
	for _, r := range symbol {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == '.' && b.Len() > 0:
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Path is where the image for symbol lives, whether or not it exists yet.
func (d *Disk) Path(symbol string) string {
	return filepath.Join(d.dir, Key(symbol)+".png")
}

// Get returns the path of a cached, non-empty image.
func (d *Disk) Get(symbol string) (string, bool) {
	if Key(symbol) == "" {
		return "", false
	}
	p := d.Path(symbol)
	fi, err := os.Stat(p)
	if err != nil || !fi.Mode().IsRegular() || fi.Size() == 0 {
		return "", false
	}
	return p, true
}

// Put stores data for symbol atomically. Storing identical content again is
// a no-op.
func (d *Disk) Put(symbol string, data []byte, source string) error {
	key := Key(symbol)
	if key == "" {
		return fmt.Errorf("invalid symbol %q", symbol)
	}
	if len(data) == 0 {
		return fmt.Errorf("empty image for %s", key)
	}

	sum := blake3.Sum256(data)
	if prev, err := d.Entry(symbol); err == nil && string(prev.Digest) == string(sum[:]) {
		if _, ok := d.Get(symbol); ok {
			return nil
		}
	}

	if err := d.writeFile(key, data); err != nil {
		return err
	}

	entry := Entry{
		Symbol:   key,
		Source:   source,
		Size:     int64(len(data)),
		Digest:   sum[:],
		StoredAt: d.now().UnixNano(),
	}
	raw, err := encMode.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Put([]byte(key), raw)
	})
}

// writeFile writes to a temp file in the same directory and renames it into
// place, so readers never observe a partial image.
func (d *Disk) writeFile(key string, data []byte) error {
	tmp, err := os.CreateTemp(d.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(name, filepath.Join(d.dir, key+".png")); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// Entry returns the index record for symbol.
func (d *Disk) Entry(symbol string) (Entry, error) {
	var e Entry
	err := d.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(bucket)).Get([]byte(Key(symbol)))
		if raw == nil {
			return ErrNotFound
		}
		return cbor.Unmarshal(raw, &e)
	})
	return e, err
}

// Entries lists every index record, oldest first.
func (d *Disk) Entries() ([]Entry, error) {
	var out []Entry
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).ForEach(func(k, v []byte) error {
			var e Entry
			if err := cbor.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("decode entry %s: %w", k, err)
			}
			out = append(out, e)
			return nil
		})
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].StoredAt < out[j].StoredAt })
	return out, err
}

// Prune evicts entries older than maxAge, then the oldest entries until the
// total size is within maxBytes. A zero bound is not enforced.
func (d *Disk) Prune(maxAge time.Duration, maxBytes int64) (int, error) {
	entries, err := d.Entries()
	if err != nil {
		return 0, err
	}

	var total int64
	for _, e := range entries {
		total += e.Size
	}

	cutoff := d.now().Add(-maxAge)
	var victims []Entry
	for _, e := range entries {
		expired := maxAge > 0 && e.Time().Before(cutoff)
		over := maxBytes > 0 && total > maxBytes
		if !expired && !over {
			continue
		}
		victims = append(victims, e)
		total -= e.Size
	}

	removed := 0
	for _, e := range victims {
		if err := os.Remove(filepath.Join(d.dir, e.Symbol+".png")); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("remove %s: %w", e.Symbol, err)
		}
		err := d.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket([]byte(bucket)).Delete([]byte(e.Symbol))
		})
		if err != nil {
			return removed, err
		}
		removed++
		d.logger.Debug().Str("symbol", e.Symbol).Int64("size", e.Size).Msg("evicted logo")
	}
	return removed, nil
}
