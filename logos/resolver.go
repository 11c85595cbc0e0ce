// Package logos finds a logo image for a symbol, preferring the disk cache
// and otherwise walking an ordered list of candidate locations.
package logos

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"sync"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"stock-movers/logging"
	"stock-movers/models"
	"stock-movers/sources"
)

// Store is the persistent image cache.
type Store interface {
	Get(symbol string) (path string, ok bool)
	Put(symbol string, data []byte, source string) error
}

// Fetcher downloads a URL. webclient.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Resolver tries candidates one at a time so that at most one logo request
// per symbol is in flight.
type Resolver struct {
	set     *sources.Set
	fetch   Fetcher
	store   Store
	timeout time.Duration
	size    int
	minSize int
	logger  *log.Logger

	pending sync.WaitGroup
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout bounds each candidate request. Defaults to 3s.
func WithTimeout(d time.Duration) Option { return func(r *Resolver) { r.timeout = d } }

// WithSize sets the edge length of the stored square image. Defaults to 64.
func WithSize(px int) Option { return func(r *Resolver) { r.size = px } }

// WithMinSize rejects images narrower than px, such as placeholder favicons.
func WithMinSize(px int) Option { return func(r *Resolver) { r.minSize = px } }

func WithLogger(l *log.Logger) Option { return func(r *Resolver) { r.logger = l } }

// NewResolver builds a Resolver. store may be nil to disable caching.
func NewResolver(set *sources.Set, fetch Fetcher, store Store, opts ...Option) *Resolver {
	r := &Resolver{
		set:     set,
		fetch:   fetch,
		store:   store,
		timeout: 3 * time.Second,
		size:    64,
		minSize: 16,
	}
	for _, o := range opts {
		o(r)
	}
	r.logger = logging.OrDiscard(r.logger)
	return r
}

// Resolve returns nil when no candidate yields an image; callers show a
// placeholder.
func (r *Resolver) Resolve(ctx context.Context, symbol, name string) *models.LogoRef {
	symbol = sources.Key(symbol)

	if r.store != nil {
		if p, ok := r.store.Get(symbol); ok {
			return &models.LogoRef{Path: p}
		}
	}

	for _, c := range Candidates(r.set, symbol, name) {
		if ctx.Err() != nil {
			return nil
		}
		data, err := r.try(ctx, c.URL)
		if err != nil {
			r.logger.Debug().Str("symbol", symbol).Str("kind", c.Kind).Str("url", c.URL).Err(err).Msg("logo candidate failed")
			continue
		}
		r.persist(symbol, data, c.URL)
		return &models.LogoRef{URL: c.URL}
	}
	return nil
}

// try fetches one candidate and returns it re-encoded as a square PNG.
func (r *Resolver) try(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.fetch.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if w := img.Bounds().Dx(); w < r.minSize {
		return nil, fmt.Errorf("image too small: %dpx", w)
	}
	return Thumbnail(img, r.size)
}

// persist writes the image in the background.
func (r *Resolver) persist(symbol string, data []byte, source string) {
	if r.store == nil {
		return
	}
	r.pending.Add(1)
	go func() {
		defer r.pending.Done()
		if err := r.store.Put(symbol, data, source); err != nil {
			r.logger.Warn().Str("symbol", symbol).Err(err).Msg("failed to cache logo")
		}
	}()
}

// Wait blocks until every background cache write has finished.
func (r *Resolver) Wait() {
	r.pending.Wait()
}

// Thumbnail scales img to fit a size x size transparent square, keeping its
// aspect ratio, and encodes it as PNG.
func Thumbnail(img image.Image, size int) ([]byte, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty image")
	}

	tw, th := size, size
	if w > h {
		th = max(1, h*size/w)
	} else if h > w {
		tw = max(1, w*size/h)
	}
	off := image.Pt((size-tw)/2, (size-th)/2)

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, image.Rectangle{Min: off, Max: off.Add(image.Pt(tw, th))}, img, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
