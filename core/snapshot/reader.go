package snapshot

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/momentohq/resourcetrack/core/track"
)

// ReaderOption configures a Reader.
type ReaderOption func(*readerConfig)

type readerConfig struct {
	maxStaleness time.Duration
}

// WithMaxStaleness lets the reader answer from a cached snapshot no older
// than d instead of reading the source (default: 0, every read reaches the
// source).
func WithMaxStaleness(d time.Duration) ReaderOption {
	return func(c *readerConfig) {
		if d > 0 {
			c.maxStaleness = d
		}
	}
}

// Reader serves snapshots of one [Source] to many concurrent consumers.
//
// Every read of a registry takes the registry mutex, so scrape endpoints,
// report loops and debug handlers polling the same registry contend with
// each other and with category materialization. A Reader collapses
// concurrent reads into a single source read; with [WithMaxStaleness] it
// additionally caches the last snapshot for a bounded time.
//
// A Reader is itself a [Source], so it drops in wherever one is polled.
type Reader[C comparable] struct {
	src          Source[C]
	maxStaleness time.Duration

	group singleflight.Group

	mu   sync.RWMutex
	last Snapshot[C]
}

var _ Source[string] = (*Reader[string])(nil)

// NewReader creates a Reader over src.
func NewReader[C comparable](src Source[C], opts ...ReaderOption) *Reader[C] {
	cfg := &readerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Reader[C]{
		src:          src,
		maxStaleness: cfg.maxStaleness,
	}
}

// Read returns a snapshot of the source. Calls that arrive while a source
// read is in flight receive that read's result instead of starting their
// own.
func (r *Reader[C]) Read() Snapshot[C] {
	if r.maxStaleness > 0 {
		r.mu.RLock()
		last := r.last
		r.mu.RUnlock()
		if !last.At.IsZero() && time.Since(last.At) <= r.maxStaleness {
			return last
		}
	}

	v, _, _ := r.group.Do("read", func() (any, error) {
		snap := Take(r.src)
		r.mu.Lock()
		r.last = snap
		r.mu.Unlock()
		return snap, nil
	})
	return v.(Snapshot[C])
}

// ReadCounts reads the source through the deduplicating path.
func (r *Reader[C]) ReadCounts() []track.CategoryCount[C] {
	return r.Read().Counts
}
