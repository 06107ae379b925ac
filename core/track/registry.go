package track

import (
	"fmt"
	"strings"
	"sync"
)

// Registry maps categories to their shared counters. The zero value is not
// usable; create one with [NewRegistry].
type Registry[C comparable] struct {
	mu         sync.Mutex
	categories map[C]*counter
}

// CategoryCount is one category's total at the instant it was read.
type CategoryCount[C comparable] struct {
	// Category is the caller-defined identifier.
	Category C `json:"category"`
	// Count is the current total for the category.
	Count int64 `json:"count"`
}

// NewRegistry creates an empty registry.
func NewRegistry[C comparable]() *Registry[C] {
	return &Registry[C]{categories: make(map[C]*counter)}
}

// Category returns the tracker for id, materializing the category at zero on
// first use. Equal ids always yield trackers over the same counter, so an
// increment through one tracker is visible through every other and through
// [Registry.ReadCounts].
//
// The lookup takes the registry mutex. Call it once per category and keep the
// tracker; tracker operations are lock-free.
func (r *Registry[C]) Category(id C) Tracker {
	r.mu.Lock()
	c := r.getOrCreateLocked(id)
	r.mu.Unlock()
	return Tracker{total: c}
}

func (r *Registry[C]) getOrCreateLocked(id C) *counter {
	c, ok := r.categories[id]
	if ok {
		return c
	}

	c = &counter{}
	r.categories[id] = c
	return c
}

// ReadCounts returns the current total of every materialized category, in no
// particular order. Categories never passed to [Registry.Category] do not
// appear; a fresh registry yields an empty slice. Values are loaded while the
// table is locked against inserts, but live handles keep updating counters
// concurrently, so there is no consistency guarantee across categories.
func (r *Registry[C]) ReadCounts() []CategoryCount[C] {
	r.mu.Lock()
	counts := make([]CategoryCount[C], 0, len(r.categories))
	for id, c := range r.categories {
		counts = append(counts, CategoryCount[C]{Category: id, Count: c.load()})
	}
	r.mu.Unlock()
	return counts
}

// String renders the current table for debug output.
func (r *Registry[C]) String() string {
	r.mu.Lock()
	m := make(map[C]int64, len(r.categories))
	for id, c := range r.categories {
		m[id] = c.load()
	}
	r.mu.Unlock()
	// fmt prints map keys in sorted order, which keeps the output stable.
	return "track.Registry" + strings.TrimPrefix(fmt.Sprintf("%v", m), "map")
}
