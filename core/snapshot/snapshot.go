// Package snapshot carries point-in-time count snapshots from a registry to
// their consumers.
//
// [Source] is the reading side every consumer accepts; *track.Registry
// satisfies it structurally. [Take] stamps a read with the wall clock.
// [Reader] sits in front of a Source when many consumers poll it
// concurrently: it collapses simultaneous reads into one and can serve a
// bounded-staleness cached snapshot.
package snapshot

import (
	"time"

	"github.com/momentohq/resourcetrack/core/track"
)

// Source yields the current totals of every materialized category.
// *track.Registry is the canonical implementation; [Reader] is a caching one.
type Source[C comparable] interface {
	ReadCounts() []track.CategoryCount[C]
}

// Snapshot is one read of a [Source], stamped with the time it was taken.
// Counts carry no ordering and no cross-category consistency; see
// [track.Registry.ReadCounts].
type Snapshot[C comparable] struct {
	// At is when the read happened.
	At time.Time `json:"at"`
	// Counts holds every materialized category and its total at that time.
	Counts []track.CategoryCount[C] `json:"counts"`
}

// Take reads src now.
func Take[C comparable](src Source[C]) Snapshot[C] {
	return Snapshot[C]{At: time.Now(), Counts: src.ReadCounts()}
}

// Get returns the count recorded for id and whether the category was present
// in the snapshot at all.
func (s Snapshot[C]) Get(id C) (int64, bool) {
	for _, c := range s.Counts {
		if c.Category == id {
			return c.Count, true
		}
	}
	return 0, false
}

// Len returns the number of categories in the snapshot.
func (s Snapshot[C]) Len() int { return len(s.Counts) }
