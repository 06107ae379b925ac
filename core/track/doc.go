// Package track provides lightweight accounting of live resources.
//
// Programs hold many instances of interesting things: connections, buffers,
// cached entries, in-flight requests. Package track answers "how many of
// these exist right now" and "how much of this is there right now" with one
// atomic add per change and one atomic load per read.
//
// A [Registry] maps caller-defined categories to shared counters. A category
// is any comparable value; a small string or integer enum works well.
// [Registry.Category] returns a [Tracker] for one category, materializing the
// category at zero on first use. Trackers mint scope-bound handles:
//
//   - [Tracker.Track] returns a [Count]: the category total goes up by one
//     immediately and comes back down on [Count.Release].
//   - [Tracker.TrackSized] returns a [Size], carrying a variable quantity.
//     [Size.Add], [Size.Subtract] and [Size.Set] adjust the quantity during
//     the handle's life; [Size.Release] reverses the handle's net
//     contribution, whatever it is by then.
//
// Attach a handle to the resource it describes and release it when the
// resource goes away:
//
//	type category string
//
//	const (
//		catConns   category = "connections"
//		catBuffers category = "buffers"
//	)
//
//	reg := track.NewRegistry[category]()
//	conns := reg.Category(catConns)
//
//	type conn struct {
//		net.Conn
//		tracked *track.Count
//	}
//
//	c := &conn{Conn: raw, tracked: conns.Track()}
//	// ... later, when the connection closes:
//	c.tracked.Release()
//
// # Reading counts
//
// [Registry.ReadCounts] snapshots every materialized category and its current
// total. Only categories that were requested at least once appear, in no
// particular order. Each value is exact for its category at the instant it
// was loaded, but there is no consistency across categories: handles keep
// moving counters while the snapshot is assembled. That is the intended
// trade-off for counters that are read by periodic logging and metrics.
//
// # Accuracy
//
// Counters are signed 64-bit and wrap on overflow, like sync/atomic does.
// Nothing stops a caller from driving a total negative through [Size]
// adjustments; a negative total indicates a bookkeeping bug in the caller,
// not a library failure. A handle that is never released keeps its
// contribution in the total forever. There are no finalizers.
//
// # Performance
//
// [Registry.Category] takes the registry mutex. Hot paths should call it once
// and keep the returned [Tracker]: trackers are small values, cheap to copy,
// safe for concurrent use, and never touch the mutex again.
package track
