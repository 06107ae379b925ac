package track

import "sync/atomic"

// Count marks the existence of one tracked resource. It carries no other
// state and supports no adjustment: construction added one to the category
// total, [Count.Release] subtracts it again.
type Count struct {
	total    *counter
	released atomic.Bool
}

// Release gives the unit back. Exactly once: further calls are no-ops.
// Safe to call from any goroutine.
func (c *Count) Release() {
	if c.released.Swap(true) {
		return
	}
	c.total.add(-1)
}

// Size tracks a variable quantity of one resource, such as the byte size of
// a buffer that grows and shrinks. The handle remembers its own net
// contribution to the category total; [Size.Release] reverses exactly that
// net, so concurrent handles on the same category never disturb each other.
//
// A Size belongs to one goroutine at a time. [Size.Add], [Size.Subtract],
// [Size.Set] and [Size.Held] are not synchronized against each other, and a
// handle must not be used after Release.
type Size struct {
	total    *counter
	held     int64
	released atomic.Bool
}

// Add applies delta to the quantity. Negative deltas shrink it.
func (s *Size) Add(delta int64) {
	s.total.add(delta)
	s.held += delta
}

// Subtract shrinks the quantity by delta. Equivalent to Add(-delta); the
// quantity may go negative, which indicates a bookkeeping bug in the caller.
func (s *Size) Subtract(delta int64) {
	s.Add(-delta)
}

// Set replaces the quantity, adjusting the category total by the difference.
// Equivalent to Add(quantity - Held()).
func (s *Size) Set(quantity int64) {
	s.Add(quantity - s.held)
}

// Held reports the handle's current net contribution to the category total.
// This is the handle's own quantity, not the category total; use
// [Tracker.Value] or [Registry.ReadCounts] for totals.
func (s *Size) Held() int64 {
	return s.held
}

// Release gives the quantity back, whatever it is by now. Exactly once:
// further calls are no-ops.
func (s *Size) Release() {
	if s.released.Swap(true) {
		return
	}
	s.total.add(-s.held)
}
