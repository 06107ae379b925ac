package track

import "sync/atomic"

// counter is the shared cell behind one category: the registry reads it,
// every tracker and handle minted for the category writes it. Arithmetic
// wraps on overflow.
type counter struct {
	v atomic.Int64
}

func (c *counter) add(delta int64) { c.v.Add(delta) }

func (c *counter) load() int64 { return c.v.Load() }
