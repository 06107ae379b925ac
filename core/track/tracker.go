package track

// Tracker mints tracking handles for a single category.
//
// A Tracker is a small value: copy it freely, share it between goroutines,
// embed it in pools and factories. All trackers for equal category ids write
// the same shared counter. The zero Tracker is not usable; obtain one via
// [Registry.Category].
type Tracker struct {
	total *counter
}

// Track records one unit of presence. The category total goes up by one
// before Track returns; it comes back down when the handle is released.
func (t Tracker) Track() *Count {
	t.total.add(1)
	return &Count{total: t.total}
}

// TrackSized records a quantity of initial units. The category total goes up
// by initial before TrackSized returns. Zero and negative values are
// permitted; the registry does not enforce non-negativity.
func (t Tracker) TrackSized(initial int64) *Size {
	t.total.add(initial)
	return &Size{total: t.total, held: initial}
}

// Value reads the category's current total. One atomic load, no registry
// lock.
func (t Tracker) Value() int64 {
	return t.total.load()
}
