package level

import (
	"sync/atomic"

	"github.com/google/uuid"

	"hati/order"
)

type entryState int32

const (
	entryLive entryState = iota
	// entryFilled entries had their whole quantity consumed.
	entryFilled
	// entryRefilled entries were superseded by a refreshed entry at the
	// back of the queue.
	entryRefilled
	entryCancelled
	entryExpired
)

// entry is a queue node: the immutable descriptor an order was accepted
// with, plus the mutable matching state. visible and hidden are the only
// quantities the matcher and canceller contend on; whoever drains them to
// zero owns the corresponding removal bookkeeping.
type entry struct {
	ord order.Order

	visible atomic.Uint64
	hidden  atomic.Uint64

	// originalVisible is the visible slice size at enqueue; iceberg
	// refills restore up to this amount.
	originalVisible uint64

	// enqueueTick is when this order joined the level; waiting-time
	// statistics use it. Refilled entries inherit it.
	enqueueTick uint64

	state atomic.Int32
	next  atomic.Pointer[entry]
}

func newEntry(o order.Order, tick uint64) *entry {
	e := &entry{
		ord:             o,
		originalVisible: o.VisibleQuantity(),
		enqueueTick:     tick,
	}
	e.visible.Store(o.VisibleQuantity())
	e.hidden.Store(o.HiddenQuantity())
	return e
}

// refilledEntry makes the replacement node for a refill: the refreshed
// visible slice, whatever hidden remains, and the original time fields.
func refilledEntry(prev *entry, visible, hidden uint64) *entry {
	e := &entry{
		ord:             prev.ord,
		originalVisible: prev.originalVisible,
		enqueueTick:     prev.enqueueTick,
	}
	e.visible.Store(visible)
	e.hidden.Store(hidden)
	return e
}

func (e *entry) id() uuid.UUID { return e.ord.ID }

func (e *entry) live() bool {
	return entryState(e.state.Load()) == entryLive
}

// refillable reports whether an emptied visible slice may draw on the
// hidden reserve. Icebergs always refill; reserves only when the order
// asked for automatic replenishment.
func (e *entry) refillable() bool {
	switch e.ord.Kind.Tag {
	case order.KindIceberg:
		return true
	case order.KindReserve:
		return e.ord.Kind.AutoReplenish
	}
	return false
}

// consume atomically takes up to max from the visible slice. emptied is
// true for the single caller whose decrement crossed to zero; that caller
// owns the full-consumption bookkeeping (refill or unlink).
func (e *entry) consume(max uint64) (took uint64, emptied bool) {
	for {
		v := e.visible.Load()
		if v == 0 {
			return 0, false
		}
		take := max
		if v < take {
			take = v
		}
		if e.visible.CompareAndSwap(v, v-take) {
			return take, take == v
		}
	}
}

// claimHidden atomically takes the entire hidden reserve. Exactly one of
// the matcher (refilling) and the canceller gets it.
func (e *entry) claimHidden() uint64 {
	return e.hidden.Swap(0)
}

// kill drains the entry and marks it dead. Draining the visible slice from
// a nonzero value is the commit point: whoever zeroes visible owns the
// entry's removal, and only that owner may touch hidden. A kill that finds
// visible already at zero lost to a matcher (or another canceller) and
// must leave the hidden reserve to the winner's refill logic.
func (e *entry) kill(to entryState) (vis, hid uint64, ok bool) {
	vis = e.visible.Swap(0)
	if vis == 0 {
		return 0, 0, false
	}
	hid = e.hidden.Swap(0)
	e.state.Store(int32(to))
	return vis, hid, true
}

// remainder rebuilds the descriptor with the drained quantities, for
// returning to callers on cancel and removal.
func (e *entry) remainder(vis, hid uint64) order.Order {
	o := e.ord
	if o.Kind.HasReserve() {
		o.Kind.VisibleQty = vis
		o.Kind.HiddenQty = hid
	} else {
		o.Quantity = vis
	}
	return o
}
