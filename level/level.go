// Package level implements the concurrent price level: all resting orders
// at one price on one side of the book, matched under strict price/time
// priority without coarse-grained locks.
package level

import (
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hati/execution"
	"hati/order"
)

// PriceLevel holds every resting order at one price on one side of the
// book. All operations are safe for concurrent use by maker, taker and
// canceller goroutines; nothing blocks, every call completes in a bounded
// number of CAS retries.
type PriceLevel struct {
	price uint64
	side  order.Side

	visibleTotal atomic.Uint64
	hiddenTotal  atomic.Uint64
	orderCount   atomic.Int64

	orders *queue
	stats  *Statistics
	expiry *expiryIndex

	// sessionClose is the Day-order expiry authority. Zero until the
	// caller defines the day.
	sessionClose atomic.Uint64

	ids *order.IDGenerator
	seq *execution.Sequence
	log zerolog.Logger
}

// NewPriceLevel creates an empty level. The logger is disabled and the
// transaction sequence is private until the caller says otherwise.
func NewPriceLevel(price uint64, side order.Side) *PriceLevel {
	return &PriceLevel{
		price:  price,
		side:   side,
		orders: newQueue(),
		stats:  NewStatistics(),
		expiry: newExpiryIndex(),
		ids:    order.NewIDGenerator(uuid.New()),
		seq:    &execution.Sequence{},
		log:    zerolog.Nop(),
	}
}

// SetLogger attaches a structured logger for add/match/cancel events.
func (l *PriceLevel) SetLogger(log zerolog.Logger) {
	l.log = log.With().Uint64("price", l.price).Stringer("side", l.side).Logger()
}

// SetSequence shares a transaction id sequence across levels.
func (l *PriceLevel) SetSequence(seq *execution.Sequence) {
	l.seq = seq
}

// SetSessionClose defines the tick at which Day orders expire. The caller
// owns the notion of a trading day; the level never consults a clock.
func (l *PriceLevel) SetSessionClose(tick uint64) {
	l.sessionClose.Store(tick)
}

func (l *PriceLevel) Price() uint64           { return l.price }
func (l *PriceLevel) Side() order.Side        { return l.side }
func (l *PriceLevel) Stats() *Statistics      { return l.stats }
func (l *PriceLevel) VisibleQuantity() uint64 { return l.visibleTotal.Load() }
func (l *PriceLevel) HiddenQuantity() uint64  { return l.hiddenTotal.Load() }

// TotalQuantity is visible plus hidden, each read once.
func (l *PriceLevel) TotalQuantity() uint64 {
	return l.visibleTotal.Load() + l.hiddenTotal.Load()
}

func (l *PriceLevel) OrderCount() int {
	return int(l.orderCount.Load())
}

// AddOrder validates and enqueues a maker. tick is the caller's monotonic
// millisecond counter. aboutToCross is the caller's signal that the
// opposite side could trade at this price right now; post-only orders are
// rejected on it before any state changes. Returns the order id, minting
// one when the descriptor arrives without.
func (l *PriceLevel) AddOrder(o order.Order, tick uint64, aboutToCross bool) (uuid.UUID, error) {
	if err := o.Validate(); err != nil {
		return uuid.Nil, err
	}
	if o.Price != l.price {
		return uuid.Nil, ErrPriceMismatch
	}
	if o.TIF.IsExpired(tick, l.sessionClose.Load()) {
		return uuid.Nil, order.ErrExpired
	}
	if o.Kind.Tag == order.KindPostOnly && aboutToCross {
		return uuid.Nil, ErrPostOnlyWouldCross
	}

	if o.ID == uuid.Nil {
		o.ID = l.ids.Next()
	}
	if o.Timestamp == 0 {
		o.Timestamp = tick
	}

	e := newEntry(o, tick)
	l.orders.enqueue(e)
	l.visibleTotal.Add(o.VisibleQuantity())
	l.hiddenTotal.Add(o.HiddenQuantity())
	l.orderCount.Add(1)
	l.stats.RecordOrderAdded(tick)

	if o.TIF.HasExpiry() {
		l.expiry.insert(l.deadlineFor(o), o.ID)
	}

	l.log.Debug().
		Stringer("order", o.ID).
		Uint64("visible", o.VisibleQuantity()).
		Uint64("hidden", o.HiddenQuantity()).
		Msg("order added")
	return o.ID, nil
}

// CancelOrder removes a resting order. The second return is false when
// the order is unknown, already gone, or lost the race against a matcher
// that consumed it; speculative cancels are expected and benign. On
// success the returned descriptor carries the unfilled remainder.
func (l *PriceLevel) CancelOrder(id uuid.UUID) (order.Order, bool) {
	e, ok := l.orders.lookup(id)
	if !ok {
		return order.Order{}, false
	}
	vis, hid, ok := e.kill(entryCancelled)
	if !ok {
		return order.Order{}, false
	}
	l.orders.forget(e)
	l.discount(vis, hid)
	l.orderCount.Add(-1)
	l.stats.RecordOrderRemoved()

	l.log.Debug().Stringer("order", id).Uint64("visible", vis).Uint64("hidden", hid).Msg("order cancelled")
	return e.remainder(vis, hid), true
}

// UpdateOrder applies a modification request. Quantity-only updates adjust
// the resting order in place. Updates that change the price cannot stay at
// this level: the order is removed and its current descriptor returned so
// the caller can re-insert it at the right level. Cancel requests behave
// like CancelOrder but report ErrNotFound.
func (l *PriceLevel) UpdateOrder(u order.Update) (*order.Order, error) {
	switch u.Kind {
	case order.UpdateCancel:
		removed, ok := l.CancelOrder(u.OrderID)
		if !ok {
			return nil, ErrNotFound
		}
		return &removed, nil

	case order.UpdatePrice, order.UpdatePriceAndQuantity, order.UpdateReplace:
		if !u.ChangesPrice(l.price) {
			if u.Kind == order.UpdatePrice {
				// Same-price update is a no-op here and a likely caller bug.
				return nil, ErrPriceMismatch
			}
			return l.resize(u.OrderID, u.NewQuantity)
		}
		removed, ok := l.CancelOrder(u.OrderID)
		if !ok {
			return nil, ErrNotFound
		}
		return &removed, nil

	case order.UpdateQuantity:
		return l.resize(u.OrderID, u.NewQuantity)
	}
	return nil, order.ErrInvalidDescriptor
}

// resize sets a resting order's visible quantity, keeping its queue
// position and hidden reserve.
func (l *PriceLevel) resize(id uuid.UUID, quantity uint64) (*order.Order, error) {
	if quantity == 0 {
		return nil, order.ErrZeroQuantity
	}
	e, ok := l.orders.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	for {
		v := e.visible.Load()
		if v == 0 || !e.live() {
			return nil, ErrNotFound
		}
		if e.visible.CompareAndSwap(v, quantity) {
			if quantity > v {
				l.visibleTotal.Add(quantity - v)
			} else {
				l.visibleTotal.Add(^(v - quantity - 1))
			}
			updated := e.remainder(quantity, e.hidden.Load())
			return &updated, nil
		}
	}
}

// deadlineFor places an order in the expiry index. Day orders with no
// session close yet sit in the unresolved bucket at the top of the key
// space and are only swept once the caller defines the close.
func (l *PriceLevel) deadlineFor(o order.Order) uint64 {
	switch o.TIF.Policy {
	case order.GoodTillDate:
		return o.TIF.ExpireTick
	case order.Day:
		if close := l.sessionClose.Load(); close > 0 {
			return close
		}
		return unresolvedDeadline
	}
	return unresolvedDeadline
}

// discount subtracts drained quantities from the aggregates.
func (l *PriceLevel) discount(vis, hid uint64) {
	if vis > 0 {
		l.visibleTotal.Add(^(vis - 1))
	}
	if hid > 0 {
		l.hiddenTotal.Add(^(hid - 1))
	}
}
