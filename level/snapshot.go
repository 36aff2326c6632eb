package level

import (
	"github.com/google/uuid"

	"hati/order"
)

// OrderSummary is one queue position inside a snapshot.
type OrderSummary struct {
	ID          uuid.UUID     `json:"id"`
	VisibleQty  uint64        `json:"visible_qty"`
	Kind        order.KindTag `json:"kind"`
	EnqueueTick uint64        `json:"enqueue_tick"`
}

// Snapshot is an immutable value copy of a level at one instant. It is
// assembled in a single pass over the atomics and the queue and outlives
// the level safely.
//
// Consistency: causal per field. Aggregates may run ahead of or behind the
// order list by whatever operations were in flight during the pass. The
// Stats counters never move backwards between successive snapshots unless
// Statistics.Reset is called; the quantities, order count and order list
// go down as orders trade or leave. Callers that need a linearizable view
// must quiesce the level first.
type Snapshot struct {
	Price           uint64             `json:"price"`
	Side            order.Side         `json:"side"`
	VisibleQuantity uint64             `json:"visible_qty"`
	HiddenQuantity  uint64             `json:"hidden_qty"`
	OrderCount      int                `json:"order_count"`
	Orders          []OrderSummary     `json:"orders"`
	Stats           StatisticsSnapshot `json:"stats"`
}

// TotalQuantity is visible plus hidden as captured.
func (s Snapshot) TotalQuantity() uint64 {
	return s.VisibleQuantity + s.HiddenQuantity
}

// Snapshot captures the level for external consumers.
func (l *PriceLevel) Snapshot() Snapshot {
	snap := Snapshot{
		Price:           l.price,
		Side:            l.side,
		VisibleQuantity: l.visibleTotal.Load(),
		HiddenQuantity:  l.hiddenTotal.Load(),
		OrderCount:      int(l.orderCount.Load()),
		Stats:           l.stats.Snapshot(),
	}
	l.orders.iterate(func(e *entry) bool {
		snap.Orders = append(snap.Orders, OrderSummary{
			ID:          e.id(),
			VisibleQty:  e.visible.Load(),
			Kind:        e.ord.Kind.Tag,
			EnqueueTick: e.enqueueTick,
		})
		return true
	})
	return snap
}
