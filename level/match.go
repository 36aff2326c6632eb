package level

import (
	"hati/execution"
	"hati/order"
)

// MatchOrder walks the queue front to back, consuming visible slices under
// strict time priority until the taker is satisfied or the level is dry.
// The call never fails; an empty result with status "none" means no
// liquidity. Transactions are emitted in consumption order and are owned
// by the caller.
//
// Concurrent MatchOrder calls serialize per consumption event: each
// maker slice is consumed by exactly one taker. Whole calls do not
// serialize against each other.
func (l *PriceLevel) MatchOrder(taker order.Order, tick uint64) execution.MatchResult {
	result := execution.NewMatchResult(taker.ID, taker.TotalQuantity())
	if taker.TotalQuantity() == 0 {
		result.Finish()
		return result
	}

	// FOK pre-walk: confirm the full quantity is reachable before touching
	// anything. The walk counts refill-eligible hidden reserve because the
	// loop below would surface it. The check and the consumption are not
	// one atomic step; concurrent cancellers can still starve a FOK that
	// passed the walk.
	if taker.TIF.Policy == order.FillOrKill && l.available(taker.TotalQuantity()) < taker.TotalQuantity() {
		result.Reject(Tag(ErrNotEnoughLiquidity))
		return result
	}

	for result.RemainingQuantity > 0 {
		maker := l.orders.front()
		if maker == nil {
			break
		}
		took, emptied := maker.consume(result.RemainingQuantity)
		if took == 0 {
			// Lost the slice to a concurrent taker or canceller.
			continue
		}
		l.visibleTotal.Add(^(took - 1))

		result.Add(execution.Transaction{
			ID:         l.seq.Next(),
			MakerID:    maker.id(),
			TakerID:    taker.ID,
			Price:      l.price,
			Quantity:   took,
			TakerSide:  taker.Side,
			ExecutedAt: tick,
		})

		if emptied {
			l.settleEmptied(maker, took, tick, &result)
		} else {
			l.stats.RecordExecution(took, l.price, tick, maker.enqueueTick, false)
			l.maybeReplenish(maker)
		}
	}

	result.Finish()
	if len(result.Transactions) > 0 {
		l.log.Debug().
			Stringer("taker", taker.ID).
			Uint64("filled", result.FilledQuantity).
			Uint64("remaining", result.RemainingQuantity).
			Int("transactions", len(result.Transactions)).
			Msg("match")
	}
	return result
}

// settleEmptied is run by the single consumer that drained the maker's
// visible slice. Icebergs and auto-replenish reserves refill from hidden
// and re-enter at the back of the queue with fresh time priority; anything
// else is unlinked as fully executed.
func (l *PriceLevel) settleEmptied(maker *entry, took, tick uint64, result *execution.MatchResult) {
	hid := maker.claimHidden()
	if hid > 0 && maker.refillable() {
		refill := maker.ord.Kind.ReplenishQty(maker.originalVisible)
		if refill > hid {
			refill = hid
		}
		// The replacement is fully formed before it is published, so an
		// observer sees either the old slice or the refilled one, never a
		// torn intermediate.
		l.orders.enqueue(refilledEntry(maker, refill, hid-refill))
		maker.state.Store(int32(entryRefilled))
		l.hiddenTotal.Add(^(refill - 1))
		l.visibleTotal.Add(refill)
		l.stats.RecordExecution(took, l.price, tick, maker.enqueueTick, false)
		return
	}

	if hid > 0 {
		// Reserve without auto-replenish: the hidden remainder leaves the
		// book with the order.
		l.hiddenTotal.Add(^(hid - 1))
	}
	maker.state.Store(int32(entryFilled))
	l.orders.forget(maker)
	l.orderCount.Add(-1)
	result.AddFilled(maker.id())
	l.stats.RecordExecution(took, l.price, tick, maker.enqueueTick, true)
}

// maybeReplenish handles the reserve mid-slice rule: when a partial fill
// drags the visible slice below the replenish threshold, an auto-replenish
// reserve tops back up from hidden and moves to the back of the queue.
func (l *PriceLevel) maybeReplenish(maker *entry) {
	k := maker.ord.Kind
	if k.Tag != order.KindReserve || !k.AutoReplenish {
		return
	}
	v := maker.visible.Load()
	if v == 0 || v >= k.SafeThreshold() {
		return
	}
	if maker.hidden.Load() == 0 {
		return
	}
	// Claim the remaining slice; losing the race means someone else is
	// already settling this entry.
	if !maker.visible.CompareAndSwap(v, 0) {
		return
	}
	hid := maker.claimHidden()
	topUp := k.ReplenishQty(maker.originalVisible)
	if topUp > hid {
		topUp = hid
	}
	l.orders.enqueue(refilledEntry(maker, v+topUp, hid-topUp))
	maker.state.Store(int32(entryRefilled))
	if topUp > 0 {
		l.hiddenTotal.Add(^(topUp - 1))
		l.visibleTotal.Add(topUp)
	}
}

// available sums what a taker of the given size could reach: live visible
// slices plus the hidden reserve of orders that would refill during the
// walk.
func (l *PriceLevel) available(need uint64) uint64 {
	var total uint64
	l.orders.iterate(func(e *entry) bool {
		total += e.visible.Load()
		if e.refillable() {
			total += e.hidden.Load()
		}
		return total < need
	})
	return total
}
