package level

import (
	"math"
	"math/bits"
	"sync/atomic"
)

// Statistics is the per-level execution counter block. Every field is an
// independent atomic; no cross-field consistency is promised. Derived
// values read two or more counters and are monotone-valid but not
// transactional.
type Statistics struct {
	ordersAdded    atomic.Uint64
	ordersRemoved  atomic.Uint64
	ordersExecuted atomic.Uint64

	quantityExecuted atomic.Uint64
	valueExecuted    atomic.Uint64
	valueOverflows   atomic.Uint64

	sumWaitingTime    atomic.Uint64
	lastExecutionTick atomic.Uint64
	firstArrivalTick  atomic.Uint64
}

// NewStatistics returns an empty counter block.
func NewStatistics() *Statistics {
	return &Statistics{}
}

// RecordOrderAdded bumps the add counter and pins the first arrival tick.
func (s *Statistics) RecordOrderAdded(tick uint64) {
	s.ordersAdded.Add(1)
	s.firstArrivalTick.CompareAndSwap(0, tick)
}

// RecordOrderRemoved counts a removal without execution (cancel, expiry).
func (s *Statistics) RecordOrderRemoved() {
	s.ordersRemoved.Add(1)
}

// RecordExecution counts one consumption event. fullyConsumed is set by
// the single caller that drained the maker's last visible unit with no
// refill; only that event advances the executed-order count and the
// waiting-time sum.
func (s *Statistics) RecordExecution(qty, price, tick, enqueueTick uint64, fullyConsumed bool) {
	s.quantityExecuted.Add(qty)
	s.addValue(qty, price)
	s.storeMaxTick(tick)
	if fullyConsumed {
		s.ordersExecuted.Add(1)
		if tick > enqueueTick {
			s.sumWaitingTime.Add(tick - enqueueTick)
		}
	}
}

// addValue accumulates qty*price, saturating at the maximum instead of
// wrapping. Saturation is observable through Overflows.
func (s *Statistics) addValue(qty, price uint64) {
	hi, lo := bits.Mul64(qty, price)
	for {
		cur := s.valueExecuted.Load()
		if cur == math.MaxUint64 {
			s.valueOverflows.Add(1)
			return
		}
		sum := cur + lo
		if hi != 0 || sum < cur {
			if s.valueExecuted.CompareAndSwap(cur, math.MaxUint64) {
				s.valueOverflows.Add(1)
				return
			}
			continue
		}
		if s.valueExecuted.CompareAndSwap(cur, sum) {
			return
		}
	}
}

// storeMaxTick advances lastExecutionTick monotonically via CAS.
func (s *Statistics) storeMaxTick(tick uint64) {
	for {
		cur := s.lastExecutionTick.Load()
		if tick <= cur {
			return
		}
		if s.lastExecutionTick.CompareAndSwap(cur, tick) {
			return
		}
	}
}

func (s *Statistics) OrdersAdded() uint64      { return s.ordersAdded.Load() }
func (s *Statistics) OrdersRemoved() uint64    { return s.ordersRemoved.Load() }
func (s *Statistics) OrdersExecuted() uint64   { return s.ordersExecuted.Load() }
func (s *Statistics) QuantityExecuted() uint64 { return s.quantityExecuted.Load() }
func (s *Statistics) ValueExecuted() uint64    { return s.valueExecuted.Load() }
func (s *Statistics) Overflows() uint64        { return s.valueOverflows.Load() }
func (s *Statistics) SumWaitingTime() uint64   { return s.sumWaitingTime.Load() }
func (s *Statistics) LastExecutionTick() uint64 {
	return s.lastExecutionTick.Load()
}
func (s *Statistics) FirstArrivalTick() uint64 { return s.firstArrivalTick.Load() }

// AverageExecutionPrice is value over quantity. Two independent atomic
// reads; the result is best-effort consistent.
func (s *Statistics) AverageExecutionPrice() (float64, bool) {
	qty := s.quantityExecuted.Load()
	if qty == 0 {
		return 0, false
	}
	return float64(s.valueExecuted.Load()) / float64(qty), true
}

// AverageWaitingTime is the mean milliseconds a fully consumed order
// rested before its last fill.
func (s *Statistics) AverageWaitingTime() (float64, bool) {
	n := s.ordersExecuted.Load()
	if n == 0 {
		return 0, false
	}
	return float64(s.sumWaitingTime.Load()) / float64(n), true
}

// TimeSinceLastExecution is now minus the last execution tick; false
// before the first execution.
func (s *Statistics) TimeSinceLastExecution(now uint64) (uint64, bool) {
	last := s.lastExecutionTick.Load()
	if last == 0 {
		return 0, false
	}
	if now < last {
		return 0, true
	}
	return now - last, true
}

// Reset zeroes every counter.
func (s *Statistics) Reset() {
	s.ordersAdded.Store(0)
	s.ordersRemoved.Store(0)
	s.ordersExecuted.Store(0)
	s.quantityExecuted.Store(0)
	s.valueExecuted.Store(0)
	s.valueOverflows.Store(0)
	s.sumWaitingTime.Store(0)
	s.lastExecutionTick.Store(0)
	s.firstArrivalTick.Store(0)
}

// StatisticsSnapshot is a value copy of the counter block.
type StatisticsSnapshot struct {
	OrdersAdded       uint64 `json:"orders_added"`
	OrdersRemoved     uint64 `json:"orders_removed"`
	OrdersExecuted    uint64 `json:"orders_executed"`
	QuantityExecuted  uint64 `json:"quantity_executed"`
	ValueExecuted     uint64 `json:"value_executed"`
	Overflows         uint64 `json:"overflows"`
	SumWaitingTime    uint64 `json:"sum_waiting_time_ms"`
	LastExecutionTick uint64 `json:"last_execution_tick"`
	FirstArrivalTick  uint64 `json:"first_arrival_tick"`
}

// Snapshot copies the counters field by field. Each field is individually
// current at its read; the set is not a transactional view.
func (s *Statistics) Snapshot() StatisticsSnapshot {
	return StatisticsSnapshot{
		OrdersAdded:       s.ordersAdded.Load(),
		OrdersRemoved:     s.ordersRemoved.Load(),
		OrdersExecuted:    s.ordersExecuted.Load(),
		QuantityExecuted:  s.quantityExecuted.Load(),
		ValueExecuted:     s.valueExecuted.Load(),
		Overflows:         s.valueOverflows.Load(),
		SumWaitingTime:    s.sumWaitingTime.Load(),
		LastExecutionTick: s.lastExecutionTick.Load(),
		FirstArrivalTick:  s.firstArrivalTick.Load(),
	}
}
