package level

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hati/order"
)

// --- Setup & Helpers --------------------------------------------------------

func testLevel() *PriceLevel {
	return NewPriceLevel(100, order.Sell)
}

func sell(qty uint64) order.Order {
	return order.Order{
		ID:       uuid.New(),
		Side:     order.Sell,
		Price:    100,
		Quantity: qty,
		Kind:     order.StandardLimit(),
		TIF:      order.GTC(),
	}
}

func buyTaker(qty uint64) order.Order {
	return order.Order{
		ID:       uuid.New(),
		Side:     order.Buy,
		Price:    100,
		Quantity: qty,
		Kind:     order.StandardLimit(),
		TIF:      order.GTC(),
	}
}

func mustAdd(t *testing.T, l *PriceLevel, o order.Order, tick uint64) uuid.UUID {
	t.Helper()
	id, err := l.AddOrder(o, tick, false)
	require.NoError(t, err)
	return id
}

func snapshotIDs(l *PriceLevel) []uuid.UUID {
	snap := l.Snapshot()
	ids := make([]uuid.UUID, 0, len(snap.Orders))
	for _, o := range snap.Orders {
		ids = append(ids, o.ID)
	}
	return ids
}

// --- Matching ---------------------------------------------------------------

func TestMatch_SimpleFill(t *testing.T) {
	l := testLevel()
	a := mustAdd(t, l, sell(10), 1)

	taker := buyTaker(7)
	result := l.MatchOrder(taker, 2)

	require.Len(t, result.Transactions, 1)
	tx := result.Transactions[0]
	assert.Equal(t, a, tx.MakerID)
	assert.Equal(t, taker.ID, tx.TakerID)
	assert.Equal(t, uint64(100), tx.Price)
	assert.Equal(t, uint64(7), tx.Quantity)
	assert.Equal(t, uint64(2), tx.ExecutedAt)

	assert.Equal(t, "filled", string(result.Status))
	assert.Equal(t, uint64(7), result.FilledQuantity)
	assert.Zero(t, result.RemainingQuantity)

	assert.Equal(t, uint64(3), l.VisibleQuantity())
	assert.Equal(t, 1, l.OrderCount())
	assert.Equal(t, uint64(0), l.Stats().OrdersExecuted())
	assert.Equal(t, uint64(7), l.Stats().QuantityExecuted())
	assert.Equal(t, uint64(700), l.Stats().ValueExecuted())
}

func TestMatch_FIFOAcrossTwoMakers(t *testing.T) {
	l := testLevel()
	a := mustAdd(t, l, sell(5), 1)
	b := mustAdd(t, l, sell(5), 2)

	result := l.MatchOrder(buyTaker(7), 3)

	require.Len(t, result.Transactions, 2)
	assert.Equal(t, a, result.Transactions[0].MakerID)
	assert.Equal(t, uint64(5), result.Transactions[0].Quantity)
	assert.Equal(t, b, result.Transactions[1].MakerID)
	assert.Equal(t, uint64(2), result.Transactions[1].Quantity)

	assert.Equal(t, []uuid.UUID{a}, result.FilledOrderIDs)
	assert.Equal(t, uint64(1), l.Stats().OrdersExecuted())
	assert.Equal(t, uint64(7), l.Stats().QuantityExecuted())
	assert.Equal(t, uint64(3), l.VisibleQuantity())
}

func TestMatch_IcebergRefillMovesToBack(t *testing.T) {
	l := testLevel()

	ice := sell(0)
	ice.Kind = order.Iceberg(10, 20)
	iceID := mustAdd(t, l, ice, 1)
	c := mustAdd(t, l, sell(5), 2)

	result := l.MatchOrder(buyTaker(15), 3)

	require.Len(t, result.Transactions, 2)
	assert.Equal(t, iceID, result.Transactions[0].MakerID)
	assert.Equal(t, uint64(10), result.Transactions[0].Quantity)
	assert.Equal(t, c, result.Transactions[1].MakerID)
	assert.Equal(t, uint64(5), result.Transactions[1].Quantity)

	// The iceberg refilled from hidden and kept resting.
	assert.Equal(t, uint64(10), l.VisibleQuantity())
	assert.Equal(t, uint64(10), l.HiddenQuantity())
	assert.Equal(t, 1, l.OrderCount())
	assert.Equal(t, []uuid.UUID{c}, result.FilledOrderIDs)

	snap := l.Snapshot()
	require.Len(t, snap.Orders, 1)
	assert.Equal(t, iceID, snap.Orders[0].ID)
	assert.Equal(t, uint64(10), snap.Orders[0].VisibleQty)
}

func TestMatch_IcebergRefillResetsTimePriority(t *testing.T) {
	l := testLevel()

	ice := sell(0)
	ice.Kind = order.Iceberg(10, 20)
	iceID := mustAdd(t, l, ice, 1)
	c := mustAdd(t, l, sell(5), 2)

	// Consume the visible slice and a bit of C: the refilled iceberg must
	// re-enter behind C.
	l.MatchOrder(buyTaker(12), 3)

	assert.Equal(t, []uuid.UUID{c, iceID}, snapshotIDs(l))
}

func TestMatch_IcebergExhaustsHidden(t *testing.T) {
	l := testLevel()
	ice := sell(0)
	ice.Kind = order.Iceberg(10, 5)
	iceID := mustAdd(t, l, ice, 1)

	first := l.MatchOrder(buyTaker(10), 2)
	require.Len(t, first.Transactions, 1)
	assert.Empty(t, first.FilledOrderIDs)
	assert.Equal(t, uint64(5), l.VisibleQuantity())
	assert.Equal(t, uint64(0), l.HiddenQuantity())

	second := l.MatchOrder(buyTaker(5), 3)
	require.Len(t, second.Transactions, 1)
	assert.Equal(t, []uuid.UUID{iceID}, second.FilledOrderIDs)
	assert.Zero(t, l.OrderCount())
	assert.Equal(t, uint64(1), l.Stats().OrdersExecuted())
}

func TestMatch_FOKKillsOnShortfall(t *testing.T) {
	l := testLevel()
	mustAdd(t, l, sell(6), 1)

	taker := buyTaker(10)
	taker.TIF = order.FOK()
	result := l.MatchOrder(taker, 2)

	assert.Equal(t, "rejected", string(result.Status))
	assert.Equal(t, "NotEnoughLiquidity", result.RejectionReason)
	assert.Empty(t, result.Transactions)

	// Queue untouched.
	assert.Equal(t, uint64(6), l.VisibleQuantity())
	assert.Equal(t, 1, l.OrderCount())
	assert.Zero(t, l.Stats().QuantityExecuted())
}

func TestMatch_FOKCountsRefillableHidden(t *testing.T) {
	l := testLevel()
	ice := sell(0)
	ice.Kind = order.Iceberg(4, 20)
	mustAdd(t, l, ice, 1)

	taker := buyTaker(10)
	taker.TIF = order.FOK()
	result := l.MatchOrder(taker, 2)

	assert.Equal(t, "filled", string(result.Status))
	assert.Equal(t, uint64(10), result.FilledQuantity)
}

func TestMatch_IOCReturnsResidual(t *testing.T) {
	l := testLevel()
	mustAdd(t, l, sell(10), 1)

	taker := buyTaker(15)
	taker.TIF = order.IOC()
	result := l.MatchOrder(taker, 2)

	assert.Equal(t, "partial", string(result.Status))
	assert.Equal(t, uint64(10), result.FilledQuantity)
	assert.Equal(t, uint64(5), result.RemainingQuantity)
	// The residual is the caller's problem; nothing rests here.
	assert.Zero(t, l.OrderCount())
}

func TestMatch_MarketToLimitSurfacesFirstPrice(t *testing.T) {
	l := testLevel()
	mustAdd(t, l, sell(5), 1)

	taker := buyTaker(8)
	taker.Kind = order.MarketToLimit()
	result := l.MatchOrder(taker, 2)

	assert.Equal(t, uint64(100), result.FirstPrice)
	assert.Equal(t, uint64(3), result.RemainingQuantity)
}

func TestMatch_NoLiquidity(t *testing.T) {
	l := testLevel()
	result := l.MatchOrder(buyTaker(10), 1)

	assert.Equal(t, "none", string(result.Status))
	assert.Empty(t, result.Transactions)
	assert.Equal(t, uint64(10), result.RemainingQuantity)
}

func TestMatch_ZeroQuantityTaker(t *testing.T) {
	l := testLevel()
	mustAdd(t, l, sell(10), 1)

	result := l.MatchOrder(buyTaker(0), 2)
	assert.Equal(t, "none", string(result.Status))
	assert.Empty(t, result.Transactions)
}

// --- Reserve orders ---------------------------------------------------------

func TestMatch_ReserveReplenishesBelowThreshold(t *testing.T) {
	l := testLevel()

	res := sell(0)
	res.Kind = order.Reserve(10, 50, 5, 20, true)
	resID := mustAdd(t, l, res, 1)
	b := mustAdd(t, l, sell(5), 2)

	// Partial fill drags visible to 3, under the threshold of 5.
	result := l.MatchOrder(buyTaker(7), 3)
	require.Len(t, result.Transactions, 1)

	assert.Equal(t, uint64(3+20+5), l.VisibleQuantity())
	assert.Equal(t, uint64(30), l.HiddenQuantity())

	// The replenished reserve moved behind B.
	assert.Equal(t, []uuid.UUID{b, resID}, snapshotIDs(l))
}

func TestMatch_ReserveWithoutAutoReplenishLeavesBook(t *testing.T) {
	l := testLevel()

	res := sell(0)
	res.Kind = order.Reserve(10, 50, 5, 20, false)
	resID := mustAdd(t, l, res, 1)

	result := l.MatchOrder(buyTaker(10), 2)

	require.Len(t, result.Transactions, 1)
	assert.Equal(t, []uuid.UUID{resID}, result.FilledOrderIDs)
	// The unreplenished reserve leaves with its hidden remainder.
	assert.Zero(t, l.OrderCount())
	assert.Zero(t, l.VisibleQuantity())
	assert.Zero(t, l.HiddenQuantity())
}

func TestMatch_ReserveRefillOnEmptiedSlice(t *testing.T) {
	l := testLevel()

	res := sell(0)
	res.Kind = order.Reserve(10, 30, 2, 15, true)
	mustAdd(t, l, res, 1)

	result := l.MatchOrder(buyTaker(10), 2)

	require.Len(t, result.Transactions, 1)
	assert.Empty(t, result.FilledOrderIDs)
	assert.Equal(t, uint64(15), l.VisibleQuantity())
	assert.Equal(t, uint64(15), l.HiddenQuantity())
	assert.Equal(t, 1, l.OrderCount())
}
