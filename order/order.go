package order

import (
	"fmt"

	"github.com/google/uuid"
)

// Order is the descriptor for one resting or incoming order. Prices are
// venue ticks and quantities are minor units; Timestamp is the caller's
// monotonic millisecond tick at submission. The descriptor itself is a
// plain value; all mutable matching state lives inside the level that owns
// the order.
type Order struct {
	ID        uuid.UUID
	Side      Side
	Price     uint64
	Quantity  uint64
	Kind      Kind
	TIF       TimeInForce
	Timestamp uint64
}

// VisibleQuantity is the portion of the order eligible to match.
func (o Order) VisibleQuantity() uint64 {
	if o.Kind.HasReserve() {
		return o.Kind.VisibleQty
	}
	return o.Quantity
}

// HiddenQuantity is the reserve held back for refills.
func (o Order) HiddenQuantity() uint64 {
	if o.Kind.HasReserve() {
		return o.Kind.HiddenQty
	}
	return 0
}

// TotalQuantity is visible plus hidden.
func (o Order) TotalQuantity() uint64 {
	return o.VisibleQuantity() + o.HiddenQuantity()
}

// Validate checks the descriptor is well formed before it touches a level.
func (o Order) Validate() error {
	switch o.Kind.Tag {
	case KindStandardLimit, KindPostOnly, KindMarketToLimit, KindTrailingStop, KindPeggedLimit:
		if o.Quantity == 0 {
			return ErrZeroQuantity
		}
	case KindIceberg, KindReserve:
		if o.Kind.VisibleQty == 0 {
			return ErrZeroQuantity
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidDescriptor, string(o.Kind.Tag))
	}
	if o.Side != Buy && o.Side != Sell {
		return fmt.Errorf("%w: unknown side %d", ErrInvalidDescriptor, int(o.Side))
	}
	return nil
}

func (o Order) String() string {
	return fmt.Sprintf("Order{id=%s side=%s price=%d qty=%d kind=%s tif=%s ts=%d}",
		o.ID, o.Side, o.Price, o.TotalQuantity(), o.Kind, o.TIF, o.Timestamp)
}
