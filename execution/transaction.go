package execution

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"hati/order"
)

// Transaction records one consumption event: a taker lifting part of a
// maker's visible slice. Values are immutable once emitted; ownership
// passes to the caller of MatchOrder.
type Transaction struct {
	ID         uint64     `json:"transaction_id"`
	MakerID    uuid.UUID  `json:"maker_id"`
	TakerID    uuid.UUID  `json:"taker_id"`
	Price      uint64     `json:"price"`
	Quantity   uint64     `json:"quantity"`
	TakerSide  order.Side `json:"taker_side"`
	ExecutedAt uint64     `json:"executed_at"`
}

// Value is price times quantity for this transaction.
func (t Transaction) Value() uint64 {
	return t.Price * t.Quantity
}

func (t Transaction) String() string {
	return fmt.Sprintf("Transaction{id=%d maker=%s taker=%s price=%d qty=%d at=%d}",
		t.ID, t.MakerID, t.TakerID, t.Price, t.Quantity, t.ExecutedAt)
}

// Sequence hands out transaction ids. A sequence may be shared across
// levels so ids stay unique venue-wide.
type Sequence struct {
	next atomic.Uint64
}

// Next returns the next transaction id.
func (s *Sequence) Next() uint64 {
	return s.next.Add(1)
}
