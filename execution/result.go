package execution

import (
	"github.com/google/uuid"
)

// Status tags how a matching call ended.
type Status string

const (
	// StatusFilled means the taker's full quantity traded.
	StatusFilled Status = "filled"
	// StatusPartial means some but not all of the taker traded.
	StatusPartial Status = "partial"
	// StatusNone means no liquidity was consumed.
	StatusNone Status = "none"
	// StatusRejected means the call was refused before any mutation.
	StatusRejected Status = "rejected"
)

// MatchResult is what a single MatchOrder call yields. Transactions appear
// in emission order, front of queue first.
type MatchResult struct {
	TakerID           uuid.UUID     `json:"taker_id"`
	Transactions      []Transaction `json:"transactions"`
	FilledQuantity    uint64        `json:"filled_quantity"`
	RemainingQuantity uint64        `json:"remaining_quantity"`
	Status            Status        `json:"status"`
	RejectionReason   string        `json:"rejection_reason,omitempty"`

	// FirstPrice is the price of the first transaction, surfaced so the
	// caller can convert a market-to-limit residual into a limit order.
	// Zero when nothing traded.
	FirstPrice uint64 `json:"first_price,omitempty"`

	// FilledOrderIDs lists makers that were fully consumed and left the
	// book during this call.
	FilledOrderIDs []uuid.UUID `json:"filled_order_ids,omitempty"`
}

// NewMatchResult starts an empty result for the given taker.
func NewMatchResult(takerID uuid.UUID, quantity uint64) MatchResult {
	return MatchResult{
		TakerID:           takerID,
		RemainingQuantity: quantity,
		Status:            StatusNone,
	}
}

// Add appends a transaction and rolls the running quantities forward.
func (r *MatchResult) Add(tx Transaction) {
	r.Transactions = append(r.Transactions, tx)
	r.FilledQuantity += tx.Quantity
	if tx.Quantity >= r.RemainingQuantity {
		r.RemainingQuantity = 0
	} else {
		r.RemainingQuantity -= tx.Quantity
	}
	if r.FirstPrice == 0 {
		r.FirstPrice = tx.Price
	}
}

// AddFilled records a maker that was fully consumed.
func (r *MatchResult) AddFilled(id uuid.UUID) {
	r.FilledOrderIDs = append(r.FilledOrderIDs, id)
}

// Reject marks the result rejected with a taxonomy tag. Any state the
// result carries is untouched; a rejection never follows a transaction.
func (r *MatchResult) Reject(reason string) {
	r.Status = StatusRejected
	r.RejectionReason = reason
}

// Finish settles the status from the filled and remaining quantities.
// Rejected results keep their status.
func (r *MatchResult) Finish() {
	if r.Status == StatusRejected {
		return
	}
	switch {
	case r.FilledQuantity > 0 && r.RemainingQuantity == 0:
		r.Status = StatusFilled
	case r.FilledQuantity > 0:
		r.Status = StatusPartial
	default:
		r.Status = StatusNone
	}
}

// ExecutedQuantity sums the transaction quantities.
func (r *MatchResult) ExecutedQuantity() uint64 {
	var total uint64
	for _, tx := range r.Transactions {
		total += tx.Quantity
	}
	return total
}

// ExecutedValue sums price times quantity over the transactions.
func (r *MatchResult) ExecutedValue() uint64 {
	var total uint64
	for _, tx := range r.Transactions {
		total += tx.Value()
	}
	return total
}

// AveragePrice is executed value over executed quantity. The second return
// is false when nothing traded.
func (r *MatchResult) AveragePrice() (float64, bool) {
	qty := r.ExecutedQuantity()
	if qty == 0 {
		return 0, false
	}
	return float64(r.ExecutedValue()) / float64(qty), true
}
