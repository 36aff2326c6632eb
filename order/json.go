package order

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// The external descriptor format is a stable JSON object:
//
//	{"id": "<uuid>", "side": "buy", "price": 100, "quantity": 10,
//	 "kind": {"Iceberg": {"visible_qty": 10, "hidden_qty": 20}},
//	 "tif": "GoodTillCanceled", "timestamp": 1234}
//
// kind and tif are externally tagged; payload-less variants collapse to
// bare strings.
type wireOrder struct {
	ID        uuid.UUID   `json:"id"`
	Side      Side        `json:"side"`
	Price     uint64      `json:"price"`
	Quantity  uint64      `json:"quantity"`
	Kind      Kind        `json:"kind"`
	TIF       TimeInForce `json:"tif"`
	Timestamp uint64      `json:"timestamp"`
}

// MarshalJSON encodes the descriptor in the external format.
func (o Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireOrder{
		ID:        o.ID,
		Side:      o.Side,
		Price:     o.Price,
		Quantity:  o.Quantity,
		Kind:      o.Kind,
		TIF:       o.TIF,
		Timestamp: o.Timestamp,
	})
}

// UnmarshalJSON decodes and validates a descriptor from the external
// format.
func (o *Order) UnmarshalJSON(data []byte) error {
	var w wireOrder
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	decoded := Order{
		ID:        w.ID,
		Side:      w.Side,
		Price:     w.Price,
		Quantity:  w.Quantity,
		Kind:      w.Kind,
		TIF:       w.TIF,
		Timestamp: w.Timestamp,
	}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*o = decoded
	return nil
}
