package order

import "github.com/google/uuid"

// UpdateKind enumerates the in-place modifications a caller can request for
// a resting order. Price-changing updates cannot be applied inside a level
// (the level is pinned to one price); the level removes the order and hands
// the descriptor back for re-insertion elsewhere.
type UpdateKind int

const (
	UpdateQuantity UpdateKind = iota
	UpdatePrice
	UpdatePriceAndQuantity
	UpdateReplace
	UpdateCancel
)

// Update describes one modification request.
type Update struct {
	Kind        UpdateKind
	OrderID     uuid.UUID
	NewPrice    uint64
	NewQuantity uint64
	NewSide     Side
}

// ChangesPrice reports whether applying the update against level price
// would move the order to a different level.
func (u Update) ChangesPrice(levelPrice uint64) bool {
	switch u.Kind {
	case UpdatePrice, UpdatePriceAndQuantity, UpdateReplace:
		return u.NewPrice != levelPrice
	}
	return false
}
