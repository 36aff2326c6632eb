package level

import (
	"errors"

	"hati/order"
)

var (
	ErrPriceMismatch      = errors.New("order price does not match level price")
	ErrPostOnlyWouldCross = errors.New("post-only order would cross the book")
	ErrNotFound           = errors.New("order not found")
	ErrNotEnoughLiquidity = errors.New("not enough liquidity")
)

// Tag maps an engine error onto its stable string tag for programmatic
// consumers. Unknown errors map to the empty string.
func Tag(err error) string {
	switch {
	case errors.Is(err, ErrPriceMismatch):
		return "PriceMismatch"
	case errors.Is(err, ErrPostOnlyWouldCross):
		return "PostOnlyWouldCross"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrNotEnoughLiquidity):
		return "NotEnoughLiquidity"
	case errors.Is(err, order.ErrZeroQuantity):
		return "ZeroQuantity"
	case errors.Is(err, order.ErrExpired):
		return "Expired"
	case errors.Is(err, order.ErrInvalidDescriptor):
		return "InvalidDescriptor"
	}
	return ""
}
