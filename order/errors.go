package order

import "errors"

var (
	ErrZeroQuantity      = errors.New("order quantity must be positive")
	ErrInvalidDescriptor = errors.New("malformed order descriptor")
	ErrExpired           = errors.New("order already expired")
)
