package order

// Status tracks where an order is in its lifecycle. Transitions are driven
// only by the matcher (fills, refills) or the canceller/expiry sweep.
type Status int

const (
	// StatusNew orders have been created but not yet accepted by a level.
	StatusNew Status = iota
	// StatusActive orders are resting in the book untouched.
	StatusActive
	// StatusPartiallyFilled orders have traded part of their quantity.
	StatusPartiallyFilled
	// StatusFilled orders traded their full quantity.
	StatusFilled
	// StatusCanceled orders were removed by the caller.
	StatusCanceled
	// StatusRejected orders were refused before entering the book.
	StatusRejected
	// StatusExpired orders were removed by a GTD/Day sweep.
	StatusExpired
)

// IsActive reports whether the order still rests in the book.
func (s Status) IsActive() bool {
	return s == StatusActive || s == StatusPartiallyFilled
}

// IsTerminated reports whether the order has reached a final state.
func (s Status) IsTerminated() bool {
	switch s {
	case StatusFilled, StatusCanceled, StatusRejected, StatusExpired:
		return true
	}
	return false
}

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusActive:
		return "active"
	case StatusPartiallyFilled:
		return "partially_filled"
	case StatusFilled:
		return "filled"
	case StatusCanceled:
		return "canceled"
	case StatusRejected:
		return "rejected"
	case StatusExpired:
		return "expired"
	}
	return "unknown"
}
