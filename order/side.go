package order

import (
	"encoding/json"
	"fmt"
)

// Side is the side of the book an order belongs to.
type Side int

const (
	Buy Side = iota
	Sell
)

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

// MarshalJSON encodes the side as its wire name.
func (s Side) MarshalJSON() ([]byte, error) {
	switch s {
	case Buy, Sell:
		return json.Marshal(s.String())
	}
	return nil, fmt.Errorf("%w: unknown side %d", ErrInvalidDescriptor, int(s))
}

// UnmarshalJSON decodes "buy" or "sell".
func (s *Side) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "buy":
		*s = Buy
	case "sell":
		*s = Sell
	default:
		return fmt.Errorf("%w: unknown side %q", ErrInvalidDescriptor, name)
	}
	return nil
}
