package order

import (
	"encoding/json"
	"fmt"
)

// TIFPolicy enumerates the supported time-in-force policies.
type TIFPolicy int

const (
	// GoodTillCanceled orders rest until explicitly canceled.
	GoodTillCanceled TIFPolicy = iota
	// ImmediateOrCancel orders fill what they can and never rest.
	ImmediateOrCancel
	// FillOrKill orders fill completely in one matching call or not at all.
	FillOrKill
	// GoodTillDate orders rest until their expiry tick.
	GoodTillDate
	// Day orders rest until the session close tick defined by the caller.
	Day
)

// TimeInForce pairs a policy with its expiry tick, which is only
// meaningful for GoodTillDate.
type TimeInForce struct {
	Policy     TIFPolicy
	ExpireTick uint64
}

func GTC() TimeInForce { return TimeInForce{Policy: GoodTillCanceled} }
func IOC() TimeInForce { return TimeInForce{Policy: ImmediateOrCancel} }
func FOK() TimeInForce { return TimeInForce{Policy: FillOrKill} }
func GTD(expireTick uint64) TimeInForce {
	return TimeInForce{Policy: GoodTillDate, ExpireTick: expireTick}
}
func DayOrder() TimeInForce { return TimeInForce{Policy: Day} }

// IsImmediate reports whether the order must never rest in the book.
func (t TimeInForce) IsImmediate() bool {
	return t.Policy == ImmediateOrCancel || t.Policy == FillOrKill
}

// HasExpiry reports whether the order can expire by the passage of ticks.
func (t TimeInForce) HasExpiry() bool {
	return t.Policy == GoodTillDate || t.Policy == Day
}

// IsExpired checks the order against the caller-supplied tick. Day orders
// compare against sessionClose; a zero sessionClose means the caller has not
// defined the day yet, so Day orders do not expire.
func (t TimeInForce) IsExpired(tick, sessionClose uint64) bool {
	switch t.Policy {
	case GoodTillDate:
		return tick >= t.ExpireTick
	case Day:
		return sessionClose > 0 && tick >= sessionClose
	}
	return false
}

func (t TimeInForce) String() string {
	switch t.Policy {
	case GoodTillCanceled:
		return "GoodTillCanceled"
	case ImmediateOrCancel:
		return "ImmediateOrCancel"
	case FillOrKill:
		return "FillOrKill"
	case GoodTillDate:
		return fmt.Sprintf("GoodTillDate(%d)", t.ExpireTick)
	case Day:
		return "Day"
	}
	return fmt.Sprintf("tif(%d)", int(t.Policy))
}

// MarshalJSON encodes the policy externally tagged: bare strings for the
// payload-less policies, {"GoodTillDate": tick} otherwise.
func (t TimeInForce) MarshalJSON() ([]byte, error) {
	switch t.Policy {
	case GoodTillCanceled, ImmediateOrCancel, FillOrKill, Day:
		return json.Marshal(t.String())
	case GoodTillDate:
		return json.Marshal(map[string]uint64{"GoodTillDate": t.ExpireTick})
	}
	return nil, fmt.Errorf("%w: unknown time in force %d", ErrInvalidDescriptor, int(t.Policy))
}

func (t *TimeInForce) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch name {
		case "GoodTillCanceled":
			*t = GTC()
		case "ImmediateOrCancel":
			*t = IOC()
		case "FillOrKill":
			*t = FOK()
		case "Day":
			*t = DayOrder()
		default:
			return fmt.Errorf("%w: unknown time in force %q", ErrInvalidDescriptor, name)
		}
		return nil
	}

	var tagged map[string]uint64
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	tick, ok := tagged["GoodTillDate"]
	if !ok || len(tagged) != 1 {
		return fmt.Errorf("%w: unrecognized time in force object", ErrInvalidDescriptor)
	}
	*t = GTD(tick)
	return nil
}
