package order

import (
	"encoding/json"
	"fmt"
)

// DefaultReserveReplenish is the replenish amount used by reserve orders
// that do not specify one.
const DefaultReserveReplenish = 80

// KindTag names an order kind. The tags double as the external wire names.
type KindTag string

const (
	KindStandardLimit KindTag = "StandardLimit"
	KindIceberg       KindTag = "Iceberg"
	KindPostOnly      KindTag = "PostOnly"
	KindTrailingStop  KindTag = "TrailingStop"
	KindPeggedLimit   KindTag = "PeggedLimit"
	KindMarketToLimit KindTag = "MarketToLimit"
	KindReserve       KindTag = "ReserveOrder"
)

// PegReference selects the price a pegged order tracks.
type PegReference string

const (
	PegBestBid  PegReference = "BestBid"
	PegBestAsk  PegReference = "BestAsk"
	PegMidPrice PegReference = "MidPrice"
)

// Kind is the tagged variant describing an order's behavior. Only the
// fields belonging to the tagged kind are meaningful; behavior lives in the
// matcher's dispatch, not here.
type Kind struct {
	Tag KindTag

	// Iceberg and ReserveOrder.
	VisibleQty uint64
	HiddenQty  uint64

	// ReserveOrder.
	ReplenishThreshold uint64
	ReplenishAmount    uint64
	AutoReplenish      bool

	// TrailingStop.
	TrailAmount    uint64
	ReferencePrice uint64
	TrailPercent   bool

	// PeggedLimit.
	PegRef    PegReference
	PegOffset int64
}

func StandardLimit() Kind { return Kind{Tag: KindStandardLimit} }
func PostOnly() Kind      { return Kind{Tag: KindPostOnly} }
func MarketToLimit() Kind { return Kind{Tag: KindMarketToLimit} }

func Iceberg(visible, hidden uint64) Kind {
	return Kind{Tag: KindIceberg, VisibleQty: visible, HiddenQty: hidden}
}

func TrailingStop(trailAmount, referencePrice uint64, trailPercent bool) Kind {
	return Kind{
		Tag:            KindTrailingStop,
		TrailAmount:    trailAmount,
		ReferencePrice: referencePrice,
		TrailPercent:   trailPercent,
	}
}

func PeggedLimit(ref PegReference, offset int64) Kind {
	return Kind{Tag: KindPeggedLimit, PegRef: ref, PegOffset: offset}
}

func Reserve(visible, hidden, threshold, amount uint64, auto bool) Kind {
	return Kind{
		Tag:                KindReserve,
		VisibleQty:         visible,
		HiddenQty:          hidden,
		ReplenishThreshold: threshold,
		ReplenishAmount:    amount,
		AutoReplenish:      auto,
	}
}

// HasReserve reports whether the kind carries a hidden portion.
func (k Kind) HasReserve() bool {
	return k.Tag == KindIceberg || k.Tag == KindReserve
}

// ReplenishQty resolves the amount a refill may draw from the hidden
// portion, before clamping against what is actually left hidden.
// originalVisible is the visible slice size the order entered the book with.
func (k Kind) ReplenishQty(originalVisible uint64) uint64 {
	switch k.Tag {
	case KindIceberg:
		return originalVisible
	case KindReserve:
		if k.ReplenishAmount == 0 {
			return DefaultReserveReplenish
		}
		return k.ReplenishAmount
	}
	return 0
}

// SafeThreshold is the reserve threshold with the auto-replenish floor of 1
// applied.
func (k Kind) SafeThreshold() uint64 {
	if k.AutoReplenish && k.ReplenishThreshold == 0 {
		return 1
	}
	return k.ReplenishThreshold
}

func (k Kind) String() string {
	return string(k.Tag)
}

type icebergPayload struct {
	VisibleQty uint64 `json:"visible_qty"`
	HiddenQty  uint64 `json:"hidden_qty"`
}

type trailingPayload struct {
	TrailAmount    uint64 `json:"trail_amount"`
	ReferencePrice uint64 `json:"reference_price"`
	TrailPercent   bool   `json:"is_trail_percent"`
}

type peggedPayload struct {
	Reference PegReference `json:"reference"`
	Offset    int64        `json:"offset"`
}

type reservePayload struct {
	VisibleQty         uint64 `json:"visible_qty"`
	HiddenQty          uint64 `json:"hidden_qty"`
	ReplenishThreshold uint64 `json:"replenish_threshold"`
	ReplenishAmount    uint64 `json:"replenish_amount"`
	AutoReplenish      bool   `json:"auto_replenish"`
}

// MarshalJSON encodes the kind externally tagged: payload-less kinds as a
// bare string, the rest as a single-key object.
func (k Kind) MarshalJSON() ([]byte, error) {
	switch k.Tag {
	case KindStandardLimit, KindPostOnly, KindMarketToLimit:
		return json.Marshal(string(k.Tag))
	case KindIceberg:
		return json.Marshal(map[string]icebergPayload{
			string(k.Tag): {VisibleQty: k.VisibleQty, HiddenQty: k.HiddenQty},
		})
	case KindTrailingStop:
		return json.Marshal(map[string]trailingPayload{
			string(k.Tag): {
				TrailAmount:    k.TrailAmount,
				ReferencePrice: k.ReferencePrice,
				TrailPercent:   k.TrailPercent,
			},
		})
	case KindPeggedLimit:
		return json.Marshal(map[string]peggedPayload{
			string(k.Tag): {Reference: k.PegRef, Offset: k.PegOffset},
		})
	case KindReserve:
		return json.Marshal(map[string]reservePayload{
			string(k.Tag): {
				VisibleQty:         k.VisibleQty,
				HiddenQty:          k.HiddenQty,
				ReplenishThreshold: k.ReplenishThreshold,
				ReplenishAmount:    k.ReplenishAmount,
				AutoReplenish:      k.AutoReplenish,
			},
		})
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidDescriptor, string(k.Tag))
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch KindTag(name) {
		case KindStandardLimit, KindPostOnly, KindMarketToLimit:
			*k = Kind{Tag: KindTag(name)}
			return nil
		case KindIceberg, KindTrailingStop, KindPeggedLimit, KindReserve:
			return fmt.Errorf("%w: kind %q requires a payload", ErrInvalidDescriptor, name)
		}
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidDescriptor, name)
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("%w: kind object must have exactly one tag", ErrInvalidDescriptor)
	}

	for tag, raw := range tagged {
		switch KindTag(tag) {
		case KindIceberg:
			var p icebergPayload
			if err := json.Unmarshal(raw, &p); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
			}
			*k = Iceberg(p.VisibleQty, p.HiddenQty)
		case KindTrailingStop:
			var p trailingPayload
			if err := json.Unmarshal(raw, &p); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
			}
			*k = TrailingStop(p.TrailAmount, p.ReferencePrice, p.TrailPercent)
		case KindPeggedLimit:
			var p peggedPayload
			if err := json.Unmarshal(raw, &p); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
			}
			*k = PeggedLimit(p.Reference, p.Offset)
		case KindReserve:
			var p reservePayload
			if err := json.Unmarshal(raw, &p); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
			}
			*k = Reserve(p.VisibleQty, p.HiddenQty, p.ReplenishThreshold, p.ReplenishAmount, p.AutoReplenish)
		default:
			return fmt.Errorf("%w: unknown kind %q", ErrInvalidDescriptor, tag)
		}
	}
	return nil
}
