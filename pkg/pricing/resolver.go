package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrDuplicateMinQty = errors.New("price break schedule contains duplicate minimum quantities")
	ErrInvalidBreak    = errors.New("price break is invalid")
)

// PriceBreak is one tier of a volume discount schedule: at MinQty units the
// unit price drops to Price. Discount is a display annotation, not an input
// to the price selection.
type PriceBreak struct {
	MinQty   int              `json:"minQty"`
	Price    decimal.Decimal  `json:"price"`
	Discount *decimal.Decimal `json:"discount,omitempty"`
}

// Quote is the result of resolving a schedule for a quantity. Discount is
// nil when no break applied.
type Quote struct {
	UnitPrice decimal.Decimal  `json:"unitPrice"`
	Discount  *decimal.Decimal `json:"discount,omitempty"`
}

// Resolve selects the applicable price break for the requested quantity:
// the break with the largest MinQty not exceeding quantity. With no
// schedule, or a quantity below every break, the base price applies and no
// discount is reported. Negative quantities are clamped to zero.
//
// MinQty values are expected to be unique per schedule (ValidateSchedule
// enforces that at ingestion); if duplicates do reach this function, the
// break listed first in the schedule wins.
func Resolve(basePrice decimal.Decimal, breaks []PriceBreak, quantity int) Quote {
	if quantity < 0 {
		quantity = 0
	}

	var applicable *PriceBreak
	for i := range breaks {
		pb := &breaks[i]
		if quantity < pb.MinQty {
			continue
		}
		if applicable == nil || pb.MinQty > applicable.MinQty {
			applicable = pb
		}
	}

	if applicable == nil {
		return Quote{UnitPrice: basePrice}
	}

	q := Quote{UnitPrice: applicable.Price}
	if applicable.Discount != nil {
		d := *applicable.Discount
		q.Discount = &d
	}
	return q
}

// DiscountPercent derives the display discount from a resolved unit price
// relative to the base price: (base - unit) / base * 100. It reports zero
// when the unit price is not below the base price or the base price is not
// positive.
func DiscountPercent(basePrice, unitPrice decimal.Decimal) decimal.Decimal {
	if basePrice.Sign() <= 0 || unitPrice.GreaterThanOrEqual(basePrice) {
		return decimal.Zero
	}
	return basePrice.Sub(unitPrice).Div(basePrice).Mul(decimal.NewFromInt(100))
}

// ValidateSchedule rejects schedules the resolver has no defined behaviour
// for. It is meant to run at catalog ingestion, before schedules reach
// Resolve.
func ValidateSchedule(breaks []PriceBreak) error {
	seen := make(map[int]struct{}, len(breaks))
	hundred := decimal.NewFromInt(100)
	for _, pb := range breaks {
		if pb.MinQty < 1 {
			return fmt.Errorf("%w: minQty %d is below 1", ErrInvalidBreak, pb.MinQty)
		}
		if pb.Price.Sign() <= 0 {
			return fmt.Errorf("%w: minQty %d has non-positive price %s", ErrInvalidBreak, pb.MinQty, pb.Price)
		}
		if pb.Discount != nil && (pb.Discount.Sign() < 0 || pb.Discount.GreaterThan(hundred)) {
			return fmt.Errorf("%w: minQty %d has discount %s outside [0,100]", ErrInvalidBreak, pb.MinQty, pb.Discount)
		}
		if _, dup := seen[pb.MinQty]; dup {
			return fmt.Errorf("%w: minQty %d", ErrDuplicateMinQty, pb.MinQty)
		}
		seen[pb.MinQty] = struct{}{}
	}
	return nil
}
