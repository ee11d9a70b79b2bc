package model

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront/pkg/pricing"
)

// LineKey is the variant identity of a cart line. Lines match iff product
// id, color and size all match; an absent color or size is the empty
// string.
type LineKey struct {
	ProductID int
	Color     string
	Size      string
}

// Line is one cart entry. UnitPrice is derived: it must always equal the
// resolver's result for BasePrice, PriceBreaks and the current Quantity.
// The cart service owns that invariant; callers never set UnitPrice after
// construction.
type Line struct {
	ProductID   int                  `json:"id"`
	Name        string               `json:"name"`
	BasePrice   decimal.Decimal      `json:"basePrice"`
	UnitPrice   decimal.Decimal      `json:"unitPrice"`
	Quantity    int                  `json:"quantity"`
	PriceBreaks []pricing.PriceBreak `json:"priceBreaks,omitempty"`
	Color       string               `json:"color,omitempty"`
	Size        string               `json:"size,omitempty"`
}

func (l Line) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Color: l.Color, Size: l.Size}
}

// Repository is the persistence boundary: a key mapped to the JSON-encoded
// line list. Absence of the key is not an error.
type Repository interface {
	Load(ctx context.Context, key string) (raw []byte, ok bool, err error)
	Save(ctx context.Context, key string, raw []byte) error
	Delete(ctx context.Context, key string) error
}

// Reprice restores the unit-price invariant on a line, returning the line
// with UnitPrice recomputed for its current quantity.
func (l Line) Reprice() Line {
	l.UnitPrice = pricing.Resolve(l.BasePrice, l.PriceBreaks, l.Quantity).UnitPrice
	return l
}

func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
