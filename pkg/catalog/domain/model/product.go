package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/pkg/pricing"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidProduct    = errors.New("product failed catalog validation")
	ErrInsufficientStock = errors.New("insufficient stock quantity")
)

type ProductStatus string

const (
	Active   ProductStatus = "active"
	Pending  ProductStatus = "pending"
	Inactive ProductStatus = "inactive"
)

type Product struct {
	ID          int                  `json:"id"`
	Name        string               `json:"name"`
	SKU         string               `json:"sku"`
	Category    string               `json:"category"`
	Supplier    string               `json:"supplier"`
	BasePrice   decimal.Decimal      `json:"basePrice"`
	Stock       int                  `json:"stock"`
	Status      ProductStatus        `json:"status"`
	Description string               `json:"description,omitempty"`
	Features    []string             `json:"features,omitempty"`
	Colors      []string             `json:"colors,omitempty"`
	Sizes       []string             `json:"sizes,omitempty"`
	PriceBreaks []pricing.PriceBreak `json:"priceBreaks,omitempty"`
}

// Validate runs the ingestion checks: schedules with duplicate or malformed
// breaks never reach the resolver.
func (p Product) Validate() error {
	if p.BasePrice.Sign() <= 0 {
		return fmt.Errorf("%w: base price %s is not positive", ErrInvalidProduct, p.BasePrice)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: negative stock %d", ErrInvalidProduct, p.Stock)
	}
	if err := pricing.ValidateSchedule(p.PriceBreaks); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, err)
	}
	return nil
}

// Purchasable reports whether the product can be placed in a cart at all.
// The quantity ceiling against Stock is the caller's check.
func (p Product) Purchasable() bool {
	return p.Status == Active && p.Stock > 0
}

type CategoryFacet struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type SupplierFacet struct {
	Supplier string `json:"supplier"`
	Products int    `json:"products"`
}

type Facets struct {
	Categories []CategoryFacet `json:"categories"`
	Suppliers  []SupplierFacet `json:"suppliers"`
}

type ProductRepository interface {
	List(ctx context.Context) ([]Product, error)
	Find(ctx context.Context, id int) (*Product, error)
}
