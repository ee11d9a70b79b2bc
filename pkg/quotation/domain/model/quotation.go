package model

import (
	"github.com/shopspring/decimal"
)

// Line is one quoted product, keyed by product id only: the quotation form
// has no variant axes.
type Line struct {
	ProductID int              `json:"id"`
	Name      string           `json:"name"`
	Quantity  int              `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unitPrice"`
	Discount  *decimal.Decimal `json:"discount,omitempty"`
}

func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Company struct {
	Name  string `json:"name"`
	RUT   string `json:"rut"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Quotation is the document handed to the exporter: the working set of
// lines plus company metadata and the precomputed total.
type Quotation struct {
	Company Company         `json:"company"`
	Lines   []Line          `json:"lines"`
	Total   decimal.Decimal `json:"total"`
}
