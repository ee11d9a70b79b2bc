package service

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	catalogmodel "storefront/pkg/catalog/domain/model"
	"storefront/pkg/pricing"
	"storefront/pkg/quotation/domain/model"
)

// Exporter renders a quotation into a downloadable document.
type Exporter interface {
	Render(q model.Quotation) ([]byte, error)
}

// Selector is the per-product quantity entry of the quotation form. Its
// input is textual: the empty string means "not yet specified", which is
// distinct from an explicit zero. Transitions emit Line values that the
// Sheet merges.
type Selector struct {
	product catalogmodel.Product
	input   string
}

func NewSelector(product catalogmodel.Product) *Selector {
	return &Selector{product: product}
}

// Value returns the current textual input, for echoing back to the form.
func (s *Selector) Value() string {
	return s.input
}

// Input records a keystroke-level change. An empty string emits the zero
// line so the caller drops the product from the working set. A positive
// integer resolves against the product's schedule and emits a full line.
// Anything else emits nothing until Blur corrects it.
func (s *Selector) Input(text string) (model.Line, bool) {
	s.input = text

	if text == "" {
		return s.zeroLine(), true
	}

	qty, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || qty <= 0 {
		return model.Line{}, false
	}

	quote := pricing.Resolve(s.product.BasePrice, s.product.PriceBreaks, qty)
	return model.Line{
		ProductID: s.product.ID,
		Name:      s.product.Name,
		Quantity:  qty,
		UnitPrice: quote.UnitPrice,
		Discount:  quote.Discount,
	}, true
}

// Blur self-corrects the field: a value that is not a valid positive
// integer resets to empty and re-emits the zero line.
func (s *Selector) Blur() (model.Line, bool) {
	qty, err := strconv.Atoi(strings.TrimSpace(s.input))
	if err == nil && qty > 0 {
		return model.Line{}, false
	}
	s.input = ""
	return s.zeroLine(), true
}

func (s *Selector) zeroLine() model.Line {
	return model.Line{
		ProductID: s.product.ID,
		Name:      s.product.Name,
		Quantity:  0,
		UnitPrice: decimal.Zero,
	}
}

// Sheet is the aggregator over all selectors: the quotation's working set,
// in insertion order, one entry per product id.
type Sheet struct {
	lines []model.Line
}

func NewSheet() *Sheet {
	return &Sheet{}
}

// Apply merges an emitted line: zero quantity removes any entry for the
// product, a positive quantity replaces an existing entry in place or
// appends a new one.
func (s *Sheet) Apply(line model.Line) {
	index := -1
	for i, l := range s.lines {
		if l.ProductID == line.ProductID {
			index = i
			break
		}
	}

	if line.Quantity == 0 {
		if index != -1 {
			s.lines = append(s.lines[:index], s.lines[index+1:]...)
		}
		return
	}

	if index != -1 {
		s.lines[index] = line
	} else {
		s.lines = append(s.lines, line)
	}
}

func (s *Sheet) Lines() []model.Line {
	out := make([]model.Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Sheet) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Total())
	}
	return total
}

// Build assembles the document for the export boundary.
func (s *Sheet) Build(company model.Company) model.Quotation {
	return model.Quotation{
		Company: company,
		Lines:   s.Lines(),
		Total:   s.Total(),
	}
}
