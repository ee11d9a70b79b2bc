package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"storefront/pkg/quotation/domain/model"
)

// Exporter renders a quotation as a single-page A4 summary: title, company
// block, one row per quoted product, total.
type Exporter struct{}

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Render(q model.Quotation) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Text(14, 20, "Product Quotation")

	doc.SetFont("Helvetica", "", 12)
	doc.Text(14, 30, "Company: "+q.Company.Name)
	doc.Text(14, 36, "RUT: "+q.Company.RUT)
	doc.Text(14, 42, "Email: "+q.Company.Email)
	doc.Text(14, 48, "Phone: "+q.Company.Phone)

	y := 60.0
	for _, line := range q.Lines {
		row := fmt.Sprintf("%s - Qty: %d - Unit price: $%s", line.Name, line.Quantity, line.UnitPrice)
		if line.Discount != nil {
			row += fmt.Sprintf(" (Disc: %s%%)", line.Discount)
		}
		doc.Text(14, y, row)
		y += 6
	}

	doc.Text(14, y+6, "Total: $"+q.Total.String())

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "render quotation pdf")
	}
	return buf.Bytes(), nil
}
