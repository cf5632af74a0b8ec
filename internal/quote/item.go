// Package quote turns resolved product requests into chat summaries and PDF
// documents.
package quote

import (
	"fmt"

	"github.com/ArchiTec-IA-Solution/architec-backend/internal/catalog"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/extract"
)

// LineItem is one priced line of a quote. UnitPrice is nil when the catalog
// row had no usable value.
type LineItem struct {
	Name       string
	Quantity   int
	UnitPrice  *float64
	Dimensions *string
}

// FromProduct builds a quote line from a catalog row.
func FromProduct(p catalog.Product, quantity int) LineItem {
	if quantity < 1 {
		quantity = 1
	}
	return LineItem{
		Name:       p.Description,
		Quantity:   quantity,
		UnitPrice:  p.Value,
		Dimensions: p.Dimension,
	}
}

// FromExtracted converts extracted items into quote lines.
func FromExtracted(items []extract.Item) []LineItem {
	lines := make([]LineItem, len(items))
	for i, item := range items {
		price := item.Price
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		lines[i] = LineItem{
			Name:       item.Name,
			Quantity:   qty,
			UnitPrice:  &price,
			Dimensions: item.Dimensions,
		}
	}
	return lines
}

// Subtotal is quantity times unit price, zero when the price is unknown.
func (l LineItem) Subtotal() float64 {
	if l.UnitPrice == nil {
		return 0
	}
	return float64(l.Quantity) * *l.UnitPrice
}

// FormatUnitPrice renders the unit price as currency.
func (l LineItem) FormatUnitPrice() string {
	if l.UnitPrice == nil {
		return "Valor não informado"
	}
	return FormatMoney(*l.UnitPrice)
}

// FormatMoney renders a value in the house currency style.
func FormatMoney(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}

// Total sums the subtotals of all lines.
func Total(lines []LineItem) float64 {
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}
