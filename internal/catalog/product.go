package catalog

import "fmt"

// Product is one catalog row. Dimension and Value stay nil when the source
// table has no usable cell for them.
type Product struct {
	Description string   `json:"descricao"`
	Dimension   *string  `json:"dimensao"`
	Value       *float64 `json:"valor"`
}

// UnitPrice coerces the catalog value to a float, 0 when absent.
func (p Product) UnitPrice() float64 {
	if p.Value == nil {
		return 0
	}
	return *p.Value
}

// HasDimension reports whether the row carries a non-empty dimension.
func (p Product) HasDimension() bool {
	return p.Dimension != nil && *p.Dimension != ""
}

// FormatValue renders the unit price as currency.
func (p Product) FormatValue() string {
	if p.Value == nil {
		return "Valor não informado"
	}
	return fmt.Sprintf("R$ %.2f", *p.Value)
}

// ToMap serializes the product with its canonical field names.
func (p Product) ToMap() map[string]any {
	m := map[string]any{
		"descricao": p.Description,
		"dimensao":  nil,
		"valor":     nil,
	}
	if p.Dimension != nil {
		m["dimensao"] = *p.Dimension
	}
	if p.Value != nil {
		m["valor"] = *p.Value
	}
	return m
}

// FromMap rebuilds a product from its ToMap form.
func FromMap(m map[string]any) Product {
	var p Product
	if v, ok := m["descricao"].(string); ok {
		p.Description = v
	}
	if v, ok := m["dimensao"].(string); ok && v != "" {
		p.Dimension = &v
	}
	switch v := m["valor"].(type) {
	case float64:
		p.Value = &v
	case int:
		f := float64(v)
		p.Value = &f
	}
	return p
}
