package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArchiTec-IA-Solution/architec-backend/internal/catalog"
)

func price(v float64) *float64 { return &v }

func TestFromProduct(t *testing.T) {
	dim := "45cm"
	p := catalog.Product{Description: "Corrediça Telescópica", Dimension: &dim, Value: price(25.9)}

	line := FromProduct(p, 3)
	assert.Equal(t, 3, line.Quantity)
	assert.InDelta(t, 77.7, line.Subtotal(), 0.001)

	// Quantity floors at one.
	assert.Equal(t, 1, FromProduct(p, 0).Quantity)
}

func TestSubtotalWithoutPrice(t *testing.T) {
	line := LineItem{Name: "Dobradiça Reta", Quantity: 4}
	assert.Equal(t, 0.0, line.Subtotal())
	assert.Equal(t, "Valor não informado", line.FormatUnitPrice())
}

func TestSummary(t *testing.T) {
	dim := "60x40"
	text := Summary(LineItem{Name: "Divisor Von Ort", Quantity: 2, UnitPrice: price(120.5), Dimensions: &dim})

	assert.Contains(t, text, "Resumo do Orçamento")
	assert.Contains(t, text, "*Produto:* Divisor Von Ort")
	assert.Contains(t, text, "*Dimensões:* 60x40")
	assert.Contains(t, text, "*Quantidade:* 2")
	assert.Contains(t, text, "*Valor unitário:* R$ 120.50")
	assert.Contains(t, text, "*Valor total:* R$ 241.00")
	assert.Contains(t, text, "PDF disponível para download")
}

func TestSummaryTruncatesLongNames(t *testing.T) {
	long := "Corrediça Telescópica Reforçada Extra Longa Para Gavetas Pesadas"
	text := Summary(LineItem{Name: long, Quantity: 1, UnitPrice: price(10)})
	assert.NotContains(t, text, long)
	assert.Contains(t, text, "...")
}

func TestMultiSummary(t *testing.T) {
	lines := []LineItem{
		{Name: "Hafele GT2", Quantity: 5, UnitPrice: price(89)},
		{Name: "Divisor Von Ort", Quantity: 10, UnitPrice: price(120.5)},
	}
	text := MultiSummary(lines)

	assert.Contains(t, text, "1. Hafele GT2")
	assert.Contains(t, text, "5 x R$ 89.00 = R$ 445.00")
	assert.Contains(t, text, "2. Divisor Von Ort")
	assert.Contains(t, text, "*Total geral:* R$ 1650.00")
}

func TestRenderProducesPDF(t *testing.T) {
	renderer := NewRenderer("Boa Vista", "(85) 9-9615-0458", "missing-logo.png")
	dim := "45cm"
	data, err := renderer.Render([]LineItem{
		{Name: "Corrediça Telescópica", Quantity: 3, UnitPrice: price(25.9), Dimensions: &dim},
	}, "Cliente s1")

	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestPDFStore(t *testing.T) {
	store := NewPDFStore()

	_, ok := store.Get("s1")
	assert.False(t, ok)

	store.Put("s1", []byte("first"))
	store.Put("s1", []byte("second"))
	data, ok := store.Get("s1")
	require.True(t, ok)
	assert.Equal(t, []byte("second"), data)

	store.Delete("s1")
	_, ok = store.Get("s1")
	assert.False(t, ok)
}
