package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArchiTec-IA-Solution/architec-backend/internal/catalog"
)

func TestQuantityDigits(t *testing.T) {
	assert.Equal(t, 5, Quantity("quero 5 corrediças"))
	assert.Equal(t, 12, Quantity("12 unidades do divisor"))
	// First digit run wins.
	assert.Equal(t, 3, Quantity("3 peças de 45cm"))
}

func TestQuantityIgnoresEmbeddedDigits(t *testing.T) {
	// Digits inside a word are part of a name or dimension, not a quantity.
	assert.Equal(t, 1, Quantity("quero corrediça de 45cm"))
	assert.Equal(t, 1, Quantity("quero hafele gt2"))
	assert.Equal(t, 4, Quantity("4 corrediças de 45cm"))
}

func TestQuantityNumberWords(t *testing.T) {
	assert.Equal(t, 2, Quantity("quero duas dobradiças"))
	assert.Equal(t, 3, Quantity("preciso de três corrediças"))
	assert.Equal(t, 15, Quantity("quinze divisores"))
}

func TestQuantityFloorsAtOne(t *testing.T) {
	assert.Equal(t, 1, Quantity("zero corrediças"))
	assert.Equal(t, 1, Quantity("0 unidades"))
	assert.Equal(t, 1, Quantity("uma corrediça qualquer"))
	assert.Equal(t, 1, Quantity("corrediça telescópica"))
	assert.Equal(t, 1, Quantity(""))
}

func TestIsMultiProduct(t *testing.T) {
	assert.True(t, IsMultiProduct("5 hafele gt2, 10 divisores von ort"))
	assert.True(t, IsMultiProduct("3 corrediças e 2 dobradiças"))
	assert.False(t, IsMultiProduct("quero uma corrediça telescópica"))
	// A single conjunction with no numbers is not enough evidence.
	assert.False(t, IsMultiProduct("corrediça bonita e barata"))
}

func TestSegment(t *testing.T) {
	segments := Segment("5 hafele gt2, 10 divisores von ort e preciso de 3 corrediças")
	require.Equal(t, []string{
		"5 hafele gt2",
		"10 divisores von ort",
		"preciso de 3 corrediças",
	}, segments)
}

func TestSegmentWeakJoiners(t *testing.T) {
	segments := Segment("2 divisores e mais 4 dobradiças, também 1 corrediça")
	require.Len(t, segments, 3)
	assert.Equal(t, "2 divisores", segments[0])
	assert.Equal(t, "4 dobradiças", segments[1])
	assert.Equal(t, "1 corrediça", segments[2])
}

func TestSplitPhrase(t *testing.T) {
	qty, phrase := splitPhrase("5 hafele gt2")
	assert.Equal(t, 5, qty)
	assert.Equal(t, "hafele gt2", phrase)

	qty, phrase = splitPhrase("dobradiça reta 4")
	assert.Equal(t, 4, qty)
	assert.Equal(t, "dobradiça reta", phrase)

	// No shape matches; the embedded number still becomes the quantity.
	qty, phrase = splitPhrase("preciso de 3 corrediças")
	assert.Equal(t, 3, qty)
	assert.Equal(t, "preciso de 3 corrediças", phrase)
}

func TestCleanPhrase(t *testing.T) {
	assert.Equal(t, "corrediças", cleanPhrase("preciso de 3 corrediças"))
	assert.Equal(t, "hafele gt2", cleanPhrase("quero 5 unidades de hafele gt2"))
	assert.Equal(t, "", cleanPhrase("quero 10 unidades"))
}

// stubFinder mimics the catalog two-pass match closely enough for extraction
// tests: all terms first, then any term.
type stubFinder struct {
	products []catalog.Product
}

func (s stubFinder) Search(_ context.Context, query string) []catalog.Product {
	terms := strings.Fields(strings.ToLower(query))

	var all []catalog.Product
	for _, p := range s.products {
		desc := strings.ToLower(p.Description)
		ok := true
		for _, term := range terms {
			if len([]rune(term)) > 2 && !strings.Contains(desc, term) {
				ok = false
				break
			}
		}
		if ok {
			all = append(all, p)
		}
	}
	if len(all) > 0 {
		return all
	}

	var any []catalog.Product
	for _, p := range s.products {
		desc := strings.ToLower(p.Description)
		for _, term := range terms {
			if len([]rune(term)) > 2 && strings.Contains(desc, term) {
				any = append(any, p)
				break
			}
		}
	}
	return any
}

func testFinder() stubFinder {
	price := func(v float64) *float64 { return &v }
	dim := "45cm"
	return stubFinder{products: []catalog.Product{
		{Description: "Hafele GT2", Value: price(89)},
		{Description: "Divisor Von Ort", Value: price(120.5)},
		{Description: "Corrediça Telescópica", Dimension: &dim, Value: price(25.9)},
	}}
}

func TestManualMultiProduct(t *testing.T) {
	items := Manual(context.Background(), testFinder(), "5 hafele gt2, 10 divisores von ort e preciso de 3 corrediças")
	require.Len(t, items, 3)

	assert.Equal(t, "Hafele GT2", items[0].Name)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "Divisor Von Ort", items[1].Name)
	assert.Equal(t, 10, items[1].Quantity)
	assert.Equal(t, "Corrediça Telescópica", items[2].Name)
	assert.Equal(t, 3, items[2].Quantity)
	assert.InDelta(t, 25.9*3, items[2].Subtotal(), 0.001)
}

func TestManualSegmentsWithoutQuantities(t *testing.T) {
	// Two products joined by "e" and no digits anywhere still split into
	// two one-unit items.
	items := Manual(context.Background(), testFinder(), "corrediça telescópica e divisor von ort")
	require.Len(t, items, 2)
	assert.Equal(t, "Corrediça Telescópica", items[0].Name)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, "Divisor Von Ort", items[1].Name)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestManualMergesRepeatedProduct(t *testing.T) {
	items := Manual(context.Background(), testFinder(), "3 hafele gt2, 2 hafele gt2")
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestManualUnresolvedSegmentsDropped(t *testing.T) {
	items := Manual(context.Background(), testFinder(), "2 parafusos, 3 hafele gt2")
	require.Len(t, items, 1)
	assert.Equal(t, "Hafele GT2", items[0].Name)
	assert.Equal(t, 3, items[0].Quantity)
}
