package catalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArchiTec-IA-Solution/architec-backend/internal/cache"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalogo.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestService(t *testing.T, content string) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return NewService(writeCSV(t, content), nil, 0, logger)
}

const sampleCatalog = "Descrição do Produto;Tamanho;Valor Final\n" +
	"Corrediça Telescópica 45cm;45cm;25,90\n" +
	"Corrediça Oculta Hafele;;R$ 89,00\n" +
	"Divisor Von Ort;60x40;120.50\n" +
	"Dobradiça Reta;35mm;abc\n"

func TestIdentifyColumns(t *testing.T) {
	cols := identifyColumns([]string{"Código", "Nome do Item", "Medida", "Preço Unit."})
	assert.Equal(t, 1, cols["descricao"])
	assert.Equal(t, 2, cols["dimensao"])
	assert.Equal(t, 3, cols["valor"])
}

func TestIdentifyColumnsFirstMatchWins(t *testing.T) {
	// "Valor Final" and "Preço" both alias valor; header order decides.
	cols := identifyColumns([]string{"Produto", "Valor Final", "Preço"})
	assert.Equal(t, 1, cols["valor"])
}

func TestParseValue(t *testing.T) {
	for raw, want := range map[string]float64{
		"25,90":      25.90,
		"R$ 89,00":   89.00,
		"1.234,56":   1234.56,
		"120.50":     120.50,
		"  42  ":     42,
	} {
		got := parseValue(raw)
		require.NotNil(t, got, raw)
		assert.InDelta(t, want, *got, 0.001, raw)
	}
	assert.Nil(t, parseValue("abc"))
	assert.Nil(t, parseValue(""))
}

func TestProductsFromCSV(t *testing.T) {
	svc := newTestService(t, sampleCatalog)
	products := svc.Products(context.Background())
	require.Len(t, products, 4)

	assert.Equal(t, "Corrediça Telescópica 45cm", products[0].Description)
	require.NotNil(t, products[0].Value)
	assert.InDelta(t, 25.90, *products[0].Value, 0.001)

	assert.False(t, products[1].HasDimension())
	assert.Nil(t, products[3].Value)
	assert.Equal(t, "Valor não informado", products[3].FormatValue())
}

func TestProductsMissingFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := NewService(filepath.Join(t.TempDir(), "nope.xlsx"), nil, 0, logger)
	assert.Empty(t, svc.Products(context.Background()))
}

func TestSearchAllTermsPass(t *testing.T) {
	svc := newTestService(t, sampleCatalog)
	results := svc.Search(context.Background(), "corrediça hafele")
	require.Len(t, results, 1)
	assert.Equal(t, "Corrediça Oculta Hafele", results[0].Description)
}

func TestSearchDropsShortTerms(t *testing.T) {
	svc := newTestService(t, sampleCatalog)
	// "de" is too short to act as a filter.
	results := svc.Search(context.Background(), "divisor de von")
	require.Len(t, results, 1)
	assert.Equal(t, "Divisor Von Ort", results[0].Description)
}

func TestSearchFallbackToAnyTerm(t *testing.T) {
	svc := newTestService(t, sampleCatalog)
	// No row contains both terms; the fallback matches each individually
	// without duplicating rows.
	results := svc.Search(context.Background(), "corrediça divisor")
	require.Len(t, results, 3)
	assert.Equal(t, "Corrediça Telescópica 45cm", results[0].Description)
	assert.Equal(t, "Divisor Von Ort", results[2].Description)
}

func TestSearchNoFallbackForSingleTerm(t *testing.T) {
	svc := newTestService(t, sampleCatalog)
	assert.Empty(t, svc.Search(context.Background(), "parafuso"))
	assert.Empty(t, svc.Search(context.Background(), ""))
}

func TestSearchUsesRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	path := writeCSV(t, sampleCatalog)
	svc := NewService(path, cache.New(mr.Addr(), "", 0), time.Minute, logger)

	ctx := context.Background()
	require.Len(t, svc.Products(ctx), 4)

	// The cached snapshot survives the file going away until Reload.
	require.NoError(t, os.Remove(path))
	assert.Len(t, svc.Products(ctx), 4)

	require.NoError(t, svc.Reload(ctx))
	assert.Empty(t, svc.Products(ctx))
}

func TestSuggestAlternatives(t *testing.T) {
	svc := newTestService(t, sampleCatalog)
	analysis := svc.SuggestAlternatives(context.Background(), "corrediça dourada")
	assert.Contains(t, analysis, "'corrediça': encontrado em")
	assert.Contains(t, analysis, "'dourada': nenhum produto contém este termo")
}

func TestProductMapRoundTrip(t *testing.T) {
	dim := "45cm"
	val := 25.9
	for _, p := range []Product{
		{Description: "Corrediça Telescópica", Dimension: &dim, Value: &val},
		{Description: "Dobradiça Reta"},
	} {
		assert.Equal(t, p, FromMap(p.ToMap()))
	}
}

func TestInspect(t *testing.T) {
	svc := newTestService(t, sampleCatalog)
	info := svc.Inspect(context.Background())
	assert.True(t, info.FileExists)
	assert.Equal(t, 4, info.TotalRecords)
	assert.Equal(t, "Descrição do Produto", info.Identified["descricao"])
	assert.Len(t, info.Samples, 4)
}
