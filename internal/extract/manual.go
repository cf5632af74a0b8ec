package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/ArchiTec-IA-Solution/architec-backend/internal/catalog"
)

// Item is one extracted and catalog-resolved product request.
type Item struct {
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	Dimensions *string `json:"dimensions"`
}

// Subtotal is the line total for the item.
func (i Item) Subtotal() float64 {
	return float64(i.Quantity) * i.Price
}

// ProductFinder resolves a free-text phrase against the catalog.
type ProductFinder interface {
	Search(ctx context.Context, query string) []catalog.Product
}

// Phrase shapes tried in order against each segment. Groups are (quantity,
// phrase) or (phrase, quantity) as indicated by qtyFirst.
var phraseShapes = []struct {
	re       *regexp.Regexp
	qtyFirst bool
}{
	{regexp.MustCompile(`^(\d+)\s+(.+)$`), true},
	{regexp.MustCompile(`^(.+?)\s+(\d+)$`), false},
	{regexp.MustCompile(`^(?:quero|preciso|gostaria|precisaria)\s+(\d+)\s+(.+)$`), true},
	{regexp.MustCompile(`^(?:quero|preciso|gostaria|precisaria)\s+(.+?)\s+(\d+)$`), false},
}

var (
	fillerWords = regexp.MustCompile(`\b(quero|preciso|gostaria|precisaria|de|das|dos|unidades|pcs|peças|itens|unidade|pc|peça|item)\b`)
	looseDigits = regexp.MustCompile(`\b\d+\b`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// splitPhrase separates a segment into quantity and product phrase. Segments
// matching no shape keep their first embedded number as the quantity, if any.
func splitPhrase(segment string) (int, string) {
	for _, shape := range phraseShapes {
		m := shape.re.FindStringSubmatch(segment)
		if m == nil {
			continue
		}
		qtyStr, phrase := m[1], m[2]
		if !shape.qtyFirst {
			qtyStr, phrase = m[2], m[1]
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil {
			continue
		}
		return atLeastOne(qty), phrase
	}

	qty := 1
	if m := looseDigits.FindString(segment); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			qty = atLeastOne(n)
		}
	}
	return qty, segment
}

// cleanPhrase strips intent verbs, unit words, connectives and stray digit
// tokens, leaving only the product name to search for.
func cleanPhrase(phrase string) string {
	cleaned := fillerWords.ReplaceAllString(strings.ToLower(phrase), " ")
	cleaned = looseDigits.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(cleaned, " "))
}

// Manual extracts product requests from a message without a model call:
// segment, split off quantities, clean, then resolve each phrase against the
// catalog keeping the first match. Segmentation is unconditional; a message
// with no separators is simply one segment. Requests for the same product
// merge by summing quantities, compared case-insensitively.
func Manual(ctx context.Context, finder ProductFinder, message string) []Item {
	segments := Segment(message)

	items := make([]Item, 0, len(segments))
	index := make(map[string]int)

	for _, segment := range segments {
		segment = strings.ToLower(segment)
		qty, phrase := splitPhrase(segment)
		name := cleanPhrase(phrase)
		if name == "" {
			continue
		}

		results := finder.Search(ctx, name)
		if len(results) == 0 {
			continue
		}
		product := results[0]

		key := strings.ToLower(product.Description)
		if i, ok := index[key]; ok {
			items[i].Quantity += qty
			continue
		}
		index[key] = len(items)
		items = append(items, Item{
			Name:       product.Description,
			Quantity:   qty,
			Price:      product.UnitPrice(),
			Dimensions: product.Dimension,
		})
	}
	return items
}
