package catalog

import "strings"

// Header aliases accepted for each canonical field, matched by substring
// against the lowercased header cell. Spreadsheets arrive from clients with
// wildly inconsistent headers, so matching stays permissive.
var columnAliases = []struct {
	field   string
	aliases []string
}{
	{"descricao", []string{"descrição", "descricao", "produto", "item", "nome", "description", "product"}},
	{"dimensao", []string{"dimensão", "dimensao", "tamanho", "medida", "size", "dimension"}},
	{"valor", []string{"valor final", "valor", "preço", "preco", "custo", "price", "cost"}},
}

// identifyColumns maps canonical field names to header indexes. For each field
// the first header (in sheet order) containing any alias wins. Fields with no
// matching header are absent from the result.
func identifyColumns(headers []string) map[string]int {
	found := make(map[string]int, len(columnAliases))
	for _, col := range columnAliases {
		for i, header := range headers {
			lower := strings.ToLower(strings.TrimSpace(header))
			matched := false
			for _, alias := range col.aliases {
				if strings.Contains(lower, alias) {
					matched = true
					break
				}
			}
			if matched {
				found[col.field] = i
				break
			}
		}
	}
	return found
}
