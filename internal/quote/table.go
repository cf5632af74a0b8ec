package quote

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}

// Summary renders the single-product quote message sent back in chat.
func Summary(line LineItem) string {
	var b strings.Builder
	b.WriteString("📋 *Resumo do Orçamento*\n\n")
	fmt.Fprintf(&b, "*Produto:* %s\n", truncate(line.Name, 40))
	if line.Dimensions != nil && *line.Dimensions != "" {
		fmt.Fprintf(&b, "*Dimensões:* %s\n", *line.Dimensions)
	}
	fmt.Fprintf(&b, "*Quantidade:* %d\n", line.Quantity)
	fmt.Fprintf(&b, "*Valor unitário:* %s\n", line.FormatUnitPrice())
	fmt.Fprintf(&b, "*Valor total:* %s\n", FormatMoney(line.Subtotal()))
	b.WriteString("\n📄 PDF disponível para download abaixo")
	return b.String()
}

// MultiSummary renders the quote message for a list of products, with a
// grand total.
func MultiSummary(lines []LineItem) string {
	var b strings.Builder
	b.WriteString("📋 *Resumo do Orçamento*\n\n")
	for i, line := range lines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, truncate(line.Name, 30))
		if line.Dimensions != nil && *line.Dimensions != "" {
			fmt.Fprintf(&b, "   📏 %s\n", *line.Dimensions)
		}
		fmt.Fprintf(&b, "   %d x %s = %s\n", line.Quantity, line.FormatUnitPrice(), FormatMoney(line.Subtotal()))
	}
	fmt.Fprintf(&b, "\n*Total geral:* %s\n", FormatMoney(Total(lines)))
	b.WriteString("\n📄 PDF disponível para download abaixo")
	return b.String()
}
