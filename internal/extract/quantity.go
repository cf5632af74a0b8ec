// Package extract pulls quantities and product requests out of free-text
// Portuguese messages without any model call.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Standalone digit runs only: "45" counts, the 45 in "45cm" does not.
var digitRun = regexp.MustCompile(`\b\d+\b`)

// Spelled-out quantities, both genders where they differ, accent-free
// variants included. Checked in this order.
var numberWords = []struct {
	word  string
	value int
}{
	{"zero", 0},
	{"um", 1}, {"uma", 1},
	{"dois", 2}, {"duas", 2},
	{"três", 3}, {"tres", 3},
	{"quatro", 4},
	{"cinco", 5},
	{"seis", 6},
	{"sete", 7},
	{"oito", 8},
	{"nove", 9},
	{"dez", 10},
	{"onze", 11},
	{"doze", 12},
	{"treze", 13},
	{"quatorze", 14}, {"catorze", 14},
	{"quinze", 15},
	{"dezesseis", 16},
	{"dezessete", 17},
	{"dezoito", 18},
	{"dezenove", 19},
	{"vinte", 20},
}

// Digit quantities that only count when anchored to a unit word or an intent
// verb, tried after bare digits and number words.
var contextQuantity = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s+(?:unidades?|pcs?|peças?|itens?)`),
	regexp.MustCompile(`(?:quero|preciso|gostaria|precisaria)\s+(\d+)`),
	regexp.MustCompile(`(\d+)\s+(?:hafele|divisor|corrediça|dobradiça)`),
}

// Quantity extracts the requested quantity from text. Bare digits win, then
// spelled-out numbers, then contextual patterns. Anything below one, "zero"
// included, is floored to one: a quote line always has at least one unit.
func Quantity(text string) int {
	lower := strings.ToLower(text)

	if m := digitRun.FindString(lower); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return atLeastOne(n)
		}
	}

	padded := " " + lower + " "
	for _, nw := range numberWords {
		if strings.Contains(padded, " "+nw.word+" ") {
			return atLeastOne(nw.value)
		}
	}

	for _, re := range contextQuantity {
		if m := re.FindStringSubmatch(lower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return atLeastOne(n)
			}
		}
	}

	return 1
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
