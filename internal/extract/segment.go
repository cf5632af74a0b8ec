package extract

import (
	"regexp"
	"strings"
)

// Separators that indicate a message lists several products, scored by how
// strongly each implies enumeration.
var (
	conjunctionE = regexp.MustCompile(`(?i)\s+e\s+`)
	weakJoiners  = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s+e\s+mais\s+`),
		regexp.MustCompile(`(?i)\s+também\s+`),
		regexp.MustCompile(`(?i)\s+além\s+de\s+`),
	}
	numericToken = regexp.MustCompile(`\b\d+\b`)

	// "N word ... , N word" and "N word ... e N word" are near-certain
	// multi-product shapes.
	completePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d+\s+\S+.*?,\s*\d+\s+\S+`),
		regexp.MustCompile(`\d+\s+\S+.*?\s+e\s+\d+\s+\S+`),
	}
)

const multiProductThreshold = 5

// multiProductScore accumulates separator evidence that the message requests
// more than one product.
func multiProductScore(text string) int {
	lower := strings.ToLower(text)
	score := 0

	if strings.Contains(lower, ",") {
		score += 3
	}
	if conjunctionE.MatchString(lower) {
		score += 2
	}
	for _, re := range weakJoiners {
		if re.MatchString(lower) {
			score++
		}
	}
	if len(numericToken.FindAllString(lower, 2)) >= 2 {
		score += 2
	}
	for _, re := range completePatterns {
		if re.MatchString(lower) {
			score += 5
			break
		}
	}
	return score
}

// IsMultiProduct reports whether the message reads as a list of products
// rather than a single request.
func IsMultiProduct(text string) bool {
	return multiProductScore(text) >= multiProductThreshold
}

// Segment splits a multi-product message into per-product phrases: commas
// first, then the conjunction forms inside each part. Empty phrases are
// dropped; input casing is preserved.
func Segment(text string) []string {
	parts := strings.Split(text, ",")

	for _, re := range weakJoiners {
		parts = splitEach(parts, re)
	}
	parts = splitEach(parts, conjunctionE)

	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments
}

func splitEach(parts []string, re *regexp.Regexp) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, re.Split(p, -1)...)
	}
	return out
}
