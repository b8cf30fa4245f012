package recognition

import "strings"

// Tokenize lowercases text and splits it on whitespace
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// FilterShort drops tokens shorter than min runes
func FilterShort(tokens []string, min int) []string {
	out := tokens[:0:0]
	for _, t := range tokens {
		if len([]rune(t)) >= min {
			out = append(out, t)
		}
	}
	return out
}
