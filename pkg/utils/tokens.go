package utils

import "strings"

// EstimateTokens approximates the token count of a piece of text as one token
// per four characters of whitespace-normalized text, never less than one.
// Good enough for usage accounting; exact tokenizer counts are not needed.
func EstimateTokens(text string) int {
	normalized := strings.Join(strings.Fields(text), " ")
	n := (len(normalized) + 3) / 4
	if n < 1 {
		n = 1
	}
	return n
}
