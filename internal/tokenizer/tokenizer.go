package tokenizer

import (
	"strings"
	"unicode"
)

// Token is a single term with its byte offsets into the original text.
// Offsets point at the original (pre-lowercasing) bytes so callers can
// build highlight spans.
type Token struct {
	Text  string
	Start int
	End   int
}

// Tokenize converts a string into a slice of lowercase tokens. Text is
// split on anything that is not a letter or digit, which copes with the
// punctuation-heavy transcriptions found in TEI editions.
func Tokenize(text string) []string {
	tokens := make([]string, 0)
	for _, tok := range TokenizeWithOffsets(text) {
		tokens = append(tokens, tok.Text)
	}
	return tokens
}

// TokenizeWithOffsets splits text into tokens and records where each one
// sits in the input.
func TokenizeWithOffsets(text string) []Token {
	tokens := make([]Token, 0)
	start := -1
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, Token{
				Text:  strings.ToLower(text[start:i]),
				Start: start,
				End:   i,
			})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{
			Text:  strings.ToLower(text[start:]),
			Start: start,
			End:   len(text),
		})
	}
	return tokens
}

// GeneratePrefixNGrams creates prefix n-grams from a token, from length 1 up
// to the token's length. For the token "regina" it produces: "r", "re",
// "reg", "regi", "regin", "regina". Prefixes are cut on rune boundaries.
func GeneratePrefixNGrams(token string) []string {
	if token == "" {
		return make([]string, 0)
	}

	runes := []rune(token)
	ngrams := make([]string, len(runes))
	for i := 1; i <= len(runes); i++ {
		ngrams[i-1] = string(runes[:i])
	}
	return ngrams
}
