package embed

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text, splits on any rune that is neither
// alphanumeric nor an apostrophe, trims leading/trailing apostrophes
// from each piece, and drops empty or single-character tokens. Token
// order is preserved and duplicates are kept.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)

	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() == 0 {
			return
		}
		tok := strings.Trim(b.String(), "'")
		if len(tok) > 1 {
			tokens = append(tokens, tok)
		}
		b.Reset()
	}

	for _, r := range lower {
		if isAlphanumeric(r) || r == '\'' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
