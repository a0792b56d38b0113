// Package tokenize implements the single tokenization rule shared by
// indexing and query compilation: lowercase, split on
// non-alphanumeric, no stemming, no stopwords. internal/query imports
// this to split query terms; internal/index leaves indexing-side
// splitting to FTS5's unicode61 tokenizer, which also lowercases and
// splits on non-alphanumeric characters.
package tokenize

import "strings"

// Tokens splits s into lowercase alphanumeric runs.
func Tokens(s string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			cur.WriteRune(toLower(r))
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
