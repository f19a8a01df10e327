// Package search implements query tokenization, per-word match ranking and a
// patricia-trie backed index over menu entries.
//
// Queries and indexed text go through the same tokenizer: lowercase, with
// hyphens and underscores treated as word separators. A query matches an
// entry only if every query word scores against at least one of the entry's
// tokens; prefix hits outrank substring hits. The overall entry rank is the
// sum of per-word scores and is only meaningful for ordering results of the
// same query.
package search

import "strings"

// tokenSeparators are collapsed into plain spaces before splitting, so
// "Files-Manager_GUI" and "files manager gui" index identically.
var tokenSeparators = strings.NewReplacer("-", " ", "_", " ")

// Tokenize splits display text into lowercase search tokens. Empty tokens are
// dropped, source order is preserved.
func Tokenize(text string) []string {
	normalized := tokenSeparators.Replace(strings.ToLower(text))
	fields := strings.Split(normalized, " ")

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
