package utils

import (
	"strings"
	"unicode"
)

// IsSeparator checks if a rune splits words in queries and indexed text
func IsSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '.' || r == '/'
}

// ContainsSpecialChars checks if a string contains characters that cannot
// appear in application or qube names (non-alphanumeric characters
// excluding common separators)
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !IsSeparator(r) {
			return true
		}
	}
	return false
}

// IsRepetitive checks if a string consists of a single repeated character
// (e.g. "aaa", "www"), which never matches a real entry
func IsRepetitive(s string) bool {
	if len(s) <= 2 {
		return false
	}
	firstChar := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != firstChar {
			return false
		}
	}
	return true
}

// IsValidQuery checks if a search query is worth running against the index.
// Returns false for empty or all-whitespace strings, strings with special
// characters, and single-character-repetition strings.
func IsValidQuery(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	if ContainsSpecialChars(trimmed) {
		return false
	}
	if IsRepetitive(trimmed) {
		return false
	}
	return true
}
