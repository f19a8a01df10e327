package search

import "strings"

// Match scores for a single query word against one token list. A prefix hit
// is the maximum achievable, so scanning may stop at the first one; a
// substring hit is remembered while the scan keeps looking for a prefix.
const (
	ScoreNone      = 0.0
	ScoreSubstring = 0.5
	ScorePrefix    = 1.0
)

// RankWord scores queryWord against candidate tokens. Both sides must
// already be lowercased; Tokenize takes care of that for callers.
func RankWord(queryWord string, candidates []string) float64 {
	if queryWord == "" {
		return ScoreNone
	}

	score := ScoreNone
	for _, token := range candidates {
		if strings.HasPrefix(token, queryWord) {
			return ScorePrefix
		}
		if strings.Contains(token, queryWord) {
			score = ScoreSubstring
		}
	}
	return score
}

// RankQuery combines per-word scores into an entry-level rank by summing
// them. ok is false when any query word failed to match at all, in which
// case the entry is not a result for this query.
func RankQuery(queryWords []string, candidates []string) (rank float64, ok bool) {
	if len(queryWords) == 0 {
		return 0, false
	}
	for _, w := range queryWords {
		s := RankWord(w, candidates)
		if s == ScoreNone {
			return 0, false
		}
		rank += s
	}
	return rank, true
}
