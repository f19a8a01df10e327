package search

import "testing"

func TestRankWord(t *testing.T) {
	testCases := []struct {
		word        string
		candidates  []string
		expected    float64
		description string
	}{
		{"fi", []string{"file", "edit"}, ScorePrefix, "Prefix match on first candidate"},
		{"le", []string{"file"}, ScoreSubstring, "Substring but not prefix"},
		{"xyz", []string{"file"}, ScoreNone, "No match"},
		{"", []string{"file", "edit"}, ScoreNone, "Empty query word"},
		{"edit", []string{"file", "edit"}, ScorePrefix, "Exact word counts as prefix"},
		{"editor", []string{"edit"}, ScoreNone, "Query word longer than every candidate"},
		{"it", []string{"editor", "iterm"}, ScorePrefix, "Prefix on later candidate beats earlier substring"},
		{"o", []string{"firefox", "chromium"}, ScoreSubstring, "Single letter substring"},
		{"fi", nil, ScoreNone, "No candidates at all"},
	}

	for _, tc := range testCases {
		if got := RankWord(tc.word, tc.candidates); got != tc.expected {
			t.Errorf("%s: RankWord(%q, %v) = %v, want %v",
				tc.description, tc.word, tc.candidates, got, tc.expected)
		}
	}
}

func TestRankWordPrefixBeatsSubstringAnywhere(t *testing.T) {
	// substring hit is remembered while scanning, prefix hit wins even when
	// it comes last
	candidates := []string{"defile", "zfile", "filer"}
	if got := RankWord("file", candidates); got != ScorePrefix {
		t.Fatalf("RankWord = %v, want prefix score %v", got, ScorePrefix)
	}
}

func TestRankQuery(t *testing.T) {
	tokens := []string{"text", "editor", "gnome"}

	testCases := []struct {
		words        []string
		expectedRank float64
		expectedOK   bool
		description  string
	}{
		{[]string{"text"}, 1, true, "Single prefix word"},
		{[]string{"text", "ed"}, 2, true, "Two prefix words sum"},
		{[]string{"ext", "ed"}, 1.5, true, "Substring plus prefix"},
		{[]string{"text", "zzz"}, 0, false, "One miss disqualifies the entry"},
		{nil, 0, false, "Empty query"},
	}

	for _, tc := range testCases {
		rank, ok := RankQuery(tc.words, tokens)
		if ok != tc.expectedOK || rank != tc.expectedRank {
			t.Errorf("%s: RankQuery(%v) = (%v, %v), want (%v, %v)",
				tc.description, tc.words, rank, ok, tc.expectedRank, tc.expectedOK)
		}
	}
}
