// Package highlight marks query words inside display labels. Found spans are
// merged first so that overlapping hits never produce nested or interleaved
// markup, then the delimiters are spliced in back to front so earlier
// insertions cannot shift offsets that are still pending.
package highlight

import (
	"sort"
	"strings"
)

// Interval is a half-open [Start, End) byte range inside a display string.
type Interval struct {
	Start int
	End   int
}

// Markup is the delimiter pair wrapped around each highlighted span. Callers
// inject it explicitly; this package has no notion of themes or styles.
type Markup struct {
	Open  string
	Close string
}

// Merge coalesces overlapping and touching intervals. The input does not
// need to be sorted or disjoint; the output is sorted, pairwise-disjoint and
// idempotent under Merge. Empty input yields empty output.
func Merge(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	merged := []Interval{sorted[0]}
	for _, next := range sorted[1:] {
		cur := &merged[len(merged)-1]
		if next.Start <= cur.End {
			if next.End > cur.End {
				cur.End = next.End
			}
			continue
		}
		merged = append(merged, next)
	}
	return merged
}

// Find locates the first occurrence of each word in text, case-insensitively,
// and returns the raw (unmerged) intervals. Words not present are skipped.
func Find(text string, words []string) []Interval {
	lowered := strings.ToLower(text)

	var found []Interval
	for _, word := range words {
		if word == "" {
			continue
		}
		if start := strings.Index(lowered, word); start >= 0 {
			found = append(found, Interval{Start: start, End: start + len(word)})
		}
	}
	return found
}

// Apply wraps each interval of text in the markup delimiters. Intervals must
// already be merged; they are processed from highest start to lowest so the
// splices do not invalidate the remaining offsets.
func Apply(text string, intervals []Interval, m Markup) string {
	var b strings.Builder
	for i := len(intervals) - 1; i >= 0; i-- {
		iv := intervals[i]
		if iv.Start < 0 || iv.End > len(text) || iv.Start >= iv.End {
			continue
		}
		b.Reset()
		b.WriteString(text[:iv.Start])
		b.WriteString(m.Open)
		b.WriteString(text[iv.Start:iv.End])
		b.WriteString(m.Close)
		b.WriteString(text[iv.End:])
		text = b.String()
	}
	return text
}

// Words is the one-call form used by result rendering: find, merge, apply.
func Words(text string, words []string, m Markup) string {
	found := Find(text, words)
	if len(found) == 0 {
		return text
	}
	return Apply(text, Merge(found), m)
}
