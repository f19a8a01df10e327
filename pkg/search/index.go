package search

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Result is one ranked entry for a query. Rank orders results of a single
// query only; it is not comparable across queries.
type Result struct {
	ID   string
	Rank float64
}

// Index maps document IDs to their search tokens and keeps every token
// suffix in a patricia trie, so that a query word is a candidate hit exactly
// when it is a prefix of some stored suffix. The trie only prefilters
// candidates; exact scoring always goes through RankWord on the full token
// list.
type Index struct {
	trie   *patricia.Trie
	tokens map[string][]string
	order  map[string]int
	serial int
}

// NewIndex creates an empty search index.
func NewIndex() *Index {
	return &Index{
		trie:   patricia.NewTrie(),
		tokens: make(map[string][]string),
		order:  make(map[string]int),
	}
}

// Put tokenizes the given text fields and indexes them under id, replacing
// any previous tokens for that id. Insertion order is remembered for stable
// tie-breaking of equal ranks.
func (ix *Index) Put(id string, text ...string) {
	if _, exists := ix.tokens[id]; exists {
		ix.remove(id)
	} else {
		ix.order[id] = ix.serial
		ix.serial++
	}

	var tokens []string
	for _, t := range text {
		tokens = append(tokens, Tokenize(t)...)
	}
	ix.tokens[id] = tokens

	for _, token := range tokens {
		for i := range token {
			ix.insertSuffix(token[i:], id)
		}
	}
}

// Delete drops id from the index. Unknown ids are a no-op.
func (ix *Index) Delete(id string) {
	if _, exists := ix.tokens[id]; !exists {
		return
	}
	ix.remove(id)
	delete(ix.tokens, id)
	delete(ix.order, id)
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	return len(ix.tokens)
}

// Search tokenizes query and returns all matching documents ordered by rank
// descending, ties broken by insertion order. A limit of 0 means unlimited.
func (ix *Index) Search(query string, limit int) []Result {
	words := Tokenize(query)
	if len(words) == 0 {
		return nil
	}

	candidates := ix.candidates(words)
	if len(candidates) == 0 {
		return nil
	}

	results := make([]Result, 0, len(candidates))
	for _, id := range candidates {
		rank, ok := RankQuery(words, ix.tokens[id])
		if !ok {
			continue
		}
		results = append(results, Result{ID: id, Rank: rank})
	}

	// candidates are already in insertion order, so a stable sort keeps
	// older entries ahead of newer ones at equal rank
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Rank > results[j].Rank
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// candidates intersects the suffix-subtree hits of every query word and
// returns the surviving ids in insertion order.
func (ix *Index) candidates(words []string) []string {
	var survivors map[string]struct{}

	for _, word := range words {
		hits := ix.subtreeIDs(word)
		if len(hits) == 0 {
			return nil
		}
		if survivors == nil {
			survivors = hits
			continue
		}
		for id := range survivors {
			if _, ok := hits[id]; !ok {
				delete(survivors, id)
			}
		}
		if len(survivors) == 0 {
			return nil
		}
	}

	ordered := make([]string, 0, len(survivors))
	for id := range survivors {
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ix.order[ordered[i]] < ix.order[ordered[j]]
	})
	return ordered
}

// subtreeIDs collects the union of id sets stored below word in the trie.
func (ix *Index) subtreeIDs(word string) map[string]struct{} {
	hits := make(map[string]struct{})
	err := ix.trie.VisitSubtree(patricia.Prefix(word), func(p patricia.Prefix, item patricia.Item) error {
		ids, ok := item.(map[string]struct{})
		if !ok {
			log.Errorf("Unexpected trie item type %T at %q", item, p)
			return nil
		}
		for id := range ids {
			hits[id] = struct{}{}
		}
		return nil
	})
	if err != nil {
		log.Errorf("Trie subtree visit failed for %q: %v", word, err)
	}
	return hits
}

func (ix *Index) insertSuffix(suffix, id string) {
	prefix := patricia.Prefix(suffix)
	if item := ix.trie.Get(prefix); item != nil {
		if ids, ok := item.(map[string]struct{}); ok {
			ids[id] = struct{}{}
			return
		}
	}
	ix.trie.Insert(prefix, map[string]struct{}{id: {}})
}

// remove unlinks id from every suffix set it appears in, pruning sets that
// become empty.
func (ix *Index) remove(id string) {
	for _, token := range ix.tokens[id] {
		for i := range token {
			prefix := patricia.Prefix(token[i:])
			item := ix.trie.Get(prefix)
			ids, ok := item.(map[string]struct{})
			if !ok {
				continue
			}
			delete(ids, id)
			if len(ids) == 0 {
				ix.trie.Delete(prefix)
			}
		}
	}
}
