// Package search finds cues by query and expands matches into excerpts.
package search

import (
	"strings"

	"parasite/internal/cue"

	"golang.org/x/text/cases"
)

// Index caches the case-folded text of every cue so a query can be
// re-run on each keystroke without re-folding the transcript.
type Index struct {
	store  *cue.Store
	folded []string
}

// NewIndex folds the text of every cue in store.
func NewIndex(store *cue.Store) *Index {
	folder := cases.Fold()
	folded := make([]string, 0, store.Len())
	for c := range store.All() {
		folded = append(folded, folder.String(c.Text))
	}
	return &Index{store: store, folded: folded}
}

// Store returns the indexed store.
func (x *Index) Store() *cue.Store {
	return x.store
}

// Search returns the indexes of cues whose text contains every query token,
// in ascending order. An empty query matches nothing.
func (x *Index) Search(query string) []int {
	tokens := Tokens(query)
	if len(tokens) == 0 {
		return nil
	}
	var out []int
	for i, text := range x.folded {
		if containsAll(text, tokens) {
			out = append(out, i)
		}
	}
	return out
}

// Search is a one-shot search without a cached index.
func Search(query string, store *cue.Store) []int {
	return NewIndex(store).Search(query)
}

// Tokens case-folds query and splits it on whitespace, dropping duplicates.
func Tokens(query string) []string {
	fields := strings.Fields(cases.Fold().String(query))
	seen := make(map[string]struct{}, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func containsAll(text string, tokens []string) bool {
	for _, t := range tokens {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}
