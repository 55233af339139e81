// Package cue parses WebVTT transcripts into an ordered, read-only cue store.
package cue

import (
	"errors"
	"fmt"
	"iter"
	"time"
)

// ErrOutOfRange is returned when a cue index is outside the store.
var ErrOutOfRange = errors.New("cue index out of range")

// Cue is one timestamped unit of transcript text.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// Store holds the cues of one transcript in source order. It is never
// mutated after Parse returns, so it may be shared without locking.
type Store struct {
	cues []Cue
}

// NewStore builds a store from cues that already satisfy the ordering
// invariants. Indexes are reassigned densely.
func NewStore(cues []Cue) (*Store, error) {
	out := make([]Cue, len(cues))
	for i, c := range cues {
		if c.End <= c.Start {
			return nil, fmt.Errorf("cue %d: end %v not after start %v", i, c.End, c.Start)
		}
		if i > 0 && c.Start < out[i-1].Start {
			return nil, fmt.Errorf("cue %d: start %v before previous start %v", i, c.Start, out[i-1].Start)
		}
		c.Index = i
		out[i] = c
	}
	return &Store{cues: out}, nil
}

// Len returns the number of cues.
func (s *Store) Len() int {
	return len(s.cues)
}

// Get returns the cue at index i.
func (s *Store) Get(i int) (Cue, error) {
	if i < 0 || i >= len(s.cues) {
		return Cue{}, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(s.cues))
	}
	return s.cues[i], nil
}

// All yields every cue in index order. Each call starts from the first cue.
func (s *Store) All() iter.Seq[Cue] {
	return func(yield func(Cue) bool) {
		for _, c := range s.cues {
			if !yield(c) {
				return
			}
		}
	}
}

// Range yields cues lo..hi inclusive, clamped to the store.
func (s *Store) Range(lo, hi int) iter.Seq[Cue] {
	return func(yield func(Cue) bool) {
		from, to := max(lo, 0), min(hi, len(s.cues)-1)
		for i := from; i <= to; i++ {
			if !yield(s.cues[i]) {
				return
			}
		}
	}
}

// Duration returns the latest cue end.
func (s *Store) Duration() time.Duration {
	var d time.Duration
	for _, c := range s.cues {
		d = max(d, c.End)
	}
	return d
}
