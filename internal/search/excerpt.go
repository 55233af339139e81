package search

import (
	"fmt"
	"time"

	"parasite/internal/cue"
)

// Excerpt is the inclusive run of cues [Lo, Hi] around a matched cue.
type Excerpt struct {
	Center  int
	Context int
	Lo      int
	Hi      int
}

// Expand returns the cues within contextLines of center, clamped to the
// store. Negative contextLines count as zero; large values clamp.
func Expand(center, contextLines int, store *cue.Store) (Excerpt, error) {
	n := store.Len()
	if center < 0 || center >= n {
		return Excerpt{}, fmt.Errorf("expand: %w: %d (len %d)", cue.ErrOutOfRange, center, n)
	}
	contextLines = max(contextLines, 0)

	// Compare against the distance to each edge so huge values cannot overflow.
	lo := 0
	if contextLines < center {
		lo = center - contextLines
	}
	hi := n - 1
	if contextLines < n-1-center {
		hi = center + contextLines
	}
	return Excerpt{Center: center, Context: contextLines, Lo: lo, Hi: hi}, nil
}

// Len returns the number of cues in the excerpt.
func (e Excerpt) Len() int {
	return e.Hi - e.Lo + 1
}

// Bounds returns the first cue's start and the last cue's end.
func (e Excerpt) Bounds(store *cue.Store) (time.Duration, time.Duration, error) {
	first, err := store.Get(e.Lo)
	if err != nil {
		return 0, 0, err
	}
	last, err := store.Get(e.Hi)
	if err != nil {
		return 0, 0, err
	}
	return first.Start, last.End, nil
}

// Cues returns a copy of the excerpt's cues.
func (e Excerpt) Cues(store *cue.Store) []cue.Cue {
	out := make([]cue.Cue, 0, e.Len())
	for c := range store.Range(e.Lo, e.Hi) {
		out = append(out, c)
	}
	return out
}
