package session

import (
	"time"

	"parasite/internal/boundary"
	"parasite/internal/cue"
)

// OutcomeKind classifies the last extraction attempt.
type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeWritten
	OutcomeFailed
)

// Outcome is the result of the most recent ConfirmExtract.
type Outcome struct {
	Kind     OutcomeKind
	Path     string
	Start    time.Duration
	End      time.Duration
	Duration time.Duration
	Err      error
	At       time.Time
}

// Result summarises one search hit.
type Result struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// Bounds is the active segment and how far it moved from the excerpt.
type Bounds struct {
	Start         time.Duration
	End           time.Duration
	OriginalStart time.Duration
	OriginalEnd   time.Duration
	StartOffset   time.Duration
	EndOffset     time.Duration
	Last          boundary.Result
}

// Adjusted reports whether either edge differs from the excerpt.
func (b Bounds) Adjusted() bool {
	return b.StartOffset != 0 || b.EndOffset != 0
}

// View is a snapshot of everything a renderer needs.
type View struct {
	State         State
	Document      string
	Query         string
	Results       []Result
	Selected      int // index into Results, -1 when nothing is selected
	Context       int
	MaxContext    int
	Excerpt       []cue.Cue
	Center        int // cue index of the match inside Excerpt
	Bounds        *Bounds
	Outcome       Outcome
	Status        string
	AudioDuration time.Duration
	CueCount      int
}

// View builds a snapshot of the current state.
func (c *Controller) View() View {
	v := View{
		State:         c.state,
		Document:      c.opts.Name,
		Query:         c.query,
		Selected:      -1,
		Context:       c.lines,
		MaxContext:    c.opts.MaxContext,
		Center:        -1,
		Outcome:       c.outcome,
		Status:        c.status,
		AudioDuration: c.audioLimit(),
		CueCount:      c.store.Len(),
	}
	if len(c.results) > 0 {
		v.Results = make([]Result, 0, len(c.results))
		for _, i := range c.results {
			cu, err := c.store.Get(i)
			if err != nil {
				continue
			}
			v.Results = append(v.Results, Result{Index: i, Start: cu.Start, End: cu.End, Text: cu.Text})
		}
	}
	if c.hasSelection() {
		v.Selected = c.selected
		v.Excerpt = c.excerpt.Cues(c.store)
		v.Center = c.excerpt.Center
		start, end := c.bounds.Range()
		os, oe := c.bounds.Original()
		ds, de := c.bounds.Offsets()
		v.Bounds = &Bounds{
			Start:         start,
			End:           end,
			OriginalStart: os,
			OriginalEnd:   oe,
			StartOffset:   ds,
			EndOffset:     de,
			Last:          c.nudge,
		}
	}
	return v
}
