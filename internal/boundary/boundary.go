// Package boundary tracks an adjustable segment range and the original
// cue boundaries it was seeded from.
package boundary

import (
	"math"
	"time"
)

// DefaultMinGap is the shortest segment a nudge may produce.
const DefaultMinGap = 10 * time.Millisecond

// Result describes what a nudge did.
type Result int

const (
	// Rejected means the value did not move.
	Rejected Result = iota
	// Clamped means the value moved less than requested.
	Clamped
	// Applied means the full delta was applied.
	Applied
)

func (r Result) String() string {
	switch r {
	case Applied:
		return "applied"
	case Clamped:
		return "clamped"
	default:
		return "rejected"
	}
}

// Option configures a Model.
type Option func(*Model)

// WithMinGap sets the smallest allowed end-start distance.
func WithMinGap(gap time.Duration) Option {
	return func(m *Model) {
		if gap > 0 {
			m.minGap = gap
		}
	}
}

// Model holds the current and original (start, end) pair. The current
// pair always satisfies start < end once a nudge has been applied.
type Model struct {
	origStart, origEnd time.Duration
	start, end         time.Duration
	limit              time.Duration
	minGap             time.Duration
}

// New seeds a model with the excerpt boundaries. limit is the audio
// duration; zero means no upper bound.
func New(start, end, limit time.Duration, opts ...Option) *Model {
	m := &Model{
		origStart: start,
		origEnd:   end,
		start:     start,
		end:       end,
		limit:     limit,
		minGap:    DefaultMinGap,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NudgeStart moves the start by delta, clamped to [0, end-gap].
func (m *Model) NudgeStart(delta time.Duration) (time.Duration, Result) {
	want, sat := addSat(m.start, delta)
	got := want
	got = min(got, m.end-m.minGap)
	got = max(got, 0)
	if got >= m.end || wrongWay(delta, m.start, got) {
		return m.start, Rejected
	}
	res := m.apply(&m.start, got, want)
	if sat && res == Applied {
		res = Clamped
	}
	return m.start, res
}

// NudgeEnd moves the end by delta, clamped to [start+gap, limit].
func (m *Model) NudgeEnd(delta time.Duration) (time.Duration, Result) {
	want, sat := addSat(m.end, delta)
	got := want
	got = max(got, m.start+m.minGap)
	if m.limit > 0 {
		got = min(got, m.limit)
	}
	if got <= m.start || wrongWay(delta, m.end, got) {
		return m.end, Rejected
	}
	res := m.apply(&m.end, got, want)
	if sat && res == Applied {
		res = Clamped
	}
	return m.end, res
}

// addSat adds d to t, saturating at the int64 range instead of wrapping.
// The bool reports whether it saturated.
func addSat(t, d time.Duration) (time.Duration, bool) {
	switch {
	case d > 0 && t > math.MaxInt64-d:
		return math.MaxInt64, true
	case d < 0 && t < math.MinInt64-d:
		return math.MinInt64, true
	}
	return t + d, false
}

// wrongWay reports whether clamping would move a value against the nudge,
// which happens when the current segment is already shorter than the gap.
func wrongWay(delta, from, to time.Duration) bool {
	return (delta > 0 && to < from) || (delta < 0 && to > from)
}

func (m *Model) apply(field *time.Duration, got, want time.Duration) Result {
	if got == *field {
		return Rejected
	}
	*field = got
	if got != want {
		return Clamped
	}
	return Applied
}

// Reset restores the original boundaries.
func (m *Model) Reset() {
	m.start, m.end = m.origStart, m.origEnd
}

// Range returns the current (start, end).
func (m *Model) Range() (time.Duration, time.Duration) {
	return m.start, m.end
}

// Original returns the seeded (start, end).
func (m *Model) Original() (time.Duration, time.Duration) {
	return m.origStart, m.origEnd
}

// Offsets returns how far the current pair sits from the original.
func (m *Model) Offsets() (time.Duration, time.Duration) {
	return m.start - m.origStart, m.end - m.origEnd
}

// Adjusted reports whether either boundary differs from the original.
func (m *Model) Adjusted() bool {
	return m.start != m.origStart || m.end != m.origEnd
}
