package boundary

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

const (
	fine   = 25 * time.Millisecond
	coarse = 100 * time.Millisecond
)

func TestScenarioFineNudgesAndCrossingClamp(t *testing.T) {
	m := New(2*time.Second, 3*time.Second, 10*time.Second)

	m.NudgeStart(-fine)
	start, res := m.NudgeStart(-fine)
	if start != 1950*time.Millisecond || res != Applied {
		t.Fatalf("start=%v res=%v want 1.95s applied", start, res)
	}

	end, res := m.NudgeEnd(-2000 * time.Millisecond)
	if res != Clamped {
		t.Fatalf("crossing nudge should clamp, got %v", res)
	}
	if end != start+DefaultMinGap {
		t.Fatalf("end=%v want start+gap=%v", end, start+DefaultMinGap)
	}
	s, e := m.Range()
	if !(s < e) {
		t.Fatalf("ordering violated: %v >= %v", s, e)
	}
}

func TestStartCrossingClampsBelowEnd(t *testing.T) {
	m := New(time.Second, 2*time.Second, 0)
	start, res := m.NudgeStart(5 * time.Second)
	if res != Clamped || start != 2*time.Second-DefaultMinGap {
		t.Fatalf("start=%v res=%v", start, res)
	}
	// Already pressed against the end: further nudges are no-ops.
	if _, res := m.NudgeStart(coarse); res != Rejected {
		t.Fatalf("expected rejected, got %v", res)
	}
}

func TestClampsAtZeroAndLimit(t *testing.T) {
	m := New(50*time.Millisecond, 4950*time.Millisecond, 5*time.Second)

	start, res := m.NudgeStart(-coarse)
	if start != 0 || res != Clamped {
		t.Fatalf("start=%v res=%v want 0 clamped", start, res)
	}
	if _, res := m.NudgeStart(-coarse); res != Rejected {
		t.Fatalf("start at zero should reject, got %v", res)
	}

	end, res := m.NudgeEnd(coarse)
	if end != 5*time.Second || res != Clamped {
		t.Fatalf("end=%v res=%v want 5s clamped", end, res)
	}
	if _, res := m.NudgeEnd(fine); res != Rejected {
		t.Fatalf("end at limit should reject, got %v", res)
	}
}

func TestUnboundedEnd(t *testing.T) {
	m := New(0, time.Second, 0)
	end, res := m.NudgeEnd(time.Hour)
	if end != time.Hour+time.Second || res != Applied {
		t.Fatalf("end=%v res=%v", end, res)
	}
}

func TestHugeDeltasClampInsteadOfWrapping(t *testing.T) {
	cases := []struct {
		name  string
		limit time.Duration
		nudge func(m *Model) (time.Duration, Result)
		want  time.Duration
		res   Result
	}{
		{"start max", 0, func(m *Model) (time.Duration, Result) { return m.NudgeStart(math.MaxInt64) }, 3*time.Second - DefaultMinGap, Clamped},
		{"start min", 0, func(m *Model) (time.Duration, Result) { return m.NudgeStart(math.MinInt64) }, 0, Clamped},
		{"end max with limit", 10 * time.Second, func(m *Model) (time.Duration, Result) { return m.NudgeEnd(math.MaxInt64) }, 10 * time.Second, Clamped},
		{"end max unbounded", 0, func(m *Model) (time.Duration, Result) { return m.NudgeEnd(math.MaxInt64) }, math.MaxInt64, Clamped},
		{"end min", 0, func(m *Model) (time.Duration, Result) { return m.NudgeEnd(math.MinInt64) }, time.Second + DefaultMinGap, Clamped},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := New(time.Second, 3*time.Second, c.limit)
			got, res := c.nudge(m)
			if got != c.want || res != c.res {
				t.Fatalf("got %v %v, want %v %v", got, res, c.want, c.res)
			}
			if s, e := m.Range(); !(s < e) {
				t.Fatalf("ordering violated: %v >= %v", s, e)
			}
		})
	}
}

func TestResetRestoresOriginal(t *testing.T) {
	m := New(1200*time.Millisecond, 3400*time.Millisecond, 10*time.Second)
	m.NudgeStart(coarse)
	m.NudgeEnd(-fine)
	m.NudgeEnd(-fine)
	if !m.Adjusted() {
		t.Fatalf("expected adjusted")
	}
	ds, de := m.Offsets()
	if ds != coarse || de != -2*fine {
		t.Fatalf("offsets=(%v,%v)", ds, de)
	}
	m.Reset()
	s, e := m.Range()
	os, oe := m.Original()
	if s != os || e != oe || s != 1200*time.Millisecond || e != 3400*time.Millisecond {
		t.Fatalf("reset gave (%v,%v), original (%v,%v)", s, e, os, oe)
	}
	if m.Adjusted() {
		t.Fatalf("reset model should not report adjusted")
	}
}

func TestAdversarialSequencesKeepOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	steps := []time.Duration{fine, -fine, coarse, -coarse, 3 * time.Second, -3 * time.Second, 0}
	for run := 0; run < 200; run++ {
		m := New(time.Second, 1100*time.Millisecond, 2*time.Second, WithMinGap(5*time.Millisecond))
		for i := 0; i < 100; i++ {
			d := steps[rng.Intn(len(steps))]
			if rng.Intn(2) == 0 {
				m.NudgeStart(d)
			} else {
				m.NudgeEnd(d)
			}
			s, e := m.Range()
			if !(s < e) || s < 0 || e > 2*time.Second {
				t.Fatalf("run %d step %d: invalid range (%v,%v)", run, i, s, e)
			}
		}
		m.Reset()
		if s, e := m.Range(); s != time.Second || e != 1100*time.Millisecond {
			t.Fatalf("run %d: reset gave (%v,%v)", run, s, e)
		}
	}
}

func TestTinySegmentNeverMovesBackwards(t *testing.T) {
	m := New(time.Second, time.Second+5*time.Millisecond, 0)
	if start, res := m.NudgeStart(fine); res != Rejected || start != time.Second {
		t.Fatalf("start=%v res=%v", start, res)
	}
	if end, res := m.NudgeEnd(-fine); res != Rejected || end != time.Second+5*time.Millisecond {
		t.Fatalf("end=%v res=%v", end, res)
	}
}
