package search

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"parasite/internal/cue"
)

func threeCueStore(t *testing.T) *cue.Store {
	t.Helper()
	store, err := cue.NewStore([]cue.Cue{
		{Start: 0, End: time.Second, Text: "hello world"},
		{Start: time.Second, End: 2 * time.Second, Text: "foo bar"},
		{Start: 2 * time.Second, End: 3 * time.Second, Text: "hello again"},
	})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return store
}

func storeOf(t *testing.T, n int) *cue.Store {
	t.Helper()
	cues := make([]cue.Cue, n)
	for i := range cues {
		cues[i] = cue.Cue{Start: time.Duration(i) * time.Second, End: time.Duration(i+1) * time.Second, Text: "line"}
	}
	store, err := cue.NewStore(cues)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return store
}

func TestSearchScenario(t *testing.T) {
	store := threeCueStore(t)
	got := Search("hello", store)
	if !reflect.DeepEqual(got, []int{0, 2}) {
		t.Fatalf("Search(hello)=%v want [0 2]", got)
	}
}

func TestSearchAllWordsAnyOrder(t *testing.T) {
	store, err := cue.NewStore([]cue.Cue{
		{Start: 0, End: time.Second, Text: "The Quick brown fox"},
		{Start: time.Second, End: 2 * time.Second, Text: "a quick dog"},
		{Start: 2 * time.Second, End: 3 * time.Second, Text: "FOX and the QUICKSILVER"},
	})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	cases := []struct {
		query string
		want  []int
	}{
		{"fox quick", []int{0, 2}},
		{"QUICK", []int{0, 1, 2}},
		{"  quick   dog ", []int{1}},
		{"brown cat", nil},
		{"quick brown fox", []int{0}},
		{"fox fox", []int{0, 2}},
	}
	for _, c := range cases {
		got := Search(c.query, store)
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("Search(%q)=%v want %v", c.query, got, c.want)
		}
	}
}

func TestSearchEmptyQueryMatchesNothing(t *testing.T) {
	store := threeCueStore(t)
	for _, q := range []string{"", "   ", "\t\n"} {
		if got := Search(q, store); len(got) != 0 {
			t.Fatalf("Search(%q)=%v want empty", q, got)
		}
	}
}

func TestSearchResultsContainEveryToken(t *testing.T) {
	store := threeCueStore(t)
	idx := NewIndex(store)
	for _, q := range []string{"hello", "o", "HELLO wor", "a", "bar foo"} {
		for _, i := range idx.Search(q) {
			c, err := store.Get(i)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			for _, tok := range strings.Fields(strings.ToLower(q)) {
				if !strings.Contains(strings.ToLower(c.Text), tok) {
					t.Fatalf("query %q matched %q without token %q", q, c.Text, tok)
				}
			}
		}
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	store := threeCueStore(t)
	idx := NewIndex(store)
	first := idx.Search("l")
	for i := 0; i < 5; i++ {
		if got := idx.Search("l"); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: %v != %v", i, got, first)
		}
		if got := Search("l", store); !reflect.DeepEqual(got, first) {
			t.Fatalf("uncached run %d: %v != %v", i, got, first)
		}
	}
}

func TestSearchUnicodeFolding(t *testing.T) {
	store, err := cue.NewStore([]cue.Cue{{Start: 0, End: time.Second, Text: "Straße ÉCOLE"}})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	for _, q := range []string{"strasse", "école", "STRASSE école"} {
		if got := Search(q, store); !reflect.DeepEqual(got, []int{0}) {
			t.Fatalf("Search(%q)=%v", q, got)
		}
	}
}

func TestExpand(t *testing.T) {
	store := storeOf(t, 10)
	cases := []struct {
		center, context int
		lo, hi          int
	}{
		{0, 3, 0, 3},
		{0, 5, 0, 5},
		{5, 0, 5, 5},
		{5, 2, 3, 7},
		{9, 2, 7, 9},
		{4, -3, 4, 4},
		{4, 100, 0, 9},
		{4, math.MaxInt, 0, 9},
	}
	for _, c := range cases {
		ex, err := Expand(c.center, c.context, store)
		if err != nil {
			t.Fatalf("Expand(%d,%d): %v", c.center, c.context, err)
		}
		if ex.Lo != c.lo || ex.Hi != c.hi {
			t.Fatalf("Expand(%d,%d)=(%d,%d) want (%d,%d)", c.center, c.context, ex.Lo, ex.Hi, c.lo, c.hi)
		}
		if ex.Lo < 0 || ex.Hi > store.Len()-1 || c.center < ex.Lo || c.center > ex.Hi {
			t.Fatalf("Expand(%d,%d) out of bounds: %+v", c.center, c.context, ex)
		}
	}
}

func TestExpandScenario(t *testing.T) {
	store := threeCueStore(t)
	ex, err := Expand(2, 1, store)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if ex.Lo != 1 || ex.Hi != 2 {
		t.Fatalf("range=(%d,%d) want (1,2)", ex.Lo, ex.Hi)
	}
	start, end, err := ex.Bounds(store)
	if err != nil {
		t.Fatalf("bounds: %v", err)
	}
	if start != time.Second || end != 3*time.Second {
		t.Fatalf("bounds=(%v,%v)", start, end)
	}
	if got := ex.Cues(store); len(got) != 2 || got[0].Text != "foo bar" {
		t.Fatalf("cues=%+v", got)
	}
}

func TestExpandRejectsBadCenter(t *testing.T) {
	store := threeCueStore(t)
	for _, c := range []int{-1, 3} {
		if _, err := Expand(c, 1, store); !errors.Is(err, cue.ErrOutOfRange) {
			t.Fatalf("Expand(%d) err=%v", c, err)
		}
	}
}
