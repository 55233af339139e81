package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	base := time.Unix(1700000000, 0)
	for i, text := range []string{"hello world", "foo bar", "hello again"} {
		_, err := s.Record(ctx, Sample{
			Path:        filepath.Join("out", text+".wav"),
			Transcript:  "talk.vtt",
			Audio:       "talk.wav",
			Query:       "hello",
			CueIndex:    i,
			Text:        text,
			Start:       time.Duration(i) * time.Second,
			End:         time.Duration(i+1) * time.Second,
			StartOffset: -25 * time.Millisecond,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got))
	}
	if got[0].Text != "hello again" || got[1].Text != "foo bar" {
		t.Fatalf("order: %q, %q", got[0].Text, got[1].Text)
	}
	if got[0].Start != 2*time.Second || got[0].End != 3*time.Second || got[0].StartOffset != -25*time.Millisecond {
		t.Fatalf("range: %+v", got[0])
	}
	if got[0].CreatedAt.Unix() != base.Add(2*time.Minute).Unix() {
		t.Fatalf("createdAt=%v", got[0].CreatedAt)
	}

	all, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("recent all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(all))
	}
}

func TestCountForPathAndFileBackedStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "catalog.sqlite")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := s.Record(ctx, Sample{Path: "out/a.wav", Text: "a", End: time.Second}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	n, err := s.CountForPath(ctx, "out/a.wav")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("count=%d want 2", n)
	}
}

func TestRecentEmpty(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	got, err := s.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(got))
	}
}
