package discovery

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDiscoverPairsTranscriptsWithAudio(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.vtt"))
	touch(t, filepath.Join(dir, "b.wav"))
	touch(t, filepath.Join(dir, "a.wav.vtt"))
	touch(t, filepath.Join(dir, "a.wav"))
	touch(t, filepath.Join(dir, "orphan.vtt"))
	touch(t, filepath.Join(dir, "lonely.wav"))
	touch(t, filepath.Join(dir, "sub", "c.vtt"))
	touch(t, filepath.Join(dir, "sub", "c.wav"))
	touch(t, filepath.Join(dir, ".cache", "d.vtt"))
	touch(t, filepath.Join(dir, ".cache", "d.wav"))

	pairs, err := Discover(dir)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	var names []string
	for _, p := range pairs {
		names = append(names, p.Name)
	}
	if !reflect.DeepEqual(names, []string{"a", "b", "sub/c"}) {
		t.Fatalf("names=%v", names)
	}
	if pairs[0].AudioPath != filepath.Join(dir, "a.wav") || pairs[0].TranscriptPath != filepath.Join(dir, "a.wav.vtt") {
		t.Fatalf("pair a=%+v", pairs[0])
	}
}

func TestDiscoverPrefersFirstTranscriptForSharedAudio(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "x.vtt"))
	touch(t, filepath.Join(dir, "x.wav.vtt"))
	touch(t, filepath.Join(dir, "x.wav"))
	pairs, err := Discover(dir)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(pairs) != 1 || pairs[0].TranscriptPath != filepath.Join(dir, "x.vtt") {
		t.Fatalf("pairs=%+v", pairs)
	}
}

func TestDiscoverMissingDir(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "talk.vtt"))
	touch(t, filepath.Join(dir, "talk.wav"))
	p, err := Find(filepath.Join(dir, "talk.vtt"), "")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if p.Name != "talk" || p.AudioPath != filepath.Join(dir, "talk.wav") {
		t.Fatalf("pair=%+v", p)
	}
	touch(t, filepath.Join(dir, "solo.vtt"))
	if _, err := Find(filepath.Join(dir, "solo.vtt"), ""); err == nil {
		t.Fatalf("expected error for transcript without audio")
	}
}
