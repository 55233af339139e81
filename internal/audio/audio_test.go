package audio

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeFixture encodes frames of a ramp signal so every sample is distinct.
func writeFixture(t *testing.T, dir string, f Format, frames int) string {
	t.Helper()
	path := filepath.Join(dir, "fixture.wav")
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer out.Close()
	data := make([]int, frames*f.Channels)
	for i := range data {
		data[i] = (i % 2000) - 1000
	}
	enc := wav.NewEncoder(out, f.SampleRate, f.BitDepth, f.Channels, f.AudioFormat)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate},
		Data:           data,
		SourceBitDepth: f.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	return path
}

var mono16k = Format{SampleRate: 16000, Channels: 1, BitDepth: 16, AudioFormat: FormatPCM}

func TestOpenReportsFormatAndDuration(t *testing.T) {
	path := writeFixture(t, t.TempDir(), mono16k, 80000)
	src, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if src.Format != mono16k {
		t.Fatalf("format=%+v", src.Format)
	}
	if src.Frames() != 80000 || src.Duration() != 5*time.Second {
		t.Fatalf("frames=%d duration=%v", src.Frames(), src.Duration())
	}
}

func TestOpenRejectsNonWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.wav")
	if err := os.WriteFile(path, []byte("definitely not riff data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Fatalf("expected error for junk input")
	}
}

func TestFrameArithmetic(t *testing.T) {
	cases := []struct {
		d          time.Duration
		rate       int
		floor, ceil int64
	}{
		{0, 16000, 0, 0},
		{time.Second, 16000, 16000, 16000},
		{1500 * time.Millisecond, 16000, 24000, 24000},
		{time.Nanosecond, 44100, 0, 1},
		{1001 * time.Millisecond, 44100, 44144, 44145},
		{3*time.Hour + 7*time.Millisecond, 48000, 518400336, 518400336},
	}
	for _, c := range cases {
		if got := FloorFrames(c.d, c.rate); got != c.floor {
			t.Fatalf("FloorFrames(%v,%d)=%d want %d", c.d, c.rate, got, c.floor)
		}
		if got := CeilFrames(c.d, c.rate); got != c.ceil {
			t.Fatalf("CeilFrames(%v,%d)=%d want %d", c.d, c.rate, got, c.ceil)
		}
	}
	if got := FramesToDuration(44100, 44100); got != time.Second {
		t.Fatalf("FramesToDuration=%v", got)
	}
}

func TestExtractDurationCoversRequest(t *testing.T) {
	path := writeFixture(t, t.TempDir(), Format{SampleRate: 44100, Channels: 1, BitDepth: 16, AudioFormat: FormatPCM}, 44100*3)
	src, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ranges := [][2]time.Duration{
		{0, time.Second},
		{1001 * time.Millisecond, 1002 * time.Millisecond},
		{333 * time.Millisecond, 2999 * time.Millisecond},
		{2 * time.Second, 3 * time.Second},
	}
	for _, r := range ranges {
		art, err := Extract(src, r[0], r[1])
		if err != nil {
			t.Fatalf("extract %v: %v", r, err)
		}
		want := r[1] - r[0]
		if art.Duration() < want || art.Duration()-want > 2*time.Second/44100 {
			t.Fatalf("range %v: artifact %v, requested %v", r, art.Duration(), want)
		}
	}
}

func TestExtractErrors(t *testing.T) {
	src, err := Open(writeFixture(t, t.TempDir(), mono16k, 16000))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	cases := []struct {
		name       string
		start, end time.Duration
		kind       error
	}{
		{"negative start", -time.Millisecond, 500 * time.Millisecond, ErrOutOfBounds},
		{"past end", 500 * time.Millisecond, 1001 * time.Millisecond, ErrOutOfBounds},
		{"reversed", 800 * time.Millisecond, 200 * time.Millisecond, ErrEmptyRange},
		{"zero length", 500 * time.Millisecond, 500 * time.Millisecond, ErrEmptyRange},
	}
	for _, c := range cases {
		_, err := Extract(src, c.start, c.end)
		if !errors.Is(err, c.kind) {
			t.Fatalf("%s: err=%v want %v", c.name, err, c.kind)
		}
		var ee *ExtractionError
		if !errors.As(err, &ee) || ee.Start != c.start || ee.End != c.end {
			t.Fatalf("%s: missing range in %v", c.name, err)
		}
	}
	// The whole source is a valid range.
	if _, err := Extract(src, 0, time.Second); err != nil {
		t.Fatalf("full range: %v", err)
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	src, err := Open(writeFixture(t, dir, mono16k, 32000))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	art, err := Extract(src, 250*time.Millisecond, 1250*time.Millisecond)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	out := filepath.Join(dir, "out", "clip.wav")
	if err := art.Save(context.Background(), out); err != nil {
		t.Fatalf("save: %v", err)
	}
	first, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	again, err := Extract(src, 250*time.Millisecond, 1250*time.Millisecond)
	if err != nil {
		t.Fatalf("extract again: %v", err)
	}
	if err := again.Save(context.Background(), out); err != nil {
		t.Fatalf("save again: %v", err)
	}
	second, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read again: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("repeat save produced different bytes (%d vs %d)", len(first), len(second))
	}
	entries, err := os.ReadDir(filepath.Dir(out))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the artifact, found %d entries", len(entries))
	}
}

func TestSavePreservesFormatAndSamples(t *testing.T) {
	dir := t.TempDir()
	format := Format{SampleRate: 48000, Channels: 2, BitDepth: 24, AudioFormat: FormatPCM}
	src, err := Open(writeFixture(t, dir, format, 48000))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	art, err := Extract(src, 100*time.Millisecond, 200*time.Millisecond)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	out := filepath.Join(dir, "clip.wav")
	if err := art.Save(context.Background(), out); err != nil {
		t.Fatalf("save: %v", err)
	}
	back, err := Open(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if back.Format != format {
		t.Fatalf("format=%+v want %+v", back.Format, format)
	}
	if back.Frames() != 4800 {
		t.Fatalf("frames=%d want 4800", back.Frames())
	}
	want, err := src.Samples(4800, 9600)
	if err != nil {
		t.Fatalf("samples: %v", err)
	}
	got, err := back.Samples(0, back.Frames())
	if err != nil {
		t.Fatalf("samples: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestSaveCancelledLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	src, err := Open(writeFixture(t, dir, mono16k, 16000))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	art, err := Extract(src, 0, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outDir := filepath.Join(dir, "out")
	err = art.Save(ctx, filepath.Join(outDir, "clip.wav"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want context.Canceled", err)
	}
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("cancelled save left %d files behind", len(entries))
	}
}

func TestSaveReportsIOFailure(t *testing.T) {
	dir := t.TempDir()
	src, err := Open(writeFixture(t, dir, mono16k, 16000))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	art, err := Extract(src, 0, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	err = art.Save(context.Background(), filepath.Join(blocker, "clip.wav"))
	if !errors.Is(err, ErrIO) {
		t.Fatalf("err=%v want ErrIO", err)
	}
}
