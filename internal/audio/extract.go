package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Extraction failure kinds. Match them with errors.Is.
var (
	ErrEmptyRange  = errors.New("empty range")
	ErrOutOfBounds = errors.New("range out of bounds")
	ErrIO          = errors.New("i/o failure")
)

// chunkFrames bounds how much is encoded between cancellation checks.
const chunkFrames = 16384

// ExtractionError carries the requested range and the failure kind.
type ExtractionError struct {
	Kind  error
	Start time.Duration
	End   time.Duration
	Err   error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("extract %v-%v: %v", e.Start, e.End, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Artifact is an independently owned slice of a source's frames.
type Artifact struct {
	Format Format
	Start  time.Duration // requested range, kept for naming and records
	End    time.Duration
	data   []int
}

// Extract copies the frames covering [start, end) out of src. The start
// rounds down and the end rounds up to whole frames.
func Extract(src *Source, start, end time.Duration) (*Artifact, error) {
	fail := func(kind error, err error) error {
		return &ExtractionError{Kind: kind, Start: start, End: end, Err: err}
	}
	if start < 0 {
		return nil, fail(ErrOutOfBounds, fmt.Errorf("start before zero"))
	}
	lo, hi := src.FrameRange(start, end)
	if hi > int64(src.frames) {
		return nil, fail(ErrOutOfBounds, fmt.Errorf("end %v past source duration %v", end, src.Duration()))
	}
	if hi <= lo {
		return nil, fail(ErrEmptyRange, nil)
	}
	data, err := src.Samples(int(lo), int(hi))
	if err != nil {
		return nil, fail(ErrOutOfBounds, err)
	}
	return &Artifact{Format: src.Format, Start: start, End: end, data: data}, nil
}

// Frames returns the number of frames in the artifact.
func (a *Artifact) Frames() int {
	return len(a.data) / a.Format.Channels
}

// Duration returns the artifact length.
func (a *Artifact) Duration() time.Duration {
	return FramesToDuration(int64(a.Frames()), a.Format.SampleRate)
}

// Write encodes the artifact as WAV.
func (a *Artifact) Write(w io.WriteSeeker) error {
	return a.encode(context.Background(), w)
}

// Save writes the artifact to path through a temporary file in the same
// directory. On failure or cancellation the temporary file is removed and
// any existing file at path is left untouched.
func (a *Artifact) Save(ctx context.Context, path string) error {
	ioFail := func(err error) error {
		return &ExtractionError{Kind: ErrIO, Start: a.Start, End: a.End, Err: err}
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ioFail(err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.part")
	if err != nil {
		return ioFail(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := a.encode(ctx, tmp); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		return ioFail(err)
	}
	if err := tmp.Close(); err != nil {
		return ioFail(err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return ioFail(err)
	}
	committed = true
	return nil
}

func (a *Artifact) encode(ctx context.Context, w io.WriteSeeker) error {
	f := a.Format
	enc := wav.NewEncoder(w, f.SampleRate, f.BitDepth, f.Channels, f.AudioFormat)
	step := chunkFrames * f.Channels
	for off := 0; off < len(a.data); off += step {
		if err := ctx.Err(); err != nil {
			return err
		}
		buf := &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate},
			Data:           a.data[off:min(off+step, len(a.data))],
			SourceBitDepth: f.BitDepth,
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("encode wav: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}
