// Package audio decodes PCM WAV recordings and cuts sample-accurate
// artifacts out of them.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// WAV format tags accepted by the decoder.
const (
	FormatPCM   = 1
	FormatFloat = 3
)

// ErrUnsupported is returned for inputs that are not PCM or float WAV.
var ErrUnsupported = errors.New("unsupported audio format")

// Format describes the sample layout shared by a source and its artifacts.
type Format struct {
	SampleRate  int
	Channels    int
	BitDepth    int
	AudioFormat int
}

func (f Format) String() string {
	kind := "pcm"
	if f.AudioFormat == FormatFloat {
		kind = "float"
	}
	return fmt.Sprintf("%d Hz, %d ch, %d-bit %s", f.SampleRate, f.Channels, f.BitDepth, kind)
}

// Source is a fully decoded recording. It is read-only after Decode and
// may be shared between the controller and a preview player.
type Source struct {
	Path   string
	Format Format
	data   []int // interleaved samples
	frames int
}

// Open decodes the WAV file at path.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	src.Path = path
	return src, nil
}

// Decode reads a complete WAV stream.
func Decode(r io.ReadSeeker) (*Source, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		if err := d.Err(); err != nil {
			return nil, fmt.Errorf("read wav header: %w", err)
		}
		return nil, fmt.Errorf("%w: not a RIFF/WAVE file", ErrUnsupported)
	}
	format := Format{
		SampleRate:  int(d.SampleRate),
		Channels:    int(d.NumChans),
		BitDepth:    int(d.BitDepth),
		AudioFormat: int(d.WavAudioFormat),
	}
	if err := validate(format); err != nil {
		return nil, err
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read pcm: %w", err)
	}
	frames := len(buf.Data) / format.Channels
	return &Source{
		Format: format,
		data:   buf.Data[:frames*format.Channels],
		frames: frames,
	}, nil
}

func validate(f Format) error {
	switch f.AudioFormat {
	case FormatPCM:
		switch f.BitDepth {
		case 8, 16, 24, 32:
		default:
			return fmt.Errorf("%w: %d-bit pcm", ErrUnsupported, f.BitDepth)
		}
	case FormatFloat:
		if f.BitDepth != 32 {
			return fmt.Errorf("%w: %d-bit float", ErrUnsupported, f.BitDepth)
		}
	default:
		return fmt.Errorf("%w: format tag %#x", ErrUnsupported, f.AudioFormat)
	}
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return fmt.Errorf("%w: %d Hz, %d channels", ErrUnsupported, f.SampleRate, f.Channels)
	}
	return nil
}

// Frames returns the number of sample frames.
func (s *Source) Frames() int {
	return s.frames
}

// Duration returns the recording length, rounded down to the nanosecond.
func (s *Source) Duration() time.Duration {
	return FramesToDuration(int64(s.frames), s.Format.SampleRate)
}

// Samples returns a copy of the interleaved samples for frames [lo, hi).
func (s *Source) Samples(lo, hi int) ([]int, error) {
	if lo < 0 || hi > s.frames || lo > hi {
		return nil, fmt.Errorf("%w: frames [%d, %d) of %d", ErrOutOfBounds, lo, hi, s.frames)
	}
	ch := s.Format.Channels
	out := make([]int, (hi-lo)*ch)
	copy(out, s.data[lo*ch:hi*ch])
	return out, nil
}

// FrameRange converts a time range into frame offsets, rounding the start
// down and the end up so the range never shrinks.
func (s *Source) FrameRange(start, end time.Duration) (int64, int64) {
	return FloorFrames(start, s.Format.SampleRate), CeilFrames(end, s.Format.SampleRate)
}

// FloorFrames returns floor(d * rate) using integer arithmetic.
func FloorFrames(d time.Duration, rate int) int64 {
	sec, rem := int64(d)/int64(time.Second), int64(d)%int64(time.Second)
	f := sec*int64(rate) + rem*int64(rate)/int64(time.Second)
	if rem < 0 && (rem*int64(rate))%int64(time.Second) != 0 {
		f--
	}
	return f
}

// CeilFrames returns ceil(d * rate) using integer arithmetic.
func CeilFrames(d time.Duration, rate int) int64 {
	sec, rem := int64(d)/int64(time.Second), int64(d)%int64(time.Second)
	f := sec*int64(rate) + rem*int64(rate)/int64(time.Second)
	if rem > 0 && (rem*int64(rate))%int64(time.Second) != 0 {
		f++
	}
	return f
}

// FramesToDuration returns the length of n frames, rounded down.
func FramesToDuration(n int64, rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	r := int64(rate)
	return time.Duration(n/r*int64(time.Second) + n%r*int64(time.Second)/r)
}
