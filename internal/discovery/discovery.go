// Package discovery pairs WebVTT transcripts with the WAV recordings they
// describe.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoPairs is returned when a directory holds no usable pair.
var ErrNoPairs = errors.New("no transcript/audio pairs found")

// Pair is one transcript and its recording.
type Pair struct {
	Name           string `json:"name"`
	TranscriptPath string `json:"transcript"`
	AudioPath      string `json:"audio"`
}

func (p Pair) String() string {
	return p.Name
}

// Discover walks dir and returns every transcript that has a sibling
// recording, sorted by name. Both "talk.vtt" and "talk.wav.vtt" pair with
// "talk.wav". Hidden directories are skipped.
func Discover(dir string) ([]Pair, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	var pairs []Pair
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".vtt") {
			return nil
		}
		audio, ok := AudioFor(path)
		if !ok {
			return nil
		}
		rel, err := filepath.Rel(dir, strings.TrimSuffix(audio, filepath.Ext(audio)))
		if err != nil {
			rel = filepath.Base(audio)
		}
		pairs = append(pairs, Pair{Name: filepath.ToSlash(rel), TranscriptPath: path, AudioPath: audio})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Name != pairs[j].Name {
			return pairs[i].Name < pairs[j].Name
		}
		return pairs[i].TranscriptPath < pairs[j].TranscriptPath
	})
	return dedupe(pairs), nil
}

// AudioFor returns the recording that belongs to a transcript path.
func AudioFor(transcript string) (string, bool) {
	base := strings.TrimSuffix(transcript, filepath.Ext(transcript))
	candidates := []string{base}
	if !strings.EqualFold(filepath.Ext(base), ".wav") {
		candidates = []string{base + ".wav", base + ".WAV"}
	}
	for _, c := range candidates {
		if st, err := os.Stat(c); err == nil && st.Mode().IsRegular() {
			return c, true
		}
	}
	return "", false
}

// dedupe keeps the first transcript when two map to the same recording.
// Pairs are sorted by transcript path within a name, so "x.vtt" wins over
// "x.wav.vtt".
func dedupe(pairs []Pair) []Pair {
	seen := make(map[string]bool, len(pairs))
	out := pairs[:0]
	for _, p := range pairs {
		if seen[p.AudioPath] {
			continue
		}
		seen[p.AudioPath] = true
		out = append(out, p)
	}
	return out
}

// Find returns the pair for a transcript path, locating its recording when
// audio is empty.
func Find(transcript, audio string) (Pair, error) {
	if audio == "" {
		var ok bool
		audio, ok = AudioFor(transcript)
		if !ok {
			return Pair{}, fmt.Errorf("no recording found next to %s", transcript)
		}
	}
	for _, p := range []string{transcript, audio} {
		if _, err := os.Stat(p); err != nil {
			return Pair{}, err
		}
	}
	name := strings.TrimSuffix(filepath.Base(audio), filepath.Ext(audio))
	return Pair{Name: name, TranscriptPath: transcript, AudioPath: audio}, nil
}
