package session

import (
	"fmt"
	"strings"
	"unicode"

	"parasite/internal/cue"
)

// OutputName derives a file name from the first words of a cue, for
// example "hello_world_again.wav". Cues without usable words fall back to
// "cue_<index>.wav".
func OutputName(c cue.Cue, words int) string {
	var parts []string
	for _, w := range strings.Fields(strings.ToLower(c.Text)) {
		if len(parts) == words {
			break
		}
		w = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, w)
		if w != "" {
			parts = append(parts, w)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("cue_%d.wav", c.Index)
	}
	return strings.Join(parts, "_") + ".wav"
}
