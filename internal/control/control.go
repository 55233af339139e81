// Package control holds the cobra subcommands.
package control

import (
	"encoding/json"
	"io"
	"time"
)

// PairInfo is the JSON shape printed by `pairs`.
type PairInfo struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	Transcript string `json:"transcript"`
	Audio      string `json:"audio"`
}

// Match is the JSON shape printed by `search`.
type Match struct {
	Pair     string  `json:"pair"`
	Index    int     `json:"cue"`
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Text     string  `json:"text"`
	Excerpt  string  `json:"excerpt,omitempty"`

	start time.Duration
}

// ExtractResult is the JSON shape printed by `extract`.
type ExtractResult struct {
	Path        string  `json:"path"`
	Text        string  `json:"text"`
	StartSec    float64 `json:"start_sec"`
	EndSec      float64 `json:"end_sec"`
	DurationSec float64 `json:"duration_sec"`
}

// HistoryEntry is the JSON shape printed by `history`.
type HistoryEntry struct {
	ID          int64     `json:"id"`
	Path        string    `json:"path"`
	Text        string    `json:"text"`
	Query       string    `json:"query"`
	StartSec    float64   `json:"start_sec"`
	EndSec      float64   `json:"end_sec"`
	StartOffset float64   `json:"start_offset_sec"`
	EndOffset   float64   `json:"end_offset_sec"`
	CreatedAt   time.Time `json:"created_at"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
