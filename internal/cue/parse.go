package cue

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance is how far a cue may start before its predecessor and
// still be accepted. Such cues are pulled forward to the previous start.
const DefaultTolerance = 500 * time.Millisecond

const maxLineBytes = 1 << 20

// ParseError reports malformed transcript markup.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("vtt line %d: %s", e.Line, e.Msg)
	}
	return "vtt: " + e.Msg
}

func parseErrorf(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Parser turns WebVTT markup into a Store.
type Parser struct {
	Tolerance time.Duration
}

// Parse reads a WebVTT document with the default tolerance.
func Parse(r io.Reader) (*Store, error) {
	return Parser{Tolerance: DefaultTolerance}.Parse(r)
}

// ParseFile parses the WebVTT file at path with the default tolerance.
func ParseFile(path string) (*Store, error) {
	return Parser{Tolerance: DefaultTolerance}.ParseFile(path)
}

// ParseFile parses the WebVTT file at path.
func (p Parser) ParseFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	store, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return store, nil
}

type block struct {
	line  int // 1-based line of the first entry
	lines []string
}

// Parse reads a WebVTT document. Cues without text are kept with an empty
// Text so indexes stay dense.
func (p Parser) Parse(r io.Reader) (*Store, error) {
	blocks, err := readBlocks(r)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 || !isHeader(blocks[0].lines[0]) || blocks[0].line != 1 {
		return nil, parseErrorf(1, "missing WEBVTT header")
	}

	var cues []Cue
	for _, b := range blocks[1:] {
		if isMetaBlock(b.lines[0]) {
			continue
		}
		timingAt := 0
		if !strings.Contains(b.lines[0], "-->") {
			if len(b.lines) < 2 || !strings.Contains(b.lines[1], "-->") {
				return nil, parseErrorf(b.line, "cue %q has no timing line", b.lines[0])
			}
			timingAt = 1
		}
		lineNo := b.line + timingAt
		start, end, err := parseTiming(b.lines[timingAt])
		if err != nil {
			return nil, parseErrorf(lineNo, "%v", err)
		}
		if end <= start {
			return nil, parseErrorf(lineNo, "cue ends at %s, not after its start %s", Format(end), Format(start))
		}
		if n := len(cues); n > 0 && start < cues[n-1].Start {
			prev := cues[n-1].Start
			if prev-start > p.Tolerance {
				return nil, parseErrorf(lineNo, "cue starts at %s, before previous cue at %s", Format(start), Format(prev))
			}
			start = prev
			if end <= start {
				return nil, parseErrorf(lineNo, "cue collapses after aligning to previous start %s", Format(prev))
			}
		}
		cues = append(cues, Cue{
			Index: len(cues),
			Start: start,
			End:   end,
			Text:  joinText(b.lines[timingAt+1:]),
		})
	}
	return &Store{cues: cues}, nil
}

func readBlocks(r io.Reader) ([]block, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var (
		blocks []block
		cur    *block
		lineNo int
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if strings.TrimSpace(line) == "" {
			cur = nil
			continue
		}
		if cur == nil {
			blocks = append(blocks, block{line: lineNo})
			cur = &blocks[len(blocks)-1]
		}
		cur.lines = append(cur.lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return blocks, nil
}

func isHeader(line string) bool {
	return keywordLine(line, "WEBVTT")
}

func isMetaBlock(line string) bool {
	return keywordLine(line, "NOTE") || keywordLine(line, "STYLE") || keywordLine(line, "REGION")
}

// keywordLine reports whether line is kw alone or kw followed by whitespace.
func keywordLine(line, kw string) bool {
	if !strings.HasPrefix(line, kw) {
		return false
	}
	rest := line[len(kw):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

func joinText(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " ")
}

// parseTiming splits "start --> end [settings]".
func parseTiming(line string) (time.Duration, time.Duration, error) {
	idx := strings.Index(line, "-->")
	start, err := ParseTimestamp(strings.TrimSpace(line[:idx]))
	if err != nil {
		return 0, 0, err
	}
	rest := strings.Fields(line[idx+3:])
	if len(rest) == 0 {
		return 0, 0, fmt.Errorf("missing end timestamp")
	}
	end, err := ParseTimestamp(rest[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ParseTimestamp parses HH:MM:SS.mmm or MM:SS.mmm. Digits past the
// millisecond are truncated.
func ParseTimestamp(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("malformed timestamp %q", s)
	}
	var hours int64
	if len(parts) == 3 {
		if !isDigits(parts[0]) || len(parts[0]) > 6 {
			return 0, fmt.Errorf("malformed hours in %q", s)
		}
		hours, _ = strconv.ParseInt(parts[0], 10, 64)
		parts = parts[1:]
	}
	minutes, ok := sexagesimal(parts[0])
	if !ok {
		return 0, fmt.Errorf("malformed minutes in %q", s)
	}

	secPart, fracPart := parts[1], ""
	if i := strings.IndexAny(secPart, ".,"); i >= 0 {
		secPart, fracPart = secPart[:i], secPart[i+1:]
		if !isDigits(fracPart) {
			return 0, fmt.Errorf("malformed fraction in %q", s)
		}
	}
	seconds, ok := sexagesimal(secPart)
	if !ok {
		return 0, fmt.Errorf("malformed seconds in %q", s)
	}
	var millis int64
	if fracPart != "" {
		digits := (fracPart + "00")[:3]
		millis, _ = strconv.ParseInt(digits, 10, 64)
	}

	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
	return total, nil
}

// sexagesimal parses a one or two digit field below 60.
func sexagesimal(s string) (int64, bool) {
	if !isDigits(s) || len(s) > 2 {
		return 0, false
	}
	v, _ := strconv.ParseInt(s, 10, 64)
	return v, v < 60
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Format renders d as HH:MM:SS.mmm.
func Format(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%s%02d:%02d:%02d.%03d", sign, ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}
