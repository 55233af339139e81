package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"parasite/internal/audio"
	"parasite/internal/boundary"
	"parasite/internal/catalog"
	"parasite/internal/cue"
	"parasite/internal/hook"
)

// Direction is a navigation or nudge direction.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1

	Earlier Direction = -1
	Later   Direction = 1
)

// Step selects the nudge granularity.
type Step int

const (
	Coarse Step = iota
	Fine
)

// Edge names one end of the segment.
type Edge int

const (
	StartEdge Edge = iota
	EndEdge
)

func (e Edge) String() string {
	if e == EndEdge {
		return "end"
	}
	return "start"
}

// Action is a discrete user intent.
type Action interface {
	isAction()
}

type (
	// SetQuery replaces the search query.
	SetQuery struct{ Query string }
	// Navigate moves the selection through the result list.
	Navigate struct{ Dir Direction }
	// AdjustContext widens or narrows the excerpt.
	AdjustContext struct{ Delta int }
	// Nudge moves one edge by a configured step.
	Nudge struct {
		Edge Edge
		Step Step
		Dir  Direction
	}
	// Adjust moves one edge by an arbitrary delta.
	Adjust struct {
		Edge  Edge
		Delta time.Duration
	}
	// ResetAdjustments restores the excerpt boundaries.
	ResetAdjustments struct{}
	// Preview auditions the current segment.
	Preview struct{}
	// ConfirmExtract writes the current segment.
	ConfirmExtract struct{}
)

func (SetQuery) isAction()         {}
func (Navigate) isAction()         {}
func (AdjustContext) isAction()    {}
func (Nudge) isAction()            {}
func (Adjust) isAction()           {}
func (ResetAdjustments) isAction() {}
func (Preview) isAction()          {}
func (ConfirmExtract) isAction()   {}

// Apply dispatches an action and returns the resulting view.
func (c *Controller) Apply(ctx context.Context, a Action) View {
	switch a := a.(type) {
	case SetQuery:
		return c.SetQuery(a.Query)
	case Navigate:
		return c.Navigate(a.Dir)
	case AdjustContext:
		return c.AdjustContext(a.Delta)
	case Nudge:
		if a.Edge == EndEdge {
			return c.NudgeEnd(a.Step, a.Dir)
		}
		return c.NudgeStart(a.Step, a.Dir)
	case Adjust:
		if a.Edge == EndEdge {
			return c.AdjustEnd(a.Delta)
		}
		return c.AdjustStart(a.Delta)
	case ResetAdjustments:
		return c.ResetAdjustments()
	case Preview:
		return c.Preview(ctx)
	case ConfirmExtract:
		return c.ConfirmExtract(ctx)
	default:
		c.status = fmt.Sprintf("unknown action %T", a)
		return c.View()
	}
}

// SetQuery re-runs the search and drops any selection.
func (c *Controller) SetQuery(q string) View {
	if q == c.query && c.state != Idle {
		return c.View()
	}
	if err := c.stopPreview(); err != nil {
		c.log().Warnf("stop preview: %v", err)
	}
	c.query = q
	c.clearSelection()
	c.results = c.index.Search(q)
	if strings.TrimSpace(q) == "" {
		c.state = Idle
		c.status = ""
		return c.View()
	}
	c.state = Searching
	c.status = matchStatus(len(c.results))
	return c.View()
}

func matchStatus(n int) string {
	switch n {
	case 0:
		return "no matches"
	case 1:
		return "1 match"
	default:
		return fmt.Sprintf("%d matches", n)
	}
}

// Navigate selects the next or previous result. With nothing selected the
// first result is chosen. The selection stops at either end of the list.
func (c *Controller) Navigate(dir Direction) View {
	if len(c.results) == 0 {
		c.status = matchStatus(0)
		return c.View()
	}
	pos := 0
	if c.selected >= 0 {
		pos = min(max(c.selected+int(dir), 0), len(c.results)-1)
		if pos == c.selected {
			return c.View()
		}
	}
	c.leavePreview()
	if err := c.selectAt(pos); err != nil {
		c.fault(err)
		return c.View()
	}
	c.status = fmt.Sprintf("match %d of %d", pos+1, len(c.results))
	return c.View()
}

// AdjustContext changes the number of context cues on each side and
// re-seeds the boundaries of the active selection.
func (c *Controller) AdjustContext(delta int) View {
	next := min(max(c.lines+delta, 0), c.opts.MaxContext)
	if next == c.lines {
		return c.View()
	}
	c.lines = next
	c.status = fmt.Sprintf("context %d", next)
	if !c.hasSelection() {
		return c.View()
	}
	c.leavePreview()
	if err := c.selectAt(c.selected); err != nil {
		c.fault(err)
	}
	return c.View()
}

func (c *Controller) step(s Step) time.Duration {
	if s == Fine {
		return c.opts.FineStep
	}
	return c.opts.CoarseStep
}

// NudgeStart moves the start by one step.
func (c *Controller) NudgeStart(s Step, dir Direction) View {
	return c.AdjustStart(c.step(s) * time.Duration(dir))
}

// NudgeEnd moves the end by one step.
func (c *Controller) NudgeEnd(s Step, dir Direction) View {
	return c.AdjustEnd(c.step(s) * time.Duration(dir))
}

// AdjustStart moves the start by delta, clamped by the boundary model.
func (c *Controller) AdjustStart(delta time.Duration) View {
	return c.adjust(StartEdge, delta)
}

// AdjustEnd moves the end by delta, clamped by the boundary model.
func (c *Controller) AdjustEnd(delta time.Duration) View {
	return c.adjust(EndEdge, delta)
}

func (c *Controller) adjust(edge Edge, delta time.Duration) View {
	if !c.hasSelection() {
		c.status = "select a match first"
		return c.View()
	}
	c.leavePreview()
	var at time.Duration
	if edge == EndEdge {
		at, c.nudge = c.bounds.NudgeEnd(delta)
	} else {
		at, c.nudge = c.bounds.NudgeStart(delta)
	}
	c.status = fmt.Sprintf("%s %s (%s)", edge, cue.Format(at), c.nudge)
	return c.View()
}

// ResetAdjustments restores the boundaries seeded from the excerpt.
func (c *Controller) ResetAdjustments() View {
	if !c.hasSelection() {
		return c.View()
	}
	c.leavePreview()
	c.bounds.Reset()
	c.nudge = boundary.Rejected
	c.status = "boundaries reset"
	return c.View()
}

// Preview plays the current segment through the configured player.
func (c *Controller) Preview(ctx context.Context) View {
	if !c.hasSelection() {
		c.status = "select a match first"
		return c.View()
	}
	if c.opts.Player == nil || c.src == nil {
		c.status = "preview unavailable"
		return c.View()
	}
	start, end := c.bounds.Range()
	if err := c.opts.Player.Play(ctx, c.src, start, end); err != nil {
		c.status = fmt.Sprintf("preview failed: %v", err)
		c.log().Warnf("preview: %v", err)
		return c.View()
	}
	c.previews = 1
	c.state = Previewing
	c.status = fmt.Sprintf("playing %s - %s", cue.Format(start), cue.Format(end))
	return c.View()
}

// ConfirmExtract writes the current segment to the output directory. On
// failure the selection and boundaries are kept so the user can retry.
func (c *Controller) ConfirmExtract(ctx context.Context) View {
	if !c.hasSelection() {
		c.status = "select a match first"
		return c.View()
	}
	c.leavePreview()
	matched, err := c.store.Get(c.results[c.selected])
	if err != nil {
		c.fault(err)
		return c.View()
	}
	start, end := c.bounds.Range()
	path := filepath.Join(c.opts.OutputDir, OutputName(matched, c.opts.NameWords))

	c.state = Extracted
	c.log().Debugf("extracting %s-%s to %s", cue.Format(start), cue.Format(end), path)
	art, err := c.extract(ctx, start, end, path)
	c.state = ResultSelected
	if err != nil {
		c.outcome = Outcome{Kind: OutcomeFailed, Path: path, Start: start, End: end, Err: err, At: time.Now()}
		c.status = fmt.Sprintf("extract failed: %v", err)
		c.log().Errorf("extract: %v", err)
		return c.View()
	}
	c.outcome = Outcome{Kind: OutcomeWritten, Path: path, Start: start, End: end, Duration: art.Duration(), At: time.Now()}
	c.status = fmt.Sprintf("wrote %s (%.3fs)", path, art.Duration().Seconds())
	c.log().WithField("path", path).Infof("sample written: %q", matched.Text)
	c.afterWrite(ctx, matched, path, start, end)
	return c.View()
}

func (c *Controller) extract(ctx context.Context, start, end time.Duration, path string) (*audio.Artifact, error) {
	if c.src == nil {
		return nil, &audio.ExtractionError{Kind: audio.ErrIO, Start: start, End: end, Err: errors.New("no audio loaded")}
	}
	art, err := audio.Extract(c.src, start, end)
	if err != nil {
		return nil, err
	}
	if err := art.Save(ctx, path); err != nil {
		return nil, err
	}
	return art, nil
}

// afterWrite records the sample and notifies the hook. Failures here do
// not undo the write.
func (c *Controller) afterWrite(ctx context.Context, matched cue.Cue, path string, start, end time.Duration) {
	if c.opts.Recorder != nil {
		ds, de := c.bounds.Offsets()
		_, err := c.opts.Recorder.Record(ctx, catalog.Sample{
			Path:        path,
			Transcript:  c.opts.TranscriptPath,
			Audio:       c.opts.AudioPath,
			Query:       c.query,
			CueIndex:    matched.Index,
			Text:        matched.Text,
			Start:       start,
			End:         end,
			StartOffset: ds,
			EndOffset:   de,
		})
		if err != nil {
			c.log().Warnf("catalog: %v", err)
		}
	}
	if c.opts.Hook != nil {
		c.opts.Hook.Submit(hook.Job{Path: path, Text: matched.Text, Start: start, End: end, Timestamp: time.Now()})
	}
}

// fault reports an internal invariant violation.
func (c *Controller) fault(err error) {
	c.status = fmt.Sprintf("internal error: %v", err)
	c.log().Errorf("internal: %v", err)
}
