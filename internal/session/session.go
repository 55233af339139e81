// Package session owns the interactive search-and-extract state for one
// transcript/recording pair. Every action runs synchronously and returns a
// View for the renderer.
package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"parasite/internal/audio"
	"parasite/internal/boundary"
	"parasite/internal/catalog"
	"parasite/internal/config"
	"parasite/internal/cue"
	"parasite/internal/discovery"
	"parasite/internal/hook"
	"parasite/internal/search"

	"github.com/sirupsen/logrus"
)

// State is the controller's position in the search/extract cycle.
type State int

const (
	Idle State = iota
	Searching
	ResultSelected
	Previewing
	Extracted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case ResultSelected:
		return "selected"
	case Previewing:
		return "previewing"
	case Extracted:
		return "extracted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Player auditions a range of the source.
type Player interface {
	Play(ctx context.Context, src *audio.Source, start, end time.Duration) error
	Stop() error
}

// Recorder stores a row per written sample.
type Recorder interface {
	Record(ctx context.Context, s catalog.Sample) (int64, error)
}

// HookSink receives a job per written sample.
type HookSink interface {
	Submit(job hook.Job) bool
}

// Options configures a Controller. Zero values fall back to defaults.
type Options struct {
	Name           string
	TranscriptPath string
	AudioPath      string
	OutputDir      string

	CoarseStep     time.Duration
	FineStep       time.Duration
	MinGap         time.Duration
	Tolerance      time.Duration
	DefaultContext int
	MaxContext     int
	NameWords      int

	Player   Player
	Recorder Recorder
	Hook     HookSink
	Logger   *logrus.Logger
}

// OptionsFromConfig maps the user config onto controller options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		OutputDir:      cfg.Paths.OutputDir,
		CoarseStep:     cfg.CoarseStep(),
		FineStep:       cfg.FineStep(),
		MinGap:         cfg.MinGap(),
		Tolerance:      cfg.Tolerance(),
		DefaultContext: cfg.Search.DefaultContext,
		MaxContext:     cfg.Search.MaxContext,
		NameWords:      cfg.Extract.NameWords,
	}
}

func (o *Options) fill() {
	if o.CoarseStep <= 0 {
		o.CoarseStep = 100 * time.Millisecond
	}
	if o.FineStep <= 0 {
		o.FineStep = 25 * time.Millisecond
	}
	if o.MinGap <= 0 {
		o.MinGap = boundary.DefaultMinGap
	}
	if o.MaxContext <= 0 {
		o.MaxContext = 5
	}
	o.DefaultContext = min(max(o.DefaultContext, 0), o.MaxContext)
	if o.NameWords <= 0 {
		o.NameWords = 3
	}
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
}

// Controller is the session state machine. It is not safe for concurrent
// use; the store and source it holds are read-only and may be shared.
type Controller struct {
	opts  Options
	store *cue.Store
	index *search.Index
	src   *audio.Source

	state    State
	query    string
	results  []int
	selected int // position in results, -1 for none
	lines    int // context lines around the match
	excerpt  search.Excerpt
	bounds   *boundary.Model
	nudge    boundary.Result
	outcome  Outcome
	status   string
	previews int
}

// Open parses the transcript and decodes the recording of a pair.
func Open(pair discovery.Pair, opts Options) (*Controller, error) {
	parser := cue.Parser{Tolerance: opts.Tolerance}
	if parser.Tolerance == 0 {
		parser.Tolerance = cue.DefaultTolerance
	}
	store, err := parser.ParseFile(pair.TranscriptPath)
	if err != nil {
		return nil, fmt.Errorf("transcript %s: %w", pair.TranscriptPath, err)
	}
	src, err := audio.Open(pair.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}
	if opts.Name == "" {
		opts.Name = pair.Name
	}
	opts.TranscriptPath = pair.TranscriptPath
	opts.AudioPath = pair.AudioPath
	return New(store, src, opts), nil
}

// New builds a controller over already loaded inputs. src may be nil, in
// which case previews and extraction report an error.
func New(store *cue.Store, src *audio.Source, opts Options) *Controller {
	opts.fill()
	if opts.Name == "" && src != nil && src.Path != "" {
		opts.Name = strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	}
	return &Controller{
		opts:     opts,
		store:    store,
		index:    search.NewIndex(store),
		src:      src,
		state:    Idle,
		selected: -1,
		lines:    opts.DefaultContext,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Store returns the cue store the controller searches.
func (c *Controller) Store() *cue.Store {
	return c.store
}

// Source returns the decoded recording.
func (c *Controller) Source() *audio.Source {
	return c.src
}

// Close stops any running preview.
func (c *Controller) Close() error {
	return c.stopPreview()
}

func (c *Controller) log() *logrus.Entry {
	return c.opts.Logger.WithField("doc", c.opts.Name)
}

func (c *Controller) stopPreview() error {
	if c.opts.Player == nil || c.previews == 0 {
		return nil
	}
	c.previews = 0
	return c.opts.Player.Stop()
}

// leavePreview returns to ResultSelected after an action that changes the
// range being auditioned.
func (c *Controller) leavePreview() {
	if c.state != Previewing && c.state != Extracted {
		return
	}
	if err := c.stopPreview(); err != nil {
		c.log().Warnf("stop preview: %v", err)
	}
	c.state = ResultSelected
}

func (c *Controller) audioLimit() time.Duration {
	if c.src == nil {
		return 0
	}
	return c.src.Duration()
}

func (c *Controller) hasSelection() bool {
	return c.selected >= 0 && c.selected < len(c.results) && c.bounds != nil
}

// selectAt makes results[pos] active and seeds a fresh boundary model.
func (c *Controller) selectAt(pos int) error {
	ex, err := search.Expand(c.results[pos], c.lines, c.store)
	if err != nil {
		return err
	}
	start, end, err := ex.Bounds(c.store)
	if err != nil {
		return err
	}
	c.selected = pos
	c.excerpt = ex
	c.bounds = boundary.New(start, end, c.audioLimit(), boundary.WithMinGap(c.opts.MinGap))
	c.nudge = boundary.Rejected
	c.state = ResultSelected
	return nil
}

func (c *Controller) clearSelection() {
	c.selected = -1
	c.excerpt = search.Excerpt{}
	c.bounds = nil
	c.nudge = boundary.Rejected
}
