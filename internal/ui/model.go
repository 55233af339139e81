// Package ui is the interactive terminal front end. It turns key presses
// into session actions and paints the resulting view.
package ui

import (
	"context"
	"fmt"

	"parasite/internal/discovery"
	"parasite/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// Opener loads a pair into a controller.
type Opener func(discovery.Pair) (*session.Controller, error)

// Model is the root bubbletea model.
type Model struct {
	pairs   []discovery.Pair
	open    Opener
	pairIdx int
	loading bool
	loadErr string

	ctrl  *session.Controller
	view  session.View
	query string

	width  int
	height int
}

// New creates a model that starts on pairs[start].
func New(pairs []discovery.Pair, start int, open Opener) Model {
	if start < 0 || start >= len(pairs) {
		start = 0
	}
	return Model{
		pairs:   pairs,
		open:    open,
		pairIdx: start,
		loading: len(pairs) > 0,
	}
}

// Init opens the first pair.
func (m Model) Init() tea.Cmd {
	if len(m.pairs) == 0 {
		return nil
	}
	return openPairCmd(m.open, m.pairs[m.pairIdx], m.pairIdx)
}

// openPairCmd parses and decodes a pair off the update loop.
func openPairCmd(open Opener, pair discovery.Pair, index int) tea.Cmd {
	return func() tea.Msg {
		ctrl, err := open(pair)
		return pairLoadedMsg{index: index, ctrl: ctrl, err: err}
	}
}

// Controller returns the active controller, nil while loading or after a
// load failure.
func (m Model) Controller() *session.Controller {
	return m.ctrl
}

// Close releases the active controller.
func (m Model) Close() error {
	if m.ctrl == nil {
		return nil
	}
	return m.ctrl.Close()
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case pairLoadedMsg:
		if msg.index != m.pairIdx {
			// A newer switch superseded this load.
			if msg.ctrl != nil {
				_ = msg.ctrl.Close()
			}
			return m, nil
		}
		m.loading = false
		if m.ctrl != nil {
			_ = m.ctrl.Close()
			m.ctrl = nil
		}
		if msg.err != nil {
			m.loadErr = msg.err.Error()
			m.view = session.View{}
			return m, nil
		}
		m.loadErr = ""
		m.ctrl = msg.ctrl
		// Carry the query over so the user can compare documents.
		m.view = m.ctrl.SetQuery(m.query)
		return m, nil
	}
	return m, nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit:
		_ = m.Close()
		return m, tea.Quit
	case KeyNextPair:
		return m.switchPair(1)
	case KeyPrevPair:
		return m.switchPair(-1)
	}
	if m.ctrl == nil {
		return m, nil
	}
	ctx := context.Background()
	c := m.ctrl

	switch msg.String() {
	case KeyUp:
		m.view = c.Navigate(session.Up)
	case KeyDown:
		m.view = c.Navigate(session.Down)
	case KeyMoreContext:
		m.view = c.AdjustContext(1)
	case KeyLessContext:
		m.view = c.AdjustContext(-1)
	case KeyStartEarlier:
		m.view = c.NudgeStart(session.Coarse, session.Earlier)
	case KeyStartLater:
		m.view = c.NudgeStart(session.Coarse, session.Later)
	case KeyStartEarlierFn:
		m.view = c.NudgeStart(session.Fine, session.Earlier)
	case KeyStartLaterFn:
		m.view = c.NudgeStart(session.Fine, session.Later)
	case KeyEndEarlier:
		m.view = c.NudgeEnd(session.Coarse, session.Earlier)
	case KeyEndLater:
		m.view = c.NudgeEnd(session.Coarse, session.Later)
	case KeyEndEarlierFn:
		m.view = c.NudgeEnd(session.Fine, session.Earlier)
	case KeyEndLaterFn:
		m.view = c.NudgeEnd(session.Fine, session.Later)
	case KeyReset:
		m.view = c.ResetAdjustments()
	case KeyPreview:
		m.view = c.Preview(ctx)
	case KeyExtract:
		m.view = c.ConfirmExtract(ctx)
	case KeyBackspace:
		if m.query == "" {
			return m, nil
		}
		r := []rune(m.query)
		m.query = string(r[:len(r)-1])
		m.view = c.SetQuery(m.query)
	case KeyClearQuery:
		m.query = ""
		m.view = c.SetQuery("")
	default:
		switch {
		case msg.Type == tea.KeySpace:
			m.query += " "
		case msg.Type == tea.KeyRunes && !msg.Alt:
			m.query += string(msg.Runes)
		default:
			return m, nil
		}
		m.view = c.SetQuery(m.query)
	}
	return m, nil
}

func (m Model) switchPair(delta int) (tea.Model, tea.Cmd) {
	n := len(m.pairs)
	if n < 2 {
		return m, nil
	}
	m.pairIdx = (m.pairIdx + delta + n) % n
	m.loading = true
	m.loadErr = ""
	return m, openPairCmd(m.open, m.pairs[m.pairIdx], m.pairIdx)
}

func (m Model) pairLabel() string {
	if len(m.pairs) == 0 {
		return "no documents"
	}
	return fmt.Sprintf("%s (%d/%d)", m.pairs[m.pairIdx].Name, m.pairIdx+1, len(m.pairs))
}
