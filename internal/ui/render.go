package ui

import (
	"fmt"
	"strings"
	"time"

	"parasite/internal/cue"
	"parasite/internal/session"

	"github.com/charmbracelet/lipgloss"
)

// View renders the full TUI.
func (m Model) View() string {
	width := m.width
	if width == 0 {
		width = 80
	}
	divider := DividerStyle.Render(strings.Repeat("─", width))

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderQuery())
	sections = append(sections, divider)

	switch {
	case m.loading:
		sections = append(sections, DimStyle.Render("  loading "+m.pairLabel()+"..."))
	case m.loadErr != "":
		sections = append(sections, ErrorStyle.Render("  "+m.loadErr))
		sections = append(sections, DimStyle.Render("  ctrl+n / ctrl+p to try another document"))
	case len(m.pairs) == 0:
		sections = append(sections, DimStyle.Render("  no transcript/audio pairs found"))
	default:
		sections = append(sections, m.renderResults(width))
		sections = append(sections, divider)
		sections = append(sections, m.renderExcerpt(width))
		sections = append(sections, m.renderBounds())
	}

	sections = append(sections, divider)
	if line := m.renderOutcome(); line != "" {
		sections = append(sections, line)
	}
	if m.view.Status != "" {
		sections = append(sections, StatusStyle.Render(m.view.Status))
	}
	sections = append(sections, renderFooter())
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := TitleStyle.Render("PARASITE")
	doc := DocStyle.Render(" " + m.pairLabel())
	state := ""
	if m.ctrl != nil {
		state = "  " + StateStyle.Render(strings.ToUpper(m.view.State.String()))
		if d := m.view.AudioDuration; d > 0 {
			state += DimStyle.Render(fmt.Sprintf("  %d cues, %s audio", m.view.CueCount, cue.Format(d)))
		}
	}
	return title + doc + state
}

func (m Model) renderQuery() string {
	return PromptStyle.Render("search: ") + m.query + CursorStyle.Render("█")
}

// resultLines is how many results fit above the excerpt.
func (m Model) resultLines() int {
	if m.height == 0 {
		return 8
	}
	// header, query, three dividers, bounds, status, outcome, footer
	reserved := 9 + m.view.Context*2 + 1
	return max(3, m.height-reserved)
}

func (m Model) renderResults(width int) string {
	v := m.view
	header := PanelTitleStyle.Render(fmt.Sprintf("MATCHES (%d)", len(v.Results)))
	lines := []string{header}
	if len(v.Results) == 0 {
		if strings.TrimSpace(v.Query) == "" {
			lines = append(lines, DimStyle.Render("  type to search the transcript"))
		} else {
			lines = append(lines, DimStyle.Render("  no matches"))
		}
		return strings.Join(lines, "\n")
	}

	visible := m.resultLines()
	first := 0
	if v.Selected >= visible {
		first = v.Selected - visible + 1
	}
	last := min(len(v.Results), first+visible)
	for i := first; i < last; i++ {
		r := v.Results[i]
		ts := TimestampStyle.Render(cue.Format(r.Start))
		text := truncateToWidth(r.Text, max(10, width-18))
		if i == v.Selected {
			lines = append(lines, SelectedStyle.Render("> ")+ts+" "+SelectedStyle.Render(text))
		} else {
			lines = append(lines, "  "+ts+" "+text)
		}
	}
	if last < len(v.Results) {
		lines = append(lines, DimStyle.Render(fmt.Sprintf("  … %d more", len(v.Results)-last)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderExcerpt(width int) string {
	v := m.view
	header := PanelTitleStyle.Render(fmt.Sprintf("EXCERPT (context %d/%d)", v.Context, v.MaxContext))
	if len(v.Excerpt) == 0 {
		return header + "\n" + DimStyle.Render("  ↑↓ to pick a match")
	}
	lines := []string{header}
	for _, c := range v.Excerpt {
		ts := TimestampStyle.Render(cue.Format(c.Start) + " → " + cue.Format(c.End))
		text := truncateToWidth(c.Text, max(10, width-32))
		if c.Index == v.Center {
			text = MatchStyle.Render(text)
		} else {
			text = DimStyle.Render(text)
		}
		lines = append(lines, "  "+ts+"  "+text)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderBounds() string {
	b := m.view.Bounds
	if b == nil {
		return ""
	}
	edge := func(label string, at, off time.Duration) string {
		s := label + " " + cue.Format(at)
		if off != 0 {
			s += " " + OffsetStyle.Render(signed(off))
		}
		return s
	}
	line := edge("start", b.Start, b.StartOffset) + "   " + edge("end", b.End, b.EndOffset)
	line += DimStyle.Render(fmt.Sprintf("   len %.3fs", (b.End - b.Start).Seconds()))
	if b.Adjusted() {
		line += DimStyle.Render(fmt.Sprintf("   was %s → %s", cue.Format(b.OriginalStart), cue.Format(b.OriginalEnd)))
	}
	return "  " + line
}

func (m Model) renderOutcome() string {
	o := m.view.Outcome
	switch o.Kind {
	case session.OutcomeWritten:
		return SuccessStyle.Render(fmt.Sprintf("✓ %s (%.3fs)", o.Path, o.Duration.Seconds()))
	case session.OutcomeFailed:
		return ErrorStyle.Render(fmt.Sprintf("✗ %v", o.Err))
	default:
		return ""
	}
}

func renderFooter() string {
	keys := [][2]string{
		{"↑↓", " match"},
		{"+/-", " context"},
		{", .", " start"},
		{"< >", " start fine"},
		{"[ ]", " end"},
		{"{ }", " end fine"},
		{"esc", " reset"},
		{"tab", " play"},
		{"enter", " save"},
		{"^n/^p", " doc"},
		{"^c", " quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, FooterKeyStyle.Render(k[0])+FooterDescStyle.Render(k[1]))
	}
	return strings.Join(parts, "  ")
}

func signed(d time.Duration) string {
	if d > 0 {
		return fmt.Sprintf("+%.3fs", d.Seconds())
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

func truncateToWidth(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		return string(runes[:width-1]) + "…"
	}
	return s
}
