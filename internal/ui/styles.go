package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#FF5555")
	ColorGreen   = lipgloss.Color("#50FA7B")
	ColorYellow  = lipgloss.Color("#F1FA8C")
	ColorCyan    = lipgloss.Color("#8BE9FD")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
	ColorMagenta = lipgloss.Color("#FF79C6")
)

// Base styles reused by the renderer.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMagenta)

	DocStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	StateStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	CursorStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	MatchStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	OffsetStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)
)
