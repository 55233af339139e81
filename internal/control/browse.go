package control

import (
	"fmt"

	"parasite/internal/discovery"
	"parasite/internal/session"
	"parasite/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// NewBrowseCmd starts the interactive TUI.
func NewBrowseCmd(cfgPath *string) *cobra.Command {
	var input, output string
	var pair int
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search transcripts and cut clips interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(*cfgPath, true, true)
			if err != nil {
				return err
			}
			defer e.Close()
			if input != "" {
				e.cfg.Paths.InputDir = input
			}
			if output != "" {
				e.cfg.Paths.OutputDir = output
			}

			pairs, err := discovery.Discover(e.cfg.Paths.InputDir)
			if err != nil {
				return err
			}
			if len(pairs) == 0 {
				return fmt.Errorf("%s: %w", e.cfg.Paths.InputDir, discovery.ErrNoPairs)
			}
			if pair < 1 || pair > len(pairs) {
				return fmt.Errorf("--pair %d out of range (1-%d)", pair, len(pairs))
			}
			e.logger.Infof("browse: %d pairs in %s", len(pairs), e.cfg.Paths.InputDir)

			opts := e.options()
			open := func(p discovery.Pair) (*session.Controller, error) {
				return session.Open(p, opts)
			}
			model := ui.New(pairs, pair-1, open)
			final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
			if m, ok := final.(ui.Model); ok {
				_ = m.Close()
			}
			return err
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "directory holding .vtt/.wav pairs")
	cmd.Flags().StringVar(&output, "output", "", "directory for extracted clips")
	cmd.Flags().IntVar(&pair, "pair", 1, "pair to open first (1-based)")
	return cmd
}
