package control

import (
	"fmt"
	"strings"

	"parasite/internal/cue"
	"parasite/internal/discovery"
	"parasite/internal/search"

	"github.com/spf13/cobra"
)

// NewSearchCmd prints matching cues across every pair. Audio is not decoded.
func NewSearchCmd(cfgPath *string) *cobra.Command {
	var input string
	var contextLines int
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search every transcript for cues containing all words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(*cfgPath, false, false)
			if err != nil {
				return err
			}
			defer e.Close()
			if input != "" {
				e.cfg.Paths.InputDir = input
			}
			pairs, err := discovery.Discover(e.cfg.Paths.InputDir)
			if err != nil {
				return err
			}
			matches, skipped, err := searchPairs(pairs, strings.Join(args, " "), contextLines, cue.Parser{Tolerance: e.cfg.Tolerance()})
			if err != nil {
				return err
			}
			for _, err := range skipped {
				e.logger.Warnf("search: skipping %v", err)
				fmt.Fprintf(cmd.ErrOrStderr(), "skipping %v\n", err)
			}
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return writeJSON(cmd.OutOrStdout(), matches)
			}
			w := cmd.OutOrStdout()
			for _, m := range matches {
				fmt.Fprintf(w, "%s #%d  %s  %s\n", m.Pair, m.Index, cue.Format(m.start), m.Text)
				if m.Excerpt != "" {
					for _, line := range strings.Split(m.Excerpt, "\n") {
						fmt.Fprintf(w, "    %s\n", line)
					}
				}
			}
			if len(matches) == 0 {
				fmt.Fprintln(w, "no matches")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "directory holding .vtt/.wav pairs")
	cmd.Flags().IntVar(&contextLines, "context", 0, "cues of context to print around each match")
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}

// searchPairs parses each transcript and collects matches in pair order.
// A transcript that fails to parse is left out and reported in skipped.
func searchPairs(pairs []discovery.Pair, query string, contextLines int, parser cue.Parser) ([]Match, []error, error) {
	var out []Match
	var skipped []error
	for _, p := range pairs {
		store, err := parser.ParseFile(p.TranscriptPath)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("%s: %w", p.Name, err))
			continue
		}
		for _, i := range search.Search(query, store) {
			c, err := store.Get(i)
			if err != nil {
				return nil, skipped, err
			}
			m := Match{Pair: p.Name, Index: i, start: c.Start, StartSec: c.Start.Seconds(), EndSec: c.End.Seconds(), Text: c.Text}
			if contextLines > 0 {
				ex, err := search.Expand(i, contextLines, store)
				if err != nil {
					return nil, skipped, err
				}
				var lines []string
				for _, n := range ex.Cues(store) {
					lines = append(lines, cue.Format(n.Start)+"  "+n.Text)
				}
				m.Excerpt = strings.Join(lines, "\n")
			}
			out = append(out, m)
		}
	}
	return out, skipped, nil
}
