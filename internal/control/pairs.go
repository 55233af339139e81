package control

import (
	"fmt"

	"parasite/internal/config"
	"parasite/internal/discovery"

	"github.com/spf13/cobra"
)

// NewPairsCmd lists discovered transcript/audio pairs.
func NewPairsCmd(cfgPath *string) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "pairs",
		Short: "List transcript/audio pairs in the input dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if input != "" {
				cfg.Paths.InputDir = input
			}
			pairs, err := discovery.Discover(cfg.Paths.InputDir)
			if err != nil {
				return err
			}
			out := make([]PairInfo, 0, len(pairs))
			for i, p := range pairs {
				out = append(out, PairInfo{Index: i + 1, Name: p.Name, Transcript: p.TranscriptPath, Audio: p.AudioPath})
			}
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			for _, p := range out {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-24s %s\n", p.Index, p.Name, p.Audio)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "directory holding .vtt/.wav pairs")
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}
