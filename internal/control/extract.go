package control

import (
	"errors"
	"fmt"
	"time"

	"parasite/internal/boundary"
	"parasite/internal/discovery"
	"parasite/internal/session"

	"github.com/spf13/cobra"
)

// NewExtractCmd cuts one clip without the TUI. It drives the same session
// controller the TUI uses.
func NewExtractCmd(cfgPath *string) *cobra.Command {
	var (
		transcript  string
		audioPath   string
		query       string
		match       int
		contextN    int
		startAdjust time.Duration
		endAdjust   time.Duration
		output      string
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the audio behind a transcript match",
		RunE: func(cmd *cobra.Command, args []string) error {
			if transcript == "" || query == "" {
				return errors.New("--transcript and --query are required")
			}
			if match < 1 {
				return fmt.Errorf("--match must be >= 1, got %d", match)
			}
			e, err := loadEnv(*cfgPath, true, false)
			if err != nil {
				return err
			}
			defer e.Close()

			pair, err := discovery.Find(transcript, audioPath)
			if err != nil {
				return err
			}
			opts := e.options()
			if output != "" {
				opts.OutputDir = output
			}
			if cmd.Flags().Changed("context") {
				opts.DefaultContext = contextN
			}
			ctrl, err := session.Open(pair, opts)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			v, err := runExtract(cmd, ctrl, query, match, startAdjust, endAdjust)
			if err != nil {
				return err
			}
			o := v.Outcome
			res := ExtractResult{
				Path:        o.Path,
				Text:        v.Results[v.Selected].Text,
				StartSec:    o.Start.Seconds(),
				EndSec:      o.End.Seconds(),
				DurationSec: o.Duration.Seconds(),
			}
			e.logger.Infof("extract: wrote %s (%.3fs)", res.Path, res.DurationSec)
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %.3fs  %q\n", res.Path, res.DurationSec, res.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&transcript, "transcript", "", "WebVTT transcript")
	cmd.Flags().StringVar(&audioPath, "audio", "", "WAV recording (default: next to the transcript)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "words the cue must contain")
	cmd.Flags().IntVar(&match, "match", 1, "which match to extract (1-based)")
	cmd.Flags().IntVar(&contextN, "context", 0, "cues of context around the match")
	cmd.Flags().DurationVar(&startAdjust, "start-adjust", 0, "move the start edge, e.g. -150ms")
	cmd.Flags().DurationVar(&endAdjust, "end-adjust", 0, "move the end edge, e.g. 300ms")
	cmd.Flags().StringVar(&output, "output", "", "directory for the clip")
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}

func runExtract(cmd *cobra.Command, ctrl *session.Controller, query string, match int, startAdjust, endAdjust time.Duration) (session.View, error) {
	v := ctrl.SetQuery(query)
	if len(v.Results) == 0 {
		return v, fmt.Errorf("no cue matches %q", query)
	}
	if match > len(v.Results) {
		return v, fmt.Errorf("--match %d but only %d matches", match, len(v.Results))
	}
	for range match {
		v = ctrl.Navigate(session.Down)
	}
	if startAdjust != 0 {
		v = ctrl.AdjustStart(startAdjust)
		warnAdjust(cmd, v)
	}
	if endAdjust != 0 {
		v = ctrl.AdjustEnd(endAdjust)
		warnAdjust(cmd, v)
	}
	v = ctrl.ConfirmExtract(cmd.Context())
	if v.Outcome.Kind != session.OutcomeWritten {
		return v, v.Outcome.Err
	}
	return v, nil
}

func warnAdjust(cmd *cobra.Command, v session.View) {
	if v.Bounds != nil && v.Bounds.Last != boundary.Applied {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", v.Status)
	}
}
