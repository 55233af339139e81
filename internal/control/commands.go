package control

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"parasite/internal/config"
	"parasite/internal/doctor"
	"parasite/internal/hook"
	"parasite/internal/logging"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// NewTailLogCmd tails the main log file (simple last N lines).
func NewTailLogCmd(cfgPath *string) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "tail-log",
		Short: "Show the last log lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			return tailFile(cmd.OutOrStdout(), cfg.Paths.LogPath, n)
		},
	}
	cmd.Flags().IntVarP(&n, "lines", "n", 50, "number of lines")
	return cmd
}

func tailFile(w io.Writer, path string, n int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			fmt.Fprintln(w, l)
		}
	}
	return nil
}

// NewTestHookCmd runs the configured hook against an existing clip.
func NewTestHookCmd(cfgPath *string) *cobra.Command {
	var text, rawArgs string
	cmd := &cobra.Command{
		Use:   "test-hook <clip.wav>",
		Short: "Run the post-extraction hook on a clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			logger, err := logging.Configure(cfg)
			if err != nil {
				return err
			}
			if _, err := os.Stat(args[0]); err != nil {
				return err
			}
			if cmd.Flags().Changed("args") {
				hookArgs, err := hook.ParseArgs(rawArgs)
				if err != nil {
					return fmt.Errorf("--args: %w", err)
				}
				cfg.Hook.Args = hookArgs
			}
			r := hook.NewRunner(cfg.Hook, logger)
			job := hook.Job{Path: args[0], Text: text, Timestamp: time.Now()}
			if err := r.Run(cmd.Context(), job); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "hook ran for %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "cue text passed to the hook")
	cmd.Flags().StringVar(&rawArgs, "args", "", "override hook args, shell-quoted (e.g. '-c \"echo $1\" hook ${path}')")
	return cmd
}

// NewDoctorCmd runs environment checks.
func NewDoctorCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check dependencies and config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			results := doctor.Run(cfg)
			failed := false
			for _, r := range results {
				if !r.Pass {
					failed = true
				}
			}
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					status := "ok"
					if !r.Pass {
						status = "fail"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-4s %s\n", r.Name, status, r.Detail)
				}
			}
			if failed {
				return fmt.Errorf("doctor found issues")
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}

// NewConfigCmd prints the effective config as TOML.
func NewConfigCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			out, err := toml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", cfg.Paths.ConfigPath, out)
			return nil
		},
	}
}
