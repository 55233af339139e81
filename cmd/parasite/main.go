package main

import (
	"fmt"
	"os"

	"parasite/internal/control"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	root := &cobra.Command{
		Use:   "parasite",
		Short: "Parasite: search WebVTT transcripts and cut the matching audio",
		Long: `Parasite pairs WebVTT transcripts with their WAV recordings, lets you search cues,
nudge the segment edges by ear, and writes sample-accurate WAV clips.

Key commands:
  browse                    Interactive search + extract TUI
  pairs [--json]            List transcript/audio pairs
  search <words...>         Print matching cues across pairs
  extract                   Cut one clip without the TUI
  history [--json]          Recently written clips
  doctor|config|tail-log    Environment checks, effective config, log tail
  test-hook <clip.wav>      Run the post-extraction hook manually

Env overrides: PARASITE_INPUT_DIR, PARASITE_OUTPUT_DIR,
               PARASITE_LOG_LEVEL/FORMAT, PARASITE_PREVIEW_COMMAND,
               PARASITE_CATALOG_ENABLED`,
		Example: `  parasite browse --input ~/podcasts
  parasite search "open source"
  parasite extract --transcript ep1.vtt -q "open source" --match 2 --end-adjust 150ms
  parasite history --limit 5`,
		DisableFlagsInUseLine: true,
	}

	root.Version = version
	root.SetVersionTemplate("Parasite v{{.Version}}\n")

	cfgPath := root.PersistentFlags().StringP("config", "c", "", "Path to config file (TOML). Defaults to ~/.config/parasite/config.toml")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(control.NewBrowseCmd(cfgPath))
	root.AddCommand(control.NewPairsCmd(cfgPath))
	root.AddCommand(control.NewSearchCmd(cfgPath))
	root.AddCommand(control.NewExtractCmd(cfgPath))
	root.AddCommand(control.NewHistoryCmd(cfgPath))
	root.AddCommand(control.NewDoctorCmd(cfgPath))
	root.AddCommand(control.NewConfigCmd(cfgPath))
	root.AddCommand(control.NewTailLogCmd(cfgPath))
	root.AddCommand(control.NewTestHookCmd(cfgPath))

	applyColorHelp(root)

	return root.Execute()
}

func applyColorHelp(root *cobra.Command) {
	const (
		boldBlue = "\033[1;34m"
		green    = "\033[32m"
		bold     = "\033[1m"
		dim      = "\033[2m"
		reset    = "\033[0m"
	)
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != root {
			// Subcommands keep cobra's flag listing.
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		out := cmd.OutOrStdout()
		write := func(format string, args ...any) { _, _ = fmt.Fprintf(out, format, args...) }
		writeln := func(line string) { _, _ = fmt.Fprintln(out, line) }

		write("%sParasite%s: transcript search and clip extraction %s(v%s)%s\n", boldBlue, reset, dim, version, reset)
		write("%sFinds a phrase in a WebVTT transcript and cuts the matching audio out of its WAV.%s\n\n", dim, reset)

		write("%sUsage%s\n", bold, reset)
		write("  parasite [command] [flags]\n\n")

		write("%sKey commands%s\n", bold, reset)
		writeln("  browse [--pair N]           interactive search, preview and extract")
		writeln("  pairs [--json]              list transcript/audio pairs in the input dir")
		writeln("  search <words...>           print matches across every transcript")
		writeln("  extract -q <words>          cut one clip non-interactively")
		writeln("  history [--limit N]         recently written clips (sqlite catalog)")
		writeln("  doctor [--json]             check dirs, preview player, hook")
		writeln("  config                      print the effective config")
		writeln("  tail-log                    show last log lines")
		writeln("  test-hook <clip.wav>        invoke hook manually")
		writeln("")

		write("%sKeys (browse)%s\n", bold, reset)
		writeln("  type to search, ↑↓ pick a match, +/- context lines")
		writeln("  , .  start -/+ coarse   < >  start -/+ fine   [ ]  end -/+ coarse   { }  end -/+ fine")
		writeln("  esc reset edges, tab preview, enter save, ctrl+n/ctrl+p switch pair")
		writeln("")

		write("%sNotable flags & env%s\n", bold, reset)
		writeln("  -c, --config <path>     config file (default ~/.config/parasite/config.toml)")
		writeln("  Env: PARASITE_INPUT_DIR=dir, PARASITE_OUTPUT_DIR=dir,")
		writeln("       PARASITE_LOG_LEVEL=debug, PARASITE_LOG_FORMAT=json,")
		writeln("       PARASITE_PREVIEW_COMMAND=portaudio, PARASITE_CATALOG_ENABLED=0")
		writeln("")

		write("%sExamples%s\n", bold, reset)
		writeln("  parasite browse --input ~/podcasts --output ~/samples")
		writeln("  parasite search \"open source\" --context 1")
		writeln("  parasite extract --transcript ep1.vtt -q \"open source\" --match 2 --end-adjust 150ms")
		writeln("  parasite history --json")
		writeln("")

		write("%sCommands%s\n", bold, reset)
		for _, c := range cmd.Commands() {
			if c.Hidden {
				continue
			}
			write("  %s%-15s%s %s\n", green, c.Name(), reset, c.Short)
		}
	})
}
