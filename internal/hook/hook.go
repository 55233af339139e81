// Package hook runs the user's command after a sample has been written.
package hook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"parasite/internal/config"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"
)

// ErrNoCommand is returned when no hook is configured.
var ErrNoCommand = errors.New("no hook.command configured")

// Job describes one written sample.
type Job struct {
	Path      string
	Text      string
	Start     time.Duration
	End       time.Duration
	Timestamp time.Time
}

// Runner executes the configured hook.
type Runner struct {
	cfg    config.HookConfig
	logger *logrus.Logger
}

func NewRunner(cfg config.HookConfig, logger *logrus.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger}
}

// Enabled reports whether a hook command is configured.
func (r *Runner) Enabled() bool {
	return strings.TrimSpace(r.cfg.Command) != ""
}

// Run executes the command with the sample path as its last argument.
// ${path} and ${text} in args are replaced instead when present.
func (r *Runner) Run(ctx context.Context, job Job) error {
	cmdStr := os.ExpandEnv(strings.TrimSpace(r.cfg.Command))
	if cmdStr == "" {
		return ErrNoCommand
	}
	args := make([]string, 0, len(r.cfg.Args)+1)
	templated := false
	repl := strings.NewReplacer("${path}", job.Path, "${text}", job.Text)
	for _, a := range r.cfg.Args {
		if strings.Contains(a, "${path}") || strings.Contains(a, "${text}") {
			templated = true
		}
		args = append(args, repl.Replace(a))
	}
	if !templated {
		args = append(args, job.Path)
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if r.cfg.TimeoutSec > 0 {
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(float64(time.Second)*r.cfg.TimeoutSec))
		defer cancel()
	}
	cmd := exec.CommandContext(runCtx, cmdStr, args...)
	cmd.WaitDelay = time.Second
	cmd.Env = os.Environ()
	for k, v := range r.cfg.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = append(cmd.Env,
		fmt.Sprintf("PARASITE_SAMPLE_PATH=%s", job.Path),
		fmt.Sprintf("PARASITE_TEXT=%s", job.Text),
		fmt.Sprintf("PARASITE_START=%s", seconds(job.Start)),
		fmt.Sprintf("PARASITE_END=%s", seconds(job.End)),
	)

	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		r.logger.Infof("hook output: %s", strings.TrimSpace(string(out)))
	}
	if err != nil {
		return fmt.Errorf("hook failed: %w", err)
	}
	return nil
}

// ParseArgs allows hook args to be given as a single string.
func ParseArgs(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	return shlex.Split(raw)
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
