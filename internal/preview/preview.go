// Package preview plays a time range of a recording so a segment can be
// auditioned before it is written.
package preview

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"parasite/internal/audio"
	"parasite/internal/config"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"
)

// DeviceCommand selects the built-in PortAudio player instead of an
// external program.
const DeviceCommand = "portaudio"

// ErrDisabled is returned by the player used when previews are off.
var ErrDisabled = errors.New("preview disabled")

// Player plays one range at a time. Starting a new preview stops the
// previous one.
type Player interface {
	Play(ctx context.Context, src *audio.Source, start, end time.Duration) error
	Stop() error
	Close() error
}

// New builds the player selected by cfg.Preview.
func New(cfg *config.Config, logger *logrus.Logger) (Player, error) {
	if !cfg.Preview.Enabled || strings.TrimSpace(cfg.Preview.Command) == "" {
		return Disabled{}, nil
	}
	if cfg.Preview.Command == DeviceCommand {
		return NewDevicePlayer(logger)
	}
	return NewExecPlayer(cfg.Preview.Command, cfg.Preview.Args, logger)
}

// Disabled rejects every preview.
type Disabled struct{}

func (Disabled) Play(context.Context, *audio.Source, time.Duration, time.Duration) error {
	return ErrDisabled
}

func (Disabled) Stop() error  { return nil }
func (Disabled) Close() error { return nil }

// ParseArgs splits a shell-style argument string.
func ParseArgs(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	args, err := shlex.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("parse preview args: %w", err)
	}
	return args, nil
}

// Placeholders recognised in configured arguments. When none is present
// the player appends "-ss <start> -t <duration> <path>".
const (
	phPath     = "${path}"
	phStart    = "${start}"
	phDuration = "${duration}"
)

// expandArgs fills placeholders in args for one preview.
func expandArgs(args []string, path string, start, end time.Duration) []string {
	repl := strings.NewReplacer(
		phPath, path,
		phStart, seconds(start),
		phDuration, seconds(end-start),
	)
	out := make([]string, 0, len(args)+5)
	templated := false
	for _, a := range args {
		if strings.Contains(a, phPath) || strings.Contains(a, phStart) || strings.Contains(a, phDuration) {
			templated = true
		}
		out = append(out, repl.Replace(a))
	}
	if !templated {
		out = append(out, "-ss", seconds(start), "-t", seconds(end-start), path)
	}
	return out
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
