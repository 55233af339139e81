package preview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"parasite/internal/audio"

	"github.com/sirupsen/logrus"
)

// ExecPlayer hands the range to an external program such as ffplay.
type ExecPlayer struct {
	command string
	args    []string
	logger  *logrus.Logger

	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{}
}

// NewExecPlayer parses rawArgs with shell quoting rules.
func NewExecPlayer(command, rawArgs string, logger *logrus.Logger) (*ExecPlayer, error) {
	args, err := ParseArgs(rawArgs)
	if err != nil {
		return nil, err
	}
	return &ExecPlayer{command: os.ExpandEnv(command), args: args, logger: logger}, nil
}

// Play starts the program and returns once it is running. The process is
// reaped in the background.
func (p *ExecPlayer) Play(_ context.Context, src *audio.Source, start, end time.Duration) error {
	if end <= start {
		return fmt.Errorf("preview: empty range %v-%v", start, end)
	}
	if err := p.Stop(); err != nil {
		return err
	}
	args := expandArgs(p.args, src.Path, start, end)
	// Playback outlives the action that started it, so it is not bound to ctx.
	cmd := exec.Command(p.command, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.command, err)
	}
	done := make(chan struct{})
	p.mu.Lock()
	p.cmd, p.done = cmd, done
	p.mu.Unlock()
	p.logger.Debugf("preview %s %v", p.command, args)

	go func() {
		defer close(done)
		if err := cmd.Wait(); err != nil {
			p.logger.Debugf("preview exited: %v", err)
		}
	}()
	return nil
}

// Stop kills the running preview, if any, and waits for it to exit.
func (p *ExecPlayer) Stop() error {
	p.mu.Lock()
	cmd, done := p.cmd, p.done
	p.cmd, p.done = nil, nil
	p.mu.Unlock()
	if cmd == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("stop preview: %w", err)
	}
	<-done
	return nil
}

func (p *ExecPlayer) Close() error {
	return p.Stop()
}
