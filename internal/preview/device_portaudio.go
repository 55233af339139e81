//go:build portaudio

package preview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"parasite/internal/audio"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"
)

const framesPerBuffer = 1024

// DevicePlayer streams frames straight from the decoded source to the
// default output device.
type DevicePlayer struct {
	logger *logrus.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDevicePlayer initialises PortAudio. Close terminates it.
func NewDevicePlayer(logger *logrus.Logger) (Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	return &DevicePlayer{logger: logger}, nil
}

func (p *DevicePlayer) Play(_ context.Context, src *audio.Source, start, end time.Duration) error {
	if err := p.Stop(); err != nil {
		return err
	}
	lo, hi := src.FrameRange(start, end)
	hi = min(hi, int64(src.Frames()))
	lo = max(lo, 0)
	if hi <= lo {
		return fmt.Errorf("preview: empty range %v-%v", start, end)
	}
	samples, err := src.Samples(int(lo), int(hi))
	if err != nil {
		return err
	}
	pcm := Float32Samples(src.Format, samples)
	ch := src.Format.Channels

	out := make([]float32, framesPerBuffer*ch)
	stream, err := portaudio.OpenDefaultStream(0, ch, float64(src.Format.SampleRate), framesPerBuffer, &out)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("start stream: %w", err)
	}

	playCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.mu.Lock()
	p.cancel, p.done = cancel, done
	p.mu.Unlock()

	go func() {
		defer close(done)
		defer stream.Close()
		defer stream.Stop()
		for off := 0; off < len(pcm); off += len(out) {
			if playCtx.Err() != nil {
				return
			}
			n := copy(out, pcm[off:])
			clear(out[n:])
			if err := stream.Write(); err != nil {
				p.logger.Warnf("preview write: %v", err)
				return
			}
		}
	}()
	return nil
}

func (p *DevicePlayer) Stop() error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

func (p *DevicePlayer) Close() error {
	_ = p.Stop()
	return portaudio.Terminate()
}

// DeviceAvailable reports whether an output device can be opened.
func DeviceAvailable() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	defer func() {
		_ = portaudio.Terminate()
	}()
	dev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return err
	}
	if dev == nil || dev.MaxOutputChannels < 1 {
		return fmt.Errorf("no output device")
	}
	return nil
}
