//go:build !portaudio

package preview

import (
	"errors"

	"github.com/sirupsen/logrus"
)

var errNoDevice = errors.New("build with '-tags portaudio' to play through the sound card (PortAudio required)")

// NewDevicePlayer is unavailable without the portaudio build tag.
func NewDevicePlayer(_ *logrus.Logger) (Player, error) {
	return nil, errNoDevice
}

// DeviceAvailable reports why device playback is unavailable.
func DeviceAvailable() error {
	return errNoDevice
}
