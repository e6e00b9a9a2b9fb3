package audio

import (
	"github.com/gen2brain/malgo"
	"go.uber.org/zap"

	"github.com/danisworo/wicara/domain"
)

// Devices owns the audio backend context and opens capture and output
// devices against it. One Devices instance serves the whole process.
type Devices struct {
	ctx    *malgo.AllocatedContext
	logger *zap.Logger
}

// NewDevices initializes the audio backend.
func NewDevices(logger *zap.Logger) (*Devices, error) {
	config := malgo.ContextConfig{}
	config.ThreadPriority = malgo.ThreadPriorityRealtime

	ctx, err := malgo.InitContext(nil, config, nil)
	if err != nil {
		return nil, &domain.DeviceError{Op: "init audio context", Err: err}
	}
	return &Devices{ctx: ctx, logger: logger}, nil
}

// OpenCapture starts the default microphone at 16kHz mono.
func (d *Devices) OpenCapture() (*Capture, error) {
	return StartCapture(d.ctx.Context, d.logger)
}

// OpenOutput opens the default speaker at the playback rate.
func (d *Devices) OpenOutput() (OutputContext, error) {
	return NewSpeaker(PlaybackSampleRate)
}

// Close tears down the backend context. Open devices must be stopped first.
func (d *Devices) Close() error {
	return d.ctx.Uninit()
}
