package audio

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
	"go.uber.org/zap"

	"github.com/danisworo/wicara/domain"
	"github.com/danisworo/wicara/domain/entities"
)

const (
	// CaptureSampleRate is the microphone rate expected by the agent channel.
	CaptureSampleRate = 16000

	// FrameSamples is the number of samples per emitted frame (~256ms at 16kHz).
	FrameSamples = 4096
)

const frameBytes = FrameSamples * 2

// Capture streams fixed-size PCM16 frames from the default microphone.
// The device callback accumulates raw samples and emits a frame once
// FrameSamples have arrived; if the consumer falls behind, frames are
// dropped rather than stalling the device thread.
type Capture struct {
	device *malgo.Device
	logger *zap.Logger

	frames chan entities.AudioChunk

	mu      sync.Mutex
	pending []byte

	level   uint64 // math.Float64bits of the latest frame RMS level
	dropped atomic.Uint64
	stopped atomic.Bool

	stopOnce sync.Once
}

// StartCapture opens and starts the default capture device at 16kHz mono.
func StartCapture(ctx malgo.Context, logger *zap.Logger) (*Capture, error) {
	c := &Capture{
		logger:  logger,
		frames:  make(chan entities.AudioChunk, 4),
		pending: make([]byte, 0, frameBytes),
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = CaptureSampleRate
	deviceConfig.PeriodSizeInMilliseconds = 20

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			c.push(input)
		},
	}

	device, err := malgo.InitDevice(ctx, deviceConfig, callbacks)
	if err != nil {
		return nil, &domain.DeviceError{Op: "init capture device", Err: err}
	}
	c.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		return nil, &domain.DeviceError{Op: "start capture device", Err: err}
	}
	return c, nil
}

// push runs on the device thread. It must never block.
func (c *Capture) push(input []byte) {
	if c.stopped.Load() {
		return
	}

	c.mu.Lock()
	c.pending = append(c.pending, input...)
	var ready [][]byte
	for len(c.pending) >= frameBytes {
		frame := make([]byte, frameBytes)
		copy(frame, c.pending[:frameBytes])
		c.pending = c.pending[frameBytes:]
		ready = append(ready, frame)
	}
	c.mu.Unlock()

	for _, frame := range ready {
		atomic.StoreUint64(&c.level, math.Float64bits(RMSLevel(frame)))

		chunk := entities.AudioChunk{Data: frame, SampleRate: CaptureSampleRate, Channels: 1}
		select {
		case c.frames <- chunk:
		default:
			if n := c.dropped.Add(1); n%16 == 1 {
				c.logger.Warn("capture consumer falling behind, dropping frames",
					zap.Uint64("dropped_total", n))
			}
		}
	}
}

// Frames returns the stream of captured frames. The channel is closed by Stop.
func (c *Capture) Frames() <-chan entities.AudioChunk {
	return c.frames
}

// Level returns the RMS level of the most recent frame, in [0, 100].
func (c *Capture) Level() float64 {
	return math.Float64frombits(atomic.LoadUint64(&c.level))
}

// Dropped returns the total number of frames dropped due to backpressure.
func (c *Capture) Dropped() uint64 {
	return c.dropped.Load()
}

// Stop halts the device and closes the frame channel. Safe to call more
// than once.
func (c *Capture) Stop() {
	c.stopOnce.Do(func() {
		c.stopped.Store(true)
		if c.device != nil {
			c.device.Stop()
			c.device.Uninit()
		}
		close(c.frames)
	})
}
