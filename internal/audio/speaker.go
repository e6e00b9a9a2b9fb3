package audio

import (
	"errors"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/danisworo/wicara/domain"
)

// PlaybackSampleRate is the rate of agent audio output.
const PlaybackSampleRate = 24000

// Speaker is an OutputContext backed by an oto playback device. Its clock is
// wall time since creation; buffers scheduled in the future are held back by
// timers and appended to the pull buffer when due. The oto player reads from
// the pull buffer and pads gaps with silence.
type Speaker struct {
	otoCtx     *oto.Context
	sampleRate int
	epoch      time.Time

	mu      sync.Mutex
	buf     []byte
	player  *oto.Player
	playing bool
	closed  bool
	gen     uint64
}

// NewSpeaker opens the default output device at the given rate, mono PCM16.
func NewSpeaker(sampleRate int) (*Speaker, error) {
	// At 24kHz mono 16-bit, 4800 bytes is ~100ms of buffered audio.
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   4800,
	})
	if err != nil {
		return nil, &domain.DeviceError{Op: "init output device", Err: err}
	}
	<-ready

	return &Speaker{
		otoCtx:     otoCtx,
		sampleRate: sampleRate,
		epoch:      time.Now(),
	}, nil
}

// Now returns the position of the playback clock.
func (s *Speaker) Now() time.Duration {
	return time.Since(s.epoch)
}

// ScheduleAt queues a buffer to begin playing at the given clock position.
func (s *Speaker) ScheduleAt(buf Buffer, start time.Duration, onFinished func()) error {
	data := EncodePCM16(buf.Samples)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return &domain.DeviceError{Op: "schedule audio", Err: errSpeakerClosed}
	}
	gen := s.gen
	s.mu.Unlock()

	if delay := start - s.Now(); delay > 0 {
		time.AfterFunc(delay, func() { s.write(data, gen) })
	} else {
		s.write(data, gen)
	}

	if onFinished != nil {
		delay := start + buf.Duration() - s.Now()
		if delay < 0 {
			delay = 0
		}
		time.AfterFunc(delay, onFinished)
	}
	return nil
}

// write appends audio to the pull buffer unless a Reset or Close intervened
// since the buffer was scheduled.
func (s *Speaker) write(data []byte, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return
	}

	s.buf = append(s.buf, data...)

	// The player is created lazily so the device stays quiet until the
	// first chunk arrives.
	if !s.playing {
		s.playing = true
		s.player = s.otoCtx.NewPlayer(s)
		s.player.Play()
	}
}

// Read implements io.Reader for the oto player. Gaps between scheduled
// buffers come out as silence so the device clock never stalls.
func (s *Speaker) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

// Reset drops all pending audio, including buffers held by timers that have
// not come due yet.
func (s *Speaker) Reset() {
	s.mu.Lock()
	s.gen++
	s.buf = s.buf[:0]

	if s.player != nil && s.playing {
		s.playing = false
		player := s.player
		s.player = nil
		s.mu.Unlock()

		// Pause first to cut audio, then reset oto's internal buffer so
		// stale samples cannot overlap the next response.
		player.Pause()
		player.Reset()
		player.Close()
		return
	}
	s.mu.Unlock()
}

// Close stops playback and releases the player.
func (s *Speaker) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.buf = nil
	player := s.player
	s.player = nil
	s.playing = false
	s.mu.Unlock()

	if player != nil {
		return player.Close()
	}
	return nil
}

var errSpeakerClosed = errors.New("speaker closed")
