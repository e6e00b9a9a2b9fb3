package audio

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/danisworo/wicara/domain/entities"
)

// Buffer is a decoded block of mono audio ready for scheduling.
type Buffer struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the play time of the buffer.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// OutputContext abstracts the audio output device behind a scheduling clock.
// Now is monotonic from the context's creation; ScheduleAt queues a buffer to
// begin playing at the given clock position and invokes onFinished after it
// has fully played.
type OutputContext interface {
	Now() time.Duration
	ScheduleAt(buf Buffer, start time.Duration, onFinished func()) error
	Reset()
	Close() error
}

// Scheduler lays incoming audio chunks end to end on the output clock so
// playback is gapless regardless of network jitter. Chunks that arrive while
// earlier ones are still playing queue behind them; after an idle gap the
// cursor catches up to the present instead of scheduling into the past.
type Scheduler struct {
	out    OutputContext
	logger *zap.Logger

	mu        sync.Mutex
	nextStart time.Duration
	scheduled map[uint64]struct{}
	seq       uint64
	closed    bool
}

// NewScheduler wraps an output context. The playback cursor starts at the
// context's current clock position.
func NewScheduler(out OutputContext, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		out:       out,
		logger:    logger,
		nextStart: out.Now(),
		scheduled: make(map[uint64]struct{}),
	}
}

// Enqueue decodes a PCM16 chunk and schedules it immediately after the last
// queued chunk. Chunks arriving after Close are dropped silently.
func (s *Scheduler) Enqueue(chunk entities.AudioChunk) {
	buf := Buffer{Samples: DecodePCM16(chunk.Data), SampleRate: chunk.SampleRate}
	if len(buf.Samples) == 0 || buf.SampleRate <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if now := s.out.Now(); s.nextStart < now {
		s.nextStart = now
	}

	s.seq++
	id := s.seq
	start := s.nextStart

	if err := s.out.ScheduleAt(buf, start, func() { s.finished(id) }); err != nil {
		s.logger.Warn("failed to schedule audio chunk", zap.Error(err))
		return
	}
	s.scheduled[id] = struct{}{}
	s.nextStart = start + buf.Duration()
}

func (s *Scheduler) finished(id uint64) {
	s.mu.Lock()
	delete(s.scheduled, id)
	s.mu.Unlock()
}

// Speaking reports whether any scheduled audio has not yet finished playing.
func (s *Scheduler) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scheduled) > 0
}

// Flush drops all queued audio and rewinds the cursor to the present. Used
// when the agent is interrupted mid-response.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.scheduled = make(map[uint64]struct{})
	s.out.Reset()
	s.nextStart = s.out.Now()
}

// Close stops accepting chunks and releases the output context.
func (s *Scheduler) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.scheduled = make(map[uint64]struct{})
	s.mu.Unlock()
	return s.out.Close()
}
