package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/danisworo/wicara/domain/entities"
	"github.com/danisworo/wicara/domain/repositories"
	"github.com/danisworo/wicara/internal/audio"
	"github.com/danisworo/wicara/internal/metrics"
)

// AudioCapture is the microphone surface the session consumes.
type AudioCapture interface {
	Frames() <-chan entities.AudioChunk
	Level() float64
	Stop()
}

// DeviceFactory opens audio devices for a session. Devices are opened per
// session and released when it ends.
type DeviceFactory interface {
	OpenCapture() (AudioCapture, error)
	OpenOutput() (audio.OutputContext, error)
}

// SessionConfig is the agent setup applied to every session.
type SessionConfig struct {
	Model             string
	SystemInstruction string
	Tools             []*genai.FunctionDeclaration
}

// SessionStatus is a point-in-time snapshot for UI polling.
type SessionStatus struct {
	State    entities.SessionState `json:"state"`
	Level    float64               `json:"level"`
	Speaking bool                  `json:"speaking"`
}

// SessionService runs at most one live voice session at a time: it opens the
// audio devices, connects the agent channel, and pumps microphone frames out
// and agent events in from a single goroutine. A session that fails lands in
// the error state and stays there until the next explicit Connect.
type SessionService struct {
	channel    repositories.SessionChannel
	devices    DeviceFactory
	router     *ToolRouter
	transcript *entities.Transcript
	records    *entities.RecordLog
	archive    repositories.ArchiveRepository
	config     SessionConfig
	logger     *zap.Logger

	mu      sync.Mutex
	state   entities.SessionState
	current *liveSession
}

// liveSession holds the resources of one connection attempt. The ready
// channel closes once the attempt has resolved either way, so a concurrent
// Disconnect can wait for a settled outcome instead of racing the setup.
type liveSession struct {
	id        string
	startedAt time.Time

	ready chan struct{}
	err   error

	channel   repositories.ChannelSession
	capture   AudioCapture
	scheduler *audio.Scheduler

	// High-water marks taken at connect time so the archive holds only
	// what this session added, not earlier sessions' history.
	msgBase    int
	recordBase int

	cancel   context.CancelFunc
	loopDone chan struct{}

	teardownOnce sync.Once
}

func NewSessionService(
	channel repositories.SessionChannel,
	devices DeviceFactory,
	router *ToolRouter,
	transcript *entities.Transcript,
	records *entities.RecordLog,
	archive repositories.ArchiveRepository,
	config SessionConfig,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		channel:    channel,
		devices:    devices,
		router:     router,
		transcript: transcript,
		records:    records,
		archive:    archive,
		config:     config,
		logger:     logger,
		state:      entities.SessionDisconnected,
	}
}

// Connect establishes a live session. It is rejected while another session
// is connecting or connected.
func (s *SessionService) Connect(ctx context.Context) error {
	sess := &liveSession{
		id:         uuid.NewString(),
		startedAt:  time.Now(),
		ready:      make(chan struct{}),
		loopDone:   make(chan struct{}),
		msgBase:    len(s.transcript.Messages()),
		recordBase: s.records.Len(),
	}

	s.mu.Lock()
	if !s.state.CanConnect() {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("cannot connect while session is %s", state)
	}
	s.state = entities.SessionConnecting
	s.current = sess
	s.mu.Unlock()

	if err := s.establish(ctx, sess); err != nil {
		s.mu.Lock()
		s.state = entities.SessionError
		s.current = nil
		s.mu.Unlock()

		sess.err = err
		close(sess.ready)
		metrics.SessionErrors.Inc()
		s.logger.Error("session connect failed", zap.Error(err))
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel

	s.mu.Lock()
	s.state = entities.SessionConnected
	s.mu.Unlock()

	metrics.SessionsTotal.Inc()
	metrics.SessionActive.Set(1)
	s.logger.Info("session connected",
		zap.String("session_id", sess.id),
		zap.String("model", s.config.Model))

	go s.run(runCtx, sess)
	close(sess.ready)
	return nil
}

// establish opens devices and the agent channel, releasing partial resources
// on failure.
func (s *SessionService) establish(ctx context.Context, sess *liveSession) error {
	capture, err := s.devices.OpenCapture()
	if err != nil {
		return err
	}

	output, err := s.devices.OpenOutput()
	if err != nil {
		capture.Stop()
		return err
	}

	chSess, err := s.channel.Connect(ctx, repositories.ChannelConfig{
		Model:             s.config.Model,
		SystemInstruction: s.config.SystemInstruction,
		Tools:             s.config.Tools,
		InputSampleRate:   audio.CaptureSampleRate,
	})
	if err != nil {
		capture.Stop()
		output.Close()
		return err
	}

	sess.capture = capture
	sess.scheduler = audio.NewScheduler(output, s.logger)
	sess.channel = chSess
	return nil
}

// run pumps microphone frames to the agent and agent events to their
// handlers. All session event handling happens on this goroutine, so
// transcript ordering follows channel ordering.
//
// Cancellation is re-checked before acting on any received value: teardown
// can begin while a case is already ready, or while a tool handler is
// running, and frames or events buffered at that point must not schedule
// audio, touch the transcript, or execute tools.
func (s *SessionService) run(ctx context.Context, sess *liveSession) {
	defer close(sess.loopDone)

	frames := sess.capture.Frames()
	events := sess.channel.Events()

	for {
		select {
		case <-ctx.Done():
			return

		case chunk, ok := <-frames:
			if !ok {
				frames = nil
				continue
			}
			if ctx.Err() != nil {
				return
			}
			if err := sess.channel.SendAudio(chunk); err != nil {
				s.fail(sess, err)
				return
			}
			metrics.ChunksCaptured.Inc()

		case ev, ok := <-events:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				return
			}
			if !s.handleEvent(sess, ev) {
				return
			}
		}
	}
}

// handleEvent processes one channel event. It returns false when the session
// must end.
func (s *SessionService) handleEvent(sess *liveSession, ev repositories.ChannelEvent) bool {
	switch ev := ev.(type) {
	case repositories.AudioEvent:
		sess.scheduler.Enqueue(ev.Chunk)
		metrics.ChunksScheduled.Inc()

	case repositories.TranscriptEvent:
		s.transcript.Append(ev.Role, ev.Text)

	case repositories.TurnCompleteEvent:
		if committed := s.transcript.CommitTurn(); len(committed) > 0 {
			metrics.TurnsCompleted.Inc()
			s.logger.Debug("turn committed", zap.Int("messages", len(committed)))
		}

	case repositories.InterruptedEvent:
		sess.scheduler.Flush()
		metrics.Interruptions.Inc()
		s.logger.Debug("agent response interrupted, playback flushed")

	case repositories.ToolCallEvent:
		metrics.ToolCalls.Add(float64(len(ev.Calls)))
		responses := s.router.Dispatch(ev.Calls)
		if err := sess.channel.SendToolResponses(responses); err != nil {
			s.fail(sess, err)
			return false
		}

	case repositories.ClosedEvent:
		s.fail(sess, ev.Err)
		return false
	}
	return true
}

// fail ends a session from inside its own run loop. It must not wait for the
// loop to exit. Stale sessions that already lost ownership are ignored.
func (s *SessionService) fail(sess *liveSession, err error) {
	s.mu.Lock()
	if s.current != sess {
		s.mu.Unlock()
		return
	}
	s.current = nil
	s.state = entities.SessionError
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("session failed", zap.String("session_id", sess.id), zap.Error(err))
	} else {
		s.logger.Warn("session closed by remote", zap.String("session_id", sess.id))
	}

	metrics.SessionErrors.Inc()
	metrics.SessionActive.Set(0)

	sess.release()
	s.archiveSession(sess)
}

// Disconnect ends the current session, waiting out an in-flight connect
// first. Disconnecting while idle or errored just resets the state.
func (s *SessionService) Disconnect() error {
	s.mu.Lock()
	sess := s.current
	if sess == nil {
		s.state = entities.SessionDisconnected
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	<-sess.ready

	s.mu.Lock()
	if s.current != sess {
		// The connect failed or the session already ended on its own.
		s.state = entities.SessionDisconnected
		s.mu.Unlock()
		return nil
	}
	s.current = nil
	s.state = entities.SessionDisconnected
	s.mu.Unlock()

	sess.release()
	<-sess.loopDone
	s.archiveSession(sess)

	metrics.SessionActive.Set(0)
	s.logger.Info("session disconnected", zap.String("session_id", sess.id))
	return nil
}

// release tears the session's resources down exactly once. Closing the
// channel unblocks its read loop, and closing the scheduler releases the
// output device.
func (sess *liveSession) release() {
	sess.teardownOnce.Do(func() {
		if sess.cancel != nil {
			sess.cancel()
		}
		sess.capture.Stop()
		sess.scheduler.Close()
		sess.channel.Close()
	})
}

// archiveSession persists the session's transcript and records. Pending
// partial turns are committed first so nothing said is lost.
func (s *SessionService) archiveSession(sess *liveSession) {
	if s.archive == nil {
		return
	}

	s.transcript.CommitTurn()

	var messages []entities.ChatMessage
	if all := s.transcript.Messages(); sess.msgBase < len(all) {
		messages = all[sess.msgBase:]
	}
	var records []entities.CapturedRecord
	if all := s.records.Records(); sess.recordBase < len(all) {
		records = all[sess.recordBase:]
	}
	if len(messages) == 0 && len(records) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	archive := &entities.SessionArchive{
		SessionID: sess.id,
		StartedAt: sess.startedAt,
		EndedAt:   time.Now(),
		Messages:  messages,
		Records:   records,
	}
	if err := s.archive.Save(ctx, archive); err != nil {
		s.logger.Warn("failed to archive session",
			zap.String("session_id", sess.id),
			zap.Error(err))
	}
}

// Status reports the session state with live microphone level and playback
// activity.
func (s *SessionService) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := SessionStatus{State: s.state}
	if s.current != nil && s.state == entities.SessionConnected {
		status.Level = s.current.capture.Level()
		status.Speaking = s.current.scheduler.Speaking()
	}
	return status
}

// Transcript returns the committed conversation so far.
func (s *SessionService) Transcript() []entities.ChatMessage {
	return s.transcript.Messages()
}

// Records returns all captured inquiry records.
func (s *SessionService) Records() []entities.CapturedRecord {
	return s.records.Records()
}
