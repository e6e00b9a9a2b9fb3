package live

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/danisworo/wicara/domain"
	"github.com/danisworo/wicara/domain/entities"
	"github.com/danisworo/wicara/domain/repositories"
)

const (
	liveEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

	connectTimeout = 15 * time.Second
	setupTimeout   = 10 * time.Second

	// eventBuffer absorbs bursts of audio chunks without stalling the
	// read loop during normal consumption.
	eventBuffer = 256
)

// GeminiChannel dials the Gemini Live API over websocket.
type GeminiChannel struct {
	apiKey   string
	endpoint string
	logger   *zap.Logger
}

// NewGeminiChannel reads the API key from GEMINI_API_KEY.
func NewGeminiChannel(logger *zap.Logger) (*GeminiChannel, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable is not set")
	}
	return &GeminiChannel{
		apiKey:   apiKey,
		endpoint: liveEndpoint,
		logger:   logger,
	}, nil
}

// Connect dials the live endpoint, performs the setup handshake, and starts
// the read loop. The returned session is ready to stream audio.
func (g *GeminiChannel) Connect(ctx context.Context, config repositories.ChannelConfig) (repositories.ChannelSession, error) {
	if config.Model == "" {
		return nil, &domain.ProtocolError{Kind: "setup", Err: errors.New("model is required")}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, connectTimeout)
		defer cancel()
	}

	endpoint := fmt.Sprintf("%s?key=%s", g.endpoint, url.QueryEscape(g.apiKey))
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, &domain.TransportError{Op: "dial", Err: err}
	}

	sess := &geminiSession{
		conn:   conn,
		logger: g.logger,
		events: make(chan repositories.ChannelEvent, eventBuffer),
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
	}

	if err := sess.handshake(config); err != nil {
		conn.Close()
		return nil, err
	}

	go sess.readLoop()
	return sess, nil
}

type geminiSession struct {
	conn   *websocket.Conn
	logger *zap.Logger

	events chan repositories.ChannelEvent
	done   chan struct{} // closed when readLoop exits
	stop   chan struct{} // closed by Close to release a blocked event send

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
}

// handshake sends the setup message and blocks until the server acknowledges.
func (s *geminiSession) handshake(config repositories.ChannelConfig) error {
	setup := setupMessage{Setup: setupPayload{
		Model: config.Model,
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
		},
		InputAudioTranscription:  &struct{}{},
		OutputAudioTranscription: &struct{}{},
	}}
	if config.SystemInstruction != "" {
		setup.Setup.SystemInstruction = &content{
			Parts: []part{{Text: config.SystemInstruction}},
		}
	}
	if len(config.Tools) > 0 {
		setup.Setup.Tools = []*genai.Tool{{FunctionDeclarations: config.Tools}}
	}

	if err := s.sendJSON(setup); err != nil {
		return err
	}

	s.conn.SetReadDeadline(time.Now().Add(setupTimeout))
	defer s.conn.SetReadDeadline(time.Time{})

	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return &domain.TransportError{Op: "await setup ack", Err: err}
	}

	var msg serverMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return &domain.ProtocolError{Kind: "setup ack", Err: err}
	}
	if msg.SetupComplete == nil {
		return &domain.ProtocolError{Kind: "setup ack", Err: errors.New("server did not acknowledge setup")}
	}
	return nil
}

// SendAudio streams one PCM16 chunk to the agent.
func (s *geminiSession) SendAudio(chunk entities.AudioChunk) error {
	return s.sendJSON(realtimeInputMessage{RealtimeInput: realtimeInput{
		Audio: &blob{
			MimeType: fmt.Sprintf("audio/pcm;rate=%d", chunk.SampleRate),
			Data:     base64.StdEncoding.EncodeToString(chunk.Data),
		},
	}})
}

// SendToolResponses returns function results to the agent so it can resume
// the turn.
func (s *geminiSession) SendToolResponses(responses []*genai.FunctionResponse) error {
	if len(responses) == 0 {
		return nil
	}
	return s.sendJSON(toolResponseMessage{ToolResponse: toolResponsePayload{
		FunctionResponses: responses,
	}})
}

func (s *geminiSession) sendJSON(v any) error {
	if s.closed.Load() {
		return &domain.TransportError{Op: "send", Err: errors.New("session closed")}
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(v); err != nil {
		return &domain.TransportError{Op: "send", Err: err}
	}
	return nil
}

// Events returns the ordered event stream. The channel is closed after a
// terminal ClosedEvent once the read loop exits.
func (s *geminiSession) Events() <-chan repositories.ChannelEvent {
	return s.events
}

// readLoop decodes server messages into events until the connection fails or
// Close is called. Event sends block so ordering is preserved; a blocked send
// is released by the stop channel during Close.
func (s *geminiSession) readLoop() {
	defer close(s.done)
	defer close(s.events)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.emit(repositories.ClosedEvent{Err: s.closeError(err)})
			return
		}
		for _, ev := range decodeServerMessage(data, s.logger) {
			if !s.emit(ev) {
				return
			}
		}
	}
}

func (s *geminiSession) emit(ev repositories.ChannelEvent) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.stop:
		return false
	}
}

// closeError maps a read failure to the error carried by ClosedEvent. A
// normal closure, or any error after Close was requested locally, is not an
// error condition.
func (s *geminiSession) closeError(err error) error {
	if s.closed.Load() {
		return nil
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return nil
	}
	return &domain.TransportError{Op: "read", Err: err}
}

// Close performs a best-effort close handshake, tears down the connection,
// and waits for the read loop to exit. Safe to call more than once.
func (s *geminiSession) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.stop)

		s.writeMu.Lock()
		s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()

		s.conn.Close()
		<-s.done
	})
	return nil
}
