package repositories

import (
	"context"

	"google.golang.org/genai"

	"github.com/danisworo/wicara/domain/entities"
)

// ChannelConfig declares what the remote agent session is asked to do: the
// system instruction, the tool schema the agent may invoke, and the audio
// format of outbound chunks. Input and output transcription are always
// requested.
type ChannelConfig struct {
	Model             string
	SystemInstruction string
	Tools             []*genai.FunctionDeclaration
	InputSampleRate   int
}

// SessionChannel dials the bidirectional streaming connection to the remote
// conversational agent.
type SessionChannel interface {
	Connect(ctx context.Context, config ChannelConfig) (ChannelSession, error)
}

// ChannelSession is one established bidirectional stream. Sends are
// fire-and-forget with FIFO ordering per direction; no cross-direction
// ordering is guaranteed. Events delivers each inbound event at most once;
// after a ClosedEvent no further events follow.
type ChannelSession interface {
	SendAudio(chunk entities.AudioChunk) error
	SendToolResponses(responses []*genai.FunctionResponse) error
	Events() <-chan ChannelEvent
	Close() error
}

// ChannelEvent is an inbound session event, tagged by kind
type ChannelEvent interface {
	channelEvent()
}

// AudioEvent carries a synthesized audio chunk for playback
type AudioEvent struct {
	Chunk entities.AudioChunk
}

// TranscriptEvent carries a streaming transcription delta for one role
type TranscriptEvent struct {
	Role entities.MessageRole
	Text string
}

// TurnCompleteEvent marks a turn boundary; accumulated transcript text is
// committed when it arrives
type TurnCompleteEvent struct{}

// InterruptedEvent signals that the agent's turn was cut short and pending
// playback should be flushed
type InterruptedEvent struct{}

// ToolCallEvent carries a batch of tool invocations. Every invocation must
// be answered with exactly one correlated response.
type ToolCallEvent struct {
	Calls []*genai.FunctionCall
}

// ClosedEvent is the terminal event. Err is nil on a clean remote close.
type ClosedEvent struct {
	Err error
}

func (AudioEvent) channelEvent()        {}
func (TranscriptEvent) channelEvent()   {}
func (TurnCompleteEvent) channelEvent() {}
func (InterruptedEvent) channelEvent()  {}
func (ToolCallEvent) channelEvent()     {}
func (ClosedEvent) channelEvent()       {}
