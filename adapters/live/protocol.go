package live

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/danisworo/wicara/domain/entities"
	"github.com/danisworo/wicara/domain/repositories"
)

// Wire types for the BidiGenerateContent websocket protocol. Each client
// message carries exactly one of the top-level payloads; server messages are
// decoded from the union in serverMessage.

type setupMessage struct {
	Setup setupPayload `json:"setup"`
}

type setupPayload struct {
	Model                    string            `json:"model"`
	SystemInstruction        *content          `json:"systemInstruction,omitempty"`
	Tools                    []*genai.Tool     `json:"tools,omitempty"`
	GenerationConfig         *generationConfig `json:"generationConfig,omitempty"`
	InputAudioTranscription  *struct{}         `json:"inputAudioTranscription,omitempty"`
	OutputAudioTranscription *struct{}         `json:"outputAudioTranscription,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type content struct {
	Parts []part `json:"parts,omitempty"`
	Role  string `json:"role,omitempty"`
}

type part struct {
	Text       string `json:"text,omitempty"`
	InlineData *blob  `json:"inlineData,omitempty"`
}

type blob struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type realtimeInputMessage struct {
	RealtimeInput realtimeInput `json:"realtimeInput"`
}

type realtimeInput struct {
	Audio *blob `json:"audio,omitempty"`
}

type toolResponseMessage struct {
	ToolResponse toolResponsePayload `json:"toolResponse"`
}

type toolResponsePayload struct {
	FunctionResponses []*genai.FunctionResponse `json:"functionResponses"`
}

type serverMessage struct {
	SetupComplete *struct{}        `json:"setupComplete,omitempty"`
	ServerContent *serverContent   `json:"serverContent,omitempty"`
	ToolCall      *toolCallPayload `json:"toolCall,omitempty"`
	GoAway        *goAway          `json:"goAway,omitempty"`
}

type serverContent struct {
	ModelTurn           *content       `json:"modelTurn,omitempty"`
	InputTranscription  *transcription `json:"inputTranscription,omitempty"`
	OutputTranscription *transcription `json:"outputTranscription,omitempty"`
	TurnComplete        bool           `json:"turnComplete,omitempty"`
	Interrupted         bool           `json:"interrupted,omitempty"`
}

type transcription struct {
	Text string `json:"text,omitempty"`
}

type toolCallPayload struct {
	FunctionCalls []*genai.FunctionCall `json:"functionCalls,omitempty"`
}

type goAway struct {
	TimeLeft string `json:"timeLeft,omitempty"`
}

// decodeServerMessage translates one raw websocket message into zero or more
// channel events, in the order a consumer should observe them. Malformed
// payloads are logged and skipped rather than failing the session.
func decodeServerMessage(data []byte, logger *zap.Logger) []repositories.ChannelEvent {
	var msg serverMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Warn("dropping malformed server message", zap.Error(err))
		return nil
	}

	var events []repositories.ChannelEvent

	if msg.ToolCall != nil && len(msg.ToolCall.FunctionCalls) > 0 {
		events = append(events, repositories.ToolCallEvent{Calls: msg.ToolCall.FunctionCalls})
	}

	if sc := msg.ServerContent; sc != nil {
		if sc.Interrupted {
			events = append(events, repositories.InterruptedEvent{})
		}
		if sc.InputTranscription != nil && sc.InputTranscription.Text != "" {
			events = append(events, repositories.TranscriptEvent{
				Role: entities.RoleUser,
				Text: sc.InputTranscription.Text,
			})
		}
		if sc.OutputTranscription != nil && sc.OutputTranscription.Text != "" {
			events = append(events, repositories.TranscriptEvent{
				Role: entities.RoleModel,
				Text: sc.OutputTranscription.Text,
			})
		}
		if sc.ModelTurn != nil {
			for _, p := range sc.ModelTurn.Parts {
				if p.InlineData == nil || p.InlineData.Data == "" {
					continue
				}
				pcm, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
				if err != nil {
					logger.Warn("dropping audio part with bad base64 payload", zap.Error(err))
					continue
				}
				events = append(events, repositories.AudioEvent{
					Chunk: entities.AudioChunk{
						Data:       pcm,
						SampleRate: mimeTypeRate(p.InlineData.MimeType),
						Channels:   1,
					},
				})
			}
		}
		if sc.TurnComplete {
			events = append(events, repositories.TurnCompleteEvent{})
		}
	}

	if msg.GoAway != nil {
		logger.Warn("server signalled connection shutdown",
			zap.String("time_left", msg.GoAway.TimeLeft))
	}

	return events
}

// mimeTypeRate extracts the sample rate from a mime type such as
// "audio/pcm;rate=24000". Missing or unparsable rates default to the agent's
// output rate.
func mimeTypeRate(mimeType string) int {
	for _, param := range strings.Split(mimeType, ";") {
		param = strings.TrimSpace(param)
		if v, ok := strings.CutPrefix(param, "rate="); ok {
			if rate, err := strconv.Atoi(v); err == nil && rate > 0 {
				return rate
			}
		}
	}
	return 24000
}
