package live

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/danisworo/wicara/domain/entities"
	"github.com/danisworo/wicara/domain/repositories"
)

func TestDecodeAudioEvent(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	raw := `{"serverContent":{"modelTurn":{"parts":[{"inlineData":{"mimeType":"audio/pcm;rate=24000","data":"` +
		base64.StdEncoding.EncodeToString(pcm) + `"}}]}}}`

	events := decodeServerMessage([]byte(raw), zap.NewNop())
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	audio, ok := events[0].(repositories.AudioEvent)
	if !ok {
		t.Fatalf("expected AudioEvent, got %T", events[0])
	}
	if string(audio.Chunk.Data) != string(pcm) {
		t.Error("decoded PCM does not match")
	}
	if audio.Chunk.SampleRate != 24000 {
		t.Errorf("sample rate = %d, want 24000", audio.Chunk.SampleRate)
	}
}

func TestDecodeTranscriptsAndTurnComplete(t *testing.T) {
	raw := `{"serverContent":{"inputTranscription":{"text":"hello"},"outputTranscription":{"text":"hi there"},"turnComplete":true}}`

	events := decodeServerMessage([]byte(raw), zap.NewNop())
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	in, ok := events[0].(repositories.TranscriptEvent)
	if !ok || in.Role != entities.RoleUser || in.Text != "hello" {
		t.Errorf("event 0 = %#v, want user transcript 'hello'", events[0])
	}
	out, ok := events[1].(repositories.TranscriptEvent)
	if !ok || out.Role != entities.RoleModel || out.Text != "hi there" {
		t.Errorf("event 1 = %#v, want model transcript 'hi there'", events[1])
	}
	if _, ok := events[2].(repositories.TurnCompleteEvent); !ok {
		t.Errorf("event 2 = %#v, want TurnCompleteEvent", events[2])
	}
}

func TestDecodeInterruptedPrecedesAudio(t *testing.T) {
	raw := `{"serverContent":{"interrupted":true,"modelTurn":{"parts":[{"inlineData":{"mimeType":"audio/pcm;rate=24000","data":"AAAA"}}]}}}`

	events := decodeServerMessage([]byte(raw), zap.NewNop())
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if _, ok := events[0].(repositories.InterruptedEvent); !ok {
		t.Errorf("event 0 = %#v, want InterruptedEvent first", events[0])
	}
}

func TestDecodeToolCall(t *testing.T) {
	raw := `{"toolCall":{"functionCalls":[{"id":"c1","name":"capture_inquiry","args":{"name":"Sari"}}]}}`

	events := decodeServerMessage([]byte(raw), zap.NewNop())
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	tc, ok := events[0].(repositories.ToolCallEvent)
	if !ok {
		t.Fatalf("expected ToolCallEvent, got %T", events[0])
	}
	if len(tc.Calls) != 1 || tc.Calls[0].Name != "capture_inquiry" {
		t.Errorf("calls = %#v", tc.Calls)
	}
	if tc.Calls[0].Args["name"] != "Sari" {
		t.Errorf("args = %#v", tc.Calls[0].Args)
	}
}

func TestDecodeDropsBadBase64(t *testing.T) {
	raw := `{"serverContent":{"modelTurn":{"parts":[{"inlineData":{"mimeType":"audio/pcm;rate=24000","data":"!!!"}}]},"turnComplete":true}}`

	events := decodeServerMessage([]byte(raw), zap.NewNop())
	if len(events) != 1 {
		t.Fatalf("expected only turnComplete, got %d events", len(events))
	}
	if _, ok := events[0].(repositories.TurnCompleteEvent); !ok {
		t.Errorf("event 0 = %#v, want TurnCompleteEvent", events[0])
	}
}

func TestDecodeMalformedMessage(t *testing.T) {
	if events := decodeServerMessage([]byte("not json"), zap.NewNop()); events != nil {
		t.Errorf("expected nil, got %#v", events)
	}
}

func TestMimeTypeRate(t *testing.T) {
	tests := []struct {
		mime string
		want int
	}{
		{"audio/pcm;rate=24000", 24000},
		{"audio/pcm; rate=16000", 16000},
		{"audio/pcm", 24000},
		{"audio/pcm;rate=bogus", 24000},
		{"", 24000},
	}
	for _, tt := range tests {
		if got := mimeTypeRate(tt.mime); got != tt.want {
			t.Errorf("mimeTypeRate(%q) = %d, want %d", tt.mime, got, tt.want)
		}
	}
}

func TestSetupMessageShape(t *testing.T) {
	setup := setupMessage{Setup: setupPayload{
		Model:                    "models/gemini-2.0-flash-live-001",
		GenerationConfig:         &generationConfig{ResponseModalities: []string{"AUDIO"}},
		InputAudioTranscription:  &struct{}{},
		OutputAudioTranscription: &struct{}{},
	}}

	data, err := json.Marshal(setup)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	payload, ok := decoded["setup"].(map[string]any)
	if !ok {
		t.Fatal("missing setup key")
	}
	for _, key := range []string{"model", "generationConfig", "inputAudioTranscription", "outputAudioTranscription"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("setup payload missing %q", key)
		}
	}
}
