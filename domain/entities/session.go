package entities

import "time"

// SessionState represents the lifecycle state of the live session
type SessionState string

const (
	SessionDisconnected SessionState = "disconnected"
	SessionConnecting   SessionState = "connecting"
	SessionConnected    SessionState = "connected"
	SessionError        SessionState = "error"
)

// CanConnect reports whether a new connection attempt may start from this state
func (s SessionState) CanConnect() bool {
	return s == SessionDisconnected || s == SessionError
}

// AudioChunk is an immutable byte buffer of encoded audio plus its format
// metadata. Outbound chunks carry captured PCM16; inbound chunks carry
// synthesized PCM16 decoded from the wire. A chunk is consumed exactly once
// by its pipeline stage.
type AudioChunk struct {
	Data       []byte
	SampleRate int
	Channels   int
}

// Duration returns the playout duration of the chunk's PCM16 payload.
func (c AudioChunk) Duration() time.Duration {
	if c.SampleRate <= 0 || c.Channels <= 0 {
		return 0
	}
	samples := len(c.Data) / 2 / c.Channels
	return time.Duration(samples) * time.Second / time.Duration(c.SampleRate)
}

// SessionArchive is the durable snapshot of one finished session: the
// committed transcript and the records captured during it.
type SessionArchive struct {
	SessionID string           `json:"session_id" bson:"session_id"`
	StartedAt time.Time        `json:"started_at" bson:"started_at"`
	EndedAt   time.Time        `json:"ended_at" bson:"ended_at"`
	Messages  []ChatMessage    `json:"messages" bson:"messages"`
	Records   []CapturedRecord `json:"records" bson:"records"`
}
