package entities

import (
	"strings"
	"sync"
	"time"
)

// MessageRole represents the role of a message speaker
type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleModel MessageRole = "model"
)

// ChatMessage is a committed transcript entry. Immutable once committed;
// the transcript log is append-only and insertion order is chronological.
type ChatMessage struct {
	Role      MessageRole `json:"role" bson:"role"`
	Text      string      `json:"text" bson:"text"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
}

// Transcript buffers streaming transcription deltas per speaker role and
// commits them as discrete messages at turn boundaries. Delta order is
// authoritative; fragments are concatenated exactly as they arrive.
type Transcript struct {
	mu      sync.Mutex
	buffers map[MessageRole]*strings.Builder
	log     []ChatMessage
}

// NewTranscript creates an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{
		buffers: map[MessageRole]*strings.Builder{
			RoleUser:  {},
			RoleModel: {},
		},
	}
}

// Append accumulates a transcription delta into the role's buffer
func (t *Transcript) Append(role MessageRole, delta string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	buf, ok := t.buffers[role]
	if !ok {
		buf = &strings.Builder{}
		t.buffers[role] = buf
	}
	buf.WriteString(delta)
}

// CommitTurn commits each non-empty role buffer as a new ChatMessage appended
// to the log, user before model, and clears the committed buffers. A role
// with no accumulated text commits nothing. Returns the newly committed
// messages in commit order.
func (t *Transcript) CommitTurn() []ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	var committed []ChatMessage
	for _, role := range []MessageRole{RoleUser, RoleModel} {
		buf := t.buffers[role]
		if buf == nil || buf.Len() == 0 {
			continue
		}
		message := ChatMessage{
			Role:      role,
			Text:      buf.String(),
			Timestamp: now,
		}
		t.log = append(t.log, message)
		committed = append(committed, message)
		buf.Reset()
	}
	return committed
}

// Pending returns the uncommitted buffer contents for a role
func (t *Transcript) Pending(role MessageRole) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if buf := t.buffers[role]; buf != nil {
		return buf.String()
	}
	return ""
}

// Messages returns a snapshot of the committed transcript log in order
func (t *Transcript) Messages() []ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ChatMessage, len(t.log))
	copy(out, t.log)
	return out
}
