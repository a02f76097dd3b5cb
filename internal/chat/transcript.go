package chat

import (
	"sync"
	"time"
)

// Speaker is the author of a turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one immutable chat message.
type Turn struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Failure   bool      `json:"failure,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Transcript is the append-only message log of a conversation.
type Transcript struct {
	mu    sync.RWMutex
	turns []Turn
}

func NewTranscript(turns ...Turn) *Transcript {
	t := &Transcript{}
	for _, turn := range turns {
		t.Append(turn)
	}
	return t
}

// Append adds turn at the end of the log.
func (t *Transcript) Append(turn Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = append(t.turns, turn)
}

// All returns a copy of the turns in order.
func (t *Transcript) All() []Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

// Messages converts the log into completion messages behind a system preamble.
func (t *Transcript) Messages(system string) []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	msgs := make([]Message, 0, len(t.turns)+1)
	if system != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: system})
	}
	for _, turn := range t.turns {
		role := RoleAssistant
		if turn.Speaker == SpeakerUser {
			role = RoleUser
		}
		msgs = append(msgs, Message{Role: role, Content: turn.Text})
	}
	return msgs
}
