package orchestrator

import (
	"sync"
	"time"

	"calendar-assistant/pkg/llmprovider"
)

// SessionMemory holds the recent conversation history for one chat session.
type SessionMemory struct {
	SessionID   string
	LastUpdated time.Time

	mu       sync.Mutex
	messages []llmprovider.Message
}

// Append adds messages to the history and trims it to MaxSessionHistory.
// Trimming never leaves a function response without the model turn that
// requested it, so the transcript stays valid for every provider.
func (s *SessionMemory) Append(msgs ...llmprovider.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, msgs...)
	if len(s.messages) > MaxSessionHistory {
		s.messages = s.messages[len(s.messages)-MaxSessionHistory:]
	}
	for len(s.messages) > 0 && hasFunctionResponse(s.messages[0]) {
		s.messages = s.messages[1:]
	}
	s.LastUpdated = time.Now()
}

// History returns a copy of the buffered messages.
func (s *SessionMemory) History() []llmprovider.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]llmprovider.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func hasFunctionResponse(msg llmprovider.Message) bool {
	for _, part := range msg.Parts {
		if part.FunctionResponse != nil {
			return true
		}
	}
	return false
}
