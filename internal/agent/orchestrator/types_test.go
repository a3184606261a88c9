package orchestrator

import (
	"fmt"
	"testing"

	"calendar-assistant/pkg/llmprovider"
)

func userMessage(text string) llmprovider.Message {
	return llmprovider.Message{Role: "user", Parts: []llmprovider.Part{{Text: text}}}
}

func TestSessionMemory_Append(t *testing.T) {
	s := &SessionMemory{SessionID: "s1"}

	for i := 0; i < MaxSessionHistory+4; i++ {
		s.Append(userMessage(fmt.Sprintf("msg-%d", i)))
	}

	history := s.History()
	if len(history) != MaxSessionHistory {
		t.Fatalf("expected history capped at %d, got %d", MaxSessionHistory, len(history))
	}
	if history[0].Parts[0].Text != "msg-4" {
		t.Errorf("expected oldest surviving message 'msg-4', got %q", history[0].Parts[0].Text)
	}
	if last := history[len(history)-1].Parts[0].Text; last != fmt.Sprintf("msg-%d", MaxSessionHistory+3) {
		t.Errorf("expected newest message last, got %q", last)
	}
}

func TestSessionMemory_TrimDropsOrphanedFunctionResponses(t *testing.T) {
	s := &SessionMemory{SessionID: "s1"}

	call := llmprovider.Message{Role: "model", Parts: []llmprovider.Part{{
		FunctionCall: &llmprovider.FunctionCall{Name: "list_calendar_events", Args: map[string]interface{}{}},
	}}}
	response := llmprovider.Message{Role: "function", Parts: []llmprovider.Part{{
		FunctionResponse: &llmprovider.FunctionResponse{Name: "list_calendar_events", Response: map[string]string{"ok": "yes"}},
	}}}

	// Fill to the cap with the call/response pair at the front
	s.Append(call, response)
	for i := 0; i < MaxSessionHistory-2; i++ {
		s.Append(userMessage(fmt.Sprintf("msg-%d", i)))
	}
	if len(s.History()) != MaxSessionHistory {
		t.Fatalf("setup expected a full history, got %d", len(s.History()))
	}

	// One more message pushes the call out; the response must not survive alone
	s.Append(userMessage("one more"))

	history := s.History()
	if hasFunctionResponse(history[0]) {
		t.Fatalf("expected no function response without its call, history starts with %+v", history[0])
	}
	if len(history) != MaxSessionHistory-1 {
		t.Errorf("expected %d messages after dropping the orphan, got %d", MaxSessionHistory-1, len(history))
	}
}

func TestSessionMemory_HistoryReturnsCopy(t *testing.T) {
	s := &SessionMemory{SessionID: "s1"}
	s.Append(userMessage("original"))

	history := s.History()
	history[0] = userMessage("mutated")

	if got := s.History()[0].Parts[0].Text; got != "original" {
		t.Errorf("mutating the returned slice must not touch the session, got %q", got)
	}
}
