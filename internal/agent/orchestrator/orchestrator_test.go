package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"calendar-assistant/internal/agent"
	"calendar-assistant/internal/agent/tools"
	"calendar-assistant/pkg/gcalendar"
	"calendar-assistant/pkg/llmprovider"
)

// mockLogger
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

// scriptedProvider plays back a fixed sequence of model turns and keeps a
// snapshot of every request it saw.
type scriptedProvider struct {
	mu        sync.Mutex
	responses []*llmprovider.Response
	requests  []*llmprovider.Request
	calls     int
}

func (p *scriptedProvider) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := *req
	snapshot.Messages = append([]llmprovider.Message(nil), req.Messages...)
	p.requests = append(p.requests, &snapshot)

	idx := p.calls
	p.calls++
	if idx < len(p.responses) {
		return p.responses[idx], nil
	}
	return textResponse("done"), nil
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "scripted-1" }

func textResponse(text string) *llmprovider.Response {
	return &llmprovider.Response{
		Content: llmprovider.Message{
			Role:  "model",
			Parts: []llmprovider.Part{{Text: text}},
		},
		Usage: &llmprovider.Usage{},
	}
}

func callResponse(name string, args map[string]interface{}) *llmprovider.Response {
	return &llmprovider.Response{
		Content: llmprovider.Message{
			Role: "model",
			Parts: []llmprovider.Part{{
				FunctionCall: &llmprovider.FunctionCall{Name: name, Args: args},
			}},
		},
		Usage: &llmprovider.Usage{},
	}
}

func newTestOrchestrator(registry *agent.ToolRegistry, provider llmprovider.Provider) *Orchestrator {
	l := &mockLogger{}
	manager := llmprovider.NewManager(
		[]llmprovider.Provider{provider},
		&llmprovider.Config{RetryAttempts: 1},
		l,
	)
	return New(manager, registry, l, "UTC")
}

// findFunctionResponse digs the function response for name out of a request.
func findFunctionResponse(req *llmprovider.Request, name string) *llmprovider.FunctionResponse {
	for _, msg := range req.Messages {
		for _, part := range msg.Parts {
			if part.FunctionResponse != nil && part.FunctionResponse.Name == name {
				return part.FunctionResponse
			}
		}
	}
	return nil
}

// mockTool records whether it ran.
type mockTool struct {
	executed int
}

func (m *mockTool) Name() string        { return "mock_tool" }
func (m *mockTool) Description() string { return "A mock tool" }
func (m *mockTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"foo": map[string]interface{}{"type": "string"},
		},
	}
}
func (m *mockTool) Execute(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	m.executed++
	return map[string]interface{}{"result": "executed"}, nil
}

// calendarStub satisfies the tool collaborator interfaces.
type calendarStub struct {
	created     *gcalendar.CreateEventRequest
	createCalls int
	deleteErr   error
	deleteCalls int
}

func (c *calendarStub) CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error) {
	c.createCalls++
	c.created = &req
	return &gcalendar.Event{
		ID:        "evt-1",
		Summary:   req.Summary,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		HtmlLink:  "https://calendar.google.com/evt-1",
	}, nil
}

func (c *calendarStub) DeleteEvent(ctx context.Context, req gcalendar.DeleteEventRequest) error {
	c.deleteCalls++
	return c.deleteErr
}

func TestOrchestrator_ProcessMessage(t *testing.T) {
	ctx := context.Background()
	l := &mockLogger{}

	t.Run("plain text reply", func(t *testing.T) {
		registry := agent.NewToolRegistry()
		registry.Register(&mockTool{})

		provider := &scriptedProvider{responses: []*llmprovider.Response{
			textResponse("Hello there!"),
		}}
		o := newTestOrchestrator(registry, provider)

		result, err := o.ProcessMessage(ctx, "s1", "hi")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "Hello there!" {
			t.Errorf("expected 'Hello there!', got %q", result)
		}

		req := provider.requests[0]
		if req.SystemInstruction == nil || !strings.Contains(req.SystemInstruction.Parts[0].Text, "SYSTEM CONTEXT") {
			t.Error("expected system instruction with time context")
		}
		if len(req.Tools) == 0 {
			t.Error("expected tool catalog in the request")
		}
	})

	t.Run("tool call then reply", func(t *testing.T) {
		tool := &mockTool{}
		registry := agent.NewToolRegistry()
		registry.Register(tool)

		provider := &scriptedProvider{responses: []*llmprovider.Response{
			callResponse("mock_tool", map[string]interface{}{"foo": "bar"}),
			textResponse("All done"),
		}}
		o := newTestOrchestrator(registry, provider)

		result, err := o.ProcessMessage(ctx, "s1", "run the tool")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "All done" {
			t.Errorf("expected 'All done', got %q", result)
		}
		if tool.executed != 1 {
			t.Errorf("expected one tool execution, got %d", tool.executed)
		}

		fr := findFunctionResponse(provider.requests[1], "mock_tool")
		if fr == nil {
			t.Fatal("expected function response in the second model request")
		}
	})

	t.Run("unknown operation never reaches a tool", func(t *testing.T) {
		tool := &mockTool{}
		registry := agent.NewToolRegistry()
		registry.Register(tool)

		provider := &scriptedProvider{responses: []*llmprovider.Response{
			callResponse("check_weather", map[string]interface{}{"city": "Hanoi"}),
			textResponse("I can only manage your calendar."),
		}}
		o := newTestOrchestrator(registry, provider)

		result, err := o.ProcessMessage(ctx, "s1", "what's the weather?")
		if err != nil {
			t.Fatalf("the loop must survive an unknown operation, got error: %v", err)
		}
		if result != "I can only manage your calendar." {
			t.Errorf("unexpected reply: %q", result)
		}
		if tool.executed != 0 {
			t.Errorf("no registered tool may run for an unknown operation, got %d executions", tool.executed)
		}

		fr := findFunctionResponse(provider.requests[1], "check_weather")
		if fr == nil {
			t.Fatal("expected the failure to come back as a function response")
		}
		errMap, ok := fr.Response.(map[string]string)
		if !ok {
			t.Fatalf("expected structured error map, got %T", fr.Response)
		}
		if errMap["code"] != ErrCodeUnknownOperation {
			t.Errorf("expected code %s, got %s", ErrCodeUnknownOperation, errMap["code"])
		}
	})

	t.Run("malformed arguments stop before the calendar", func(t *testing.T) {
		calendar := &calendarStub{}
		registry := agent.NewToolRegistry()
		registry.Register(tools.NewCreateEventTool(calendar, "UTC", l))

		provider := &scriptedProvider{responses: []*llmprovider.Response{
			callResponse("create_calendar_event", map[string]interface{}{"summary": "Call with Alice"}),
			textResponse("I need a start time for that. When should it begin?"),
		}}
		o := newTestOrchestrator(registry, provider)

		result, err := o.ProcessMessage(ctx, "s1", "schedule a call with Alice")
		if err != nil {
			t.Fatalf("the conversation must continue after bad arguments, got error: %v", err)
		}
		if !strings.Contains(result, "start time") {
			t.Errorf("unexpected reply: %q", result)
		}
		if calendar.createCalls != 0 {
			t.Errorf("the calendar must not be called with malformed arguments, got %d calls", calendar.createCalls)
		}

		fr := findFunctionResponse(provider.requests[1], "create_calendar_event")
		if fr == nil {
			t.Fatal("expected the failure to come back as a function response")
		}
		errMap := fr.Response.(map[string]string)
		if errMap["code"] != ErrCodeMalformedArguments {
			t.Errorf("expected code %s, got %s", ErrCodeMalformedArguments, errMap["code"])
		}
		if !strings.Contains(errMap["error"], "start_time") {
			t.Errorf("expected the error to name the missing field, got %q", errMap["error"])
		}
	})

	t.Run("scheduling request creates the event and confirms", func(t *testing.T) {
		calendar := &calendarStub{}
		registry := agent.NewToolRegistry()
		registry.Register(tools.NewCreateEventTool(calendar, "UTC", l))

		tomorrow := time.Now().UTC().AddDate(0, 0, 1)
		wantStart := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 16, 0, 0, 0, time.UTC)

		provider := &scriptedProvider{responses: []*llmprovider.Response{
			callResponse("create_calendar_event", map[string]interface{}{
				"summary":    "Call with Alice",
				"start_time": wantStart.Format("2006-01-02T15:04"),
				"time_zone":  "UTC",
			}),
			textResponse(fmt.Sprintf("Booked \"Call with Alice\" for %s at 16:00.", wantStart.Format("2006-01-02"))),
		}}
		o := newTestOrchestrator(registry, provider)

		result, err := o.ProcessMessage(ctx, "s1", "Schedule a call with Alice at 4pm tomorrow")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calendar.created == nil {
			t.Fatal("expected the event to be created")
		}
		if !strings.Contains(calendar.created.Summary, "Alice") {
			t.Errorf("expected the event title to mention Alice, got %q", calendar.created.Summary)
		}
		if !calendar.created.StartTime.Equal(wantStart) {
			t.Errorf("expected start %v, got %v", wantStart, calendar.created.StartTime)
		}
		if !strings.Contains(result, "Alice") {
			t.Errorf("expected the confirmation to mention Alice, got %q", result)
		}
	})

	t.Run("double delete surfaces not found", func(t *testing.T) {
		calendar := &calendarStub{deleteErr: fmt.Errorf("gcalendar.DeleteEvent: %w: 404", gcalendar.ErrNotFound)}
		registry := agent.NewToolRegistry()
		registry.Register(tools.NewDeleteEventTool(calendar, l))

		provider := &scriptedProvider{responses: []*llmprovider.Response{
			callResponse("delete_calendar_event", map[string]interface{}{"event_id": "evt-1"}),
			textResponse("That event was already gone."),
		}}
		o := newTestOrchestrator(registry, provider)

		result, err := o.ProcessMessage(ctx, "s1", "delete it again")
		if err != nil {
			t.Fatalf("a missing event must not end the conversation, got error: %v", err)
		}
		if result != "That event was already gone." {
			t.Errorf("unexpected reply: %q", result)
		}

		fr := findFunctionResponse(provider.requests[1], "delete_calendar_event")
		if fr == nil {
			t.Fatal("expected the failure to come back as a function response")
		}
		errMap := fr.Response.(map[string]string)
		if errMap["code"] != ErrCodeNotFound {
			t.Errorf("expected code %s, got %s", ErrCodeNotFound, errMap["code"])
		}
	})

	t.Run("max steps exceeded", func(t *testing.T) {
		tool := &mockTool{}
		registry := agent.NewToolRegistry()
		registry.Register(tool)

		var responses []*llmprovider.Response
		for i := 0; i < MaxAgentSteps+1; i++ {
			responses = append(responses, callResponse("mock_tool", map[string]interface{}{"foo": "loop"}))
		}
		provider := &scriptedProvider{responses: responses}
		o := newTestOrchestrator(registry, provider)

		result, err := o.ProcessMessage(ctx, "s1", "loop forever")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != ErrMsgMaxStepsExceeded {
			t.Errorf("expected the friendly max-steps message, got %q", result)
		}
		if provider.calls != MaxAgentSteps {
			t.Errorf("expected exactly %d model calls, got %d", MaxAgentSteps, provider.calls)
		}
	})
}

func TestOrchestrator_Sessions(t *testing.T) {
	ctx := context.Background()
	registry := agent.NewToolRegistry()

	provider := &scriptedProvider{responses: []*llmprovider.Response{
		textResponse("first answer"),
		textResponse("second answer"),
	}}
	o := newTestOrchestrator(registry, provider)

	session := o.GetSession("user123")
	if session == nil {
		t.Fatal("expected non-nil session")
	}
	if session.SessionID != "user123" {
		t.Errorf("expected session id 'user123', got %q", session.SessionID)
	}
	if again := o.GetSession("user123"); again != session {
		t.Error("expected the same session on repeated lookups")
	}

	if _, err := o.ProcessMessage(ctx, "user123", "first question"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := o.ProcessMessage(ctx, "user123", "second question"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The second request must carry the whole conversation so far
	secondReq := provider.requests[1]
	var sawFirstQuestion, sawFirstAnswer bool
	for _, msg := range secondReq.Messages {
		for _, part := range msg.Parts {
			if part.Text == "first question" {
				sawFirstQuestion = true
			}
			if part.Text == "first answer" {
				sawFirstAnswer = true
			}
		}
	}
	if !sawFirstQuestion || !sawFirstAnswer {
		t.Error("expected earlier turns in the follow-up request")
	}

	o.ClearSession("user123")
	if history := o.GetSession("user123").History(); len(history) != 0 {
		t.Errorf("expected empty history after ClearSession, got %d messages", len(history))
	}
}

func TestClassifyToolError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"malformed arguments", fmt.Errorf("%w: start_time is required", agent.ErrMalformedArguments), ErrCodeMalformedArguments},
		{"auth expired", fmt.Errorf("gcalendar.ListEvents: %w: 401", gcalendar.ErrAuthExpired), ErrCodeAuthExpired},
		{"not found", fmt.Errorf("gcalendar.DeleteEvent: %w: 404", gcalendar.ErrNotFound), ErrCodeNotFound},
		{"transient", fmt.Errorf("gcalendar.ListEvents: %w: 503", gcalendar.ErrTransient), ErrCodeTransient},
		{"timeout", context.DeadlineExceeded, ErrCodeTransient},
		{"anything else", fmt.Errorf("boom"), ErrCodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyToolError(tc.err); got != tc.want {
				t.Errorf("classifyToolError(%v) = %s, want %s", tc.err, got, tc.want)
			}
		})
	}
}
