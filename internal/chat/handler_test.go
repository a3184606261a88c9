package chat_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"calendar-assistant/internal/agent"
	"calendar-assistant/internal/agent/orchestrator"
	"calendar-assistant/internal/chat"
	"calendar-assistant/pkg/llmprovider"
	"calendar-assistant/pkg/response"
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

// scriptedProvider plays back canned model replies.
type scriptedProvider struct {
	responses []*llmprovider.Response
	calls     int
}

func (p *scriptedProvider) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
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

func newTestRouter(replies ...string) (*gin.Engine, *orchestrator.Orchestrator) {
	gin.SetMode(gin.TestMode)
	l := &mockLogger{}

	var responses []*llmprovider.Response
	for _, reply := range replies {
		responses = append(responses, textResponse(reply))
	}
	provider := &scriptedProvider{responses: responses}
	manager := llmprovider.NewManager(
		[]llmprovider.Provider{provider},
		&llmprovider.Config{RetryAttempts: 1},
		l,
	)
	o := orchestrator.New(manager, agent.NewToolRegistry(), l, "UTC")
	h := chat.New(l, o)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/chat/message", h.HandleChatMessage)
	api.POST("/chat/reset", h.HandleResetSession)
	return r, o
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResp(t *testing.T, w *httptest.ResponseRecorder) (response.Resp, map[string]interface{}) {
	t.Helper()
	var resp response.Resp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	data, _ := resp.Data.(map[string]interface{})
	return resp, data
}

func TestHandleChatMessage(t *testing.T) {
	t.Run("mints a session id when absent", func(t *testing.T) {
		r, _ := newTestRouter("Hello there!")

		w := postJSON(t, r, "/api/v1/chat/message", map[string]string{"message": "hi"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		resp, data := decodeResp(t, w)
		if resp.ErrorCode != 0 {
			t.Errorf("expected error_code 0, got %d", resp.ErrorCode)
		}
		if data["reply"] != "Hello there!" {
			t.Errorf("unexpected reply: %v", data["reply"])
		}
		sessionID, _ := data["session_id"].(string)
		if sessionID == "" {
			t.Error("expected a generated session id")
		}
	})

	t.Run("keeps the provided session id", func(t *testing.T) {
		r, _ := newTestRouter("Sure.")

		w := postJSON(t, r, "/api/v1/chat/message", map[string]string{
			"session_id": "session-42",
			"message":    "delete my 3pm",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		_, data := decodeResp(t, w)
		if data["session_id"] != "session-42" {
			t.Errorf("expected the same session id back, got %v", data["session_id"])
		}
	})

	t.Run("rejects a missing message", func(t *testing.T) {
		r, _ := newTestRouter()

		w := postJSON(t, r, "/api/v1/chat/message", map[string]string{"session_id": "s1"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}

		resp, _ := decodeResp(t, w)
		if resp.ErrorCode == 0 {
			t.Error("expected a non-zero error code")
		}
	})
}

func TestHandleResetSession(t *testing.T) {
	r, o := newTestRouter("first", "second")

	w := postJSON(t, r, "/api/v1/chat/message", map[string]string{
		"session_id": "session-reset",
		"message":    "hello",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(o.GetSession("session-reset").History()) == 0 {
		t.Fatal("expected history after the first turn")
	}

	w = postJSON(t, r, "/api/v1/chat/reset", map[string]string{"session_id": "session-reset"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := len(o.GetSession("session-reset").History()); got != 0 {
		t.Errorf("expected empty history after reset, got %d messages", got)
	}

	w = postJSON(t, r, "/api/v1/chat/reset", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a reset without session id, got %d", w.Code)
	}
}
