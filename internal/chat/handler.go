package chat

import (
	"calendar-assistant/internal/agent/orchestrator"
	pkgLog "calendar-assistant/pkg/log"
	"calendar-assistant/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type handler struct {
	l            pkgLog.Logger
	orchestrator *orchestrator.Orchestrator
}

// HandleChatMessage runs one turn of the calendar assistant
// @Summary Send a chat message
// @Description Process a user message through the calendar agent and return its reply
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ChatMessageRequest true "Chat message"
// @Success 200 {object} response.Resp{data=ChatMessageResponse}
// @Router /chat/message [post]
func (h *handler) HandleChatMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	// No session id means a fresh conversation
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	reply, err := h.orchestrator.ProcessMessage(ctx, req.SessionID, req.Message)
	if err != nil {
		h.l.Errorf(ctx, "internal.chat.HandleChatMessage: %v", err)
		response.InternalError(c, err)
		return
	}

	h.l.Infof(ctx, "internal.chat.HandleChatMessage: session=%s message=%q", req.SessionID, req.Message)

	response.OK(c, ChatMessageResponse{
		SessionID: req.SessionID,
		Reply:     reply,
	})
}

// HandleResetSession drops a conversation
// @Summary Reset a chat session
// @Description Clear the conversation history for a session
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ResetSessionRequest true "Reset session"
// @Success 200 {object} response.Resp{data=ResetSessionResponse}
// @Router /chat/reset [post]
func (h *handler) HandleResetSession(c *gin.Context) {
	ctx := c.Request.Context()

	var req ResetSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	h.orchestrator.ClearSession(req.SessionID)
	h.l.Infof(ctx, "internal.chat.HandleResetSession: Cleared session %s", req.SessionID)

	response.OK(c, ResetSessionResponse{
		SessionID: req.SessionID,
		Message:   "Session cleared",
	})
}
