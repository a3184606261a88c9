package chat

import (
	"calendar-assistant/internal/agent/orchestrator"
	pkgLog "calendar-assistant/pkg/log"

	"github.com/gin-gonic/gin"
)

// Handler is the interface for the chat handler
type Handler interface {
	HandleChatMessage(c *gin.Context)
	HandleResetSession(c *gin.Context)
}

// New creates a new chat handler
func New(l pkgLog.Logger, orchestrator *orchestrator.Orchestrator) Handler {
	return &handler{
		l:            l,
		orchestrator: orchestrator,
	}
}
