package orchestrator

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"calendar-assistant/internal/agent"
	"calendar-assistant/pkg/llmprovider"
	pkgLog "calendar-assistant/pkg/log"
)

type Orchestrator struct {
	llm        *llmprovider.Manager
	registry   *agent.ToolRegistry
	l          pkgLog.Logger
	timezone   string
	sessions   *expirable.LRU[string, *SessionMemory]
	sessionsMu sync.Mutex
}

func New(llm *llmprovider.Manager, registry *agent.ToolRegistry, l pkgLog.Logger, timezone string) *Orchestrator {
	if timezone == "" {
		timezone = "UTC"
	}
	return &Orchestrator{
		llm:      llm,
		registry: registry,
		l:        l,
		timezone: timezone,
		sessions: expirable.NewLRU[string, *SessionMemory](MaxSessions, nil, SessionTTL),
	}
}

// GetSession returns the memory for sessionID, creating it when absent.
// Every lookup re-adds the entry so active sessions keep a fresh TTL.
func (o *Orchestrator) GetSession(sessionID string) *SessionMemory {
	o.sessionsMu.Lock()
	defer o.sessionsMu.Unlock()

	if session, ok := o.sessions.Get(sessionID); ok {
		o.sessions.Add(sessionID, session)
		return session
	}

	session := &SessionMemory{SessionID: sessionID, LastUpdated: time.Now()}
	o.sessions.Add(sessionID, session)
	return session
}

// ClearSession drops the conversation history for sessionID.
func (o *Orchestrator) ClearSession(sessionID string) {
	o.sessionsMu.Lock()
	defer o.sessionsMu.Unlock()

	o.sessions.Remove(sessionID)
}
