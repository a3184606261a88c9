package orchestrator

import "time"

// Log prefixes
const (
	LogPrefixProcessMessage = "internal.agent.orchestrator.ProcessMessage"
	LogPrefixDispatch       = "internal.agent.orchestrator.dispatch"
)

// Time context template
const (
	TimeContextTemplate = `

[SYSTEM CONTEXT - current time]
- Today: %s (%s)
- This week: from %s to %s
- Tomorrow: %s
- Timezone: %s

IMPORTANT RULES:
1. When the user asks about "this week", use start_date='%s' and end_date='%s'
2. When the user asks about "tomorrow", use date '%s'
3. NEVER ask the user what today's date is
4. Dates passed to tools are ALWAYS formatted YYYY-MM-DD, date-times YYYY-MM-DDTHH:MM
5. Resolve every relative time reference yourself`
)

// System prompt
const (
	SystemPromptAgent = `You are a helpful assistant that manages the user's Google Calendar.
You can list events in a date range, create events, update events, and delete events.

Guidelines:
- Work on the user's primary calendar.
- When no end time is given, an event lasts one hour.
- Never invent attendee email addresses. Only add attendees the user named explicitly.
- A function response carrying an "error" field means that call failed. Read its "code",
  tell the user briefly what went wrong, and ask how to proceed. Do not repeat the same
  call with the same arguments.
- After a calendar change succeeds, confirm it in one short sentence naming the event
  title and time.`
)

// Error messages
const (
	ErrMsgAgentLLMError    = "agent LLM error at step %d: %w"
	ErrMsgEmptyLLMResponse = "empty LLM response"
	ErrMsgUnknownOperation = "unknown operation"
	ErrMsgMaxStepsExceeded = "I couldn't finish that within the allowed number of steps. Please try splitting the request into smaller parts."
)

// Error codes carried in function responses so the model can react to
// failures without parsing prose.
const (
	ErrCodeUnknownOperation   = "UNKNOWN_OPERATION"
	ErrCodeMalformedArguments = "MALFORMED_ARGUMENTS"
	ErrCodeAuthExpired        = "AUTH_EXPIRED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeTransient          = "TRANSIENT_NETWORK_FAILURE"
	ErrCodeInternal           = "INTERNAL"
)

// Log messages
const (
	LogMsgAgentStep          = "Agent step %d/%d"
	LogMsgAgentFinished      = "Agent finished at step %d"
	LogMsgAgentCallingTool   = "Agent calling tool: %s with args: %+v"
	LogMsgToolNotFound       = "Tool %s not found"
	LogMsgToolExecutionError = "Tool %s failed: %v"
	LogMsgAgentMaxSteps      = "Agent exceeded max steps (%d)"
)

// Configuration
const (
	MaxAgentSteps     = 5
	MaxSessionHistory = 10 // Last 5 turns (10 messages)
	MaxSessions       = 1000
	SessionTTL        = 10 * time.Minute
	ToolTimeout       = 30 * time.Second
)
