package manual

// Prompts
const (
	PromptMenu        = "\nChoose action [fetch/insert/exit]: "
	PromptFetchDate   = "Date to fetch (YYYY-MM-DD or a phrase like tomorrow): "
	PromptTitle       = "Title: "
	PromptDescription = "Description (optional): "
	PromptDate        = "Date (YYYY-MM-DD): "
	PromptStartTime   = "Start time (16:00 or 4pm): "
	PromptAttendees   = "Attendees emails (comma-separated, or leave blank): "
)

// Messages
const (
	MsgBanner        = "=== Google Calendar CLI ==="
	MsgGoodbye       = "👋 Goodbye."
	MsgUnknownCmd    = "Unknown command. Choose fetch, insert, or exit."
	MsgBadDate       = "Wrong format. Please use YYYY-MM-DD or a phrase like tomorrow."
	MsgBadEmails     = "One or more emails invalid. Please retry."
	MsgInsertAborted = "Invalid date/time. Aborting insert."
	MsgNoEvents      = "No events found on %s."
	MsgEventsHeader  = "Events on %s:"
	MsgEventLine     = " • %s — %s"
	MsgEventCreated  = "✅ Event created: %s"
	MsgListFailed    = "Could not list events: %v"
	MsgCreateFailed  = "Failed to create event: %v"
)

const DefaultTitle = "No Title"
