package gcalendar

import "time"

// Event is a simplified representation of a Google Calendar event.
// It mirrors the service's authoritative copy, not the request that made it.
type Event struct {
	ID          string
	Summary     string
	Description string
	HtmlLink    string
	StartTime   time.Time
	EndTime     time.Time
	Timezone    string
	Location    string
	Attendees   []string
}

// CreateEventRequest is the input for creating a calendar event.
type CreateEventRequest struct {
	CalendarID  string
	Summary     string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	Timezone    string // e.g. "America/New_York"
	Attendees   []string
}

// UpdateEventRequest is a partial update for an existing event.
// Nil pointer fields keep the stored value; a non-nil Attendees slice
// replaces the attendee list.
type UpdateEventRequest struct {
	CalendarID  string
	EventID     string
	Summary     *string
	Description *string
	Location    *string
	StartTime   *time.Time
	EndTime     *time.Time
	Timezone    string
	Attendees   []string
}

// ListEventsRequest is the input for listing events in a time range.
type ListEventsRequest struct {
	CalendarID string
	TimeMin    time.Time
	TimeMax    time.Time
	MaxResults int64
}

// DeleteEventRequest identifies the event to delete.
type DeleteEventRequest struct {
	CalendarID string
	EventID    string
}
