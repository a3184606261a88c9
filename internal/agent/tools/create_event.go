package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"calendar-assistant/internal/agent"
	"calendar-assistant/pkg/gcalendar"
	pkgLog "calendar-assistant/pkg/log"
)

// CalendarCreator abstracts the calendar API surface the create tool needs.
type CalendarCreator interface {
	CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error)
}

type CreateEventTool struct {
	calendar CalendarCreator
	timezone string
	l        pkgLog.Logger
}

func NewCreateEventTool(calendar CalendarCreator, timezone string, l pkgLog.Logger) *CreateEventTool {
	return &CreateEventTool{
		calendar: calendar,
		timezone: timezone,
		l:        l,
	}
}

func (t *CreateEventTool) Name() string {
	return "create_calendar_event"
}

func (t *CreateEventTool) Description() string {
	return "Create a Google Calendar event. Returns the created event with its id and link."
}

func (t *CreateEventTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"summary": map[string]interface{}{
				"type":        "string",
				"description": "Event title",
			},
			"start_time": map[string]interface{}{
				"type":        "string",
				"description": "Start, e.g. '2026-03-14T16:00' (assistant timezone) or RFC3339",
			},
			"end_time": map[string]interface{}{
				"type":        "string",
				"description": "End; defaults to one hour after start_time",
			},
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Longer event description",
			},
			"location": map[string]interface{}{
				"type":        "string",
				"description": "Where the event takes place",
			},
			"attendees": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Attendee email addresses. Only addresses the user explicitly gave.",
			},
			"time_zone": map[string]interface{}{
				"type":        "string",
				"description": "IANA time zone for the event; defaults to the assistant's zone",
			},
		},
		"required": []string{"summary", "start_time"},
	}
}

type CreateEventInput struct {
	Summary     string   `json:"summary"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Attendees   []string `json:"attendees"`
	TimeZone    string   `json:"time_zone"`
}

type CreateEventOutput struct {
	EventID   string    `json:"event_id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	HtmlLink  string    `json:"html_link,omitempty"`
	Summary   string    `json:"summary"`
}

func (t *CreateEventTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	var params CreateEventInput
	if err := decodeInput(input, &params); err != nil {
		return nil, err
	}

	if params.Summary == "" {
		return nil, fmt.Errorf("%w: summary is required", agent.ErrMalformedArguments)
	}
	if params.StartTime == "" {
		return nil, fmt.Errorf("%w: start_time is required", agent.ErrMalformedArguments)
	}
	for _, attendee := range params.Attendees {
		if !strings.Contains(attendee, "@") {
			return nil, fmt.Errorf("%w: attendee %q is not an email address", agent.ErrMalformedArguments, attendee)
		}
	}

	loc := resolveLocation(params.TimeZone, t.timezone)

	start, err := parseDateTime(params.StartTime, loc)
	if err != nil {
		return nil, err
	}

	// Default duration is one hour
	end := start.Add(time.Hour)
	if params.EndTime != "" {
		end, err = parseDateTime(params.EndTime, loc)
		if err != nil {
			return nil, err
		}
		if !end.After(start) {
			return nil, fmt.Errorf("%w: end_time must be after start_time", agent.ErrMalformedArguments)
		}
	}

	t.l.Infof(ctx, "create_calendar_event: %q %s - %s", params.Summary, start, end)

	event, err := t.calendar.CreateEvent(ctx, gcalendar.CreateEventRequest{
		Summary:     params.Summary,
		Description: params.Description,
		Location:    params.Location,
		StartTime:   start,
		EndTime:     end,
		Timezone:    loc.String(),
		Attendees:   params.Attendees,
	})
	if err != nil {
		return nil, err
	}

	summary := fmt.Sprintf("✅ Created %q on %s from %s to %s",
		event.Summary,
		event.StartTime.In(loc).Format("2006-01-02"),
		event.StartTime.In(loc).Format("15:04"),
		event.EndTime.In(loc).Format("15:04"))
	if event.HtmlLink != "" {
		summary += "\n" + event.HtmlLink
	}

	return CreateEventOutput{
		EventID:   event.ID,
		Title:     event.Summary,
		StartTime: event.StartTime,
		EndTime:   event.EndTime,
		HtmlLink:  event.HtmlLink,
		Summary:   summary,
	}, nil
}

// Verify interface compliance
var _ agent.Tool = (*CreateEventTool)(nil)
