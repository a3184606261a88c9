package tools

import (
	"context"
	"fmt"
	"time"

	"calendar-assistant/internal/agent"
	"calendar-assistant/pkg/gcalendar"
	pkgLog "calendar-assistant/pkg/log"
)

// CalendarLister abstracts the calendar API surface the list tool needs.
type CalendarLister interface {
	ListEvents(ctx context.Context, req gcalendar.ListEventsRequest) ([]gcalendar.Event, error)
}

type ListEventsTool struct {
	calendar CalendarLister
	timezone string
	l        pkgLog.Logger
}

func NewListEventsTool(calendar CalendarLister, timezone string, l pkgLog.Logger) *ListEventsTool {
	return &ListEventsTool{
		calendar: calendar,
		timezone: timezone,
		l:        l,
	}
}

func (t *ListEventsTool) Name() string {
	return "list_calendar_events"
}

func (t *ListEventsTool) Description() string {
	return "List Google Calendar events in a date range. Returns each event's id, title, times, and location."
}

func (t *ListEventsTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"start_date": map[string]interface{}{
				"type":        "string",
				"description": "Start date in YYYY-MM-DD format",
			},
			"end_date": map[string]interface{}{
				"type":        "string",
				"description": "End date in YYYY-MM-DD format (inclusive)",
			},
			"time_zone": map[string]interface{}{
				"type":        "string",
				"description": "IANA time zone (e.g. 'Europe/Berlin'); defaults to the assistant's zone",
			},
		},
		"required": []string{"start_date", "end_date"},
	}
}

type ListEventsInput struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	TimeZone  string `json:"time_zone"`
}

type ListEventsOutput struct {
	Events     []EventSummary `json:"events"`
	EventCount int            `json:"event_count"`
	Summary    string         `json:"summary"`
}

// EventSummary is the compact event shape returned to the model.
type EventSummary struct {
	EventID   string    `json:"event_id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Location  string    `json:"location,omitempty"`
}

func (t *ListEventsTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	var params ListEventsInput
	if err := decodeInput(input, &params); err != nil {
		return nil, err
	}

	if params.StartDate == "" {
		return nil, fmt.Errorf("%w: start_date is required", agent.ErrMalformedArguments)
	}
	if params.EndDate == "" {
		return nil, fmt.Errorf("%w: end_date is required", agent.ErrMalformedArguments)
	}

	loc := resolveLocation(params.TimeZone, t.timezone)

	startDay, err := time.ParseInLocation("2006-01-02", params.StartDate, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start_date %q", agent.ErrMalformedArguments, params.StartDate)
	}
	endDay, err := time.ParseInLocation("2006-01-02", params.EndDate, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end_date %q", agent.ErrMalformedArguments, params.EndDate)
	}
	if endDay.Before(startDay) {
		return nil, fmt.Errorf("%w: end_date is before start_date", agent.ErrMalformedArguments)
	}

	timeMin := startDay
	timeMax := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), 23, 59, 59, 0, loc)

	t.l.Infof(ctx, "list_calendar_events: %s to %s (%s)", params.StartDate, params.EndDate, loc)

	events, err := t.calendar.ListEvents(ctx, gcalendar.ListEventsRequest{
		TimeMin: timeMin,
		TimeMax: timeMax,
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]EventSummary, 0, len(events))
	for _, event := range events {
		summaries = append(summaries, EventSummary{
			EventID:   event.ID,
			Title:     event.Summary,
			StartTime: event.StartTime,
			EndTime:   event.EndTime,
			Location:  event.Location,
		})
	}

	var summary string
	if len(summaries) == 0 {
		summary = fmt.Sprintf("📅 No events between %s and %s", params.StartDate, params.EndDate)
	} else {
		summary = fmt.Sprintf("📅 Found %d event(s) between %s and %s:\n", len(summaries), params.StartDate, params.EndDate)
		for i, event := range summaries {
			summary += fmt.Sprintf("%d. %s (%s - %s)\n",
				i+1,
				event.Title,
				event.StartTime.In(loc).Format("2006-01-02 15:04"),
				event.EndTime.In(loc).Format("15:04"))
		}
	}

	return ListEventsOutput{
		Events:     summaries,
		EventCount: len(summaries),
		Summary:    summary,
	}, nil
}

// Verify interface compliance
var _ agent.Tool = (*ListEventsTool)(nil)
