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

// CalendarUpdater abstracts the calendar API surface the update tool needs.
type CalendarUpdater interface {
	UpdateEvent(ctx context.Context, req gcalendar.UpdateEventRequest) (*gcalendar.Event, error)
}

type UpdateEventTool struct {
	calendar CalendarUpdater
	timezone string
	l        pkgLog.Logger
}

func NewUpdateEventTool(calendar CalendarUpdater, timezone string, l pkgLog.Logger) *UpdateEventTool {
	return &UpdateEventTool{
		calendar: calendar,
		timezone: timezone,
		l:        l,
	}
}

func (t *UpdateEventTool) Name() string {
	return "update_calendar_event"
}

func (t *UpdateEventTool) Description() string {
	return "Update an existing Google Calendar event by id. Only the provided fields change; everything else keeps its current value."
}

func (t *UpdateEventTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"event_id": map[string]interface{}{
				"type":        "string",
				"description": "Id of the event to update (from list_calendar_events or a create result)",
			},
			"summary": map[string]interface{}{
				"type":        "string",
				"description": "New event title",
			},
			"start_time": map[string]interface{}{
				"type":        "string",
				"description": "New start, e.g. '2026-03-14T16:00' or RFC3339",
			},
			"end_time": map[string]interface{}{
				"type":        "string",
				"description": "New end",
			},
			"description": map[string]interface{}{
				"type":        "string",
				"description": "New event description",
			},
			"location": map[string]interface{}{
				"type":        "string",
				"description": "New location",
			},
			"attendees": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Replacement attendee list. Only addresses the user explicitly gave.",
			},
			"time_zone": map[string]interface{}{
				"type":        "string",
				"description": "IANA time zone for the new times; defaults to the assistant's zone",
			},
		},
		"required": []string{"event_id"},
	}
}

type UpdateEventInput struct {
	EventID     string   `json:"event_id"`
	Summary     string   `json:"summary"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Attendees   []string `json:"attendees"`
	TimeZone    string   `json:"time_zone"`
}

type UpdateEventOutput struct {
	EventID   string    `json:"event_id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	HtmlLink  string    `json:"html_link,omitempty"`
	Summary   string    `json:"summary"`
}

func (t *UpdateEventTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	var params UpdateEventInput
	if err := decodeInput(input, &params); err != nil {
		return nil, err
	}

	if params.EventID == "" {
		return nil, fmt.Errorf("%w: event_id is required", agent.ErrMalformedArguments)
	}
	if params.Summary == "" && params.StartTime == "" && params.EndTime == "" &&
		params.Description == "" && params.Location == "" && params.Attendees == nil {
		return nil, fmt.Errorf("%w: nothing to update", agent.ErrMalformedArguments)
	}
	for _, attendee := range params.Attendees {
		if !strings.Contains(attendee, "@") {
			return nil, fmt.Errorf("%w: attendee %q is not an email address", agent.ErrMalformedArguments, attendee)
		}
	}

	loc := resolveLocation(params.TimeZone, t.timezone)

	req := gcalendar.UpdateEventRequest{
		EventID:   params.EventID,
		Attendees: params.Attendees,
	}
	if params.Summary != "" {
		req.Summary = &params.Summary
	}
	if params.Description != "" {
		req.Description = &params.Description
	}
	if params.Location != "" {
		req.Location = &params.Location
	}

	if params.StartTime != "" {
		start, err := parseDateTime(params.StartTime, loc)
		if err != nil {
			return nil, err
		}
		req.StartTime = &start
		req.Timezone = loc.String()
	}
	if params.EndTime != "" {
		end, err := parseDateTime(params.EndTime, loc)
		if err != nil {
			return nil, err
		}
		req.EndTime = &end
		req.Timezone = loc.String()
	}
	if req.StartTime != nil && req.EndTime != nil && !req.EndTime.After(*req.StartTime) {
		return nil, fmt.Errorf("%w: end_time must be after start_time", agent.ErrMalformedArguments)
	}

	t.l.Infof(ctx, "update_calendar_event: %s", params.EventID)

	event, err := t.calendar.UpdateEvent(ctx, req)
	if err != nil {
		return nil, err
	}

	summary := fmt.Sprintf("✅ Updated %q, now on %s from %s to %s",
		event.Summary,
		event.StartTime.In(loc).Format("2006-01-02"),
		event.StartTime.In(loc).Format("15:04"),
		event.EndTime.In(loc).Format("15:04"))

	return UpdateEventOutput{
		EventID:   event.ID,
		Title:     event.Summary,
		StartTime: event.StartTime,
		EndTime:   event.EndTime,
		HtmlLink:  event.HtmlLink,
		Summary:   summary,
	}, nil
}

// Verify interface compliance
var _ agent.Tool = (*UpdateEventTool)(nil)
