package tools

import (
	"context"
	"fmt"

	"calendar-assistant/internal/agent"
	"calendar-assistant/pkg/gcalendar"
	pkgLog "calendar-assistant/pkg/log"
)

// CalendarDeleter abstracts the calendar API surface the delete tool needs.
type CalendarDeleter interface {
	DeleteEvent(ctx context.Context, req gcalendar.DeleteEventRequest) error
}

type DeleteEventTool struct {
	calendar CalendarDeleter
	l        pkgLog.Logger
}

func NewDeleteEventTool(calendar CalendarDeleter, l pkgLog.Logger) *DeleteEventTool {
	return &DeleteEventTool{
		calendar: calendar,
		l:        l,
	}
}

func (t *DeleteEventTool) Name() string {
	return "delete_calendar_event"
}

func (t *DeleteEventTool) Description() string {
	return "Delete a Google Calendar event by id. Deleting an event that no longer exists reports a not-found error."
}

func (t *DeleteEventTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"event_id": map[string]interface{}{
				"type":        "string",
				"description": "Id of the event to delete (from list_calendar_events or a create result)",
			},
		},
		"required": []string{"event_id"},
	}
}

type DeleteEventInput struct {
	EventID string `json:"event_id"`
}

type DeleteEventOutput struct {
	EventID string `json:"event_id"`
	Deleted bool   `json:"deleted"`
	Summary string `json:"summary"`
}

func (t *DeleteEventTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	var params DeleteEventInput
	if err := decodeInput(input, &params); err != nil {
		return nil, err
	}

	if params.EventID == "" {
		return nil, fmt.Errorf("%w: event_id is required", agent.ErrMalformedArguments)
	}

	t.l.Infof(ctx, "delete_calendar_event: %s", params.EventID)

	if err := t.calendar.DeleteEvent(ctx, gcalendar.DeleteEventRequest{EventID: params.EventID}); err != nil {
		return nil, err
	}

	return DeleteEventOutput{
		EventID: params.EventID,
		Deleted: true,
		Summary: fmt.Sprintf("✅ Deleted event %s", params.EventID),
	}, nil
}

// Verify interface compliance
var _ agent.Tool = (*DeleteEventTool)(nil)
