package gcalendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Client wraps the Google Calendar API service. It exposes exactly the four
// operations both user-facing flows need: list, create, update, delete.
type Client struct {
	service *calendar.Service
}

// NewClientFromCredentialsFile creates a Calendar client from a credentials
// JSON file path, reading token.json from the working directory for the OAuth
// installed-app flow.
func NewClientFromCredentialsFile(ctx context.Context, credentialsPath string) (*Client, error) {
	return NewClientFromFiles(ctx, credentialsPath, "token.json")
}

// NewClientFromFiles creates a Calendar client from a credentials file and an
// explicit token file path.
func NewClientFromFiles(ctx context.Context, credentialsPath, tokenPath string) (*Client, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return newClient(ctx, data, tokenPath)
}

// NewClientFromCredentialsJSON creates a Calendar client from raw credentials
// JSON bytes. Service Account credentials are tried first; OAuth installed-app
// credentials fall back to a cached token.json produced by scripts/gcal-auth.
func NewClientFromCredentialsJSON(ctx context.Context, credentialsJSON []byte) (*Client, error) {
	return newClient(ctx, credentialsJSON, "token.json")
}

func newClient(ctx context.Context, credentialsJSON []byte, tokenPath string) (*Client, error) {
	// Try service account first
	config, err := google.JWTConfigFromJSON(credentialsJSON, calendar.CalendarScope)
	if err == nil {
		// Service Account path
		tokenSource := config.TokenSource(ctx)
		svc, svcErr := calendar.NewService(ctx, option.WithTokenSource(tokenSource))
		if svcErr != nil {
			return nil, fmt.Errorf("failed to create calendar service: %w", svcErr)
		}
		return &Client{service: svc}, nil
	}

	// Fallback: try OAuth2 installed app credentials
	var oauthCreds struct {
		Installed struct {
			ClientID     string   `json:"client_id"`
			ClientSecret string   `json:"client_secret"`
			RedirectURIs []string `json:"redirect_uris"`
		} `json:"installed"`
	}
	if jsonErr := json.Unmarshal(credentialsJSON, &oauthCreds); jsonErr != nil {
		return nil, fmt.Errorf("unsupported credentials format: %w", err)
	}
	if oauthCreds.Installed.ClientID == "" {
		return nil, fmt.Errorf("unsupported credentials format: %w", err)
	}

	oauthConfig := &oauth2.Config{
		ClientID:     oauthCreds.Installed.ClientID,
		ClientSecret: oauthCreds.Installed.ClientSecret,
		Scopes:       []string{calendar.CalendarScope},
		Endpoint:     google.Endpoint,
	}

	// For OAuth2 Desktop app: use a static token if one exists
	tokenData, tokenErr := os.ReadFile(tokenPath)
	if tokenErr != nil {
		return nil, fmt.Errorf("google credentials are OAuth Desktop type but no %s found: run scripts/gcal-auth first: %w", tokenPath, ErrAuthExpired)
	}

	var tok oauth2.Token
	if jsonErr := json.Unmarshal(tokenData, &tok); jsonErr != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", tokenPath, jsonErr)
	}

	tokenSource := oauthConfig.TokenSource(ctx, &tok)
	svc, svcErr := calendar.NewService(ctx, option.WithTokenSource(tokenSource))
	if svcErr != nil {
		return nil, fmt.Errorf("failed to create calendar service from OAuth token: %w", svcErr)
	}

	return &Client{service: svc}, nil
}

// NewClientFromHTTP creates a Calendar client from a pre-configured HTTP client.
func NewClientFromHTTP(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &Client{service: svc}, nil
}

// ListEvents returns the events overlapping [TimeMin, TimeMax], expanded to
// single instances and ordered by start time.
func (c *Client) ListEvents(ctx context.Context, req ListEventsRequest) ([]Event, error) {
	call := c.service.Events.List(orPrimary(req.CalendarID)).
		TimeMin(req.TimeMin.Format(time.RFC3339)).
		TimeMax(req.TimeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")
	if req.MaxResults > 0 {
		call = call.MaxResults(req.MaxResults)
	}

	result, err := call.Context(ctx).Do()
	if err != nil {
		return nil, classifyError("list events", err)
	}

	events := make([]Event, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, *toEvent(item))
	}
	return events, nil
}

// CreateEvent creates a new calendar event and returns the service's copy.
func (c *Client) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	event := &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Location:    req.Location,
		Start: &calendar.EventDateTime{
			// RFC3339 embeds the offset so the service never guesses the zone
			DateTime: req.StartTime.Format(time.RFC3339),
			TimeZone: req.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: req.EndTime.Format(time.RFC3339),
			TimeZone: req.Timezone,
		},
		Attendees: toAttendees(req.Attendees),
	}

	created, err := c.service.Events.Insert(orPrimary(req.CalendarID), event).Context(ctx).Do()
	if err != nil {
		return nil, classifyError("create event", err)
	}

	return toEvent(created), nil
}

// UpdateEvent fetches the current event, overlays the fields present in the
// request and writes the whole event back. The Calendar API's Update call
// replaces the stored event, so a plain patch would erase absent fields.
func (c *Client) UpdateEvent(ctx context.Context, req UpdateEventRequest) (*Event, error) {
	if req.EventID == "" {
		return nil, fmt.Errorf("update event: event id is required")
	}

	calendarID := orPrimary(req.CalendarID)
	existing, err := c.service.Events.Get(calendarID, req.EventID).Context(ctx).Do()
	if err != nil {
		return nil, classifyError("get event", err)
	}

	if req.Summary != nil {
		existing.Summary = *req.Summary
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Location != nil {
		existing.Location = *req.Location
	}
	if req.StartTime != nil {
		existing.Start = &calendar.EventDateTime{
			DateTime: req.StartTime.Format(time.RFC3339),
			TimeZone: req.Timezone,
		}
	}
	if req.EndTime != nil {
		existing.End = &calendar.EventDateTime{
			DateTime: req.EndTime.Format(time.RFC3339),
			TimeZone: req.Timezone,
		}
	}
	if req.Attendees != nil {
		existing.Attendees = toAttendees(req.Attendees)
	}

	updated, err := c.service.Events.Update(calendarID, req.EventID, existing).Context(ctx).Do()
	if err != nil {
		return nil, classifyError("update event", err)
	}

	return toEvent(updated), nil
}

// DeleteEvent removes an event. Deleting an unknown or already-deleted event
// returns ErrNotFound.
func (c *Client) DeleteEvent(ctx context.Context, req DeleteEventRequest) error {
	if req.EventID == "" {
		return fmt.Errorf("delete event: event id is required")
	}

	if err := c.service.Events.Delete(orPrimary(req.CalendarID), req.EventID).Context(ctx).Do(); err != nil {
		return classifyError("delete event", err)
	}
	return nil
}

func orPrimary(calendarID string) string {
	if calendarID == "" {
		return "primary"
	}
	return calendarID
}

func toAttendees(emails []string) []*calendar.EventAttendee {
	if len(emails) == 0 {
		return nil
	}
	attendees := make([]*calendar.EventAttendee, 0, len(emails))
	for _, email := range emails {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}
	return attendees
}

// toEvent converts the API representation into the package's Event.
func toEvent(item *calendar.Event) *Event {
	ev := &Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		HtmlLink:    item.HtmlLink,
		StartTime:   parseEventTime(item.Start),
		EndTime:     parseEventTime(item.End),
		Location:    item.Location,
	}
	if item.Start != nil {
		ev.Timezone = item.Start.TimeZone
	}
	for _, attendee := range item.Attendees {
		if attendee.Email != "" {
			ev.Attendees = append(ev.Attendees, attendee.Email)
		}
	}
	return ev
}

// parseEventTime handles both timed (dateTime) and all-day (date) events.
func parseEventTime(edt *calendar.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t
		}
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}
