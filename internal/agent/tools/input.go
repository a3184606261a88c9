package tools

import (
	"encoding/json"
	"fmt"
	"time"

	"calendar-assistant/internal/agent"
)

// decodeInput round-trips loose function-call arguments into a typed
// input struct. Shape mismatches count as malformed arguments.
func decodeInput(input map[string]interface{}, out interface{}) error {
	inputBytes, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("%w: %v", agent.ErrMalformedArguments, err)
	}
	if err := json.Unmarshal(inputBytes, out); err != nil {
		return fmt.Errorf("%w: %v", agent.ErrMalformedArguments, err)
	}
	return nil
}

// datetimeLayouts are accepted for start_time/end_time arguments.
// Layouts without an offset are interpreted in the tool's timezone.
var datetimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func parseDateTime(value string, loc *time.Location) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	for _, layout := range datetimeLayouts {
		if ts, err := time.ParseInLocation(layout, value, loc); err == nil {
			return ts, nil
		}
	}
	if ts, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized datetime %q", agent.ErrMalformedArguments, value)
}

// resolveLocation picks the requested zone, then the tool default, then UTC.
func resolveLocation(requested, fallback string) *time.Location {
	name := requested
	if name == "" {
		name = fallback
	}
	if loc, err := time.LoadLocation(name); err == nil && name != "" {
		return loc
	}
	return time.UTC
}
