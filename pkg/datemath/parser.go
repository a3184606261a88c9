package datemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parser converts relative date strings to absolute time.Time values.
type Parser struct {
	location *time.Location
}

// NewParser creates a new date parser for the given IANA timezone string.
// e.g. "America/New_York"
func NewParser(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Parser{location: loc}, nil
}

// Location returns the parser's timezone.
func (p *Parser) Location() *time.Location {
	return p.location
}

// Parse converts a relative date string to an absolute time.Time.
// The baseTime is used as the reference point (usually time.Now()).
func (p *Parser) Parse(relative string, baseTime time.Time) (time.Time, error) {
	relative = strings.ToLower(strings.TrimSpace(relative))

	switch relative {
	case "today":
		return p.startOfDay(baseTime), nil
	case "tomorrow":
		return p.startOfDay(baseTime.AddDate(0, 0, 1)), nil
	case "yesterday":
		return p.startOfDay(baseTime.AddDate(0, 0, -1)), nil
	}

	// Handle "in X days/weeks/months"
	if strings.HasPrefix(relative, "in ") {
		return p.parseInDuration(relative, baseTime)
	}

	// Handle "next <weekday>"
	if strings.HasPrefix(relative, "next ") {
		return p.parseNextWeekday(relative, baseTime)
	}

	return baseTime, fmt.Errorf("unrecognized date phrase: %q", relative)
}

// isoDateRe matches calendar dates like 2026-03-14.
var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDate accepts either an absolute YYYY-MM-DD date or a relative phrase
// understood by Parse, and returns midnight of that day in the parser's zone.
func (p *Parser) ParseDate(s string, baseTime time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if isoDateRe.MatchString(s) {
		day, err := time.ParseInLocation("2006-01-02", s, p.location)
		if err != nil {
			return baseTime, fmt.Errorf("invalid date %q: %w", s, err)
		}
		return day, nil
	}
	return p.Parse(s, baseTime)
}

// timeOfDayRe matches "16", "16:00", "4pm", "4:30pm", "4:30 PM".
var timeOfDayRe = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)

// ParseTimeOfDay parses a wall-clock time string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	matches := timeOfDayRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if matches == nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: use HH:MM or an am/pm form like 4pm", s)
	}

	hour, _ := strconv.Atoi(matches[1])
	minute := 0
	if matches[2] != "" {
		minute, _ = strconv.Atoi(matches[2])
	}

	switch matches[3] {
	case "pm":
		if hour < 1 || hour > 12 {
			return TimeOfDay{}, fmt.Errorf("invalid pm hour %d", hour)
		}
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour < 1 || hour > 12 {
			return TimeOfDay{}, fmt.Errorf("invalid am hour %d", hour)
		}
		if hour == 12 {
			hour = 0
		}
	default:
		if hour > 23 {
			return TimeOfDay{}, fmt.Errorf("invalid hour %d", hour)
		}
	}

	if minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute %d", minute)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// At returns the given day at the given wall-clock time in the parser's zone.
func (p *Parser) At(day time.Time, tod TimeOfDay) time.Time {
	day = day.In(p.location)
	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour, tod.Minute, 0, 0, p.location)
}

// DayWindow returns the [00:00:00, 23:59:59] window of the given day.
func (p *Parser) DayWindow(day time.Time) (time.Time, time.Time) {
	start := p.startOfDay(day)
	return start, p.EndOfDay(start)
}

// parseInDuration handles patterns like "in 3 days", "in 2 weeks", "in 1 month".
func (p *Parser) parseInDuration(relative string, baseTime time.Time) (time.Time, error) {
	re := regexp.MustCompile(`in (\d+) (day|days|week|weeks|month|months)`)
	matches := re.FindStringSubmatch(relative)
	if len(matches) != 3 {
		return baseTime, fmt.Errorf("invalid duration format: %q", relative)
	}

	amount, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	switch {
	case strings.HasPrefix(unit, "day"):
		return p.startOfDay(baseTime.AddDate(0, 0, amount)), nil
	case strings.HasPrefix(unit, "week"):
		return p.startOfDay(baseTime.AddDate(0, 0, amount*7)), nil
	case strings.HasPrefix(unit, "month"):
		return p.startOfDay(baseTime.AddDate(0, amount, 0)), nil
	}

	return baseTime, fmt.Errorf("unknown time unit: %q", unit)
}

// parseNextWeekday handles patterns like "next monday", "next friday".
func (p *Parser) parseNextWeekday(relative string, baseTime time.Time) (time.Time, error) {
	weekdays := map[string]time.Weekday{
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
		"sunday":    time.Sunday,
	}

	dayName := strings.TrimPrefix(relative, "next ")
	targetWeekday, ok := weekdays[dayName]
	if !ok {
		return baseTime, fmt.Errorf("unknown weekday: %q", dayName)
	}

	currentWeekday := baseTime.Weekday()
	daysUntil := int(targetWeekday - currentWeekday)
	if daysUntil <= 0 {
		daysUntil += 7
	}

	return p.startOfDay(baseTime.AddDate(0, 0, daysUntil)), nil
}

// startOfDay returns midnight at the start of the given day in the parser's timezone.
func (p *Parser) startOfDay(t time.Time) time.Time {
	t = t.In(p.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.location)
}

// EndOfDay returns 23:59:59 at the end of the given start-of-day time.
func (p *Parser) EndOfDay(startOfDay time.Time) time.Time {
	return startOfDay.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
}
