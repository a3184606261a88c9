package manual

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"calendar-assistant/pkg/datemath"
	"calendar-assistant/pkg/gcalendar"
)

var emailRe = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// Run drives the interactive loop until the user exits or input ends.
func (c *CLI) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, MsgBanner)
	for {
		cmd, ok := c.prompt(PromptMenu)
		if !ok {
			return c.in.Err()
		}
		switch strings.ToLower(cmd) {
		case "fetch":
			c.fetchFlow(ctx)
		case "insert":
			c.insertFlow(ctx)
		case "exit", "quit":
			fmt.Fprintln(c.out, MsgGoodbye)
			return nil
		default:
			fmt.Fprintln(c.out, MsgUnknownCmd)
		}
	}
}

// prompt prints p and reads one trimmed line. ok is false once input ends.
func (c *CLI) prompt(p string) (string, bool) {
	fmt.Fprint(c.out, p)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// promptDate keeps asking until the user supplies a date the parser accepts.
func (c *CLI) promptDate(p string) (time.Time, bool) {
	for {
		s, ok := c.prompt(p)
		if !ok {
			return time.Time{}, false
		}
		day, err := c.parser.ParseDate(s, time.Now())
		if err != nil {
			fmt.Fprintln(c.out, MsgBadDate)
			continue
		}
		return day, true
	}
}

// promptAttendees keeps asking until every address validates. Blank means none.
func (c *CLI) promptAttendees() ([]string, bool) {
	for {
		raw, ok := c.prompt(PromptAttendees)
		if !ok {
			return nil, false
		}
		if raw == "" {
			return nil, true
		}

		parts := strings.Split(raw, ",")
		emails := make([]string, 0, len(parts))
		valid := true
		for _, part := range parts {
			email := strings.TrimSpace(part)
			if !emailRe.MatchString(email) {
				valid = false
				break
			}
			emails = append(emails, email)
		}
		if !valid {
			fmt.Fprintln(c.out, MsgBadEmails)
			continue
		}
		return emails, true
	}
}

func (c *CLI) fetchFlow(ctx context.Context) {
	day, ok := c.promptDate(PromptFetchDate)
	if !ok {
		return
	}

	timeMin, timeMax := c.parser.DayWindow(day)
	events, err := c.calendar.ListEvents(ctx, gcalendar.ListEventsRequest{
		TimeMin: timeMin,
		TimeMax: timeMax,
	})
	if err != nil {
		c.l.Errorf(ctx, "internal.manual.fetchFlow: %v", err)
		fmt.Fprintf(c.out, MsgListFailed+"\n", err)
		return
	}

	dateStr := day.Format("2006-01-02")
	if len(events) == 0 {
		fmt.Fprintf(c.out, MsgNoEvents+"\n", dateStr)
		return
	}
	fmt.Fprintf(c.out, MsgEventsHeader+"\n", dateStr)
	for _, event := range events {
		title := event.Summary
		if title == "" {
			title = "(no title)"
		}
		fmt.Fprintf(c.out, MsgEventLine+"\n", event.StartTime.Format(time.RFC3339), title)
	}
}

func (c *CLI) insertFlow(ctx context.Context) {
	title, ok := c.prompt(PromptTitle)
	if !ok {
		return
	}
	if title == "" {
		title = DefaultTitle
	}
	description, ok := c.prompt(PromptDescription)
	if !ok {
		return
	}
	dateStr, ok := c.prompt(PromptDate)
	if !ok {
		return
	}
	timeStr, ok := c.prompt(PromptStartTime)
	if !ok {
		return
	}

	// Bad date or time aborts the insert instead of re-prompting
	day, err := c.parser.ParseDate(dateStr, time.Now())
	if err != nil {
		fmt.Fprintln(c.out, MsgInsertAborted)
		return
	}
	tod, err := datemath.ParseTimeOfDay(timeStr)
	if err != nil {
		fmt.Fprintln(c.out, MsgInsertAborted)
		return
	}
	start := c.parser.At(day, tod)
	end := start.Add(time.Hour)

	attendees, ok := c.promptAttendees()
	if !ok {
		return
	}

	event, err := c.calendar.CreateEvent(ctx, gcalendar.CreateEventRequest{
		Summary:     title,
		Description: description,
		StartTime:   start,
		EndTime:     end,
		Timezone:    c.parser.Location().String(),
		Attendees:   attendees,
	})
	if err != nil {
		c.l.Errorf(ctx, "internal.manual.insertFlow: %v", err)
		fmt.Fprintf(c.out, MsgCreateFailed+"\n", err)
		return
	}
	fmt.Fprintf(c.out, MsgEventCreated+"\n", event.HtmlLink)
}
