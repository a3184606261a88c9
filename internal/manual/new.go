package manual

import (
	"bufio"
	"context"
	"io"

	"calendar-assistant/pkg/datemath"
	"calendar-assistant/pkg/gcalendar"
	pkgLog "calendar-assistant/pkg/log"
)

// CalendarClient is the slice of the calendar contract the manual flow needs.
type CalendarClient interface {
	ListEvents(ctx context.Context, req gcalendar.ListEventsRequest) ([]gcalendar.Event, error)
	CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error)
}

// CLI is the interactive fetch/insert loop over a calendar.
type CLI struct {
	calendar CalendarClient
	parser   *datemath.Parser
	l        pkgLog.Logger
	in       *bufio.Scanner
	out      io.Writer
}

func New(calendar CalendarClient, parser *datemath.Parser, l pkgLog.Logger, in io.Reader, out io.Writer) *CLI {
	return &CLI{
		calendar: calendar,
		parser:   parser,
		l:        l,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}
