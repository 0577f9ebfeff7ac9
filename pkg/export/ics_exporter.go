package export

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/legiscal/legtrack-api/internal/models"
)

// fallbackEventDuration fills in a missing end time at export. It is
// deliberately distinct from the 1-hour default the filter engine applies
// when first constructing timed events.
const fallbackEventDuration = 2 * time.Hour

const letterDeadlinePrefix = "LETTER OF SUPPORT DUE"

// ICSExporter renders normalized calendar events into an iCalendar
// (VCALENDAR) document.
type ICSExporter struct {
	logger *zap.Logger
}

// NewICSExporter builds an ICS exporter.
func NewICSExporter(logger *zap.Logger) *ICSExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ICSExporter{logger: logger}
}

// Render serializes the event list. A single malformed event is logged
// and skipped; it never aborts the whole export.
func (e *ICSExporter) Render(events []models.NormalizedCalendarEvent) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//legtrack//calendar export//EN")

	for _, ev := range events {
		if err := e.addEvent(cal, ev); err != nil {
			e.logger.Warn("skipping malformed calendar event",
				zap.String("title", ev.Title),
				zap.String("start", ev.Start),
				zap.Error(err))
		}
	}
	return []byte(cal.Serialize()), nil
}

func (e *ICSExporter) addEvent(cal *ics.Calendar, ev models.NormalizedCalendarEvent) error {
	summary := ev.Title
	allDay := isAllDayTime(ev.EventTime)

	// Letter deadlines are always exported all-day with an explicit marker,
	// regardless of the generic all-day test.
	if ev.Type == models.CalendarTypeLetterDeadline {
		summary = fmt.Sprintf("%s: %s", letterDeadlinePrefix, ev.Title)
		allDay = true
	}

	if allDay {
		day, err := parseDay(ev.Start)
		if err != nil {
			return fmt.Errorf("parse all-day start %q: %w", ev.Start, err)
		}
		ve := cal.AddEvent(uuid.NewString())
		ve.SetDtStampTime(time.Now().UTC())
		ve.SetSummary(summary)
		ve.SetDescription(buildDescription(ev))
		ve.SetAllDayStartAt(day)
		ve.SetAllDayEndAt(day)
		return nil
	}

	begin, err := time.Parse(time.RFC3339, ev.Start)
	if err != nil {
		return fmt.Errorf("parse start %q: %w", ev.Start, err)
	}
	end, err := time.Parse(time.RFC3339, ev.End)
	if ev.End == "" || err != nil {
		end = begin.Add(fallbackEventDuration)
	}

	ve := cal.AddEvent(uuid.NewString())
	ve.SetDtStampTime(time.Now().UTC())
	ve.SetSummary(summary)
	ve.SetDescription(buildDescription(ev))
	ve.SetStartAt(begin)
	ve.SetEndAt(end)
	return nil
}

func buildDescription(ev models.NormalizedCalendarEvent) string {
	parts := make([]string, 0, 3)
	if ev.BillName != "" {
		parts = append(parts, fmt.Sprintf("Bill: %s", ev.BillName))
	}
	parts = append(parts, fmt.Sprintf("Type: %s", ev.Type))
	if ev.Title != "" {
		parts = append(parts, ev.Title)
	}
	return strings.Join(parts, "\n")
}

func isAllDayTime(timeText string) bool {
	if timeText == "" || timeText == "N/A" {
		return true
	}
	return strings.Contains(strings.ToLower(timeText), "adjourn")
}

// parseDay accepts a plain date, tolerating full datetimes for rows that
// arrive with a resolved instant.
func parseDay(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
