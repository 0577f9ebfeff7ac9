package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legiscal/legtrack-api/internal/models"
)

func TestICSExporterTimedEvent(t *testing.T) {
	events := []models.NormalizedCalendarEvent{{
		Title:      "AB 123 - Hearing | State Capitol",
		Start:      "2025-03-14T16:00:00Z",
		End:        "2025-03-14T17:00:00Z",
		Type:       models.CalendarTypeAssembly,
		BillNumber: "AB 123",
		BillName:   "Housing production",
		EventTime:  "9 a.m.",
	}}

	out, err := NewICSExporter(nil).Render(events)
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, "BEGIN:VCALENDAR")
	assert.Contains(t, doc, "END:VCALENDAR")
	assert.Contains(t, doc, "DTSTART:20250314T160000Z")
	assert.Contains(t, doc, "DTEND:20250314T170000Z")
	assert.Contains(t, doc, "Housing production")
}

func TestICSExporterAllDayOnAdjournment(t *testing.T) {
	events := []models.NormalizedCalendarEvent{{
		Title:     "AB 9 - Floor session",
		Start:     "2025-03-14",
		End:       "2025-03-14",
		Type:      models.CalendarTypeAssembly,
		EventTime: "Upon adjournment of session",
	}}

	out, err := NewICSExporter(nil).Render(events)
	require.NoError(t, err)
	assert.Contains(t, string(out), "DTSTART;VALUE=DATE:20250314")
}

func TestICSExporterLetterDeadlineRenamedAndAllDay(t *testing.T) {
	events := []models.NormalizedCalendarEvent{{
		Title:     "AB 123 - letter of support due",
		Start:     "2025-03-07",
		End:       "2025-03-07",
		Type:      models.CalendarTypeLetterDeadline,
		EventTime: "9 a.m.", // forced all-day regardless of the time text
	}}

	out, err := NewICSExporter(nil).Render(events)
	require.NoError(t, err)
	doc := string(out)
	assert.Contains(t, doc, "LETTER OF SUPPORT DUE")
	assert.Contains(t, doc, "DTSTART;VALUE=DATE:20250307")
}

func TestICSExporterMissingEndDefaultsToTwoHours(t *testing.T) {
	events := []models.NormalizedCalendarEvent{{
		Title:     "SB 55 - Hearing",
		Start:     "2025-03-20T17:00:00Z",
		Type:      models.CalendarTypeSenate,
		EventTime: "10 a.m.",
	}}

	out, err := NewICSExporter(nil).Render(events)
	require.NoError(t, err)
	doc := string(out)
	assert.Contains(t, doc, "DTSTART:20250320T170000Z")
	assert.Contains(t, doc, "DTEND:20250320T190000Z")
}

func TestICSExporterSkipsMalformedEvent(t *testing.T) {
	events := []models.NormalizedCalendarEvent{
		{
			Title:     "broken",
			Start:     "not-a-date",
			Type:      models.CalendarTypeSenate,
			EventTime: "10 a.m.",
		},
		{
			Title:     "SB 55 - Hearing",
			Start:     "2025-03-20T17:00:00Z",
			End:       "2025-03-20T18:00:00Z",
			Type:      models.CalendarTypeSenate,
			EventTime: "10 a.m.",
		},
	}

	out, err := NewICSExporter(nil).Render(events)
	require.NoError(t, err)
	doc := string(out)

	assert.NotContains(t, doc, "broken")
	assert.Contains(t, doc, "SB 55 - Hearing")
	assert.Equal(t, 1, strings.Count(doc, "BEGIN:VEVENT"))
}
