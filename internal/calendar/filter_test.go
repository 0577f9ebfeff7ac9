package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legiscal/legtrack-api/internal/models"
)

func fixedClock() time.Time {
	return time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
}

func testEngine() *Engine {
	return NewEngine(nil, fixedClock)
}

func hearing(bill, date, timeText string, chamber models.Chamber) models.BillEvent {
	return models.BillEvent{
		BillID:      "ocd-bill/" + bill,
		BillNumber:  bill,
		BillName:    bill + " subject",
		ChamberID:   chamber,
		EventDate:   date,
		EventText:   ptr("Hearing in Comm. on Judiciary"),
		EventTime:   ptr(timeText),
		EventStatus: models.EventStatusActive,
	}
}

func TestFilterSingleBillSingleEvent(t *testing.T) {
	events := []models.BillEvent{
		hearing("AB 123", "2025-03-14", "9 a.m.", models.ChamberAssembly),
		hearing("SB 55", "2025-03-20", "10 a.m.", models.ChamberSenate),
	}

	got := testEngine().Filter(events, nil, models.CalendarSelection{
		Bills:            []string{"AB 123"},
		BillFilterActive: true,
	})

	// One calendar event plus its derived letter deadline.
	require.Len(t, got.Events, 2)
	assert.Equal(t, 2, got.Total)

	assert.Equal(t, "2025-03-14T16:00:00Z", got.Events[0].Start)
	assert.Equal(t, "2025-03-14T17:00:00Z", got.Events[0].End)
	assert.Equal(t, models.CalendarTypeAssembly, got.Events[0].Type)
	assert.Equal(t, "event-normal", got.Events[0].ClassName)

	assert.Equal(t, models.CalendarTypeLetterDeadline, got.Events[1].Type)
	assert.Equal(t, "2025-03-07", got.Events[1].Start)
	assert.Equal(t, "2025-03-07", got.Events[1].End)

	assert.Equal(t, "2025-03-14T16:00:00Z", got.InitialDate)
}

func TestFilterSingleBillPicksEarliestActiveDate(t *testing.T) {
	moved := hearing("AB 123", "2025-03-01", "9 a.m.", models.ChamberAssembly)
	moved.EventStatus = models.EventStatusMoved
	events := []models.BillEvent{
		moved,
		hearing("AB 123", "2025-03-20", "9 a.m.", models.ChamberAssembly),
		hearing("AB 123", "2025-03-10", "9 a.m.", models.ChamberAssembly),
	}

	got := testEngine().Filter(events, nil, models.CalendarSelection{
		Bills:            []string{"AB 123"},
		BillFilterActive: true,
	})
	assert.Equal(t, "2025-03-10", got.InitialDate)
}

func TestFilterSingleBillNoActiveFallsBackToEarliest(t *testing.T) {
	first := hearing("AB 123", "2025-03-05", "9 a.m.", models.ChamberAssembly)
	first.EventStatus = models.EventStatusMoved
	second := hearing("AB 123", "2025-03-02", "9 a.m.", models.ChamberAssembly)
	second.EventStatus = models.EventStatusMoved

	got := testEngine().Filter([]models.BillEvent{first, second}, nil, models.CalendarSelection{
		Bills:            []string{"AB 123"},
		BillFilterActive: true,
	})
	assert.Equal(t, "2025-03-02", got.InitialDate)
}

func TestFilterMultipleBillsOpensOnToday(t *testing.T) {
	events := []models.BillEvent{
		hearing("AB 123", "2025-03-14", "9 a.m.", models.ChamberAssembly),
		hearing("SB 55", "2025-03-20", "10 a.m.", models.ChamberSenate),
	}
	got := testEngine().Filter(events, nil, models.CalendarSelection{
		Bills:            []string{"AB 123", "SB 55"},
		BillFilterActive: true,
	})
	// Fixed clock is 2025-04-01 12:00 UTC, which is 2025-04-01 in Pacific.
	assert.Equal(t, "2025-04-01", got.InitialDate)
}

// An active bill filter disables event-type filtering entirely.
func TestFilterBillModeIgnoresEventTypes(t *testing.T) {
	events := []models.BillEvent{
		hearing("AB 123", "2025-03-14", "9 a.m.", models.ChamberAssembly),
		hearing("SB 55", "2025-03-20", "10 a.m.", models.ChamberSenate),
	}
	legislative := []models.LegislativeDeadline{{Title: "Last day to introduce bills", Start: "2025-02-21", End: "2025-02-21"}}

	got := testEngine().Filter(events, legislative, models.CalendarSelection{
		EventTypes:       []models.CalendarEventType{models.CalendarTypeLegislative, models.CalendarTypeSenate},
		Bills:            []string{"AB 123"},
		BillFilterActive: true,
	})
	require.Len(t, got.Events, 2)
	for _, ev := range got.Events {
		assert.Equal(t, "AB 123", ev.BillNumber)
	}
}

func TestFilterTypeModeLegislative(t *testing.T) {
	legislative := []models.LegislativeDeadline{
		{Title: "Last day to introduce bills", Start: "2025-02-21", End: "2025-02-21"},
		{Title: "Spring recess", Start: "2025-04-10", End: "2025-04-21"},
	}
	got := testEngine().Filter(nil, legislative, models.CalendarSelection{
		EventTypes: []models.CalendarEventType{models.CalendarTypeLegislative},
	})
	require.Len(t, got.Events, 2)
	assert.Equal(t, models.CalendarTypeLegislative, got.Events[0].Type)
	assert.Equal(t, "2025-02-21", got.Events[0].Start)
	assert.Equal(t, "2025-04-21", got.Events[1].End)
	assert.Equal(t, "2025-04-01", got.InitialDate)
}

func TestFilterTypeModeLetterDeadlineOnly(t *testing.T) {
	procedural := hearing("SB 77", "2025-03-18", "9 a.m.", models.ChamberSenate)
	procedural.EventText = ptr("Third Reading")
	events := []models.BillEvent{
		hearing("AB 123", "2025-03-14", "9 a.m.", models.ChamberAssembly),
		hearing("SB 55", "2025-03-20", "10 a.m.", models.ChamberSenate),
		procedural,
	}

	got := testEngine().Filter(events, nil, models.CalendarSelection{
		EventTypes: []models.CalendarEventType{models.CalendarTypeLetterDeadline},
	})

	// Exactly one all-day deadline per qualifying event; procedural rows
	// derive nothing.
	require.Len(t, got.Events, 2)
	for _, ev := range got.Events {
		assert.Equal(t, models.CalendarTypeLetterDeadline, ev.Type)
		assert.Equal(t, ev.Start, ev.End)
	}
	assert.Equal(t, "2025-03-07", got.Events[0].Start)
	assert.Equal(t, "2025-03-13", got.Events[1].Start)
}

func TestFilterTypeModeChambers(t *testing.T) {
	events := []models.BillEvent{
		hearing("AB 123", "2025-03-14", "9 a.m.", models.ChamberAssembly),
		hearing("SB 55", "2025-03-20", "10 a.m.", models.ChamberSenate),
	}

	assembly := testEngine().Filter(events, nil, models.CalendarSelection{
		EventTypes: []models.CalendarEventType{models.CalendarTypeAssembly},
	})
	require.Len(t, assembly.Events, 1)
	assert.Equal(t, "AB 123", assembly.Events[0].BillNumber)

	both := testEngine().Filter(events, nil, models.CalendarSelection{
		EventTypes: []models.CalendarEventType{models.CalendarTypeAssembly, models.CalendarTypeSenate},
	})
	assert.Len(t, both.Events, 2)
}

func TestFilterAllDayEventUsesPlainDates(t *testing.T) {
	ev := hearing("AB 123", "2025-03-14", "Upon adjournment of session", models.ChamberAssembly)
	got := testEngine().Filter([]models.BillEvent{ev}, nil, models.CalendarSelection{
		EventTypes: []models.CalendarEventType{models.CalendarTypeAssembly},
	})
	require.Len(t, got.Events, 1)
	assert.Equal(t, "2025-03-14", got.Events[0].Start)
	assert.Equal(t, "2025-03-14", got.Events[0].End)
}

func TestFilterUnparsableTimeDegradesToAllDay(t *testing.T) {
	ev := hearing("AB 123", "2025-03-14", "9ish", models.ChamberAssembly)
	got := testEngine().Filter([]models.BillEvent{ev}, nil, models.CalendarSelection{
		EventTypes: []models.CalendarEventType{models.CalendarTypeAssembly},
	})
	require.Len(t, got.Events, 1)
	assert.Equal(t, "2025-03-14", got.Events[0].Start)
	assert.Equal(t, "2025-03-14", got.Events[0].End)
}

func TestFilterFlagsOvercrowdedMovedPairing(t *testing.T) {
	first := hearing("AB 123", "2025-03-10", "9 a.m.", models.ChamberAssembly)
	first.EventStatus = models.EventStatusMoved
	second := hearing("AB 123", "2025-03-14", "9 a.m.", models.ChamberAssembly)
	third := hearing("AB 123", "2025-03-21", "9 a.m.", models.ChamberAssembly)

	got := testEngine().Filter([]models.BillEvent{first, second, third}, nil, models.CalendarSelection{
		EventTypes: []models.CalendarEventType{models.CalendarTypeAssembly},
	})
	require.Len(t, got.Anomalies, 1)
	assert.Contains(t, got.Anomalies[0], "AB 123")
	assert.Contains(t, got.Anomalies[0], "appears 3 times")

	// A plain original-plus-replacement pair is fine.
	pair := testEngine().Filter([]models.BillEvent{first, second}, nil, models.CalendarSelection{
		EventTypes: []models.CalendarEventType{models.CalendarTypeAssembly},
	})
	assert.Empty(t, pair.Anomalies)
}

func TestFilterMovedEventClassName(t *testing.T) {
	ev := hearing("AB 123", "2025-03-14", "9 a.m.", models.ChamberAssembly)
	ev.EventStatus = models.EventStatusMoved
	got := testEngine().Filter([]models.BillEvent{ev}, nil, models.CalendarSelection{
		EventTypes: []models.CalendarEventType{models.CalendarTypeAssembly},
	})
	require.Len(t, got.Events, 1)
	assert.Equal(t, "event-moved", got.Events[0].ClassName)
}
