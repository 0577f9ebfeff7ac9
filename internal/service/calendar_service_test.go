package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/legiscal/legtrack-api/internal/calendar"
	"github.com/legiscal/legtrack-api/internal/models"
)

type mockBillEventStore struct {
	events  []models.BillEvent
	listErr error
}

func (m *mockBillEventStore) List(ctx context.Context, filter models.BillEventFilter) ([]models.BillEvent, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.events, nil
}

type mockBookmarkNumbers struct {
	numbers []string
}

func (m *mockBookmarkNumbers) BillNumbersByUser(ctx context.Context, userID string) ([]string, error) {
	return m.numbers, nil
}

type mockDeadlineSource struct {
	deadlines []models.LegislativeDeadline
}

func (m *mockDeadlineSource) All() []models.LegislativeDeadline {
	return m.deadlines
}

func strPtr(s string) *string { return &s }

func newCalendarFixture() *mockBillEventStore {
	return &mockBillEventStore{events: []models.BillEvent{
		{
			BillNumber:  "AB 123",
			BillName:    "Housing Act",
			ChamberID:   models.ChamberAssembly,
			EventDate:   "2025-03-14",
			EventText:   strPtr("Assembly Appropriations"),
			EventTime:   strPtr("9 a.m."),
			EventStatus: models.EventStatusActive,
		},
		{
			BillNumber:  "SB 9",
			BillName:    "Transit Act",
			ChamberID:   models.ChamberSenate,
			EventDate:   "2025-04-02",
			EventStatus: models.EventStatusActive,
		},
	}}
}

func fixedEngine() *calendar.Engine {
	return calendar.NewEngine(nil, func() time.Time {
		return time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	})
}

func TestCalendarServiceEventsByBills(t *testing.T) {
	svc := NewCalendarService(newCalendarFixture(), nil, &mockDeadlineSource{}, fixedEngine(), nil, zap.NewNop())

	result, cacheHit, err := svc.Events(context.Background(), models.CalendarSelection{
		Bills:            []string{"AB 123"},
		BillFilterActive: true,
	})
	require.NoError(t, err)
	assert.False(t, cacheHit)

	// The hearing plus its derived letter deadline.
	require.Len(t, result.Events, 2)
	assert.Equal(t, "2025-03-14T16:00:00Z", result.Events[0].Start)
	assert.Equal(t, "AB 123 - letter of support due", result.Events[1].Title)
	assert.Equal(t, result.Events[0].Start, result.InitialDate)
}

func TestCalendarServiceEventsByTypes(t *testing.T) {
	deadlines := &mockDeadlineSource{deadlines: []models.LegislativeDeadline{
		{Title: "Spring recess", Start: "2025-04-10", End: "2025-04-21"},
	}}
	svc := NewCalendarService(newCalendarFixture(), nil, deadlines, fixedEngine(), nil, zap.NewNop())

	result, cacheHit, err := svc.Events(context.Background(), models.CalendarSelection{
		EventTypes: []models.CalendarEventType{models.CalendarTypeLegislative, models.CalendarTypeSenate},
	})
	require.NoError(t, err)
	assert.False(t, cacheHit)
	require.Len(t, result.Events, 2)
	assert.Equal(t, "Spring recess", result.Events[0].Title)
	assert.Equal(t, "SB 9", result.Events[1].BillNumber)
	assert.Equal(t, "2025-04-01", result.InitialDate)
}

// Event types supplied alongside an active bill filter are dropped, not
// rejected: the bill filter alone decides what comes back.
func TestCalendarServiceBillFilterIgnoresEventTypes(t *testing.T) {
	svc := NewCalendarService(newCalendarFixture(), nil, &mockDeadlineSource{}, fixedEngine(), nil, zap.NewNop())

	result, _, err := svc.Events(context.Background(), models.CalendarSelection{
		Bills:            []string{"AB 123"},
		BillFilterActive: true,
		EventTypes:       []models.CalendarEventType{models.CalendarTypeSenate},
	})
	require.NoError(t, err)
	require.Len(t, result.Events, 2)
	for _, ev := range result.Events {
		assert.Equal(t, "AB 123", ev.BillNumber)
	}
}

func TestCalendarServiceEventsForUser(t *testing.T) {
	bookmarks := &mockBookmarkNumbers{numbers: []string{"SB 9"}}
	svc := NewCalendarService(newCalendarFixture(), bookmarks, &mockDeadlineSource{}, fixedEngine(), nil, zap.NewNop())

	result, _, err := svc.EventsForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, result.Events, 2)
	assert.Equal(t, "SB 9", result.Events[0].BillNumber)
}

func TestCalendarServiceResources(t *testing.T) {
	store := &mockBillEventStore{events: []models.BillEvent{
		{BillNumber: "AB 123", EventDate: "2025-03-14", Location: strPtr("State Capitol"), Room: strPtr("Room 4202")},
		{BillNumber: "SB 9", EventDate: "2025-04-02", Location: strPtr("State Capitol"), Room: strPtr("Room 112")},
	}}
	svc := NewCalendarService(store, nil, &mockDeadlineSource{}, fixedEngine(), nil, zap.NewNop())

	resources, err := svc.Resources(context.Background())
	require.NoError(t, err)
	require.Len(t, resources, 2)
	assert.Equal(t, "a", resources[0].ID)
	assert.Equal(t, "b", resources[1].ID)
}
