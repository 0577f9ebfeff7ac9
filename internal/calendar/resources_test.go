package calendar

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legiscal/legtrack-api/internal/models"
)

func locEvent(building, room string, order *float64) models.BillEvent {
	return models.BillEvent{
		BillNumber:  "AB 1",
		EventDate:   "2025-03-14",
		Location:    &building,
		Room:        &room,
		AgendaOrder: order,
		EventStatus: models.EventStatusActive,
	}
}

func TestExtractResourcesGroupsDistinctPairs(t *testing.T) {
	order := 3.0
	events := []models.BillEvent{
		locEvent("State Capitol", "Room 4100", &order),
		locEvent("State Capitol", "Room 4100", nil),
		locEvent("State Capitol", "Room 4100", nil),
		locEvent("State Capitol", "Room 2200", nil),
	}

	resources, index := ExtractResources(events)
	require.Len(t, resources, 2)
	require.Len(t, index, 2)

	assert.Equal(t, "a", resources[0].ID)
	assert.Equal(t, "Room 4100", resources[0].Title)
	assert.Equal(t, 3.0, resources[0].Order)

	assert.Equal(t, "b", resources[1].ID)
	assert.Equal(t, "Room 2200", resources[1].Title)
	assert.Equal(t, 0.0, resources[1].Order)

	assert.NotEqual(t, resources[0].ID, resources[1].ID)
}

func TestExtractResourcesSkipsIncompleteRows(t *testing.T) {
	room := "Room 4100"
	events := []models.BillEvent{
		{EventDate: "2025-03-14", Room: &room},
		{EventDate: "2025-03-14"},
	}
	resources, index := ExtractResources(events)
	assert.Empty(t, resources)
	assert.Empty(t, index)
}

// Grouping must be stable across repeated extractions even though ids are
// not guaranteed to be.
func TestExtractResourcesIdempotentGrouping(t *testing.T) {
	events := []models.BillEvent{
		locEvent("State Capitol", "Room 4100", nil),
		locEvent("Swing Space", "Room 1100", nil),
	}
	_, first := ExtractResources(events)
	_, second := ExtractResources(events)

	require.Equal(t, len(first), len(second))
	for key, res := range first {
		assert.Equal(t, res.Order, second[key].Order)
		assert.Equal(t, res.Building, second[key].Building)
		assert.Equal(t, res.Title, second[key].Title)
	}
}

func TestExtractResourcesNumericFallbackAfterAlphabet(t *testing.T) {
	events := make([]models.BillEvent, 0, 28)
	for i := 0; i < 28; i++ {
		events = append(events, locEvent("State Capitol", fmt.Sprintf("Room %d", i), nil))
	}
	resources, _ := ExtractResources(events)
	require.Len(t, resources, 28)
	assert.Equal(t, "a", resources[0].ID)
	assert.Equal(t, "z", resources[25].ID)
	assert.Equal(t, "resource_26", resources[26].ID)
	assert.Equal(t, "resource_27", resources[27].ID)
}
