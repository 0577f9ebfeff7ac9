package calendar

import (
	"fmt"

	"github.com/legiscal/legtrack-api/internal/models"
)

// ExtractResources derives the distinct (building, room) pairs referenced
// by the event corpus, in first-seen order. Rows missing either field are
// skipped. IDs run a..z then resource_N; they are rebuilt on every call
// and are only meaningful within a single load, so callers must key
// long-lived state on (building, room), never on the id.
func ExtractResources(events []models.BillEvent) ([]models.CalendarResource, map[models.ResourceKey]models.CalendarResource) {
	resources := make([]models.CalendarResource, 0)
	index := make(map[models.ResourceKey]models.CalendarResource)

	for _, ev := range events {
		if ev.Location == nil || ev.Room == nil {
			continue
		}
		key := models.ResourceKey{Building: *ev.Location, Room: *ev.Room}
		if _, seen := index[key]; seen {
			continue
		}
		order := 0.0
		if ev.AgendaOrder != nil {
			order = *ev.AgendaOrder
		}
		res := models.CalendarResource{
			ID:       resourceID(len(resources)),
			Building: key.Building,
			Title:    key.Room,
			Order:    order,
		}
		resources = append(resources, res)
		index[key] = res
	}
	return resources, index
}

func resourceID(n int) string {
	if n < 26 {
		return string(rune('a' + n))
	}
	return fmt.Sprintf("resource_%d", n)
}
