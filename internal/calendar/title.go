package calendar

import (
	"fmt"
	"strings"

	"github.com/legiscal/legtrack-api/internal/models"
)

// BuildTitle composes the single-line calendar label for a bill event:
// enough context (bill, action, place, sequence) for a compact cell
// without a secondary lookup.
func BuildTitle(ev models.BillEvent) string {
	prefix := ""
	if ev.Revised {
		prefix = "✏️"
	}
	// A "moved" marker once rendered here too; it is currently suppressed.
	// if ev.EventStatus == models.EventStatusMoved {
	// 	prefix += "➡️"
	// }

	text := ""
	if ev.EventText != nil {
		text = strings.TrimSpace(*ev.EventText)
	}

	parts := make([]string, 0, 4)
	switch {
	case ev.BillNumber != "" && text != "":
		parts = append(parts, fmt.Sprintf("%s - %s", ev.BillNumber, text))
	case ev.BillNumber != "":
		parts = append(parts, ev.BillNumber)
	case text != "":
		parts = append(parts, text)
	}
	if ev.Location != nil && *ev.Location != "" {
		parts = append(parts, *ev.Location)
	}
	if ev.Room != nil && *ev.Room != "" {
		parts = append(parts, *ev.Room)
	}
	if ev.AgendaOrder != nil {
		parts = append(parts, fmt.Sprintf("Agenda order: %d", int(*ev.AgendaOrder)))
	}

	body := strings.Join(parts, " | ")
	if prefix != "" && body != "" {
		return prefix + " " + body
	}
	return prefix + body
}
