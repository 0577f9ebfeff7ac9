package models

// CalendarEventType categorises a normalized calendar event.
type CalendarEventType string

const (
	CalendarTypeAssembly       CalendarEventType = "Assembly"
	CalendarTypeSenate         CalendarEventType = "Senate"
	CalendarTypeLegislative    CalendarEventType = "Legislative"
	CalendarTypeLetterDeadline CalendarEventType = "Letter Deadline"
)

// LegislativeDeadline is a session-wide milestone (e.g. "Last day to
// introduce bills"), loaded once from the static reference dataset.
type LegislativeDeadline struct {
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ResourceKey groups events held in the same physical place.
type ResourceKey struct {
	Building string
	Room     string
}

// CalendarResource is a display grouping for a (building, room) pair.
// IDs are assigned in first-seen order and are not stable across reloads.
type CalendarResource struct {
	ID       string  `json:"id"`
	Building string  `json:"building"`
	Title    string  `json:"title"`
	Order    float64 `json:"order"`
}

// NormalizedCalendarEvent is the unit consumed by the calendar widget and
// the feed exporter. For all-day events Start and End both hold the plain
// YYYY-MM-DD date; timed events carry RFC3339 UTC instants.
type NormalizedCalendarEvent struct {
	Title      string            `json:"title"`
	Start      string            `json:"start"`
	End        string            `json:"end"`
	Type       CalendarEventType `json:"type"`
	ClassName  string            `json:"className"`
	BillNumber string            `json:"billNumber,omitempty"`
	BillName   string            `json:"billName,omitempty"`
	EventText  string            `json:"eventText,omitempty"`
	EventTime  string            `json:"eventTime,omitempty"`
}

// CalendarSelection carries the caller's filtering choices. Bill filtering
// and event-type filtering are mutually exclusive: when BillFilterActive is
// set the event types are ignored entirely.
type CalendarSelection struct {
	EventTypes       []CalendarEventType
	Bills            []string
	BillFilterActive bool
}
