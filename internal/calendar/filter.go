package calendar

import (
	"fmt"
	"time"

	"github.com/legiscal/legtrack-api/internal/models"
)

// defaultDurationHours is the synthesized length of a timed event when
// the feed supplies only a start. The ICS exporter applies its own,
// different default for events that reach it without an end.
const defaultDurationHours = 1

// FilterResult is the engine's output: the normalized event stream plus
// the date the calendar widget should open on. Anomalies flags moved
// hearings that occur more than twice for the same bill and agenda text;
// the pairing logic assumes an original row plus one replacement, so
// anything beyond that is reported for the caller to warn on rather
// than dropped.
type FilterResult struct {
	Events      []models.NormalizedCalendarEvent
	InitialDate string
	Total       int
	Anomalies   []string
}

// Engine assembles the normalized event stream consumed by the calendar
// widget and the feed exporter. It is a pure transformation of its
// inputs: no caching, no shared state, and the only time dependence is
// the injected clock backing the "jump to today" fallback.
type Engine struct {
	classifier *Classifier
	now        func() time.Time
}

// NewEngine constructs an engine. A nil classifier gets the default
// vocabulary; a nil clock falls back to time.Now.
func NewEngine(classifier *Classifier, now func() time.Time) *Engine {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{classifier: classifier, now: now}
}

// Filter applies either the bill filter or the event-type filter. The two
// modes are mutually exclusive by product decision: an active bill filter
// disables type filtering entirely rather than combining with it.
func (e *Engine) Filter(billEvents []models.BillEvent, legislative []models.LegislativeDeadline, sel models.CalendarSelection) FilterResult {
	if sel.BillFilterActive {
		return e.filterByBills(billEvents, sel.Bills)
	}
	return e.filterByTypes(billEvents, legislative, sel.EventTypes)
}

func (e *Engine) filterByBills(billEvents []models.BillEvent, bills []string) FilterResult {
	selected := make(map[string]bool, len(bills))
	for _, b := range bills {
		selected[b] = true
	}

	matched := make([]models.BillEvent, 0)
	for _, ev := range billEvents {
		if selected[ev.BillNumber] {
			matched = append(matched, ev)
		}
	}

	events := make([]models.NormalizedCalendarEvent, 0, len(matched)*2)
	for _, ev := range matched {
		events = append(events, e.normalizeBillEvent(ev))
		if deadline, ok := letterDeadlineEvent(ev); ok {
			events = append(events, deadline)
		}
	}

	return FilterResult{
		Events:      events,
		InitialDate: e.initialDateForBills(matched, len(bills)),
		Total:       len(events),
		Anomalies:   movedPairAnomalies(matched),
	}
}

// initialDateForBills picks where the calendar opens in bill-filter mode:
// a single bill with a single event jumps straight to that event; a
// single bill with several events jumps to its earliest still-active
// date (earliest overall when nothing is active); anything else opens on
// today.
func (e *Engine) initialDateForBills(matched []models.BillEvent, selectedCount int) string {
	if selectedCount != 1 || len(matched) == 0 {
		return e.today()
	}
	if len(matched) == 1 {
		return e.normalizeBillEvent(matched[0]).Start
	}

	earliestActive := ""
	earliest := ""
	for _, ev := range matched {
		if earliest == "" || ev.EventDate < earliest {
			earliest = ev.EventDate
		}
		if ev.EventStatus == models.EventStatusActive {
			if earliestActive == "" || ev.EventDate < earliestActive {
				earliestActive = ev.EventDate
			}
		}
	}
	if earliestActive != "" {
		return earliestActive
	}
	return earliest
}

func (e *Engine) filterByTypes(billEvents []models.BillEvent, legislative []models.LegislativeDeadline, types []models.CalendarEventType) FilterResult {
	events := make([]models.NormalizedCalendarEvent, 0)

	for _, t := range types {
		switch t {
		case models.CalendarTypeLegislative:
			for _, d := range legislative {
				events = append(events, models.NormalizedCalendarEvent{
					Title:     d.Title,
					Start:     d.Start,
					End:       d.End,
					Type:      models.CalendarTypeLegislative,
					ClassName: string(models.StatusTagNormal),
					EventTime: "N/A",
				})
			}
		case models.CalendarTypeLetterDeadline:
			for _, ev := range billEvents {
				if deadline, ok := letterDeadlineEvent(ev); ok {
					events = append(events, deadline)
				}
			}
		case models.CalendarTypeAssembly:
			for _, ev := range billEvents {
				if ev.ChamberID == models.ChamberAssembly {
					events = append(events, e.normalizeBillEvent(ev))
				}
			}
		case models.CalendarTypeSenate:
			for _, ev := range billEvents {
				if ev.ChamberID != models.ChamberAssembly {
					events = append(events, e.normalizeBillEvent(ev))
				}
			}
		}
	}

	return FilterResult{
		Events:      events,
		InitialDate: e.today(),
		Total:       len(events),
		Anomalies:   movedPairAnomalies(billEvents),
	}
}

// movedPairAnomalies reports (bill, agenda text) groups holding a moved
// row that occur more than twice.
func movedPairAnomalies(events []models.BillEvent) []string {
	type groupKey struct {
		bill string
		text string
	}
	counts := make(map[groupKey]int)
	moved := make(map[groupKey]bool)
	order := make([]groupKey, 0)

	for _, ev := range events {
		key := groupKey{bill: ev.BillNumber, text: derefString(ev.EventText)}
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
		if ev.EventStatus == models.EventStatusMoved {
			moved[key] = true
		}
	}

	var anomalies []string
	for _, key := range order {
		if moved[key] && counts[key] > 2 {
			anomalies = append(anomalies, fmt.Sprintf("%s: %q appears %d times in a moved pairing", key.bill, key.text, counts[key]))
		}
	}
	return anomalies
}

// normalizeBillEvent enriches one raw row: label, style tag, chamber
// type, and timezone-resolved start/end. Unparsable times degrade to
// all-day rather than dropping the row.
func (e *Engine) normalizeBillEvent(ev models.BillEvent) models.NormalizedCalendarEvent {
	out := models.NormalizedCalendarEvent{
		Title:      BuildTitle(ev),
		Type:       chamberEventType(ev.ChamberID),
		ClassName:  string(e.classifier.Classify(ev.EventStatus, ev.Revised)),
		BillNumber: ev.BillNumber,
		BillName:   ev.BillName,
		EventText:  derefString(ev.EventText),
		EventTime:  derefString(ev.EventTime),
	}

	if e.classifier.IsAllDay(ev.EventTime) {
		out.Start = ev.EventDate
		out.End = ev.EventDate
		return out
	}

	start, ok := ResolveEventTime(ev.EventDate, derefString(ev.EventTime), 0)
	if !ok {
		out.Start = ev.EventDate
		out.End = ev.EventDate
		return out
	}
	end, _ := ResolveEventTime(ev.EventDate, derefString(ev.EventTime), defaultDurationHours)

	out.Start = start.Format(time.RFC3339)
	out.End = end.Format(time.RFC3339)
	return out
}

// letterDeadlineEvent derives the secondary all-day "letter of support
// due" entry for a qualifying bill event.
func letterDeadlineEvent(ev models.BillEvent) (models.NormalizedCalendarEvent, bool) {
	due, ok := LetterDeadline(ev)
	if !ok {
		return models.NormalizedCalendarEvent{}, false
	}
	date := due.Format(dateLayout)
	return models.NormalizedCalendarEvent{
		Title:      fmt.Sprintf("%s - letter of support due", ev.BillNumber),
		Start:      date,
		End:        date,
		Type:       models.CalendarTypeLetterDeadline,
		ClassName:  string(models.StatusTagNormal),
		BillNumber: ev.BillNumber,
		BillName:   ev.BillName,
		EventText:  derefString(ev.EventText),
		EventTime:  "N/A",
	}, true
}

func chamberEventType(c models.Chamber) models.CalendarEventType {
	if c == models.ChamberAssembly {
		return models.CalendarTypeAssembly
	}
	return models.CalendarTypeSenate
}

func (e *Engine) today() string {
	return e.now().In(civilZone).Format(dateLayout)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
