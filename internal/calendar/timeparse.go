package calendar

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// civilZone is the legislature's wall-clock timezone. Upstream feeds record
// local hearing times with no zone context, so every conversion funnels
// through here to keep DST handling in one place.
var civilZone = mustLoadZone("America/Los_Angeles")

func mustLoadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// ResolveEventTime combines a YYYY-MM-DD date with a period-delimited
// 12-hour clock value ("9 a.m.", "2:30 p.m.") into a UTC instant.
// addHours shifts the result afterwards, used to synthesize an end time
// from a start time. The bool is false on any parse failure; callers
// treat absence as "fall back to all-day or skip".
func ResolveEventTime(date string, timeText string, addHours int) (time.Time, bool) {
	if date == "" || timeText == "" {
		return time.Time{}, false
	}

	cleaned := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(timeText, ".", "")))

	layout := dateLayout + " 3 pm"
	if strings.Contains(cleaned, ":") {
		layout = dateLayout + " 3:04 pm"
	}

	t, err := time.ParseInLocation(layout, date+" "+cleaned, civilZone)
	if err != nil {
		return time.Time{}, false
	}

	t = t.UTC()
	if addHours != 0 {
		t = t.Add(time.Duration(addHours) * time.Hour)
	}
	return t, true
}
