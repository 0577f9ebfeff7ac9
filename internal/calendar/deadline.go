package calendar

import (
	"regexp"
	"time"

	"github.com/legiscal/legtrack-api/internal/models"
)

// letterLeadDays is the lead time for an advocacy letter ahead of a
// hearing. A placeholder policy; tune it here, not at call sites.
const letterLeadDays = 7

// proceduralPattern matches floor/file actions that have no hearing to
// write a letter of support for. Case-sensitive whole-word match.
var proceduralPattern = regexp.MustCompile(`\b(Calendar|File|Concurrence|Reading)\b`)

// LetterDeadline computes the letter-of-support due date for a bill
// event. It returns ok=false for procedural event types and for rows
// whose event date fails to parse.
func LetterDeadline(ev models.BillEvent) (time.Time, bool) {
	if ev.EventText != nil && proceduralPattern.MatchString(*ev.EventText) {
		return time.Time{}, false
	}
	d, err := time.Parse(dateLayout, ev.EventDate)
	if err != nil {
		return time.Time{}, false
	}
	return d.AddDate(0, 0, -letterLeadDays), true
}
