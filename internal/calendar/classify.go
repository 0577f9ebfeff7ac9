package calendar

import (
	"regexp"
	"strings"

	"github.com/legiscal/legtrack-api/internal/models"
)

// DefaultRelativeTimeWords are schedule placeholders meaning "sometime
// during the floor day" rather than a clock time.
var DefaultRelativeTimeWords = []string{"upon", "adjournment", "after", "before", "session"}

// Classifier derives per-row display semantics from status and revision
// flags. The relative-time vocabulary is injected at construction so tests
// and other legislatures can substitute their own.
type Classifier struct {
	relative *regexp.Regexp
}

// NewClassifier builds a classifier. A nil or empty vocabulary falls back
// to DefaultRelativeTimeWords.
func NewClassifier(relativeWords []string) *Classifier {
	if len(relativeWords) == 0 {
		relativeWords = DefaultRelativeTimeWords
	}
	escaped := make([]string, len(relativeWords))
	for i, w := range relativeWords {
		escaped[i] = regexp.QuoteMeta(w)
	}
	pattern := `(?i)\b(` + strings.Join(escaped, "|") + `)\b`
	return &Classifier{relative: regexp.MustCompile(pattern)}
}

// Classify maps status+revised onto a style tag. The moved+revised
// combination falls through to event-normal; upstream intent there is
// ambiguous and no combined tag exists.
func (c *Classifier) Classify(status models.EventStatus, revised bool) models.StatusTag {
	switch {
	case status == models.EventStatusActive && revised:
		return models.StatusTagRevised
	case status == models.EventStatusMoved && !revised:
		return models.StatusTagMoved
	default:
		return models.StatusTagNormal
	}
}

// IsAllDay reports whether the free-text time denotes no specific clock
// time: missing, empty, the "N/A" placeholder, or relative phrasing such
// as "Upon adjournment of session".
func (c *Classifier) IsAllDay(timeText *string) bool {
	if timeText == nil {
		return true
	}
	trimmed := strings.TrimSpace(*timeText)
	if trimmed == "" || trimmed == "N/A" {
		return true
	}
	return c.relative.MatchString(trimmed)
}
