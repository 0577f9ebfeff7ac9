package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legiscal/legtrack-api/internal/models"
)

func TestLetterDeadlineSevenDaysBefore(t *testing.T) {
	ev := models.BillEvent{EventDate: "2025-03-14", EventText: ptr("Hearing in Comm. on Judiciary")}
	due, ok := LetterDeadline(ev)
	require.True(t, ok)
	assert.Equal(t, "2025-03-07", due.Format(dateLayout))
}

func TestLetterDeadlineProceduralExclusions(t *testing.T) {
	for _, text := range []string{
		"Third Reading",
		"Consent Calendar",
		"In Senate. Concurrence in Assembly amendments pending.",
		"Ordered to inactive File",
	} {
		_, ok := LetterDeadline(models.BillEvent{EventDate: "2025-03-14", EventText: ptr(text)})
		assert.False(t, ok, text)
	}
}

func TestLetterDeadlineKeywordsAreCaseSensitiveWholeWords(t *testing.T) {
	// Lowercase "reading" and embedded "Filed" must not trigger exclusion.
	for _, text := range []string{
		"Second reading waived",
		"Filed with Secretary of State",
	} {
		_, ok := LetterDeadline(models.BillEvent{EventDate: "2025-03-14", EventText: ptr(text)})
		assert.True(t, ok, text)
	}
}

func TestLetterDeadlineMissingTextStillQualifies(t *testing.T) {
	due, ok := LetterDeadline(models.BillEvent{EventDate: "2025-01-03"})
	require.True(t, ok)
	assert.Equal(t, "2024-12-27", due.Format(dateLayout))
}

func TestLetterDeadlineBadDate(t *testing.T) {
	_, ok := LetterDeadline(models.BillEvent{EventDate: "03/14/2025"})
	assert.False(t, ok)
}
