package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/legiscal/legtrack-api/internal/models"
)

func TestClassifyTable(t *testing.T) {
	c := NewClassifier(nil)
	cases := []struct {
		status  models.EventStatus
		revised bool
		want    models.StatusTag
	}{
		{models.EventStatusActive, false, models.StatusTagNormal},
		{models.EventStatusActive, true, models.StatusTagRevised},
		{models.EventStatusMoved, false, models.StatusTagMoved},
		// moved+revised has no combined tag and falls through to normal.
		{models.EventStatusMoved, true, models.StatusTagNormal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Classify(tc.status, tc.revised), "%s revised=%v", tc.status, tc.revised)
	}
}

func TestIsAllDay(t *testing.T) {
	c := NewClassifier(nil)

	assert.True(t, c.IsAllDay(nil))
	assert.True(t, c.IsAllDay(ptr("")))
	assert.True(t, c.IsAllDay(ptr("N/A")))
	assert.True(t, c.IsAllDay(ptr("Upon adjournment of session")))
	assert.True(t, c.IsAllDay(ptr("30 minutes after floor session")))
	assert.False(t, c.IsAllDay(ptr("9:30 a.m.")))
	assert.False(t, c.IsAllDay(ptr("9 a.m.")))
}

func TestIsAllDayWholeWordOnly(t *testing.T) {
	c := NewClassifier(nil)
	// "beforehand" contains "before" but is not a whole-word match.
	assert.False(t, c.IsAllDay(ptr("beforehand 9 a.m.")))
}

func TestClassifierInjectedVocabulary(t *testing.T) {
	c := NewClassifier([]string{"recess"})
	assert.True(t, c.IsAllDay(ptr("After morning recess")))
	assert.False(t, c.IsAllDay(ptr("Upon adjournment")))
}

func ptr(s string) *string {
	return &s
}
