package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/legiscal/legtrack-api/internal/models"
)

func TestBuildTitleAllFields(t *testing.T) {
	order := 4.0
	ev := models.BillEvent{
		BillNumber:  "AB 123",
		EventText:   ptr("Referred to Comm. on Judiciary"),
		Location:    ptr("State Capitol"),
		Room:        ptr("Room 4100"),
		AgendaOrder: &order,
	}
	got := BuildTitle(ev)
	assert.Equal(t, "AB 123 - Referred to Comm. on Judiciary | State Capitol | Room 4100 | Agenda order: 4", got)
}

func TestBuildTitleRevisedPrefix(t *testing.T) {
	ev := models.BillEvent{BillNumber: "SB 9", Revised: true}
	assert.Equal(t, "✏️ SB 9", BuildTitle(ev))
}

// A moved event carries no marker; only the revised pencil is active.
func TestBuildTitleMovedHasNoPrefix(t *testing.T) {
	ev := models.BillEvent{BillNumber: "SB 9", EventStatus: models.EventStatusMoved}
	assert.Equal(t, "SB 9", BuildTitle(ev))
}

func TestBuildTitlePartialFields(t *testing.T) {
	assert.Equal(t, "Hearing canceled", BuildTitle(models.BillEvent{EventText: ptr("Hearing canceled")}))
	assert.Equal(t, "AB 7 | Room 113", BuildTitle(models.BillEvent{BillNumber: "AB 7", Room: ptr("Room 113")}))
	assert.Equal(t, "", BuildTitle(models.BillEvent{}))
}

func TestBuildTitleTruncatesAgendaOrderToInt(t *testing.T) {
	order := 2.7
	ev := models.BillEvent{BillNumber: "AB 5", AgendaOrder: &order}
	assert.Equal(t, "AB 5 | Agenda order: 2", BuildTitle(ev))
}
