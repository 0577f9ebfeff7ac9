package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legiscal/legtrack-api/internal/models"
)

func billEventColumns() []string {
	return []string{
		"bill_id", "bill_number", "bill_name", "status", "chamber_id",
		"event_date", "event_text", "agenda_order", "event_time",
		"event_location", "event_room", "revised", "event_status",
	}
}

func TestBillEventList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBillEventRepository(db)

	rows := sqlmock.NewRows(billEventColumns()).
		AddRow("b1", "AB 123", "Housing Act", "In committee", 1,
			"2025-03-14", "Assembly Appropriations", 5.0, "9 a.m.",
			"State Capitol", "Room 4202", false, "active")
	mock.ExpectQuery("SELECT b.id AS bill_id, b.bill_number").WillReturnRows(rows)

	events, err := repo.List(context.Background(), models.BillEventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, "AB 123", events[0].BillNumber)
	assert.Equal(t, "2025-03-14", events[0].EventDate)
	assert.Equal(t, models.ChamberAssembly, events[0].ChamberID)
	require.NotNil(t, events[0].EventTime)
	assert.Equal(t, "9 a.m.", *events[0].EventTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillEventListFiltersByNumbers(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBillEventRepository(db)

	mock.ExpectQuery(`b.bill_number = ANY\(\$1\)`).
		WillReturnRows(sqlmock.NewRows(billEventColumns()))

	events, err := repo.List(context.Background(), models.BillEventFilter{BillNumbers: []string{"AB 123", "SB 9"}})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillEventReplaceForBill(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBillEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM bill_events WHERE bill_id").
		WithArgs("b1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO bill_events").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	events := []models.BillEvent{{EventDate: "2025-03-14", EventStatus: models.EventStatusActive}}
	err := repo.ReplaceForBill(context.Background(), "b1", events)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillEventDeleteBefore(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBillEventRepository(db)

	cutoff := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("DELETE FROM bill_events WHERE event_date").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := repo.DeleteBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
