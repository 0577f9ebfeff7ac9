package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/legiscal/legtrack-api/internal/models"
)

// BillEventRepository reads the bill/schedule join the calendar engine
// consumes and lets the sync job replace a bill's schedule rows.
type BillEventRepository struct {
	db *sqlx.DB
}

// NewBillEventRepository constructs a BillEventRepository.
func NewBillEventRepository(db *sqlx.DB) *BillEventRepository {
	return &BillEventRepository{db: db}
}

// List returns joined bill event rows matching the filter, ordered by
// event date. Dates come back as plain YYYY-MM-DD strings; downstream
// time resolution owns the timezone question.
func (r *BillEventRepository) List(ctx context.Context, filter models.BillEventFilter) ([]models.BillEvent, error) {
	base := `FROM bill_events e JOIN bills b ON b.id = e.bill_id`
	args := []interface{}{}
	conditions := []string{"1=1"}

	if len(filter.BillNumbers) > 0 {
		conditions = append(conditions, fmt.Sprintf("b.bill_number = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(filter.BillNumbers))
	}
	if filter.Chamber != nil {
		conditions = append(conditions, fmt.Sprintf("b.chamber_id = $%d", len(args)+1))
		args = append(args, int(*filter.Chamber))
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("e.event_date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("e.event_date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	query := fmt.Sprintf(`SELECT b.id AS bill_id, b.bill_number, b.bill_name, b.status, b.chamber_id,
        to_char(e.event_date, 'YYYY-MM-DD') AS event_date,
        e.event_text, e.agenda_order, e.event_time, e.event_location, e.event_room, e.revised, e.event_status
        %s WHERE %s ORDER BY e.event_date ASC, b.bill_number ASC`, base, strings.Join(conditions, " AND "))

	var events []models.BillEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list bill events: %w", err)
	}
	return events, nil
}

// ReplaceForBill swaps all schedule rows for a bill inside one
// transaction so readers never see a half-synced schedule.
func (r *BillEventRepository) ReplaceForBill(ctx context.Context, billID string, events []models.BillEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace events: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM bill_events WHERE bill_id = $1", billID); err != nil {
		return fmt.Errorf("clear bill events: %w", err)
	}

	const insert = `INSERT INTO bill_events (id, bill_id, event_date, event_text, agenda_order, event_time, event_location, event_room, revised, event_status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	now := time.Now().UTC()
	for _, ev := range events {
		if _, err := tx.ExecContext(ctx, insert,
			uuid.NewString(), billID, ev.EventDate, ev.EventText, ev.AgendaOrder,
			ev.EventTime, ev.Location, ev.Room, ev.Revised, ev.EventStatus, now,
		); err != nil {
			return fmt.Errorf("insert bill event: %w", err)
		}
	}
	return tx.Commit()
}

// DeleteBefore removes schedule rows older than the cutoff date and
// returns how many were dropped.
func (r *BillEventRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM bill_events WHERE event_date < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("stale events affected: %w", err)
	}
	return n, nil
}
