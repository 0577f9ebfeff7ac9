package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/legiscal/legtrack-api/internal/models"
)

// BillRepository manages persistence for tracked bills.
type BillRepository struct {
	db *sqlx.DB
}

// NewBillRepository constructs a BillRepository.
func NewBillRepository(db *sqlx.DB) *BillRepository {
	return &BillRepository{db: db}
}

// List returns bills matching the provided filters.
func (r *BillRepository) List(ctx context.Context, filter models.BillFilter) ([]models.Bill, int, error) {
	base := "FROM bills b"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Chamber != nil {
		conditions = append(conditions, fmt.Sprintf("b.chamber_id = $%d", len(args)+1))
		args = append(args, int(*filter.Chamber))
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if len(filter.Numbers) > 0 {
		conditions = append(conditions, fmt.Sprintf("b.bill_number = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(filter.Numbers))
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(b.bill_number) LIKE $%d OR LOWER(b.bill_name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"bill_number": "b.bill_number",
		"bill_name":   "b.bill_name",
		"last_action": "b.last_action",
		"updated_at":  "b.updated_at",
	}
	if sortBy == "" {
		sortBy = "bill_number"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "b.bill_number"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT b.id, b.upstream_id, b.bill_number, b.bill_name, b.status, b.chamber_id, b.summary, b.author, b.last_action, b.created_at, b.updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var bills []models.Bill
	if err := r.db.SelectContext(ctx, &bills, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bills: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count bills: %w", err)
	}
	return bills, total, nil
}

// FindByID fetches a bill by ID.
func (r *BillRepository) FindByID(ctx context.Context, id string) (*models.Bill, error) {
	const query = `SELECT id, upstream_id, bill_number, bill_name, status, chamber_id, summary, author, last_action, created_at, updated_at
        FROM bills WHERE id = $1`
	var bill models.Bill
	if err := r.db.GetContext(ctx, &bill, query, id); err != nil {
		return nil, err
	}
	return &bill, nil
}

// FindByNumber fetches a bill by its display number, e.g. "AB 123".
func (r *BillRepository) FindByNumber(ctx context.Context, number string) (*models.Bill, error) {
	const query = `SELECT id, upstream_id, bill_number, bill_name, status, chamber_id, summary, author, last_action, created_at, updated_at
        FROM bills WHERE bill_number = $1`
	var bill models.Bill
	if err := r.db.GetContext(ctx, &bill, query, number); err != nil {
		return nil, err
	}
	return &bill, nil
}

// Upsert inserts a bill keyed by its upstream identifier, updating the
// mutable columns when the row already exists. Sync jobs rely on this
// being idempotent.
func (r *BillRepository) Upsert(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = now
	}
	bill.UpdatedAt = now
	const query = `INSERT INTO bills (id, upstream_id, bill_number, bill_name, status, chamber_id, summary, author, last_action, created_at, updated_at)
        VALUES (:id, :upstream_id, :bill_number, :bill_name, :status, :chamber_id, :summary, :author, :last_action, :created_at, :updated_at)
        ON CONFLICT (upstream_id) DO UPDATE SET
            bill_number = EXCLUDED.bill_number,
            bill_name = EXCLUDED.bill_name,
            status = EXCLUDED.status,
            chamber_id = EXCLUDED.chamber_id,
            summary = EXCLUDED.summary,
            author = EXCLUDED.author,
            last_action = EXCLUDED.last_action,
            updated_at = EXCLUDED.updated_at
        RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, bill)
	if err != nil {
		return fmt.Errorf("upsert bill: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	// On conflict the generated id loses to the stored one.
	if rows.Next() {
		if err := rows.Scan(&bill.ID); err != nil {
			return fmt.Errorf("upsert bill: %w", err)
		}
	}
	return rows.Err()
}

// ExistsByNumber checks whether a bill with the given number exists.
func (r *BillRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM bills WHERE bill_number = $1 LIMIT 1", number); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check bill number: %w", err)
	}
	return true, nil
}
