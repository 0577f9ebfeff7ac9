package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/legiscal/legtrack-api/internal/models"
)

// BookmarkRepository manages per-user bill bookmarks.
type BookmarkRepository struct {
	db *sqlx.DB
}

// NewBookmarkRepository constructs a BookmarkRepository.
func NewBookmarkRepository(db *sqlx.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// ListByUser returns the user's bookmarks joined with bill metadata.
func (r *BookmarkRepository) ListByUser(ctx context.Context, userID string) ([]models.BookmarkedBill, error) {
	const query = `SELECT bm.id, bm.user_id, bm.bill_id, bm.created_at, b.bill_number, b.bill_name, b.status
        FROM bookmarks bm
        JOIN bills b ON b.id = bm.bill_id
        WHERE bm.user_id = $1
        ORDER BY b.bill_number ASC`
	var bookmarks []models.BookmarkedBill
	if err := r.db.SelectContext(ctx, &bookmarks, query, userID); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return bookmarks, nil
}

// BillNumbersByUser returns just the bookmarked bill numbers, which is
// what the calendar bill filter wants.
func (r *BookmarkRepository) BillNumbersByUser(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT b.bill_number FROM bookmarks bm JOIN bills b ON b.id = bm.bill_id WHERE bm.user_id = $1 ORDER BY b.bill_number ASC`
	var numbers []string
	if err := r.db.SelectContext(ctx, &numbers, query, userID); err != nil {
		return nil, fmt.Errorf("list bookmarked numbers: %w", err)
	}
	return numbers, nil
}

// Exists reports whether the user already bookmarked the bill.
func (r *BookmarkRepository) Exists(ctx context.Context, userID, billID string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM bookmarks WHERE user_id = $1 AND bill_id = $2 LIMIT 1", userID, billID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check bookmark: %w", err)
	}
	return true, nil
}

// Create inserts a bookmark.
func (r *BookmarkRepository) Create(ctx context.Context, bookmark *models.Bookmark) error {
	if bookmark.ID == "" {
		bookmark.ID = uuid.NewString()
	}
	if bookmark.CreatedAt.IsZero() {
		bookmark.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO bookmarks (id, user_id, bill_id, created_at) VALUES (:id, :user_id, :bill_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, bookmark); err != nil {
		return fmt.Errorf("create bookmark: %w", err)
	}
	return nil
}

// Delete removes the user's bookmark for a bill and reports whether a
// row was actually deleted.
func (r *BookmarkRepository) Delete(ctx context.Context, userID, billID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM bookmarks WHERE user_id = $1 AND bill_id = $2", userID, billID)
	if err != nil {
		return false, fmt.Errorf("delete bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("bookmark affected: %w", err)
	}
	return n > 0, nil
}
