package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/legiscal/legtrack-api/internal/models"
)

// AnnotationRepository manages per-user notes on bills.
type AnnotationRepository struct {
	db *sqlx.DB
}

// NewAnnotationRepository constructs an AnnotationRepository.
func NewAnnotationRepository(db *sqlx.DB) *AnnotationRepository {
	return &AnnotationRepository{db: db}
}

// ListByUserAndBill returns the user's notes for one bill, newest first.
func (r *AnnotationRepository) ListByUserAndBill(ctx context.Context, userID, billID string) ([]models.Annotation, error) {
	const query = `SELECT id, user_id, bill_id, body, created_at, updated_at
        FROM annotations WHERE user_id = $1 AND bill_id = $2 ORDER BY created_at DESC`
	var annotations []models.Annotation
	if err := r.db.SelectContext(ctx, &annotations, query, userID, billID); err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}
	return annotations, nil
}

// FindByID fetches one annotation.
func (r *AnnotationRepository) FindByID(ctx context.Context, id string) (*models.Annotation, error) {
	const query = `SELECT id, user_id, bill_id, body, created_at, updated_at FROM annotations WHERE id = $1`
	var annotation models.Annotation
	if err := r.db.GetContext(ctx, &annotation, query, id); err != nil {
		return nil, err
	}
	return &annotation, nil
}

// Create inserts a new annotation.
func (r *AnnotationRepository) Create(ctx context.Context, annotation *models.Annotation) error {
	if annotation.ID == "" {
		annotation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if annotation.CreatedAt.IsZero() {
		annotation.CreatedAt = now
	}
	annotation.UpdatedAt = now
	const query = `INSERT INTO annotations (id, user_id, bill_id, body, created_at, updated_at)
        VALUES (:id, :user_id, :bill_id, :body, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, annotation); err != nil {
		return fmt.Errorf("create annotation: %w", err)
	}
	return nil
}

// Update rewrites the note body.
func (r *AnnotationRepository) Update(ctx context.Context, annotation *models.Annotation) error {
	annotation.UpdatedAt = time.Now().UTC()
	const query = `UPDATE annotations SET body = :body, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, annotation); err != nil {
		return fmt.Errorf("update annotation: %w", err)
	}
	return nil
}

// Delete removes an annotation.
func (r *AnnotationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM annotations WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete annotation: %w", err)
	}
	return nil
}
