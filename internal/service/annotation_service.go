package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/legiscal/legtrack-api/internal/models"
	appErrors "github.com/legiscal/legtrack-api/pkg/errors"
)

type annotationRepository interface {
	ListByUserAndBill(ctx context.Context, userID, billID string) ([]models.Annotation, error)
	FindByID(ctx context.Context, id string) (*models.Annotation, error)
	Create(ctx context.Context, annotation *models.Annotation) error
	Update(ctx context.Context, annotation *models.Annotation) error
	Delete(ctx context.Context, id string) error
}

// AnnotationService manages per-user notes attached to bills.
type AnnotationService struct {
	repo   annotationRepository
	bills  billFinder
	logger *zap.Logger
}

// NewAnnotationService constructs the service.
func NewAnnotationService(repo annotationRepository, bills billFinder, logger *zap.Logger) *AnnotationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnotationService{repo: repo, bills: bills, logger: logger}
}

// List returns the user's notes for a bill.
func (s *AnnotationService) List(ctx context.Context, userID, billID string) ([]models.Annotation, error) {
	annotations, err := s.repo.ListByUserAndBill(ctx, userID, billID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list annotations")
	}
	return annotations, nil
}

// Create adds a note to a bill for the user.
func (s *AnnotationService) Create(ctx context.Context, userID, billID, body string) (*models.Annotation, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "annotation body is required")
	}
	if _, err := s.bills.FindByID(ctx, billID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "bill not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bill")
	}

	annotation := &models.Annotation{UserID: userID, BillID: billID, Body: body}
	if err := s.repo.Create(ctx, annotation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create annotation")
	}
	return annotation, nil
}

// Update rewrites an existing note. Only the owner may edit it.
func (s *AnnotationService) Update(ctx context.Context, userID, id, body string) (*models.Annotation, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "annotation body is required")
	}
	annotation, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	annotation.Body = body
	if err := s.repo.Update(ctx, annotation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update annotation")
	}
	return annotation, nil
}

// Delete removes a note. Only the owner may delete it.
func (s *AnnotationService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.loadOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete annotation")
	}
	return nil
}

func (s *AnnotationService) loadOwned(ctx context.Context, userID, id string) (*models.Annotation, error) {
	annotation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "annotation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load annotation")
	}
	if annotation.UserID != userID {
		return nil, appErrors.ErrForbidden
	}
	return annotation, nil
}
