package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/legiscal/legtrack-api/internal/models"
	appErrors "github.com/legiscal/legtrack-api/pkg/errors"
)

type bookmarkRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.BookmarkedBill, error)
	Exists(ctx context.Context, userID, billID string) (bool, error)
	Create(ctx context.Context, bookmark *models.Bookmark) error
	Delete(ctx context.Context, userID, billID string) (bool, error)
}

type billFinder interface {
	FindByID(ctx context.Context, id string) (*models.Bill, error)
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// BookmarkService manages each user's tracked-bill list.
type BookmarkService struct {
	repo   bookmarkRepository
	bills  billFinder
	audit  auditRecorder
	logger *zap.Logger
}

// NewBookmarkService constructs the service.
func NewBookmarkService(repo bookmarkRepository, bills billFinder, audit auditRecorder, logger *zap.Logger) *BookmarkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookmarkService{repo: repo, bills: bills, audit: audit, logger: logger}
}

// List returns the user's bookmarks with bill metadata.
func (s *BookmarkService) List(ctx context.Context, userID string) ([]models.BookmarkedBill, error) {
	bookmarks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookmarks")
	}
	return bookmarks, nil
}

// Add bookmarks a bill for the user. Adding an already-bookmarked bill
// is a conflict rather than a silent no-op.
func (s *BookmarkService) Add(ctx context.Context, userID, billID string) (*models.Bookmark, error) {
	if _, err := s.bills.FindByID(ctx, billID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "bill not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bill")
	}

	exists, err := s.repo.Exists(ctx, userID, billID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check bookmark")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "bill already bookmarked")
	}

	bookmark := &models.Bookmark{UserID: userID, BillID: billID}
	if err := s.repo.Create(ctx, bookmark); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create bookmark")
	}

	s.recordAudit(ctx, userID, billID, models.AuditActionBookmarkAdd)
	return bookmark, nil
}

// Remove deletes the user's bookmark for a bill.
func (s *BookmarkService) Remove(ctx context.Context, userID, billID string) error {
	deleted, err := s.repo.Delete(ctx, userID, billID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete bookmark")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "bookmark not found")
	}

	s.recordAudit(ctx, userID, billID, models.AuditActionBookmarkRemove)
	return nil
}

func (s *BookmarkService) recordAudit(ctx context.Context, userID, billID, action string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "bookmark",
		ResourceID: &billID,
	}); err != nil {
		s.logger.Warn("failed to record bookmark audit log", zap.Error(err))
	}
}
