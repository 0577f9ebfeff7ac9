package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/legiscal/legtrack-api/internal/models"
	appErrors "github.com/legiscal/legtrack-api/pkg/errors"
)

type billRepository interface {
	List(ctx context.Context, filter models.BillFilter) ([]models.Bill, int, error)
	FindByID(ctx context.Context, id string) (*models.Bill, error)
	FindByNumber(ctx context.Context, number string) (*models.Bill, error)
}

type billTagger interface {
	Tag(text string) []string
}

// BillService serves tracked bill lookups, enriching results with topic
// labels derived from the bill name and summary.
type BillService struct {
	repo   billRepository
	tagger billTagger
	logger *zap.Logger
}

// NewBillService constructs the service. A nil tagger disables topic
// enrichment.
func NewBillService(repo billRepository, tagger billTagger, logger *zap.Logger) *BillService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillService{repo: repo, tagger: tagger, logger: logger}
}

// List returns bills matching the filter together with the total count.
func (s *BillService) List(ctx context.Context, filter models.BillFilter) ([]models.Bill, int, error) {
	bills, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bills")
	}
	for i := range bills {
		s.enrich(&bills[i])
	}
	return bills, total, nil
}

// Get fetches one bill by ID.
func (s *BillService) Get(ctx context.Context, id string) (*models.Bill, error) {
	bill, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "bill not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bill")
	}
	s.enrich(bill)
	return bill, nil
}

// GetByNumber fetches one bill by display number.
func (s *BillService) GetByNumber(ctx context.Context, number string) (*models.Bill, error) {
	bill, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "bill not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bill")
	}
	s.enrich(bill)
	return bill, nil
}

func (s *BillService) enrich(bill *models.Bill) {
	if s.tagger == nil || bill == nil {
		return
	}
	text := bill.Name
	if bill.Summary != nil {
		text += " " + *bill.Summary
	}
	bill.Topics = s.tagger.Tag(text)
}
