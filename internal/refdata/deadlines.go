package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/legiscal/legtrack-api/internal/models"
)

// DeadlineStore serves the static session-wide legislative calendar. The
// dataset is tiny and changes once a year, so it is read fully into
// memory; Reload swaps the snapshot when the scheduler asks for it.
type DeadlineStore struct {
	path   string
	logger *zap.Logger

	mu        sync.RWMutex
	deadlines []models.LegislativeDeadline
}

// NewDeadlineStore loads the reference CSV immediately and fails fast on
// a missing or malformed file.
func NewDeadlineStore(path string, logger *zap.Logger) (*DeadlineStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DeadlineStore{path: path, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// All returns the current snapshot. Callers must not mutate it.
func (s *DeadlineStore) All() []models.LegislativeDeadline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deadlines
}

// Reload re-reads the reference file, replacing the snapshot on success
// and keeping the old one on failure.
func (s *DeadlineStore) Reload() error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open deadlines file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	deadlines, err := parseDeadlines(f)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.deadlines = deadlines
	s.mu.Unlock()
	s.logger.Info("legislative deadlines loaded", zap.Int("count", len(deadlines)), zap.String("path", s.path))
	return nil
}

// parseDeadlines reads the fixed title,start,end column set. A header row
// is detected by its literal "title" cell and skipped.
func parseDeadlines(r io.Reader) ([]models.LegislativeDeadline, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse deadlines csv: %w", err)
	}

	deadlines := make([]models.LegislativeDeadline, 0, len(records))
	for i, rec := range records {
		if i == 0 && rec[0] == "title" {
			continue
		}
		deadlines = append(deadlines, models.LegislativeDeadline{
			Title: rec[0],
			Start: rec[1],
			End:   rec[2],
		})
	}
	return deadlines, nil
}
