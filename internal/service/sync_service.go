package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/legiscal/legtrack-api/internal/models"
)

type billUpserter interface {
	Upsert(ctx context.Context, bill *models.Bill) error
}

type eventReplacer interface {
	ReplaceForBill(ctx context.Context, billID string, events []models.BillEvent) error
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type refdataReloader interface {
	Reload() error
}

type cacheDropper interface {
	InvalidateCache(ctx context.Context)
}

// feedBill mirrors the upstream JSON feed shape: one record per bill
// with its schedule rows inlined.
type feedBill struct {
	ID         string     `json:"id"`
	Number     string     `json:"bill_number"`
	Name       string     `json:"bill_name"`
	Status     string     `json:"status"`
	ChamberID  int        `json:"chamber_id"`
	Summary    *string    `json:"summary"`
	Author     *string    `json:"author"`
	LastAction *time.Time `json:"last_action"`
	Events     []struct {
		EventDate   string   `json:"event_date"`
		EventText   *string  `json:"event_text"`
		AgendaOrder *float64 `json:"agenda_order"`
		EventTime   *string  `json:"event_time"`
		Location    *string  `json:"event_location"`
		Room        *string  `json:"event_room"`
		Revised     bool     `json:"revised"`
		EventStatus string   `json:"event_status"`
	} `json:"events"`
}

// SyncServiceConfig tunes the upstream feed sync.
type SyncServiceConfig struct {
	FeedURL       string
	Timeout       time.Duration
	RetentionDays int
}

// SyncService pulls the upstream bill feed into local storage and keeps
// reference data fresh. It runs on the cron scheduler, never in the
// request path.
type SyncService struct {
	bills    billUpserter
	events   eventReplacer
	refdata  refdataReloader
	calendar cacheDropper
	client   *http.Client
	logger   *zap.Logger
	cfg      SyncServiceConfig
}

// NewSyncService constructs the service.
func NewSyncService(bills billUpserter, events eventReplacer, refdata refdataReloader, calendarSvc cacheDropper, logger *zap.Logger, cfg SyncServiceConfig) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 90
	}
	return &SyncService{
		bills:    bills,
		events:   events,
		refdata:  refdata,
		calendar: calendarSvc,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
		cfg:      cfg,
	}
}

// SyncFeed fetches the upstream feed and upserts bills and their
// schedules. A failure on one bill logs and continues; the run only
// errors when the feed itself cannot be fetched.
func (s *SyncService) SyncFeed(ctx context.Context) error {
	if s.cfg.FeedURL == "" {
		s.logger.Debug("feed sync skipped, no feed url configured")
		return nil
	}

	feed, err := s.fetchFeed(ctx)
	if err != nil {
		return err
	}

	synced := 0
	for _, fb := range feed {
		if err := s.syncBill(ctx, fb); err != nil {
			s.logger.Warn("bill sync failed", zap.String("bill", fb.Number), zap.Error(err))
			continue
		}
		synced++
	}

	if s.calendar != nil {
		s.calendar.InvalidateCache(ctx)
	}
	s.logger.Info("feed sync complete", zap.Int("bills", synced), zap.Int("total", len(feed)))
	return nil
}

// CleanupStale drops schedule rows older than the retention window.
func (s *SyncService) CleanupStale(ctx context.Context) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.RetentionDays)
	n, err := s.events.DeleteBefore(ctx, cutoff)
	if err != nil {
		s.logger.Warn("stale event cleanup failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("stale events removed", zap.Int64("count", n))
	}
}

// ReloadRefdata re-reads the legislative deadline file.
func (s *SyncService) ReloadRefdata(ctx context.Context) {
	if s.refdata == nil {
		return
	}
	if err := s.refdata.Reload(); err != nil {
		s.logger.Warn("refdata reload failed", zap.Error(err))
		return
	}
	if s.calendar != nil {
		s.calendar.InvalidateCache(ctx)
	}
}

func (s *SyncService) fetchFeed(ctx context.Context) ([]feedBill, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.FeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var feed []feedBill
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return feed, nil
}

func (s *SyncService) syncBill(ctx context.Context, fb feedBill) error {
	bill := &models.Bill{
		UpstreamID: fb.ID,
		Number:     fb.Number,
		Name:       fb.Name,
		Status:     fb.Status,
		ChamberID:  models.Chamber(fb.ChamberID),
		Summary:    fb.Summary,
		Author:     fb.Author,
		LastAction: fb.LastAction,
	}
	if err := s.bills.Upsert(ctx, bill); err != nil {
		return err
	}

	events := make([]models.BillEvent, 0, len(fb.Events))
	for _, fe := range fb.Events {
		status := models.EventStatus(fe.EventStatus)
		if status == "" {
			status = models.EventStatusActive
		}
		events = append(events, models.BillEvent{
			BillID:      bill.ID,
			EventDate:   fe.EventDate,
			EventText:   fe.EventText,
			AgendaOrder: fe.AgendaOrder,
			EventTime:   fe.EventTime,
			Location:    fe.Location,
			Room:        fe.Room,
			Revised:     fe.Revised,
			EventStatus: status,
		})
	}
	return s.events.ReplaceForBill(ctx, bill.ID, events)
}
