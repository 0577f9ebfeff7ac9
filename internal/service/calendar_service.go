package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/legiscal/legtrack-api/internal/calendar"
	"github.com/legiscal/legtrack-api/internal/models"
	appErrors "github.com/legiscal/legtrack-api/pkg/errors"
)

type billEventStore interface {
	List(ctx context.Context, filter models.BillEventFilter) ([]models.BillEvent, error)
}

type bookmarkNumberStore interface {
	BillNumbersByUser(ctx context.Context, userID string) ([]string, error)
}

type deadlineSource interface {
	All() []models.LegislativeDeadline
}

// CalendarService produces the normalized event stream for the calendar
// widget: bill hearings annotated with status styling, derived letter
// deadlines, session-wide legislative dates, and the hearing room list.
type CalendarService struct {
	events    billEventStore
	bookmarks bookmarkNumberStore
	deadlines deadlineSource
	engine    *calendar.Engine
	cache     *CacheService
	logger    *zap.Logger
}

// NewCalendarService constructs the service.
func NewCalendarService(events billEventStore, bookmarks bookmarkNumberStore, deadlines deadlineSource, engine *calendar.Engine, cache *CacheService, logger *zap.Logger) *CalendarService {
	if engine == nil {
		engine = calendar.NewEngine(nil, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{
		events:    events,
		bookmarks: bookmarks,
		deadlines: deadlines,
		engine:    engine,
		cache:     cache,
		logger:    logger,
	}
}

// Events resolves a selection into the filtered, normalized event stream.
// Selections with both bills and an active bill filter ignore event
// types; selections with neither produce an empty stream.
func (s *CalendarService) Events(ctx context.Context, sel models.CalendarSelection) (*calendar.FilterResult, bool, error) {
	// An active bill filter disables event-type filtering, so drop the
	// types before the cache key is derived.
	if sel.BillFilterActive {
		sel.EventTypes = nil
	}

	key := s.cacheKey(sel)
	if s.cache.Enabled() {
		var cached calendar.FilterResult
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	raw, err := s.events.List(ctx, models.BillEventFilter{})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bill events")
	}

	var legislative []models.LegislativeDeadline
	if s.deadlines != nil {
		legislative = s.deadlines.All()
	}

	result := s.engine.Filter(raw, legislative, sel)
	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, key, result, 0); err != nil {
			s.logger.Sugar().Warnw("calendar cache write failed", "error", err)
		}
	}
	return &result, false, nil
}

// EventsForUser runs the bill filter against the user's bookmarked bills.
func (s *CalendarService) EventsForUser(ctx context.Context, userID string) (*calendar.FilterResult, bool, error) {
	if s.bookmarks == nil {
		return nil, false, appErrors.ErrInternal
	}
	numbers, err := s.bookmarks.BillNumbersByUser(ctx, userID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookmarks")
	}
	return s.Events(ctx, models.CalendarSelection{Bills: numbers, BillFilterActive: true})
}

// Resources lists the distinct hearing rooms seen across the event
// corpus, each with its stable single-letter id.
func (s *CalendarService) Resources(ctx context.Context) ([]models.CalendarResource, error) {
	raw, err := s.events.List(ctx, models.BillEventFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bill events")
	}
	resources, _ := calendar.ExtractResources(raw)
	return resources, nil
}

// InvalidateCache drops cached calendar payloads, called after sync runs.
func (s *CalendarService) InvalidateCache(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, "calendar:*"); err != nil {
		s.logger.Sugar().Warnw("calendar cache invalidation failed", "error", err)
	}
}

func (s *CalendarService) cacheKey(sel models.CalendarSelection) string {
	types := make([]string, 0, len(sel.EventTypes))
	for _, t := range sel.EventTypes {
		types = append(types, string(t))
	}
	sort.Strings(types)
	bills := append([]string(nil), sel.Bills...)
	sort.Strings(bills)

	payload := fmt.Sprintf("%s|%s|%t", strings.Join(types, ","), strings.Join(bills, ","), sel.BillFilterActive)
	sum := sha256.Sum256([]byte(payload))
	return "calendar:events:" + hex.EncodeToString(sum[:8])
}
