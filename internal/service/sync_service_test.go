package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/legiscal/legtrack-api/internal/models"
)

type mockBillUpserter struct {
	bills []*models.Bill
	err   error
}

func (m *mockBillUpserter) Upsert(_ context.Context, bill *models.Bill) error {
	if m.err != nil {
		return m.err
	}
	// Mirror the repository contract: on conflict the stored row's id wins,
	// so the caller always gets a populated id back.
	if bill.ID == "" {
		bill.ID = fmt.Sprintf("bill-%d", len(m.bills)+1)
	}
	m.bills = append(m.bills, bill)
	return nil
}

type mockEventReplacer struct {
	replaced map[string][]models.BillEvent
	deleted  int64
	cutoff   time.Time
}

func (m *mockEventReplacer) ReplaceForBill(_ context.Context, billID string, events []models.BillEvent) error {
	if m.replaced == nil {
		m.replaced = make(map[string][]models.BillEvent)
	}
	m.replaced[billID] = events
	return nil
}

func (m *mockEventReplacer) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.cutoff = cutoff
	return m.deleted, nil
}

type mockReloader struct {
	calls int
	err   error
}

func (m *mockReloader) Reload() error {
	m.calls++
	return m.err
}

type mockCacheDropper struct {
	invalidations int
}

func (m *mockCacheDropper) InvalidateCache(context.Context) {
	m.invalidations++
}

const syncFeedPayload = `[
  {
    "id": "upstream-1",
    "bill_number": "AB 123",
    "bill_name": "Housing Act",
    "status": "In Committee",
    "chamber_id": 1,
    "events": [
      {
        "event_date": "2025-03-14",
        "event_text": "Assembly Appropriations",
        "event_time": "9 a.m.",
        "event_location": "State Capitol",
        "event_room": "Room 4202",
        "event_status": ""
      }
    ]
  },
  {
    "id": "upstream-2",
    "bill_number": "SB 9",
    "bill_name": "Transit Act",
    "status": "Enrolled",
    "chamber_id": 2,
    "events": []
  }
]`

func TestSyncFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(syncFeedPayload))
	}))
	defer srv.Close()

	bills := &mockBillUpserter{}
	events := &mockEventReplacer{}
	dropper := &mockCacheDropper{}
	svc := NewSyncService(bills, events, &mockReloader{}, dropper, zap.NewNop(), SyncServiceConfig{
		FeedURL: srv.URL,
	})

	require.NoError(t, svc.SyncFeed(context.Background()))

	require.Len(t, bills.bills, 2)
	assert.Equal(t, "AB 123", bills.bills[0].Number)
	assert.Equal(t, models.ChamberSenate, bills.bills[1].ChamberID)

	replaced := events.replaced[bills.bills[0].ID]
	require.Len(t, replaced, 1)
	assert.Equal(t, "2025-03-14", replaced[0].EventDate)
	// Empty upstream status normalizes to active.
	assert.Equal(t, models.EventStatusActive, replaced[0].EventStatus)

	assert.Equal(t, 1, dropper.invalidations)
}

func TestSyncFeedSkipsWithoutURL(t *testing.T) {
	bills := &mockBillUpserter{}
	svc := NewSyncService(bills, &mockEventReplacer{}, nil, nil, zap.NewNop(), SyncServiceConfig{})

	require.NoError(t, svc.SyncFeed(context.Background()))
	assert.Empty(t, bills.bills)
}

func TestSyncFeedUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := NewSyncService(&mockBillUpserter{}, &mockEventReplacer{}, nil, nil, zap.NewNop(), SyncServiceConfig{
		FeedURL: srv.URL,
	})

	err := svc.SyncFeed(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCleanupStaleUsesRetentionWindow(t *testing.T) {
	events := &mockEventReplacer{deleted: 3}
	svc := NewSyncService(&mockBillUpserter{}, events, nil, nil, zap.NewNop(), SyncServiceConfig{
		RetentionDays: 30,
	})

	svc.CleanupStale(context.Background())

	expected := time.Now().UTC().AddDate(0, 0, -30)
	assert.WithinDuration(t, expected, events.cutoff, time.Minute)
}

func TestReloadRefdataInvalidatesCache(t *testing.T) {
	reloader := &mockReloader{}
	dropper := &mockCacheDropper{}
	svc := NewSyncService(&mockBillUpserter{}, &mockEventReplacer{}, reloader, dropper, zap.NewNop(), SyncServiceConfig{})

	svc.ReloadRefdata(context.Background())

	assert.Equal(t, 1, reloader.calls)
	assert.Equal(t, 1, dropper.invalidations)
}
