package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/legiscal/legtrack-api/internal/models"
)

type mockBookmarkRepo struct {
	bookmarks map[string]bool
	listed    []models.BookmarkedBill
}

func bookmarkKey(userID, billID string) string { return userID + "/" + billID }

func (m *mockBookmarkRepo) ListByUser(ctx context.Context, userID string) ([]models.BookmarkedBill, error) {
	return m.listed, nil
}

func (m *mockBookmarkRepo) Exists(ctx context.Context, userID, billID string) (bool, error) {
	return m.bookmarks[bookmarkKey(userID, billID)], nil
}

func (m *mockBookmarkRepo) Create(ctx context.Context, bookmark *models.Bookmark) error {
	if m.bookmarks == nil {
		m.bookmarks = make(map[string]bool)
	}
	m.bookmarks[bookmarkKey(bookmark.UserID, bookmark.BillID)] = true
	return nil
}

func (m *mockBookmarkRepo) Delete(ctx context.Context, userID, billID string) (bool, error) {
	key := bookmarkKey(userID, billID)
	if !m.bookmarks[key] {
		return false, nil
	}
	delete(m.bookmarks, key)
	return true, nil
}

type mockBillFinder struct {
	bills map[string]*models.Bill
}

func (m *mockBillFinder) FindByID(ctx context.Context, id string) (*models.Bill, error) {
	if bill, ok := m.bills[id]; ok {
		return bill, nil
	}
	return nil, sql.ErrNoRows
}

type mockAudit struct {
	logs []*models.AuditLog
}

func (m *mockAudit) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func TestBookmarkServiceAdd(t *testing.T) {
	repo := &mockBookmarkRepo{}
	bills := &mockBillFinder{bills: map[string]*models.Bill{"b1": {ID: "b1", Number: "AB 123"}}}
	audit := &mockAudit{}
	svc := NewBookmarkService(repo, bills, audit, zap.NewNop())

	bookmark, err := svc.Add(context.Background(), "u1", "b1")
	require.NoError(t, err)
	assert.Equal(t, "u1", bookmark.UserID)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionBookmarkAdd, audit.logs[0].Action)
}

func TestBookmarkServiceAddDuplicate(t *testing.T) {
	repo := &mockBookmarkRepo{bookmarks: map[string]bool{"u1/b1": true}}
	bills := &mockBillFinder{bills: map[string]*models.Bill{"b1": {ID: "b1"}}}
	svc := NewBookmarkService(repo, bills, nil, zap.NewNop())

	_, err := svc.Add(context.Background(), "u1", "b1")
	assert.Error(t, err)
}

func TestBookmarkServiceAddMissingBill(t *testing.T) {
	svc := NewBookmarkService(&mockBookmarkRepo{}, &mockBillFinder{}, nil, zap.NewNop())

	_, err := svc.Add(context.Background(), "u1", "absent")
	assert.Error(t, err)
}

func TestBookmarkServiceRemove(t *testing.T) {
	repo := &mockBookmarkRepo{bookmarks: map[string]bool{"u1/b1": true}}
	audit := &mockAudit{}
	svc := NewBookmarkService(repo, &mockBillFinder{}, audit, zap.NewNop())

	require.NoError(t, svc.Remove(context.Background(), "u1", "b1"))
	assert.Empty(t, repo.bookmarks)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionBookmarkRemove, audit.logs[0].Action)
}

func TestBookmarkServiceRemoveMissing(t *testing.T) {
	svc := NewBookmarkService(&mockBookmarkRepo{}, &mockBillFinder{}, nil, zap.NewNop())
	assert.Error(t, svc.Remove(context.Background(), "u1", "b1"))
}
