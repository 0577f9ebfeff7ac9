package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/legiscal/legtrack-api/internal/dto"
	"github.com/legiscal/legtrack-api/internal/models"
	"github.com/legiscal/legtrack-api/internal/repository"
	"github.com/legiscal/legtrack-api/pkg/jobs"
)

type mockExportJobStore struct {
	jobs    map[string]*models.ExportJob
	updates []repository.UpdateExportJobParams
}

func (m *mockExportJobStore) Create(ctx context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = "job-1"
	}
	if m.jobs == nil {
		m.jobs = make(map[string]*models.ExportJob)
	}
	m.jobs[job.ID] = job
	return nil
}

func (m *mockExportJobStore) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, assert.AnError
	}
	copy := *job
	return &copy, nil
}

func (m *mockExportJobStore) Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error {
	m.updates = append(m.updates, params)
	job := m.jobs[id]
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.FilePath != nil {
		job.FilePath = params.FilePath
	}
	if params.Error != nil {
		job.Error = params.Error
	}
	return nil
}

func (m *mockExportJobStore) ListQueued(ctx context.Context, limit int) ([]models.ExportJob, error) {
	out := make([]models.ExportJob, 0)
	for _, job := range m.jobs {
		if job.Status == models.ExportJobQueued {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (m *mockExportJobStore) ListCompletedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error) {
	return nil, nil
}

type mockDispatcher struct {
	enqueued []jobs.Job
	err      error
}

func (m *mockDispatcher) Enqueue(job jobs.Job) error {
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, job)
	return nil
}

type mockGenerator struct {
	result *ExportResult
	err    error
}

func (m *mockGenerator) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func TestExportJobServiceCreateJob(t *testing.T) {
	store := &mockExportJobStore{}
	queue := &mockDispatcher{}
	svc := NewExportJobService(store, queue, nil, zap.NewNop(), ExportJobConfig{})

	resp, err := svc.CreateJob(context.Background(), dto.ExportRequest{
		Type:   models.ExportTypeCalendar,
		Format: models.ExportFormatICS,
	}, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.ExportJobQueued, resp.Status)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, resp.ID, queue.enqueued[0].ID)
}

func TestExportJobServiceCreateJobEnqueueFailure(t *testing.T) {
	store := &mockExportJobStore{}
	queue := &mockDispatcher{err: assert.AnError}
	svc := NewExportJobService(store, queue, nil, zap.NewNop(), ExportJobConfig{})

	_, err := svc.CreateJob(context.Background(), dto.ExportRequest{
		Type:   models.ExportTypeCalendar,
		Format: models.ExportFormatCSV,
	}, "u1")
	require.Error(t, err)

	for _, job := range store.jobs {
		assert.Equal(t, models.ExportJobFailed, job.Status)
	}
}

func TestExportJobServiceValidation(t *testing.T) {
	svc := NewExportJobService(&mockExportJobStore{}, &mockDispatcher{}, nil, zap.NewNop(), ExportJobConfig{})

	tests := []struct {
		name string
		req  dto.ExportRequest
	}{
		{
			name: "unknown type",
			req:  dto.ExportRequest{Type: "REPORTS", Format: models.ExportFormatCSV},
		},
		{
			name: "ics for bills",
			req:  dto.ExportRequest{Type: models.ExportTypeBills, Format: models.ExportFormatICS},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateJob(context.Background(), tt.req, "u1")
			assert.Error(t, err)
		})
	}
}

func TestExportWorkerHandleSuccess(t *testing.T) {
	store := &mockExportJobStore{jobs: map[string]*models.ExportJob{
		"job-1": {ID: "job-1", Type: models.ExportTypeCalendar, Status: models.ExportJobQueued},
	}}
	gen := &mockGenerator{result: &ExportResult{URL: "/api/v1/exports/download/tok"}}
	worker := NewExportWorker(store, gen, 3, zap.NewNop())

	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1"}))
	assert.Equal(t, models.ExportJobCompleted, store.jobs["job-1"].Status)
	require.NotNil(t, store.jobs["job-1"].FilePath)
	assert.Equal(t, "/api/v1/exports/download/tok", *store.jobs["job-1"].FilePath)
}

func TestExportWorkerHandleRetriesThenFails(t *testing.T) {
	store := &mockExportJobStore{jobs: map[string]*models.ExportJob{
		"job-1": {ID: "job-1", Type: models.ExportTypeCalendar, Status: models.ExportJobQueued},
	}}
	gen := &mockGenerator{err: assert.AnError}
	worker := NewExportWorker(store, gen, 2, zap.NewNop())

	// Below the retry ceiling the job goes back to queued.
	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 0}))
	assert.Equal(t, models.ExportJobQueued, store.jobs["job-1"].Status)

	// At the ceiling it is marked failed.
	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 2}))
	assert.Equal(t, models.ExportJobFailed, store.jobs["job-1"].Status)
}
