package dto

import "github.com/legiscal/legtrack-api/internal/models"

// ExportRequest captures POST /exports payload.
type ExportRequest struct {
	Type             models.ExportType          `json:"type"`
	Format           models.ExportFormat        `json:"format"`
	EventTypes       []models.CalendarEventType `json:"eventTypes,omitempty"`
	Bills            []string                   `json:"bills,omitempty"`
	BillFilterActive bool                       `json:"billFilterActive,omitempty"`
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID     string                 `json:"id"`
	Status models.ExportJobStatus `json:"status"`
}

// ExportStatusResponse exposes job state metadata.
type ExportStatusResponse struct {
	ID          string                 `json:"id"`
	Status      models.ExportJobStatus `json:"status"`
	DownloadURL *string                `json:"downloadUrl,omitempty"`
	Error       *string                `json:"error,omitempty"`
}
