package models

import "time"

// ExportFormat enumerates supported export renderings.
type ExportFormat string

const (
	ExportFormatICS ExportFormat = "ics"
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportType enumerates export job kinds.
type ExportType string

const (
	ExportTypeCalendar ExportType = "CALENDAR"
	ExportTypeBills    ExportType = "BILLS"
)

// ExportJobStatus tracks job lifecycle.
type ExportJobStatus string

const (
	ExportJobQueued    ExportJobStatus = "QUEUED"
	ExportJobRunning   ExportJobStatus = "RUNNING"
	ExportJobCompleted ExportJobStatus = "COMPLETED"
	ExportJobFailed    ExportJobStatus = "FAILED"
)

// ExportJobParams captures the requested selection for an export.
type ExportJobParams struct {
	Format           ExportFormat        `json:"format"`
	EventTypes       []CalendarEventType `json:"event_types,omitempty"`
	Bills            []string            `json:"bills,omitempty"`
	BillFilterActive bool                `json:"bill_filter_active,omitempty"`
}

// ExportJob is a queued export request and its outcome.
type ExportJob struct {
	ID          string          `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"user_id"`
	Type        ExportType      `db:"type" json:"type"`
	Params      ExportJobParams `db:"-" json:"params"`
	RawParams   []byte          `db:"params" json:"-"`
	Status      ExportJobStatus `db:"status" json:"status"`
	FilePath    *string         `db:"file_path" json:"file_path,omitempty"`
	Error       *string         `db:"error" json:"error,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	CompletedAt *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
}
