package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/legiscal/legtrack-api/internal/calendar"
	"github.com/legiscal/legtrack-api/internal/models"
	"github.com/legiscal/legtrack-api/pkg/export"
	"github.com/legiscal/legtrack-api/pkg/storage"
)

type calendarEventSource interface {
	Events(ctx context.Context, sel models.CalendarSelection) (*calendar.FilterResult, bool, error)
}

type billLister interface {
	List(ctx context.Context, filter models.BillFilter) ([]models.Bill, int, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type icsRenderer interface {
	Render(events []models.NormalizedCalendarEvent) ([]byte, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService builds export payloads and persists rendered files.
type ExportService struct {
	calendar calendarEventSource
	bills    billLister
	storage  fileStorage
	ics      icsRenderer
	csv      csvRenderer
	pdf      pdfRenderer
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	cfg      ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(calendarSvc calendarEventSource, bills billLister, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		calendar: calendarSvc,
		bills:    bills,
		storage:  store,
		ics:      export.NewICSExporter(logger),
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		signer:   signer,
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate renders the job's payload and stores the resulting file.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}

	var payload []byte
	var err error
	switch job.Type {
	case models.ExportTypeCalendar:
		payload, err = s.renderCalendar(ctx, job.Params)
	case models.ExportTypeBills:
		payload, err = s.renderBills(ctx, job.Params)
	default:
		err = fmt.Errorf("unsupported export type %s", job.Type)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/exports/download/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// RenderICS renders a normalized event stream as an iCalendar payload,
// used by the synchronous calendar download endpoint.
func (s *ExportService) RenderICS(events []models.NormalizedCalendarEvent) ([]byte, error) {
	return s.ics.Render(events)
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) renderCalendar(ctx context.Context, params models.ExportJobParams) ([]byte, error) {
	result, _, err := s.calendar.Events(ctx, models.CalendarSelection{
		EventTypes:       params.EventTypes,
		Bills:            params.Bills,
		BillFilterActive: params.BillFilterActive,
	})
	if err != nil {
		return nil, err
	}

	switch params.Format {
	case models.ExportFormatICS:
		return s.ics.Render(result.Events)
	case models.ExportFormatCSV:
		return s.csv.Render(calendarDataset(result.Events))
	case models.ExportFormatPDF:
		return s.pdf.Render(calendarDataset(result.Events), "Legislative Calendar")
	default:
		return nil, fmt.Errorf("unsupported calendar export format %s", params.Format)
	}
}

func (s *ExportService) renderBills(ctx context.Context, params models.ExportJobParams) ([]byte, error) {
	bills, _, err := s.bills.List(ctx, models.BillFilter{Numbers: params.Bills, PageSize: 100})
	if err != nil {
		return nil, err
	}

	dataset := billDataset(bills)
	switch params.Format {
	case models.ExportFormatCSV:
		return s.csv.Render(dataset)
	case models.ExportFormatPDF:
		return s.pdf.Render(dataset, "Tracked Bills")
	default:
		return nil, fmt.Errorf("unsupported bills export format %s", params.Format)
	}
}

func calendarDataset(events []models.NormalizedCalendarEvent) export.Dataset {
	rows := make([]map[string]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, map[string]string{
			"Title":  ev.Title,
			"Start":  ev.Start,
			"End":    ev.End,
			"Type":   string(ev.Type),
			"Bill":   ev.BillNumber,
			"Status": ev.ClassName,
		})
	}
	return export.Dataset{
		Headers: []string{"Title", "Start", "End", "Type", "Bill", "Status"},
		Rows:    rows,
	}
}

func billDataset(bills []models.Bill) export.Dataset {
	rows := make([]map[string]string, 0, len(bills))
	for _, bill := range bills {
		rows = append(rows, map[string]string{
			"Number":      bill.Number,
			"Name":        bill.Name,
			"Chamber":     bill.ChamberID.String(),
			"Status":      bill.Status,
			"Author":      deref(bill.Author),
			"Last Action": formatExportTime(bill.LastAction),
		})
	}
	return export.Dataset{
		Headers: []string{"Number", "Name", "Chamber", "Status", "Author", "Last Action"},
		Rows:    rows,
	}
}

func (s *ExportService) buildFilename(job *models.ExportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	short := job.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), short, timestamp, job.Params.Format)
}

func deref(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func formatExportTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
