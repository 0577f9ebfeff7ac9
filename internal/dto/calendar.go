package dto

import "github.com/legiscal/legtrack-api/internal/models"

// CalendarEventsResponse wraps the filtered event stream together with
// the date the widget should open on.
type CalendarEventsResponse struct {
	Events      []models.NormalizedCalendarEvent `json:"events"`
	InitialDate string                           `json:"initialDate"`
	Total       int                              `json:"total"`
	Warnings    []string                         `json:"warnings,omitempty"`
}

// CalendarResourcesResponse lists the hearing rooms referenced by the
// current event corpus.
type CalendarResourcesResponse struct {
	Resources []models.CalendarResource `json:"resources"`
}
