package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/legiscal/legtrack-api/internal/dto"
	"github.com/legiscal/legtrack-api/internal/middleware"
	"github.com/legiscal/legtrack-api/internal/models"
	"github.com/legiscal/legtrack-api/internal/service"
	appErrors "github.com/legiscal/legtrack-api/pkg/errors"
	"github.com/legiscal/legtrack-api/pkg/response"
)

// CalendarHandler exposes the filtered calendar event stream.
type CalendarHandler struct {
	service *service.CalendarService
	ics     *service.ExportService
}

// NewCalendarHandler constructs handler.
func NewCalendarHandler(svc *service.CalendarService, ics *service.ExportService) *CalendarHandler {
	return &CalendarHandler{service: svc, ics: ics}
}

// Events godoc
// @Summary Filtered calendar events
// @Description Returns normalized events for the selected event types, or for the selected bills when bill_filter=true
// @Tags Calendar
// @Produce json
// @Param types query string false "Comma-separated event types (Assembly,Senate,Legislative,Letter Deadline)"
// @Param bills query string false "Comma-separated bill numbers"
// @Param bill_filter query bool false "Enable bill filter mode"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calendar/events [get]
func (h *CalendarHandler) Events(c *gin.Context) {
	sel, err := parseSelection(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, cacheHit, err := h.service.Events(c.Request.Context(), sel)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, dto.CalendarEventsResponse{
		Events:      result.Events,
		InitialDate: result.InitialDate,
		Total:       result.Total,
		Warnings:    result.Anomalies,
	}, nil, middleware.ExtractMeta(c))
}

// MyEvents godoc
// @Summary Calendar events for the user's bookmarked bills
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /calendar/my-events [get]
func (h *CalendarHandler) MyEvents(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, cacheHit, err := h.service.EventsForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, dto.CalendarEventsResponse{
		Events:      result.Events,
		InitialDate: result.InitialDate,
		Total:       result.Total,
		Warnings:    result.Anomalies,
	}, nil, middleware.ExtractMeta(c))
}

// Resources godoc
// @Summary Hearing room resources
// @Description Lists the distinct hearing rooms referenced by current events
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /calendar/resources [get]
func (h *CalendarHandler) Resources(c *gin.Context) {
	resources, err := h.service.Resources(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.CalendarResourcesResponse{Resources: resources}, nil)
}

// ExportICS godoc
// @Summary Download the current selection as an iCalendar file
// @Tags Calendar
// @Produce plain
// @Param types query string false "Comma-separated event types"
// @Param bills query string false "Comma-separated bill numbers"
// @Param bill_filter query bool false "Enable bill filter mode"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /calendar/export.ics [get]
func (h *CalendarHandler) ExportICS(c *gin.Context) {
	sel, err := parseSelection(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, _, err := h.service.Events(c.Request.Context(), sel)
	if err != nil {
		response.Error(c, err)
		return
	}

	payload, err := h.ics.RenderICS(result.Events)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render calendar"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar", payload)
}

func parseSelection(c *gin.Context) (models.CalendarSelection, error) {
	sel := models.CalendarSelection{
		BillFilterActive: c.Query("bill_filter") == "true",
	}

	if raw := c.Query("bills"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				sel.Bills = append(sel.Bills, b)
			}
		}
	}

	if raw := c.Query("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			t = strings.TrimSpace(t)
			switch models.CalendarEventType(t) {
			case models.CalendarTypeAssembly, models.CalendarTypeSenate, models.CalendarTypeLegislative, models.CalendarTypeLetterDeadline:
				sel.EventTypes = append(sel.EventTypes, models.CalendarEventType(t))
			case "":
			default:
				return sel, appErrors.Clone(appErrors.ErrValidation, "unknown event type: "+t)
			}
		}
	}

	return sel, nil
}
