package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/legiscal/legtrack-api/internal/models"
	"github.com/legiscal/legtrack-api/internal/service"
	appErrors "github.com/legiscal/legtrack-api/pkg/errors"
	"github.com/legiscal/legtrack-api/pkg/response"
)

// BillHandler exposes tracked bill endpoints.
type BillHandler struct {
	service *service.BillService
}

// NewBillHandler constructs handler.
func NewBillHandler(svc *service.BillService) *BillHandler {
	return &BillHandler{service: svc}
}

// List godoc
// @Summary List tracked bills
// @Tags Bills
// @Produce json
// @Param chamber query int false "Chamber (1=Assembly, 2=Senate)"
// @Param status query string false "Bill status"
// @Param search query string false "Search bill number or name"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /bills [get]
func (h *BillHandler) List(c *gin.Context) {
	filter := models.BillFilter{
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if raw := c.Query("chamber"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "chamber must be numeric"))
			return
		}
		chamber := models.Chamber(n)
		filter.Chamber = &chamber
	}
	if raw := c.Query("numbers"); raw != "" {
		for _, n := range strings.Split(raw, ",") {
			if n = strings.TrimSpace(n); n != "" {
				filter.Numbers = append(filter.Numbers, n)
			}
		}
	}

	bills, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, bills, &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	})
}

// Get godoc
// @Summary Get one bill
// @Tags Bills
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /bills/{id} [get]
func (h *BillHandler) Get(c *gin.Context) {
	bill, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bill, nil)
}

// GetByNumber godoc
// @Summary Get one bill by display number
// @Tags Bills
// @Produce json
// @Param number path string true "Bill number, e.g. AB 123"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /bills/number/{number} [get]
func (h *BillHandler) GetByNumber(c *gin.Context) {
	bill, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bill, nil)
}
