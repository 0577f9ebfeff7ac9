package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/legiscal/legtrack-api/internal/dto"
	"github.com/legiscal/legtrack-api/internal/service"
	appErrors "github.com/legiscal/legtrack-api/pkg/errors"
	"github.com/legiscal/legtrack-api/pkg/response"
)

// AnnotationHandler exposes per-bill note endpoints.
type AnnotationHandler struct {
	service *service.AnnotationService
}

// NewAnnotationHandler constructs handler.
func NewAnnotationHandler(svc *service.AnnotationService) *AnnotationHandler {
	return &AnnotationHandler{service: svc}
}

// ListForBill godoc
// @Summary List the user's notes on a bill
// @Tags Annotations
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /bills/{id}/annotations [get]
func (h *AnnotationHandler) ListForBill(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	annotations, err := h.service.List(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, annotations, nil)
}

// Create godoc
// @Summary Add a note to a bill
// @Tags Annotations
// @Accept json
// @Produce json
// @Param payload body dto.AnnotationRequest true "Annotation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /annotations [post]
func (h *AnnotationHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.AnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid annotation payload"))
		return
	}
	annotation, err := h.service.Create(c.Request.Context(), claims.UserID, req.BillID, req.Body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, annotation)
}

// Update godoc
// @Summary Rewrite a note
// @Tags Annotations
// @Accept json
// @Produce json
// @Param id path string true "Annotation ID"
// @Param payload body dto.AnnotationUpdateRequest true "Annotation payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /annotations/{id} [put]
func (h *AnnotationHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.AnnotationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid annotation payload"))
		return
	}
	annotation, err := h.service.Update(c.Request.Context(), claims.UserID, c.Param("id"), req.Body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, annotation, nil)
}

// Delete godoc
// @Summary Delete a note
// @Tags Annotations
// @Produce json
// @Param id path string true "Annotation ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /annotations/{id} [delete]
func (h *AnnotationHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
