package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/legiscal/legtrack-api/internal/dto"
	"github.com/legiscal/legtrack-api/internal/service"
	appErrors "github.com/legiscal/legtrack-api/pkg/errors"
	"github.com/legiscal/legtrack-api/pkg/response"
)

// BookmarkHandler exposes bookmark endpoints.
type BookmarkHandler struct {
	service *service.BookmarkService
}

// NewBookmarkHandler constructs handler.
func NewBookmarkHandler(svc *service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{service: svc}
}

// List godoc
// @Summary List the user's bookmarked bills
// @Tags Bookmarks
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /bookmarks [get]
func (h *BookmarkHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	bookmarks, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookmarks, nil)
}

// Create godoc
// @Summary Bookmark a bill
// @Tags Bookmarks
// @Accept json
// @Produce json
// @Param payload body dto.BookmarkRequest true "Bookmark payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /bookmarks [post]
func (h *BookmarkHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.BookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bookmark payload"))
		return
	}
	bookmark, err := h.service.Add(c.Request.Context(), claims.UserID, req.BillID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, bookmark)
}

// Delete godoc
// @Summary Remove a bookmark
// @Tags Bookmarks
// @Produce json
// @Param billId path string true "Bill ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /bookmarks/{billId} [delete]
func (h *BookmarkHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.Remove(c.Request.Context(), claims.UserID, c.Param("billId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
