package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/portal-berita-api/internal/models"
	"github.com/noah-isme/portal-berita-api/internal/service"
	appErrors "github.com/noah-isme/portal-berita-api/pkg/errors"
	"github.com/noah-isme/portal-berita-api/pkg/response"
)

// CommentHandler exposes comment endpoints.
type CommentHandler struct {
	comments *service.CommentService
}

// NewCommentHandler constructs CommentHandler.
func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func articleIDParam(c *gin.Context) (int64, bool) {
	raw := c.Param("beritaId")
	if raw == "" {
		raw = c.Param("id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ListByArticle godoc
// @Summary List comments on an article
// @Tags Komentar
// @Produce json
// @Param beritaId path int true "Article ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /berita/{beritaId}/komentar [get]
func (h *CommentHandler) ListByArticle(c *gin.Context) {
	articleID, ok := articleIDParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid article ID"))
		return
	}
	var filter models.CommentFilter
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil {
		filter.Limit = limit
	}
	filter.SortOrder = c.Query("order")

	comments, pagination, err := h.comments.ListByArticle(c.Request.Context(), actorFromContext(c), articleID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, comments, pagination)
}

// Create godoc
// @Summary Comment on a published article
// @Tags Komentar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param beritaId path int true "Article ID"
// @Param payload body service.CreateCommentRequest true "Comment payload"
// @Success 201 {object} response.Envelope
// @Router /berita/{beritaId}/komentar [post]
func (h *CommentHandler) Create(c *gin.Context) {
	articleID, ok := articleIDParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid article ID"))
		return
	}
	var req service.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	comment, err := h.comments.Create(c.Request.Context(), actorFromContext(c), articleID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}

// Update godoc
// @Summary Edit a comment or its moderation flags
// @Tags Komentar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param payload body service.UpdateCommentRequest true "Comment payload"
// @Success 200 {object} response.Envelope
// @Router /komentar/{id} [put]
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid comment ID"))
		return
	}
	var req service.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	comment, err := h.comments.Update(c.Request.Context(), actorFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, comment, nil)
}

// Report godoc
// @Summary Report a comment for moderation
// @Tags Komentar
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 204
// @Router /komentar/{id}/report [post]
func (h *CommentHandler) Report(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid comment ID"))
		return
	}
	if err := h.comments.Report(c.Request.Context(), actorFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete a comment and its replies
// @Tags Komentar
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 204
// @Router /komentar/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid comment ID"))
		return
	}
	if err := h.comments.Delete(c.Request.Context(), actorFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
