package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/portal-berita-api/internal/models"
	"github.com/noah-isme/portal-berita-api/internal/service"
	appErrors "github.com/noah-isme/portal-berita-api/pkg/errors"
	"github.com/noah-isme/portal-berita-api/pkg/response"
)

// BookmarkHandler exposes saved-article endpoints.
type BookmarkHandler struct {
	bookmarks *service.BookmarkService
}

// NewBookmarkHandler constructs BookmarkHandler.
func NewBookmarkHandler(bookmarks *service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks}
}

// List godoc
// @Summary List the authenticated user's bookmarks
// @Tags Bookmark
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by article title"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /bookmarks [get]
func (h *BookmarkHandler) List(c *gin.Context) {
	var filter models.BookmarkFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil {
		filter.Limit = limit
	}
	filter.SortOrder = c.Query("order")

	bookmarks, pagination, err := h.bookmarks.List(c.Request.Context(), actorFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookmarks, pagination)
}

// Create godoc
// @Summary Bookmark a published article
// @Tags Bookmark
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateBookmarkRequest true "Bookmark payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /bookmarks [post]
func (h *BookmarkHandler) Create(c *gin.Context) {
	var req service.CreateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	bookmark, err := h.bookmarks.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, bookmark)
}

// Delete godoc
// @Summary Remove a bookmark
// @Tags Bookmark
// @Security BearerAuth
// @Param id path int true "Bookmark ID"
// @Success 204
// @Router /bookmarks/{id} [delete]
func (h *BookmarkHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid bookmark ID"))
		return
	}
	if err := h.bookmarks.Delete(c.Request.Context(), actorFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteByArticle godoc
// @Summary Remove the bookmark of a given article
// @Tags Bookmark
// @Security BearerAuth
// @Param beritaId path int true "Article ID"
// @Success 204
// @Router /bookmarks/berita/{beritaId} [delete]
func (h *BookmarkHandler) DeleteByArticle(c *gin.Context) {
	articleID, ok := articleIDParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid article ID"))
		return
	}
	if err := h.bookmarks.DeleteByArticle(c.Request.Context(), actorFromContext(c), articleID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Exists godoc
// @Summary Check whether an article is bookmarked
// @Tags Bookmark
// @Produce json
// @Security BearerAuth
// @Param beritaId path int true "Article ID"
// @Success 200 {object} response.Envelope
// @Router /bookmarks/berita/{beritaId} [get]
func (h *BookmarkHandler) Exists(c *gin.Context) {
	articleID, ok := articleIDParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid article ID"))
		return
	}
	exists, err := h.bookmarks.Exists(c.Request.Context(), actorFromContext(c), articleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"bookmarked": exists}, nil)
}
