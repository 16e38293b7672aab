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

// ArticleHandler exposes the news article endpoints.
type ArticleHandler struct {
	articles *service.ArticleService
	exports  *service.ExportService
}

// NewArticleHandler constructs ArticleHandler.
func NewArticleHandler(articles *service.ArticleService, exports *service.ExportService) *ArticleHandler {
	return &ArticleHandler{articles: articles, exports: exports}
}

func articleFilterFromQuery(c *gin.Context) models.ArticleFilter {
	var filter models.ArticleFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	if raw := c.Query("kategori_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.CategoryID = &id
		}
	}
	if raw := c.Query("kanal_instansi_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.ChannelID = &id
		}
	}
	if raw := c.Query("author_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.AuthorID = &id
		}
	}
	if raw := c.Query("status"); raw != "" {
		status := models.ArticleStatus(raw)
		if models.ValidStatus(status) {
			filter.Status = &status
		}
	}
	if raw := c.Query("is_featured"); raw == "true" || raw == "false" {
		v := raw == "true"
		filter.IsFeatured = &v
	}
	if raw := c.Query("is_breaking_news"); raw == "true" || raw == "false" {
		v := raw == "true"
		filter.IsBreakingNews = &v
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil {
		filter.Limit = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")
	return filter
}

// List godoc
// @Summary List news articles
// @Tags Berita
// @Produce json
// @Param search query string false "Search in title, content and summary"
// @Param kategori_id query int false "Filter by category"
// @Param kanal_instansi_id query int false "Filter by institution channel"
// @Param author_id query int false "Filter by author"
// @Param status query string false "Filter by status (editorial roles only)"
// @Param is_featured query bool false "Filter featured articles"
// @Param is_breaking_news query bool false "Filter breaking news"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /berita [get]
func (h *ArticleHandler) List(c *gin.Context) {
	articles, pagination, err := h.articles.List(c.Request.Context(), actorFromContext(c), articleFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, articles, pagination)
}

// ListOwn godoc
// @Summary List the authenticated user's articles in any status
// @Tags Berita
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /berita/my [get]
func (h *ArticleHandler) ListOwn(c *gin.Context) {
	articles, pagination, err := h.articles.ListOwn(c.Request.Context(), actorFromContext(c), articleFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, articles, pagination)
}

// Get godoc
// @Summary Get a news article by ID
// @Tags Berita
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /berita/{id} [get]
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid article ID"))
		return
	}
	article, err := h.articles.GetByID(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, article, nil)
}

// GetBySlug godoc
// @Summary Get a news article by slug
// @Tags Berita
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /berita/slug/{slug} [get]
func (h *ArticleHandler) GetBySlug(c *gin.Context) {
	article, err := h.articles.GetBySlug(c.Request.Context(), actorFromContext(c), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, article, nil)
}

// Create godoc
// @Summary Create a news article
// @Tags Berita
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateArticleRequest true "Article payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /berita [post]
func (h *ArticleHandler) Create(c *gin.Context) {
	var req service.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	article, err := h.articles.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, article)
}

// Update godoc
// @Summary Update a news article
// @Tags Berita
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Param payload body service.UpdateArticleRequest true "Partial article payload"
// @Success 200 {object} response.Envelope
// @Router /berita/{id} [put]
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid article ID"))
		return
	}
	var req service.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	article, err := h.articles.Update(c.Request.Context(), actorFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, article, nil)
}

// UpdateStatus godoc
// @Summary Change an article's workflow status
// @Tags Berita
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Param payload body service.ChangeStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /berita/{id}/status [patch]
func (h *ArticleHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid article ID"))
		return
	}
	var req service.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	article, err := h.articles.ChangeStatus(c.Request.Context(), actorFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, article, nil)
}

// Delete godoc
// @Summary Delete a news article
// @Tags Berita
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 204
// @Router /berita/{id} [delete]
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid article ID"))
		return
	}
	if err := h.articles.Delete(c.Request.Context(), actorFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Stats godoc
// @Summary Article statistics for the editorial dashboard
// @Tags Berita
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /berita/stats [get]
func (h *ArticleHandler) Stats(c *gin.Context) {
	stats, err := h.articles.Stats(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// ExportStats godoc
// @Summary Generate a PDF statistics report
// @Tags Berita
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Envelope
// @Router /berita/stats/export [post]
func (h *ArticleHandler) ExportStats(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "statistics export is not enabled"))
		return
	}
	result, err := h.exports.GenerateStats(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{
		"download_url": result.URL,
		"expires_at":   result.ExpiresAt,
	})
}

// DownloadStats godoc
// @Summary Download a generated statistics report
// @Tags Berita
// @Produce application/pdf
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Router /berita/stats/export/{token} [get]
func (h *ArticleHandler) DownloadStats(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "statistics export is not enabled"))
		return
	}
	file, err := h.exports.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available"))
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+info.Name())
	c.DataFromReader(http.StatusOK, info.Size(), "application/pdf", file, nil)
}
