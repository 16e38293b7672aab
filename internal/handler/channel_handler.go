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

// ChannelHandler exposes institution channel endpoints.
type ChannelHandler struct {
	channels *service.ChannelService
}

// NewChannelHandler constructs ChannelHandler.
func NewChannelHandler(channels *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channels: channels}
}

// List godoc
// @Summary List institution channels
// @Tags KanalInstansi
// @Produce json
// @Param search query string false "Search by name"
// @Param is_verified query bool false "Filter verified channels"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /kanal-instansi [get]
func (h *ChannelHandler) List(c *gin.Context) {
	var filter models.ChannelFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	if raw := c.Query("is_verified"); raw == "true" || raw == "false" {
		v := raw == "true"
		filter.IsVerified = &v
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil {
		filter.Limit = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	channels, pagination, err := h.channels.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, channels, pagination)
}

// Get godoc
// @Summary Get a channel by ID
// @Tags KanalInstansi
// @Produce json
// @Param id path int true "Channel ID"
// @Success 200 {object} response.Envelope
// @Router /kanal-instansi/{id} [get]
func (h *ChannelHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid channel ID"))
		return
	}
	channel, err := h.channels.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, channel, nil)
}

// GetBySlug godoc
// @Summary Get a channel by slug
// @Tags KanalInstansi
// @Produce json
// @Param slug path string true "Channel slug"
// @Success 200 {object} response.Envelope
// @Router /kanal-instansi/slug/{slug} [get]
func (h *ChannelHandler) GetBySlug(c *gin.Context) {
	channel, err := h.channels.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, channel, nil)
}

// Create godoc
// @Summary Create an institution channel
// @Tags KanalInstansi
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.ChannelRequest true "Channel payload"
// @Success 201 {object} response.Envelope
// @Router /kanal-instansi [post]
func (h *ChannelHandler) Create(c *gin.Context) {
	var req service.ChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	channel, err := h.channels.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, channel)
}

// Update godoc
// @Summary Update an institution channel
// @Tags KanalInstansi
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Channel ID"
// @Param payload body service.ChannelRequest true "Channel payload"
// @Success 200 {object} response.Envelope
// @Router /kanal-instansi/{id} [put]
func (h *ChannelHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid channel ID"))
		return
	}
	var req service.ChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	channel, err := h.channels.Update(c.Request.Context(), actorFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, channel, nil)
}

// Delete godoc
// @Summary Delete a channel with no attributed articles
// @Tags KanalInstansi
// @Security BearerAuth
// @Param id path int true "Channel ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /kanal-instansi/{id} [delete]
func (h *ChannelHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid channel ID"))
		return
	}
	if err := h.channels.Delete(c.Request.Context(), actorFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
