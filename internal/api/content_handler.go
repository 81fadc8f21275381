package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/models"
	"github.com/seo-dashboard-api/internal/service"
)

// ContentHandler handles editorial content endpoints
type ContentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(services *service.Services, log zerolog.Logger) *ContentHandler {
	return &ContentHandler{
		services: services,
		log:      log.With().Str("handler", "content").Logger(),
	}
}

// List handles GET /api/editorial-content[?siteId=]
func (h *ContentHandler) List(c *gin.Context) {
	var filter models.ContentFilter
	if raw := c.Query("siteId"); raw != "" {
		siteID, err := strconv.Atoi(raw)
		if err != nil || siteID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "siteId must be a positive integer"})
			return
		}
		filter.SiteID = siteID
	}
	filter.DateFrom = c.Query("from")
	filter.DateTo = c.Query("to")

	items, err := h.services.Content.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "failed to list editorial content", "")
		return
	}
	c.JSON(http.StatusOK, items)
}

// ListByDate handles GET /api/editorial-content/date/:date[?siteId=]
func (h *ContentHandler) ListByDate(c *gin.Context) {
	date := c.Param("date")
	filter := models.ContentFilter{DateFrom: date, DateTo: date}
	if raw := c.Query("siteId"); raw != "" {
		siteID, err := strconv.Atoi(raw)
		if err != nil || siteID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "siteId must be a positive integer"})
			return
		}
		filter.SiteID = siteID
	}

	items, err := h.services.Content.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "failed to list editorial content", "")
		return
	}
	c.JSON(http.StatusOK, items)
}

// Create handles POST /api/editorial-content
func (h *ContentHandler) Create(c *gin.Context) {
	var req models.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.services.Content.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "failed to create editorial content", "")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update handles PUT /api/editorial-content/:id
func (h *ContentHandler) Update(c *gin.Context) {
	var req models.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.services.Content.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "failed to update editorial content", "")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /api/editorial-content/:id
func (h *ContentHandler) Delete(c *gin.Context) {
	if err := h.services.Content.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "failed to delete editorial content", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// BulkUpdateStatus handles PUT /api/editorial-content/bulk-update. The
// response reports how many of the requested items were actually updated;
// reconciling "requested N, updated M" is the caller's job.
func (h *ContentHandler) BulkUpdateStatus(c *gin.Context) {
	var req models.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.services.Content.BulkUpdateStatus(c.Request.Context(), req.IDs, req.Status)
	if err != nil {
		respondError(c, err, "bulk status update failed", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"updated": len(updated),
		"message": fmt.Sprintf("%d of %d items updated to %q", len(updated), len(req.IDs), req.Status),
	})
}
