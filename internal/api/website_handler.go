package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/config"
	"github.com/seo-dashboard-api/internal/models"
	"github.com/seo-dashboard-api/internal/service"
)

// WebsiteHandler handles website and analysis endpoints
type WebsiteHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewWebsiteHandler creates a new WebsiteHandler
func NewWebsiteHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *WebsiteHandler {
	return &WebsiteHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "websites").Logger(),
	}
}

func (h *WebsiteHandler) siteID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "site id must be a positive integer"})
		return 0, false
	}
	return id, true
}

// List handles GET /api/websites and GET /api/sites-airtable
func (h *WebsiteHandler) List(c *gin.Context) {
	sites, err := h.services.Site.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list websites", h.cfg.Webhook.URL)
		return
	}
	c.JSON(http.StatusOK, sites)
}

// Get handles GET /api/websites/:id
func (h *WebsiteHandler) Get(c *gin.Context) {
	id, ok := h.siteID(c)
	if !ok {
		return
	}
	site, err := h.services.Site.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to get website", h.cfg.Webhook.URL)
		return
	}
	c.JSON(http.StatusOK, site)
}

// Create handles POST /api/websites. The initial analysis fetch is
// best-effort inside the service: a webhook failure still yields 201 with
// the created site.
func (h *WebsiteHandler) Create(c *gin.Context) {
	var req models.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	site, err := h.services.Site.Create(c.Request.Context(), req.Name, req.URL)
	if err != nil {
		respondError(c, err, "failed to create website", h.cfg.Webhook.URL)
		return
	}

	h.log.Info().Int("site_id", site.ID).Str("url", site.URL).
		Bool("with_analysis", site.Analysis != nil).Msg("Website created")
	c.JSON(http.StatusCreated, site)
}

// Delete handles DELETE /api/websites/:id and /api/sites-airtable/:id
func (h *WebsiteHandler) Delete(c *gin.Context) {
	id, ok := h.siteID(c)
	if !ok {
		return
	}
	if err := h.services.Site.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete website", h.cfg.Webhook.URL)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// GetAnalysis handles GET /api/websites/:id/seo-analysis
func (h *WebsiteHandler) GetAnalysis(c *gin.Context) {
	id, ok := h.siteID(c)
	if !ok {
		return
	}
	analysis, err := h.services.Site.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to get analysis", h.cfg.Webhook.URL)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// PutAnalysis handles POST/PUT /api/websites/:id/seo-analysis: stores a
// caller-provided analysis verbatim, replacing any existing one.
func (h *WebsiteHandler) PutAnalysis(c *gin.Context) {
	id, ok := h.siteID(c)
	if !ok {
		return
	}

	var analysis models.SEOAnalysis
	if err := c.ShouldBindJSON(&analysis); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Site.SaveAnalysis(c.Request.Context(), id, &analysis); err != nil {
		respondError(c, err, "failed to save analysis", h.cfg.Webhook.URL)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// Refresh handles POST /api/websites/:id/analyze and
// /api/websites/:id/refresh-analysis: a fresh webhook round-trip whose
// result replaces the stored analysis.
func (h *WebsiteHandler) Refresh(c *gin.Context) {
	id, ok := h.siteID(c)
	if !ok {
		return
	}

	analysis, err := h.services.Site.RefreshAnalysis(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to refresh analysis", h.cfg.Webhook.URL)
		return
	}

	h.log.Info().Int("site_id", id).Int("score", analysis.Score).Msg("Analysis refreshed")
	c.JSON(http.StatusOK, analysis)
}

// UpdateSocialProgram handles PUT /api/sites-airtable/:id/social-program
func (h *WebsiteHandler) UpdateSocialProgram(c *gin.Context) {
	id, ok := h.siteID(c)
	if !ok {
		return
	}

	var doc json.RawMessage
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON document"})
		return
	}

	if err := h.services.Site.UpdateSocialProgram(c.Request.Context(), id, doc); err != nil {
		respondError(c, err, "failed to update social program", h.cfg.Webhook.URL)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// GetSocialParams handles GET /api/sites-airtable/:id/social-params
func (h *WebsiteHandler) GetSocialParams(c *gin.Context) {
	id, ok := h.siteID(c)
	if !ok {
		return
	}
	doc, err := h.services.Site.GetSocialCredentials(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to get social credentials", h.cfg.Webhook.URL)
		return
	}
	c.Data(http.StatusOK, "application/json", doc)
}

// UpdateSocialParams handles PUT /api/sites-airtable/:id/social-params
func (h *WebsiteHandler) UpdateSocialParams(c *gin.Context) {
	id, ok := h.siteID(c)
	if !ok {
		return
	}

	var doc json.RawMessage
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON document"})
		return
	}

	if err := h.services.Site.UpdateSocialCredentials(c.Request.Context(), id, doc); err != nil {
		respondError(c, err, "failed to update social credentials", h.cfg.Webhook.URL)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}
