package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/models"
	"github.com/seo-dashboard-api/internal/repository"
	"github.com/seo-dashboard-api/internal/service"
)

// PromptHandler handles system prompt endpoints
type PromptHandler struct {
	prompts repository.PromptRepository
	log     zerolog.Logger
}

// NewPromptHandler creates a new PromptHandler
func NewPromptHandler(services *service.Services, log zerolog.Logger) *PromptHandler {
	return &PromptHandler{
		prompts: services.Prompt,
		log:     log.With().Str("handler", "prompts").Logger(),
	}
}

// List handles GET /api/system-prompts
func (h *PromptHandler) List(c *gin.Context) {
	prompts, err := h.prompts.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list system prompts", "")
		return
	}
	c.JSON(http.StatusOK, prompts)
}

// Create handles POST /api/system-prompts
func (h *PromptHandler) Create(c *gin.Context) {
	var in models.SystemPromptInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prompt, err := h.prompts.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err, "failed to create system prompt", "")
		return
	}
	c.JSON(http.StatusCreated, prompt)
}

// Update handles PUT /api/system-prompts/:id
func (h *PromptHandler) Update(c *gin.Context) {
	var in models.SystemPromptInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prompt, err := h.prompts.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, err, "failed to update system prompt", "")
		return
	}
	c.JSON(http.StatusOK, prompt)
}

// Delete handles DELETE /api/system-prompts/:id
func (h *PromptHandler) Delete(c *gin.Context) {
	if err := h.prompts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "failed to delete system prompt", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
