package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/config"
	"github.com/seo-dashboard-api/internal/models"
	"github.com/seo-dashboard-api/internal/service"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// GenerateHandler handles AI generation and image upload endpoints
type GenerateHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewGenerateHandler creates a new GenerateHandler
func NewGenerateHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *GenerateHandler {
	return &GenerateHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "generate").Logger(),
	}
}

// GenerateArticle handles POST /api/generate-article
func (h *GenerateHandler) GenerateArticle(c *gin.Context) {
	var req models.GenerateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidContentTypes[req.Type] {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown content type %q", req.Type)})
		return
	}

	article, err := h.services.AI.GenerateArticle(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "content generation failed", "")
		return
	}

	h.log.Info().Str("type", string(req.Type)).
		Bool("regenerate", req.ExistingContent != "").Msg("Article generated")
	c.JSON(http.StatusOK, article)
}

// GenerateImage handles POST /api/generate-image
func (h *GenerateHandler) GenerateImage(c *gin.Context) {
	var req models.GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.services.AI.GenerateImage(c.Request.Context(), req.Content, req.Type)
	if err != nil {
		respondError(c, err, "image generation failed", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// UploadImage handles POST /api/upload-image (multipart). The stored file is
// served back under /uploads/, which createContent classifies as an upload.
func (h *GenerateHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	if header.Size > h.cfg.Upload.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("file too large, max size is %d MB", h.cfg.Upload.MaxUploadSize/(1024*1024)),
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image format"})
		return
	}

	if err := os.MkdirAll(h.cfg.Upload.Dir, 0755); err != nil {
		h.log.Error().Err(err).Msg("Failed to create upload directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	filePath := filepath.Join(h.cfg.Upload.Dir, filename)

	dst, err := os.Create(filePath)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		h.log.Error().Err(err).Msg("Failed to copy file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}

	h.log.Info().Str("file", header.Filename).Int64("size_bytes", header.Size).
		Msg("Image uploaded")
	c.JSON(http.StatusCreated, gin.H{"url": "/uploads/" + filename})
}
