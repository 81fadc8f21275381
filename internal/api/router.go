package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/config"
	"github.com/seo-dashboard-api/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	websiteHandler := NewWebsiteHandler(services, cfg, log)
	contentHandler := NewContentHandler(services, log)
	promptHandler := NewPromptHandler(services, log)
	generateHandler := NewGenerateHandler(services, cfg, log)

	// Health check
	router.GET("/health", healthCheck)

	// Uploaded images are served back from the upload directory
	router.Static("/uploads", cfg.Upload.Dir)

	api := router.Group("/api")
	{
		websites := api.Group("/websites")
		{
			websites.GET("", websiteHandler.List)
			websites.POST("", websiteHandler.Create)
			websites.GET("/:id", websiteHandler.Get)
			websites.DELETE("/:id", websiteHandler.Delete)

			websites.GET("/:id/seo-analysis", websiteHandler.GetAnalysis)
			websites.POST("/:id/seo-analysis", websiteHandler.PutAnalysis)
			websites.PUT("/:id/seo-analysis", websiteHandler.PutAnalysis)

			// Both verbs trigger a fresh webhook round-trip and replace
			// the stored analysis.
			websites.POST("/:id/analyze", websiteHandler.Refresh)
			websites.POST("/:id/refresh-analysis", websiteHandler.Refresh)
		}

		// Legacy paths kept for the deployed frontend; same handlers.
		sites := api.Group("/sites-airtable")
		{
			sites.GET("", websiteHandler.List)
			sites.DELETE("/:id", websiteHandler.Delete)
			sites.POST("/:id/analyze", websiteHandler.Refresh)
			sites.PUT("/:id/social-program", websiteHandler.UpdateSocialProgram)
			sites.GET("/:id/social-params", websiteHandler.GetSocialParams)
			sites.PUT("/:id/social-params", websiteHandler.UpdateSocialParams)
		}

		content := api.Group("/editorial-content")
		{
			content.GET("", contentHandler.List)
			content.GET("/date/:date", contentHandler.ListByDate)
			content.POST("", contentHandler.Create)
			content.PUT("/bulk-update", contentHandler.BulkUpdateStatus)
			content.PUT("/:id", contentHandler.Update)
			content.DELETE("/:id", contentHandler.Delete)
		}

		prompts := api.Group("/system-prompts")
		{
			prompts.GET("", promptHandler.List)
			prompts.POST("", promptHandler.Create)
			prompts.PUT("/:id", promptHandler.Update)
			prompts.DELETE("/:id", promptHandler.Delete)
		}

		api.POST("/generate-article", generateHandler.GenerateArticle)
		api.POST("/generate-image", generateHandler.GenerateImage)
		api.POST("/upload-image", generateHandler.UploadImage)

		api.GET("/webhook/diagnostic", func(c *gin.Context) {
			c.JSON(http.StatusOK, services.Webhook.Diagnostic(c.Request.Context()))
		})
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "seo-dashboard-api",
	})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
