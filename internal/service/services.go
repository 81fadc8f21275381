package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/ai"
	"github.com/seo-dashboard-api/internal/config"
	"github.com/seo-dashboard-api/internal/models"
	"github.com/seo-dashboard-api/internal/repository"
)

// SiteService defines operations on monitored websites, including the
// analysis lifecycle.
type SiteService interface {
	List(ctx context.Context) ([]*models.Site, error)
	Get(ctx context.Context, id int) (*models.Site, error)
	Create(ctx context.Context, name, url string) (*models.Site, error)
	Delete(ctx context.Context, id int) error

	GetAnalysis(ctx context.Context, id int) (*models.SEOAnalysis, error)
	SaveAnalysis(ctx context.Context, id int, analysis *models.SEOAnalysis) error
	RefreshAnalysis(ctx context.Context, id int) (*models.SEOAnalysis, error)

	GetSocialProgram(ctx context.Context, id int) (json.RawMessage, error)
	UpdateSocialProgram(ctx context.Context, id int, doc json.RawMessage) error
	GetSocialCredentials(ctx context.Context, id int) (json.RawMessage, error)
	UpdateSocialCredentials(ctx context.Context, id int, doc json.RawMessage) error
}

// ContentService defines operations on editorial content.
type ContentService interface {
	List(ctx context.Context, filter models.ContentFilter) ([]*models.ContentItem, error)
	Create(ctx context.Context, req *models.CreateContentRequest) (*models.ContentItem, error)
	Update(ctx context.Context, id string, req *models.UpdateContentRequest) (*models.ContentItem, error)
	Delete(ctx context.Context, id string) error
	BulkUpdateStatus(ctx context.Context, ids []string, status models.ContentStatus) ([]*models.ContentItem, error)
}

// AIService defines AI-assisted content generation.
type AIService interface {
	GenerateArticle(ctx context.Context, req *models.GenerateArticleRequest) (*models.GeneratedArticle, error)
	SuggestKeywords(ctx context.Context, topic string, contentType models.ContentType) ([]string, error)
	GenerateImage(ctx context.Context, content string, contentType models.ContentType) (string, error)
}

// WebhookService defines the outbound workflow-automation integration.
type WebhookService interface {
	RequestAnalysis(ctx context.Context, websiteURL string) (*models.SEOAnalysis, error)
	Diagnostic(ctx context.Context) *DiagnosticReport
}

// Services holds all service interfaces. Prompt CRUD is a pure pass-through
// with no orchestration, so the repository is exposed directly.
type Services struct {
	Site    SiteService
	Content ContentService
	AI      AIService
	Webhook WebhookService
	Prompt  repository.PromptRepository
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, aiClient ai.Client, cfg *config.Config, log zerolog.Logger) *Services {
	webhookSvc := NewWebhookService(&cfg.Webhook, log)

	return &Services{
		Site:    NewSiteService(repos.Site, webhookSvc, log),
		Content: NewContentService(repos.Content, log),
		AI:      NewAIService(aiClient, repos.Prompt, log),
		Webhook: webhookSvc,
		Prompt:  repos.Prompt,
	}
}
