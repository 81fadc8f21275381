package repository

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/airtable"
	"github.com/seo-dashboard-api/internal/config"
	"github.com/seo-dashboard-api/internal/models"
)

// SiteRepository defines data operations on monitored websites. Sites are
// addressed by their numeric ID field, never by the store's native record ID.
type SiteRepository interface {
	List(ctx context.Context) ([]*models.Site, error)
	Get(ctx context.Context, id int) (*models.Site, error)
	Create(ctx context.Context, name, url string) (*models.Site, error)
	Delete(ctx context.Context, id int) error

	// SaveAnalysis replaces the site's current analysis (latest-wins).
	SaveAnalysis(ctx context.Context, id int, analysis *models.SEOAnalysis) error

	GetSocialProgram(ctx context.Context, id int) (json.RawMessage, error)
	UpdateSocialProgram(ctx context.Context, id int, doc json.RawMessage) error
	GetSocialCredentials(ctx context.Context, id int) (json.RawMessage, error)
	UpdateSocialCredentials(ctx context.Context, id int, doc json.RawMessage) error
}

// ContentRepository defines data operations on editorial content items.
type ContentRepository interface {
	List(ctx context.Context, filter models.ContentFilter) ([]*models.ContentItem, error)
	Create(ctx context.Context, req *models.CreateContentRequest) (*models.ContentItem, error)
	Update(ctx context.Context, id string, req *models.UpdateContentRequest) (*models.ContentItem, error)
	Delete(ctx context.Context, id string) error

	// BulkUpdateStatus updates each ID independently and concurrently,
	// returning only the items that succeeded. A failing subset never
	// aborts the rest; an all-fail degrades to an empty slice.
	BulkUpdateStatus(ctx context.Context, ids []string, status models.ContentStatus) ([]*models.ContentItem, error)
}

// PromptRepository defines data operations on system prompts.
type PromptRepository interface {
	List(ctx context.Context) ([]*models.SystemPrompt, error)
	Create(ctx context.Context, in *models.SystemPromptInput) (*models.SystemPrompt, error)
	Update(ctx context.Context, id string, in *models.SystemPromptInput) (*models.SystemPrompt, error)
	Delete(ctx context.Context, id string) error

	// GetActive returns the first prompt whose active flag is set, or nil
	// when none is configured.
	GetActive(ctx context.Context) (*models.SystemPrompt, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Site    SiteRepository
	Content ContentRepository
	Prompt  PromptRepository
}

// NewAirtable creates record-store-backed repositories.
func NewAirtable(client *airtable.Client, cfg *config.AirtableConfig, log zerolog.Logger) *Repositories {
	return &Repositories{
		Site:    NewAirtableSiteRepo(client, cfg.SitesTable, log),
		Content: NewAirtableContentRepo(client, cfg.ContentTable, log),
		Prompt:  NewAirtablePromptRepo(client, cfg.PromptsTable, log),
	}
}

// NewMemory creates the in-memory fallback repositories, used for demos and
// tests when no external record store is configured.
func NewMemory() *Repositories {
	return &Repositories{
		Site:    NewMemorySiteRepo(),
		Content: NewMemoryContentRepo(),
		Prompt:  NewMemoryPromptRepo(),
	}
}
