package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/apperr"
	"github.com/seo-dashboard-api/internal/models"
	"github.com/seo-dashboard-api/internal/repository"
)

// siteService orchestrates site CRUD with the analysis lifecycle.
type siteService struct {
	sites   repository.SiteRepository
	webhook WebhookService
	log     zerolog.Logger
}

// NewSiteService creates the site service.
func NewSiteService(sites repository.SiteRepository, webhook WebhookService, log zerolog.Logger) *siteService {
	return &siteService{
		sites:   sites,
		webhook: webhook,
		log:     log.With().Str("service", "sites").Logger(),
	}
}

func (s *siteService) List(ctx context.Context) ([]*models.Site, error) {
	return s.sites.List(ctx)
}

func (s *siteService) Get(ctx context.Context, id int) (*models.Site, error) {
	return s.sites.Get(ctx, id)
}

// Create writes the site record, then attempts an initial analysis. The
// analysis fetch is best-effort: its failure is logged and discarded, and
// the caller gets the created site either way.
func (s *siteService) Create(ctx context.Context, name, url string) (*models.Site, error) {
	site, err := s.sites.Create(ctx, name, url)
	if err != nil {
		return nil, err
	}

	analysis, err := s.webhook.RequestAnalysis(ctx, url)
	if err != nil {
		s.log.Warn().Err(err).Int("site_id", site.ID).
			Msg("Initial analysis fetch failed; site created without analysis")
		return site, nil
	}
	if err := s.sites.SaveAnalysis(ctx, site.ID, analysis); err != nil {
		s.log.Warn().Err(err).Int("site_id", site.ID).
			Msg("Failed to attach initial analysis; site created without it")
		return site, nil
	}
	site.Analysis = analysis
	return site, nil
}

func (s *siteService) Delete(ctx context.Context, id int) error {
	return s.sites.Delete(ctx, id)
}

func (s *siteService) GetAnalysis(ctx context.Context, id int) (*models.SEOAnalysis, error) {
	site, err := s.sites.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if site.Analysis == nil {
		return nil, apperr.NotFound("no analysis for site %d", id)
	}
	return site.Analysis, nil
}

func (s *siteService) SaveAnalysis(ctx context.Context, id int, analysis *models.SEOAnalysis) error {
	return s.sites.SaveAnalysis(ctx, id, analysis)
}

// RefreshAnalysis runs a fresh webhook round-trip and replaces the stored
// analysis (latest-wins, no merge, no history).
func (s *siteService) RefreshAnalysis(ctx context.Context, id int) (*models.SEOAnalysis, error) {
	site, err := s.sites.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	analysis, err := s.webhook.RequestAnalysis(ctx, site.URL)
	if err != nil {
		return nil, err
	}
	if err := s.sites.SaveAnalysis(ctx, id, analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

func (s *siteService) GetSocialProgram(ctx context.Context, id int) (json.RawMessage, error) {
	return s.sites.GetSocialProgram(ctx, id)
}

func (s *siteService) UpdateSocialProgram(ctx context.Context, id int, doc json.RawMessage) error {
	return s.sites.UpdateSocialProgram(ctx, id, doc)
}

func (s *siteService) GetSocialCredentials(ctx context.Context, id int) (json.RawMessage, error) {
	return s.sites.GetSocialCredentials(ctx, id)
}

func (s *siteService) UpdateSocialCredentials(ctx context.Context, id int, doc json.RawMessage) error {
	return s.sites.UpdateSocialCredentials(ctx, id, doc)
}
