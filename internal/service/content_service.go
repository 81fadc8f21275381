package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/apperr"
	"github.com/seo-dashboard-api/internal/models"
	"github.com/seo-dashboard-api/internal/repository"
)

// contentService validates editorial-content requests and delegates to the
// content repository.
type contentService struct {
	content repository.ContentRepository
	log     zerolog.Logger
}

// NewContentService creates the editorial content service.
func NewContentService(content repository.ContentRepository, log zerolog.Logger) *contentService {
	return &contentService{
		content: content,
		log:     log.With().Str("service", "content").Logger(),
	}
}

func (s *contentService) List(ctx context.Context, filter models.ContentFilter) ([]*models.ContentItem, error) {
	return s.content.List(ctx, filter)
}

func (s *contentService) Create(ctx context.Context, req *models.CreateContentRequest) (*models.ContentItem, error) {
	if !models.ValidContentTypes[req.Type] {
		return nil, apperr.Validation("unknown content type %q", req.Type)
	}
	if req.Status != "" && !models.ValidStatuses[req.Status] {
		return nil, apperr.Validation("unknown status %q", req.Status)
	}
	return s.content.Create(ctx, req)
}

func (s *contentService) Update(ctx context.Context, id string, req *models.UpdateContentRequest) (*models.ContentItem, error) {
	if req.Type != nil && !models.ValidContentTypes[*req.Type] {
		return nil, apperr.Validation("unknown content type %q", *req.Type)
	}
	if req.Status != nil && !models.ValidStatuses[*req.Status] {
		return nil, apperr.Validation("unknown status %q", *req.Status)
	}
	return s.content.Update(ctx, id, req)
}

func (s *contentService) Delete(ctx context.Context, id string) error {
	return s.content.Delete(ctx, id)
}

func (s *contentService) BulkUpdateStatus(ctx context.Context, ids []string, status models.ContentStatus) ([]*models.ContentItem, error) {
	return s.content.BulkUpdateStatus(ctx, ids, status)
}
