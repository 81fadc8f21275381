package repository

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seo-dashboard-api/internal/apperr"
	"github.com/seo-dashboard-api/internal/models"
)

// The memory repositories back demos and tests when no record store is
// configured. They hold the same contracts as the store-backed ones, with a
// mutex because gin serves requests concurrently.

// MemorySiteRepo is the in-memory fallback SiteRepository.
type MemorySiteRepo struct {
	mu     sync.Mutex
	sites  map[int]*models.Site
	nextID int
}

// NewMemorySiteRepo creates an empty in-memory site repository.
func NewMemorySiteRepo() *MemorySiteRepo {
	return &MemorySiteRepo{sites: make(map[int]*models.Site), nextID: 1}
}

func (r *MemorySiteRepo) List(ctx context.Context) ([]*models.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sites := make([]*models.Site, 0, len(r.sites))
	for _, s := range r.sites {
		cp := *s
		sites = append(sites, &cp)
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].ID > sites[j].ID })
	return sites, nil
}

func (r *MemorySiteRepo) Get(ctx context.Context, id int) (*models.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sites[id]
	if !ok {
		return nil, apperr.NotFound("site %d not found", id)
	}
	cp := *s
	return &cp, nil
}

func (r *MemorySiteRepo) Create(ctx context.Context, name, url string) (*models.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	site := &models.Site{
		ID:        r.nextID,
		Name:      name,
		URL:       url,
		CreatedAt: time.Now(),
	}
	r.nextID++
	r.sites[site.ID] = site
	cp := *site
	return &cp, nil
}

func (r *MemorySiteRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sites[id]; !ok {
		return apperr.NotFound("site %d not found", id)
	}
	delete(r.sites, id)
	return nil
}

func (r *MemorySiteRepo) SaveAnalysis(ctx context.Context, id int, analysis *models.SEOAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sites[id]
	if !ok {
		return apperr.NotFound("site %d not found", id)
	}
	s.Analysis = analysis
	return nil
}

func (r *MemorySiteRepo) GetSocialProgram(ctx context.Context, id int) (json.RawMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sites[id]
	if !ok {
		return nil, apperr.NotFound("site %d not found", id)
	}
	return s.SocialProgram, nil
}

func (r *MemorySiteRepo) UpdateSocialProgram(ctx context.Context, id int, doc json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sites[id]
	if !ok {
		return apperr.NotFound("site %d not found", id)
	}
	s.SocialProgram = doc
	return nil
}

func (r *MemorySiteRepo) GetSocialCredentials(ctx context.Context, id int) (json.RawMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sites[id]
	if !ok {
		return nil, apperr.NotFound("site %d not found", id)
	}
	if s.SocialCredentials == nil {
		return json.RawMessage("{}"), nil
	}
	return s.SocialCredentials, nil
}

func (r *MemorySiteRepo) UpdateSocialCredentials(ctx context.Context, id int, doc json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sites[id]
	if !ok {
		return apperr.NotFound("site %d not found", id)
	}
	s.SocialCredentials = doc
	return nil
}

// MemoryContentRepo is the in-memory fallback ContentRepository.
type MemoryContentRepo struct {
	mu    sync.Mutex
	items map[string]*models.ContentItem
}

// NewMemoryContentRepo creates an empty in-memory content repository.
func NewMemoryContentRepo() *MemoryContentRepo {
	return &MemoryContentRepo{items: make(map[string]*models.ContentItem)}
}

func (r *MemoryContentRepo) List(ctx context.Context, filter models.ContentFilter) ([]*models.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]*models.ContentItem, 0, len(r.items))
	for _, item := range r.items {
		if filter.SiteID > 0 && item.SiteID != filter.SiteID {
			continue
		}
		if filter.DateFrom != "" && item.PublishDate < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && item.PublishDate > filter.DateTo {
			continue
		}
		cp := *item
		items = append(items, &cp)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].PublishDate < items[j].PublishDate })
	return items, nil
}

func (r *MemoryContentRepo) Create(ctx context.Context, req *models.CreateContentRequest) (*models.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	hasImage, imageURL, source := deriveMemoryImage(req.ImageURL)

	item := &models.ContentItem{
		ID:          uuid.New().String(),
		SiteID:      req.SiteID,
		Type:        req.Type,
		Text:        req.Text,
		HasImage:    hasImage,
		ImageURL:    imageURL,
		ImageSource: source,
		Status:      status,
		PublishDate: dateOnly(req.PublishDate),
		CreatedAt:   time.Now(),
	}
	r.items[item.ID] = item
	cp := *item
	return &cp, nil
}

func (r *MemoryContentRepo) Update(ctx context.Context, id string, req *models.UpdateContentRequest) (*models.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFound("content %s not found", id)
	}

	if req.SiteID != nil {
		item.SiteID = *req.SiteID
	}
	if req.Type != nil {
		item.Type = *req.Type
	}
	if req.Text != nil {
		item.Text = *req.Text
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
	if req.PublishDate != nil {
		item.PublishDate = dateOnly(*req.PublishDate)
	}
	if req.HasImage != nil && !*req.HasImage {
		item.HasImage = false
		item.ImageURL = nil
		item.ImageSource = nil
	} else if req.ImageURL != nil {
		item.HasImage, item.ImageURL, item.ImageSource = deriveMemoryImage(*req.ImageURL)
	}

	cp := *item
	return &cp, nil
}

func (r *MemoryContentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperr.NotFound("content %s not found", id)
	}
	delete(r.items, id)
	return nil
}

// BulkUpdateStatus mirrors the store-backed semantics: allow-list gate, one
// independent update per ID, missing records skipped, successes returned.
func (r *MemoryContentRepo) BulkUpdateStatus(ctx context.Context, ids []string, status models.ContentStatus) ([]*models.ContentItem, error) {
	if !models.BulkStatuses[status] {
		return nil, apperr.Validation("status %q is not allowed in bulk updates", status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	updated := make([]*models.ContentItem, 0, len(ids))
	for _, id := range ids {
		item, ok := r.items[id]
		if !ok {
			continue
		}
		item.Status = status
		cp := *item
		updated = append(updated, &cp)
	}
	return updated, nil
}

// deriveMemoryImage applies the same provenance rule as the store adapter:
// local upload paths mean upload, anything else is an AI/external URL.
func deriveMemoryImage(imageURL string) (bool, *string, *string) {
	u := strings.TrimSpace(imageURL)
	if u == "" {
		return false, nil, nil
	}
	source := models.ImageSourceAI
	if strings.HasPrefix(u, "/uploads/") {
		source = models.ImageSourceUpload
	}
	return true, &u, &source
}

// MemoryPromptRepo is the in-memory fallback PromptRepository.
type MemoryPromptRepo struct {
	mu      sync.Mutex
	prompts map[string]*models.SystemPrompt
	order   []string
}

// NewMemoryPromptRepo creates an empty in-memory prompt repository.
func NewMemoryPromptRepo() *MemoryPromptRepo {
	return &MemoryPromptRepo{prompts: make(map[string]*models.SystemPrompt)}
}

func (r *MemoryPromptRepo) List(ctx context.Context) ([]*models.SystemPrompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prompts := make([]*models.SystemPrompt, 0, len(r.prompts))
	for _, id := range r.order {
		cp := *r.prompts[id]
		prompts = append(prompts, &cp)
	}
	return prompts, nil
}

func (r *MemoryPromptRepo) Create(ctx context.Context, in *models.SystemPromptInput) (*models.SystemPrompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &models.SystemPrompt{
		ID:              uuid.New().String(),
		Name:            in.Name,
		Description:     in.Description,
		Prompt:          in.Prompt,
		OutputStructure: in.OutputStructure,
		Active:          in.Active,
	}
	r.prompts[p.ID] = p
	r.order = append(r.order, p.ID)
	cp := *p
	return &cp, nil
}

func (r *MemoryPromptRepo) Update(ctx context.Context, id string, in *models.SystemPromptInput) (*models.SystemPrompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prompts[id]
	if !ok {
		return nil, apperr.NotFound("system prompt %s not found", id)
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Prompt = in.Prompt
	p.OutputStructure = in.OutputStructure
	p.Active = in.Active
	cp := *p
	return &cp, nil
}

func (r *MemoryPromptRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.prompts[id]; !ok {
		return apperr.NotFound("system prompt %s not found", id)
	}
	delete(r.prompts, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryPromptRepo) GetActive(ctx context.Context) (*models.SystemPrompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		if r.prompts[id].Active {
			cp := *r.prompts[id]
			return &cp, nil
		}
	}
	return nil, nil
}
