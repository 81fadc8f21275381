package repository

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/airtable"
	"github.com/seo-dashboard-api/internal/apperr"
	"github.com/seo-dashboard-api/internal/models"
)

// AirtablePromptRepo is the record-store implementation of PromptRepository.
type AirtablePromptRepo struct {
	client *airtable.Client
	table  string
	log    zerolog.Logger
}

// NewAirtablePromptRepo creates a record-store-backed prompt repository.
func NewAirtablePromptRepo(client *airtable.Client, table string, log zerolog.Logger) *AirtablePromptRepo {
	return &AirtablePromptRepo{
		client: client,
		table:  table,
		log:    log.With().Str("repository", "prompts").Logger(),
	}
}

// List returns all system prompts.
func (r *AirtablePromptRepo) List(ctx context.Context) ([]*models.SystemPrompt, error) {
	records, err := r.client.List(ctx, r.table, airtable.ListOptions{})
	if err != nil {
		return nil, apperr.Upstream(err, "failed to list system prompts")
	}
	prompts := make([]*models.SystemPrompt, 0, len(records))
	for i := range records {
		prompts = append(prompts, parsePrompt(&records[i]))
	}
	return prompts, nil
}

// Create inserts a new system prompt.
func (r *AirtablePromptRepo) Create(ctx context.Context, in *models.SystemPromptInput) (*models.SystemPrompt, error) {
	rec, err := r.client.Create(ctx, r.table, promptWriteFields(in))
	if err != nil {
		return nil, apperr.Upstream(err, "failed to create system prompt")
	}
	return parsePrompt(rec), nil
}

// Update replaces the prompt's editable fields.
func (r *AirtablePromptRepo) Update(ctx context.Context, id string, in *models.SystemPromptInput) (*models.SystemPrompt, error) {
	rec, err := r.client.Update(ctx, r.table, id, promptWriteFields(in))
	if err != nil {
		if errors.Is(err, airtable.ErrRecordNotFound) {
			return nil, apperr.NotFound("system prompt %s not found", id)
		}
		return nil, apperr.Upstream(err, "failed to update system prompt %s", id)
	}
	return parsePrompt(rec), nil
}

// Delete removes a prompt by store-native ID.
func (r *AirtablePromptRepo) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, r.table, id); err != nil {
		if errors.Is(err, airtable.ErrRecordNotFound) {
			return apperr.NotFound("system prompt %s not found", id)
		}
		return apperr.Upstream(err, "failed to delete system prompt %s", id)
	}
	return nil
}

// GetActive returns the first prompt marked active, or nil when none is.
// Several active prompts at once is a data-quality problem for operators to
// fix, not a reason to fail: first match wins, the rest are logged.
func (r *AirtablePromptRepo) GetActive(ctx context.Context) (*models.SystemPrompt, error) {
	prompts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var active *models.SystemPrompt
	extra := 0
	for _, p := range prompts {
		if !p.Active {
			continue
		}
		if active == nil {
			active = p
		} else {
			extra++
		}
	}
	if extra > 0 {
		r.log.Warn().Int("extra_active", extra).Str("using", active.ID).
			Msg("Multiple system prompts marked active; using first match")
	}
	return active, nil
}

// promptWriteFields maps input to the canonical field names. Reads and
// writes deliberately share one casing convention; earlier schema revisions
// mixed them and the resolver still tolerates those on read.
func promptWriteFields(in *models.SystemPromptInput) map[string]interface{} {
	return map[string]interface{}{
		promptFields.Name[0]:            in.Name,
		promptFields.Description[0]:     in.Description,
		promptFields.Prompt[0]:          in.Prompt,
		promptFields.OutputStructure[0]: in.OutputStructure,
		promptFields.Active[0]:          in.Active,
	}
}

func parsePrompt(rec *airtable.Record) *models.SystemPrompt {
	return &models.SystemPrompt{
		ID:              rec.ID,
		Name:            stringField(rec.Fields, promptFields.Name),
		Description:     stringField(rec.Fields, promptFields.Description),
		Prompt:          stringField(rec.Fields, promptFields.Prompt),
		OutputStructure: stringField(rec.Fields, promptFields.OutputStructure),
		Active:          boolField(rec.Fields, promptFields.Active),
	}
}
