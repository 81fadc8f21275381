package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/airtable"
	"github.com/seo-dashboard-api/internal/apperr"
	"github.com/seo-dashboard-api/internal/models"
)

// AirtableContentRepo is the record-store implementation of ContentRepository.
type AirtableContentRepo struct {
	client *airtable.Client
	table  string
	log    zerolog.Logger
}

// NewAirtableContentRepo creates a record-store-backed content repository.
func NewAirtableContentRepo(client *airtable.Client, table string, log zerolog.Logger) *AirtableContentRepo {
	return &AirtableContentRepo{
		client: client,
		table:  table,
		log:    log.With().Str("repository", "content").Logger(),
	}
}

// List returns editorial content items, optionally narrowed by site and date
// range. Filtering happens store-side via a formula on the canonical fields.
func (r *AirtableContentRepo) List(ctx context.Context, filter models.ContentFilter) ([]*models.ContentItem, error) {
	var clauses []string
	if filter.SiteID > 0 {
		clauses = append(clauses, fmt.Sprintf("{%s} = '%d'", contentFields.SiteID[0], filter.SiteID))
	}
	if filter.DateFrom != "" {
		clauses = append(clauses, fmt.Sprintf("IS_AFTER({%s}, DATEADD('%s', -1, 'days'))", contentFields.PublishDate[0], filter.DateFrom))
	}
	if filter.DateTo != "" {
		clauses = append(clauses, fmt.Sprintf("IS_BEFORE({%s}, DATEADD('%s', 1, 'days'))", contentFields.PublishDate[0], filter.DateTo))
	}

	opts := airtable.ListOptions{}
	switch len(clauses) {
	case 0:
	case 1:
		opts.FilterByFormula = clauses[0]
	default:
		opts.FilterByFormula = "AND(" + strings.Join(clauses, ", ") + ")"
	}

	records, err := r.client.List(ctx, r.table, opts)
	if err != nil {
		return nil, apperr.Upstream(err, "failed to list editorial content")
	}

	items := make([]*models.ContentItem, 0, len(records))
	for i := range records {
		items = append(items, parseContentItem(&records[i]))
	}
	return items, nil
}

// Create inserts one content item and returns it with its store-assigned ID.
func (r *AirtableContentRepo) Create(ctx context.Context, req *models.CreateContentRequest) (*models.ContentItem, error) {
	status := req.Status
	if status == "" {
		status = models.StatusPending
	}

	fields := map[string]interface{}{
		contentFields.SiteID[0]:      strconv.Itoa(req.SiteID),
		contentFields.Type[0]:        string(req.Type),
		contentFields.Text[0]:        req.Text,
		contentFields.Status[0]:      string(status),
		contentFields.PublishDate[0]: dateOnly(req.PublishDate),
	}
	applyImageFields(fields, req.ImageURL)

	rec, err := r.client.Create(ctx, r.table, fields)
	if err != nil {
		return nil, apperr.Upstream(err, "failed to create editorial content")
	}

	r.log.Info().Str("record_id", rec.ID).Int("site_id", req.SiteID).
		Str("type", string(req.Type)).Msg("Editorial content created")
	return parseContentItem(rec), nil
}

// Update patches the fields present in req. Setting HasImage to false clears
// both image fields regardless of any image values in the same payload.
func (r *AirtableContentRepo) Update(ctx context.Context, id string, req *models.UpdateContentRequest) (*models.ContentItem, error) {
	fields := map[string]interface{}{}
	if req.SiteID != nil {
		fields[contentFields.SiteID[0]] = strconv.Itoa(*req.SiteID)
	}
	if req.Type != nil {
		fields[contentFields.Type[0]] = string(*req.Type)
	}
	if req.Text != nil {
		fields[contentFields.Text[0]] = *req.Text
	}
	if req.Status != nil {
		fields[contentFields.Status[0]] = string(*req.Status)
	}
	if req.PublishDate != nil {
		fields[contentFields.PublishDate[0]] = dateOnly(*req.PublishDate)
	}
	if req.HasImage != nil && !*req.HasImage {
		fields[contentFields.Attachment[0]] = nil
		fields[contentFields.ImageURL[0]] = nil
	} else if req.ImageURL != nil {
		applyImageFields(fields, *req.ImageURL)
	}

	rec, err := r.client.Update(ctx, r.table, id, fields)
	if err != nil {
		if errors.Is(err, airtable.ErrRecordNotFound) {
			return nil, apperr.NotFound("content %s not found", id)
		}
		return nil, apperr.Upstream(err, "failed to update editorial content %s", id)
	}
	return parseContentItem(rec), nil
}

// Delete removes one content item by store-native ID.
func (r *AirtableContentRepo) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, r.table, id); err != nil {
		if errors.Is(err, airtable.ErrRecordNotFound) {
			return apperr.NotFound("content %s not found", id)
		}
		return apperr.Upstream(err, "failed to delete editorial content %s", id)
	}
	return nil
}

// BulkUpdateStatus applies one status to every ID, one independent update
// per record, all in flight at once. The store has no multi-record
// transaction primitive, so there is no rollback: callers always get back
// whatever subset succeeded. A missing record is an expected failure, logged
// and skipped. When every update fails the result is an empty slice, not an
// error, so the client request still completes with usable counts.
func (r *AirtableContentRepo) BulkUpdateStatus(ctx context.Context, ids []string, status models.ContentStatus) ([]*models.ContentItem, error) {
	if !models.BulkStatuses[status] {
		return nil, apperr.Validation("status %q is not allowed in bulk updates", status)
	}

	type result struct {
		item *models.ContentItem
		id   string
		err  error
	}

	results := make(chan result, len(ids))
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			fields := map[string]interface{}{contentFields.Status[0]: string(status)}
			rec, err := r.client.Update(ctx, r.table, id, fields)
			if err != nil {
				results <- result{id: id, err: err}
				return
			}
			results <- result{item: parseContentItem(rec), id: id}
		}(id)
	}
	wg.Wait()
	close(results)

	updated := make([]*models.ContentItem, 0, len(ids))
	for res := range results {
		switch {
		case res.err == nil:
			updated = append(updated, res.item)
		case errors.Is(res.err, airtable.ErrRecordNotFound):
			r.log.Warn().Str("record_id", res.id).Msg("Bulk status update skipped missing record")
		default:
			r.log.Error().Err(res.err).Str("record_id", res.id).Msg("Bulk status update failed for record")
		}
	}

	r.log.Info().Int("requested", len(ids)).Int("updated", len(updated)).
		Str("status", string(status)).Msg("Bulk status update completed")
	return updated, nil
}

// parseContentItem maps a raw record into the internal content shape,
// resolving image state through the shared derivation.
func parseContentItem(rec *airtable.Record) *models.ContentItem {
	hasImage, imageURL, source := resolveImage(rec.Fields)

	item := &models.ContentItem{
		ID:          rec.ID,
		SiteID:      intField(rec.Fields, contentFields.SiteID),
		Type:        models.ContentType(stringField(rec.Fields, contentFields.Type)),
		Text:        stringField(rec.Fields, contentFields.Text),
		HasImage:    hasImage,
		ImageURL:    imageURL,
		ImageSource: source,
		Status:      models.ContentStatus(stringField(rec.Fields, contentFields.Status)),
		PublishDate: dateOnly(stringField(rec.Fields, contentFields.PublishDate)),
		CreatedAt:   rec.CreatedTime,
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	return item
}

// applyImageFields classifies an incoming image URL and populates the
// store's two image fields. AI-provider URLs are written to both the URL
// field and the attachment field: the provider expires its URLs, and the
// attachment copy survives that. Local uploads go to the attachment field
// only; any other external URL goes to the URL field only.
func applyImageFields(fields map[string]interface{}, imageURL string) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return
	}

	asAttachment := []map[string]interface{}{{"url": imageURL}}
	switch {
	case isAIProviderURL(imageURL):
		fields[contentFields.ImageURL[0]] = imageURL
		fields[contentFields.Attachment[0]] = asAttachment
	case strings.HasPrefix(imageURL, "/uploads/"):
		fields[contentFields.Attachment[0]] = asAttachment
	default:
		fields[contentFields.ImageURL[0]] = imageURL
	}
}

func isAIProviderURL(u string) bool {
	return strings.Contains(u, "oaidalleapiprodscus") || strings.Contains(u, "openai.com")
}

// dateOnly normalizes a date or timestamp string to bare YYYY-MM-DD, the
// encoding the store expects for date fields.
func dateOnly(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.Format("2006-01-02")
		}
		return s[:10]
	}
	return s
}
