package repository

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/airtable"
	"github.com/seo-dashboard-api/internal/apperr"
	"github.com/seo-dashboard-api/internal/models"
)

// Display-name prefixes left over from earlier imports; stripped on read.
var siteNamePrefixes = []string{"Site - ", "Site : ", "Fiche - "}

// AirtableSiteRepo is the record-store implementation of SiteRepository.
type AirtableSiteRepo struct {
	client *airtable.Client
	table  string
	log    zerolog.Logger
}

// NewAirtableSiteRepo creates a record-store-backed site repository.
func NewAirtableSiteRepo(client *airtable.Client, table string, log zerolog.Logger) *AirtableSiteRepo {
	return &AirtableSiteRepo{
		client: client,
		table:  table,
		log:    log.With().Str("repository", "sites").Logger(),
	}
}

// List returns all sites, newest first (descending numeric ID). Records
// whose ID field does not parse to a positive integer are dropped: they are
// junk rows left by manual edits, not sites.
func (r *AirtableSiteRepo) List(ctx context.Context) ([]*models.Site, error) {
	records, err := r.client.List(ctx, r.table, airtable.ListOptions{})
	if err != nil {
		return nil, apperr.Upstream(err, "failed to list sites")
	}

	sites := make([]*models.Site, 0, len(records))
	for i := range records {
		site := r.parseSite(&records[i])
		if site.ID <= 0 {
			continue
		}
		sites = append(sites, site)
	}

	sort.Slice(sites, func(i, j int) bool { return sites[i].ID > sites[j].ID })
	return sites, nil
}

// Get returns the site whose numeric ID field matches id.
func (r *AirtableSiteRepo) Get(ctx context.Context, id int) (*models.Site, error) {
	rec, err := r.findRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.parseSite(rec), nil
}

// Create inserts a new site with the next free numeric ID.
func (r *AirtableSiteRepo) Create(ctx context.Context, name, url string) (*models.Site, error) {
	existing, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	nextID := 1
	for _, s := range existing {
		if s.ID >= nextID {
			nextID = s.ID + 1
		}
	}

	fields := map[string]interface{}{
		siteFields.ID[0]:   strconv.Itoa(nextID),
		siteFields.Name[0]: name,
		siteFields.URL[0]:  url,
	}
	rec, err := r.client.Create(ctx, r.table, fields)
	if err != nil {
		return nil, apperr.Upstream(err, "failed to create site")
	}
	return r.parseSite(rec), nil
}

// Delete removes the site whose numeric ID field matches id.
func (r *AirtableSiteRepo) Delete(ctx context.Context, id int) error {
	rec, err := r.findRecord(ctx, id)
	if err != nil {
		return err
	}
	if err := r.client.Delete(ctx, r.table, rec.ID); err != nil {
		return apperr.Upstream(err, "failed to delete site %d", id)
	}
	return nil
}

// SaveAnalysis replaces the site's analysis blob with the given one.
func (r *AirtableSiteRepo) SaveAnalysis(ctx context.Context, id int, analysis *models.SEOAnalysis) error {
	rec, err := r.findRecord(ctx, id)
	if err != nil {
		return err
	}
	blob, err := json.Marshal(analysis)
	if err != nil {
		return apperr.Upstream(err, "failed to encode analysis for site %d", id)
	}
	fields := map[string]interface{}{siteFields.Analysis[0]: string(blob)}
	if _, err := r.client.Update(ctx, r.table, rec.ID, fields); err != nil {
		return apperr.Upstream(err, "failed to save analysis for site %d", id)
	}
	return nil
}

// GetSocialProgram returns the site's publishing-program document, or nil
// when none is set.
func (r *AirtableSiteRepo) GetSocialProgram(ctx context.Context, id int) (json.RawMessage, error) {
	return r.getJSONDoc(ctx, id, siteFields.SocialProgram)
}

// UpdateSocialProgram stores the publishing-program document verbatim.
func (r *AirtableSiteRepo) UpdateSocialProgram(ctx context.Context, id int, doc json.RawMessage) error {
	return r.setJSONDoc(ctx, id, siteFields.SocialProgram[0], doc)
}

// GetSocialCredentials returns the site's per-platform secrets document, or
// an empty object when none is set.
func (r *AirtableSiteRepo) GetSocialCredentials(ctx context.Context, id int) (json.RawMessage, error) {
	doc, err := r.getJSONDoc(ctx, id, siteFields.SocialCredentials)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return json.RawMessage("{}"), nil
	}
	return doc, nil
}

// UpdateSocialCredentials stores the per-platform secrets document verbatim.
func (r *AirtableSiteRepo) UpdateSocialCredentials(ctx context.Context, id int, doc json.RawMessage) error {
	return r.setJSONDoc(ctx, id, siteFields.SocialCredentials[0], doc)
}

func (r *AirtableSiteRepo) getJSONDoc(ctx context.Context, id int, keys []string) (json.RawMessage, error) {
	rec, err := r.findRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	raw := stringField(rec.Fields, keys)
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	if !json.Valid([]byte(raw)) {
		r.log.Warn().Int("site_id", id).Msg("Malformed JSON document on site record")
		return nil, nil
	}
	return json.RawMessage(raw), nil
}

func (r *AirtableSiteRepo) setJSONDoc(ctx context.Context, id int, key string, doc json.RawMessage) error {
	rec, err := r.findRecord(ctx, id)
	if err != nil {
		return err
	}
	fields := map[string]interface{}{key: string(doc)}
	if _, err := r.client.Update(ctx, r.table, rec.ID, fields); err != nil {
		return apperr.Upstream(err, "failed to update site %d", id)
	}
	return nil
}

// findRecord locates a record by its numeric ID field. The field resolver
// has to see every record, so this scans the table rather than relying on a
// store-side formula against one specific field name.
func (r *AirtableSiteRepo) findRecord(ctx context.Context, id int) (*airtable.Record, error) {
	records, err := r.client.List(ctx, r.table, airtable.ListOptions{})
	if err != nil {
		return nil, apperr.Upstream(err, "failed to look up site %d", id)
	}
	for i := range records {
		if intField(records[i].Fields, siteFields.ID) == id {
			return &records[i], nil
		}
	}
	return nil, apperr.NotFound("site %d not found", id)
}

func (r *AirtableSiteRepo) parseSite(rec *airtable.Record) *models.Site {
	site := &models.Site{
		ID:        intField(rec.Fields, siteFields.ID),
		Name:      stripSitePrefix(stringField(rec.Fields, siteFields.Name)),
		URL:       stringField(rec.Fields, siteFields.URL),
		CreatedAt: rec.CreatedTime,
	}
	if site.CreatedAt.IsZero() {
		site.CreatedAt = time.Now()
	}

	if raw := stringField(rec.Fields, siteFields.Analysis); strings.TrimSpace(raw) != "" {
		var analysis models.SEOAnalysis
		if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
			// Malformed blobs are data-quality noise, not a reason to
			// fail the whole listing.
			r.log.Warn().Err(err).Int("site_id", site.ID).Msg("Ignoring malformed analysis blob")
		} else {
			site.Analysis = &analysis
		}
	}

	if raw := stringField(rec.Fields, siteFields.SocialProgram); json.Valid([]byte(raw)) {
		site.SocialProgram = json.RawMessage(raw)
	}
	if raw := stringField(rec.Fields, siteFields.SocialCredentials); json.Valid([]byte(raw)) {
		site.SocialCredentials = json.RawMessage(raw)
	}
	return site
}

func stripSitePrefix(name string) string {
	for _, p := range siteNamePrefixes {
		if strings.HasPrefix(name, p) {
			return strings.TrimPrefix(name, p)
		}
	}
	return name
}
