package repository

import (
	"strconv"
	"strings"

	"github.com/seo-dashboard-api/internal/models"
)

// The external schema evolved informally over time, so most logical fields
// exist under at least two historical names (French/English, casing drift).
// Reads try each candidate in order and take the first present value; writes
// always use the first (canonical) name. Keeping the candidate lists here
// makes schema drift a one-place fix.

var siteFields = struct {
	ID, Name, URL, Analysis, SocialProgram, SocialCredentials []string
}{
	ID:                []string{"ID Site", "id_site", "Id"},
	Name:              []string{"Nom", "Name", "name"},
	URL:               []string{"URL", "Url", "url"},
	Analysis:          []string{"Analyse SEO", "analysis", "Analysis"},
	SocialProgram:     []string{"Programme Social", "programme_social", "Social Program"},
	SocialCredentials: []string{"Parametres Sociaux", "parametres_sociaux", "Social Params"},
}

var contentFields = struct {
	SiteID, Type, Text, Status, PublishDate, Attachment, ImageURL []string
}{
	SiteID:      []string{"ID Site", "id_site", "Site"},
	Type:        []string{"Type de contenu", "type_contenu", "Content Type"},
	Text:        []string{"Contenu", "contenu", "Content"},
	Status:      []string{"Statut", "statut", "Status"},
	PublishDate: []string{"Date de publication", "date_publication", "Publish Date"},
	Attachment:  []string{"Image", "image", "Visuel"},
	ImageURL:    []string{"URL Image", "url_image", "Image URL"},
}

var promptFields = struct {
	Name, Description, Prompt, OutputStructure, Active []string
}{
	Name:            []string{"Nom", "Name", "name"},
	Description:     []string{"Description", "description"},
	Prompt:          []string{"Prompt", "prompt", "Instructions"},
	OutputStructure: []string{"Structure", "structure", "Output Structure"},
	Active:          []string{"Actif", "actif", "Active"},
}

// fieldValue returns the first present value among the candidate keys.
func fieldValue(fields map[string]interface{}, keys []string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := fields[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(fields map[string]interface{}, keys []string) string {
	v, ok := fieldValue(fields, keys)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

// intField parses a numeric field that the store may hold as a number or as
// a string encoding of one. Returns 0 when absent or unparseable.
func intField(fields map[string]interface{}, keys []string) int {
	v, ok := fieldValue(fields, keys)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return 0
}

func boolField(fields map[string]interface{}, keys []string) bool {
	v, ok := fieldValue(fields, keys)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true" || b == "1" || b == "oui"
	}
	return false
}

// resolveImage derives the image state of a content record from its two
// underlying fields. An uploaded attachment always beats a plain URL: manual
// uploads are more authoritative than AI-generated URLs when both are
// somehow populated. Provenance is recomputed here on every read, never
// stored as an independent fact.
func resolveImage(fields map[string]interface{}) (hasImage bool, imageURL, source *string) {
	if v, ok := fieldValue(fields, contentFields.Attachment); ok {
		if attachments, ok := v.([]interface{}); ok && len(attachments) > 0 {
			if first, ok := attachments[0].(map[string]interface{}); ok {
				if u, ok := first["url"].(string); ok && u != "" {
					src := models.ImageSourceUpload
					return true, &u, &src
				}
			}
		}
	}

	if raw := stringField(fields, contentFields.ImageURL); strings.TrimSpace(raw) != "" {
		u := strings.TrimSpace(raw)
		src := models.ImageSourceAI
		return true, &u, &src
	}

	return false, nil, nil
}
