package models

import "time"

// ContentStatus is the editorial workflow state of a content item.
type ContentStatus string

const (
	StatusPending     ContentStatus = "pending"
	StatusNeedsReview ContentStatus = "needs_review"
	StatusApproved    ContentStatus = "approved"
	StatusPublished   ContentStatus = "published"
)

// ValidStatuses defines all content statuses accepted on create/update.
var ValidStatuses = map[ContentStatus]bool{
	StatusPending:     true,
	StatusNeedsReview: true,
	StatusApproved:    true,
	StatusPublished:   true,
}

// BulkStatuses is the allow-list for bulk status transitions. Publishing is
// deliberately excluded: publish goes through the per-item update path only.
var BulkStatuses = map[ContentStatus]bool{
	StatusPending:     true,
	StatusNeedsReview: true,
	StatusApproved:    true,
}

// Image provenance tags, derived from which underlying store field holds
// data. Never stored as an independent fact.
const (
	ImageSourceUpload = "upload"
	ImageSourceAI     = "ai"
)

// ContentType is the target platform/format of a content item.
type ContentType string

const (
	TypeNewsletter ContentType = "newsletter"
	TypeTikTok     ContentType = "tiktok"
	TypeInstagram  ContentType = "instagram"
	TypeXTwitter   ContentType = "xtwitter"
	TypeYouTube    ContentType = "youtube"
	TypeFacebook   ContentType = "facebook"
	TypeBlog       ContentType = "blog"
	TypeGMB        ContentType = "gmb"
	TypePinterest  ContentType = "pinterest"
)

// ValidContentTypes defines the fixed platform enumeration.
var ValidContentTypes = map[ContentType]bool{
	TypeNewsletter: true,
	TypeTikTok:     true,
	TypeInstagram:  true,
	TypeXTwitter:   true,
	TypeYouTube:    true,
	TypeFacebook:   true,
	TypeBlog:       true,
	TypeGMB:        true,
	TypePinterest:  true,
}

// ContentItem is one entry of the editorial calendar. When backed by the
// external record store, ID is the store's native record identifier.
type ContentItem struct {
	ID          string        `json:"id"`
	SiteID      int           `json:"site_id"`
	Type        ContentType   `json:"type"`
	Text        string        `json:"text"`
	HasImage    bool          `json:"has_image"`
	ImageURL    *string       `json:"image_url"`
	ImageSource *string       `json:"image_source"`
	Status      ContentStatus `json:"status"`
	PublishDate string        `json:"publish_date"`
	CreatedAt   time.Time     `json:"created_at"`
}

// CreateContentRequest is the body of POST /api/editorial-content.
type CreateContentRequest struct {
	SiteID      int           `json:"site_id" binding:"required"`
	Type        ContentType   `json:"type" binding:"required"`
	Text        string        `json:"text" binding:"required"`
	ImageURL    string        `json:"image_url"`
	Status      ContentStatus `json:"status"`
	PublishDate string        `json:"publish_date" binding:"required"`
}

// UpdateContentRequest is the body of PUT /api/editorial-content/:id.
// Pointer fields distinguish "absent" from "set to zero value".
type UpdateContentRequest struct {
	SiteID      *int           `json:"site_id"`
	Type        *ContentType   `json:"type"`
	Text        *string        `json:"text"`
	HasImage    *bool          `json:"has_image"`
	ImageURL    *string        `json:"image_url"`
	Status      *ContentStatus `json:"status"`
	PublishDate *string        `json:"publish_date"`
}

// ContentFilter narrows listContent. Zero values mean "no constraint".
type ContentFilter struct {
	SiteID   int
	DateFrom string
	DateTo   string
}

// BulkStatusRequest is the body of PUT /api/editorial-content/bulk-update.
// The "statut" key is kept for the existing calendar frontend.
type BulkStatusRequest struct {
	IDs    []string      `json:"ids" binding:"required,min=1"`
	Status ContentStatus `json:"statut" binding:"required"`
}
