package models

import (
	"encoding/json"
	"time"
)

// Site is a monitored website. The numeric ID is the source of truth for
// identity: when the site lives in the external record store, the ID is
// parsed out of a dedicated field rather than the store's native record ID.
type Site struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	URL       string       `json:"url"`
	CreatedAt time.Time    `json:"created_at"`
	Analysis  *SEOAnalysis `json:"analysis,omitempty"`

	// Free-form JSON documents edited through the settings UI.
	SocialProgram     json.RawMessage `json:"social_program,omitempty"`
	SocialCredentials json.RawMessage `json:"-"`
}

// CreateSiteRequest is the body of POST /api/websites.
type CreateSiteRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required,url"`
}
