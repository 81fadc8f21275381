package models

import "encoding/json"

// SEOAnalysis is the flat analysis shape derived from the workflow webhook's
// nested payload. At most one analysis exists per site; a refresh replaces
// the previous one (latest-wins, no history).
type SEOAnalysis struct {
	Score           int              `json:"score"`
	OrganicTraffic  int              `json:"organic_traffic"`
	Keywords        int              `json:"keywords"`
	Backlinks       int              `json:"backlinks"`
	PageSpeed       int              `json:"page_speed"`
	TechnicalSEO    TechnicalSEO     `json:"technical_seo"`
	Recommendations []Recommendation `json:"recommendations"`
	KeywordRankings []KeywordRanking `json:"keyword_rankings"`
	TrafficHistory  []TrafficPoint   `json:"traffic_history"`

	// Raw keeps the upstream payload verbatim for UI sections that surface
	// detail not yet modeled internally.
	Raw json.RawMessage `json:"raw_data,omitempty"`
}

// TechnicalSEO is the boolean checklist shown on the dashboard.
type TechnicalSEO struct {
	MobileFriendly bool `json:"mobile_friendly"`
	HTTPSSecure    bool `json:"https_secure"`
	SitemapPresent bool `json:"sitemap_present"`
	RobotsPresent  bool `json:"robots_present"`
}

// Recommendation priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation categories. The dashboard is French-facing; these strings
// are displayed as-is.
const (
	CategoryTechnical = "Technique"
	CategoryContent   = "Contenu"
)

// Recommendation is one entry of the action plan.
type Recommendation struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
}

// Keyword trends.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// KeywordRanking is one tracked keyword position.
type KeywordRanking struct {
	Keyword  string `json:"keyword"`
	Position int    `json:"position"`
	Volume   int    `json:"volume"`
	Trend    string `json:"trend"`
}

// TrafficPoint is one day of the synthetic 30-day traffic series. Visits are
// a display placeholder distributed from the organic-traffic estimate, not
// measured data.
type TrafficPoint struct {
	Date   string `json:"date"`
	Visits int    `json:"visits"`
}
