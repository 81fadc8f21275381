package models

// GenerateArticleRequest is the body of POST /api/generate-article. When
// ExistingContent is set the call regenerates/improves that text instead of
// producing new content.
type GenerateArticleRequest struct {
	Type            ContentType `json:"type" binding:"required"`
	Keywords        []string    `json:"keywords" binding:"required,min=1"`
	Topic           string      `json:"topic"`
	TargetAudience  string      `json:"target_audience"`
	Tone            string      `json:"tone"`
	ExistingContent string      `json:"existing_content"`
}

// GeneratedArticle is the parsed model output. Each field defaults
// independently when missing from the model response.
type GeneratedArticle struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Suggestions []string `json:"suggestions"`
}

// GenerateImageRequest is the body of POST /api/generate-image.
type GenerateImageRequest struct {
	Content string      `json:"content" binding:"required"`
	Type    ContentType `json:"type" binding:"required"`
}
