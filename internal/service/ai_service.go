package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/ai"
	"github.com/seo-dashboard-api/internal/apperr"
	"github.com/seo-dashboard-api/internal/models"
	"github.com/seo-dashboard-api/internal/repository"
)

// DefaultSystemPrompt is the instruction used when no active system prompt
// is configured in the record store or the lookup fails. Operators tune AI
// behavior by editing prompts as data; this constant is the safety net.
const DefaultSystemPrompt = "You are an experienced SEO copywriter for small-business marketing. " +
	"Write engaging, well-structured content optimized for the requested platform and keywords. " +
	"Always answer with valid JSON only."

// defaultOutputStructure is the JSON shape requested from the model when the
// active prompt does not declare one.
const defaultOutputStructure = `{"title": "...", "content": "...", "suggestions": ["...", "..."]}`

// Image prompt templates per platform. Style guidance matches what each
// platform surfaces best.
var imagePromptTemplates = map[models.ContentType]string{
	models.TypeInstagram:  "A vivid, square social-media photograph illustrating: %s. Bright colors, lifestyle aesthetic, no text overlay.",
	models.TypeTikTok:     "A dynamic vertical-feel scene illustrating: %s. Energetic, youthful, motion-suggestive composition.",
	models.TypePinterest:  "An inspirational, softly lit flat-lay illustrating: %s. Pastel palette, aspirational mood.",
	models.TypeBlog:       "An editorial banner illustration for an article about: %s. Clean, professional, muted colors.",
	models.TypeNewsletter: "A warm, friendly header illustration for a newsletter about: %s. Simple shapes, inviting tone.",
	models.TypeFacebook:   "An approachable social photograph illustrating: %s. Natural light, community feel.",
	models.TypeXTwitter:   "A bold, minimal graphic illustrating: %s. High contrast, single focal point.",
	models.TypeYouTube:    "A striking thumbnail-style image illustrating: %s. Strong subject, shallow depth of field.",
	models.TypeGMB:        "A trustworthy storefront-style photograph illustrating: %s. Local-business atmosphere.",
}

const genericImageTemplate = "A professional marketing illustration for: %s. Clean and modern."

// aiService produces generated articles, keyword suggestions and images.
type aiService struct {
	client  ai.Client
	prompts repository.PromptRepository
	log     zerolog.Logger
}

// NewAIService creates the AI content service.
func NewAIService(client ai.Client, prompts repository.PromptRepository, log zerolog.Logger) *aiService {
	return &aiService{
		client:  client,
		prompts: prompts,
		log:     log.With().Str("service", "ai").Logger(),
	}
}

// resolveSystemPrompt returns the active prompt's instruction and declared
// output structure, falling back to the hardcoded defaults when no prompt is
// active or the store is unreachable. The lookup is deliberately a soft
// dependency: generation must work against an empty or offline store.
func (s *aiService) resolveSystemPrompt(ctx context.Context) (instruction, structure string) {
	prompt, err := s.prompts.GetActive(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("System prompt lookup failed; using default instruction")
		return DefaultSystemPrompt, defaultOutputStructure
	}
	if prompt == nil {
		return DefaultSystemPrompt, defaultOutputStructure
	}
	structure = prompt.OutputStructure
	if strings.TrimSpace(structure) == "" {
		structure = defaultOutputStructure
	}
	return prompt.Prompt, structure
}

// GenerateArticle produces new content, or improves ExistingContent when it
// is set. A partially malformed model response never fails the call: each
// output field defaults independently.
func (s *aiService) GenerateArticle(ctx context.Context, req *models.GenerateArticleRequest) (*models.GeneratedArticle, error) {
	instruction, structure := s.resolveSystemPrompt(ctx)
	userPrompt := buildArticlePrompt(req, structure)

	raw, err := s.client.ChatJSON(ctx, instruction, userPrompt)
	if err != nil {
		return nil, apperr.Upstream(err, "content generation failed")
	}

	var parsed struct {
		Title       string   `json:"title"`
		Content     string   `json:"content"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		s.log.Warn().Err(err).Msg("Model response was not valid JSON; using raw text as content")
	}

	article := &models.GeneratedArticle{
		Title:       parsed.Title,
		Content:     parsed.Content,
		Suggestions: parsed.Suggestions,
	}
	if article.Title == "" {
		article.Title = fmt.Sprintf("%s - %s", strings.Join(req.Keywords, ", "), req.Type)
	}
	if article.Content == "" {
		article.Content = raw
	}
	if article.Suggestions == nil {
		article.Suggestions = []string{}
	}
	return article, nil
}

// SuggestKeywords asks the model for related keywords. Suggestion is a
// non-critical enhancement: any failure yields an empty list, never an
// error.
func (s *aiService) SuggestKeywords(ctx context.Context, topic string, contentType models.ContentType) ([]string, error) {
	instruction, _ := s.resolveSystemPrompt(ctx)
	userPrompt := fmt.Sprintf(
		"Suggest 10 SEO keywords for %s content about %q. Respond with JSON only: {\"keywords\": [\"...\"]}",
		contentType, topic,
	)

	raw, err := s.client.ChatJSON(ctx, instruction, userPrompt)
	if err != nil {
		s.log.Warn().Err(err).Str("topic", topic).Msg("Keyword suggestion failed; returning empty list")
		return []string{}, nil
	}

	var parsed struct {
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil || parsed.Keywords == nil {
		return []string{}, nil
	}
	return parsed.Keywords, nil
}

// GenerateImage produces one square image matching the platform's visual
// register and returns its URL. Fails loudly when no URL comes back.
func (s *aiService) GenerateImage(ctx context.Context, content string, contentType models.ContentType) (string, error) {
	template, ok := imagePromptTemplates[contentType]
	if !ok {
		template = genericImageTemplate
	}
	prompt := fmt.Sprintf(template, summarizeForImage(content))

	url, err := s.client.GenerateImage(ctx, prompt, "1024x1024")
	if err != nil {
		return "", apperr.Upstream(err, "image generation failed")
	}

	s.log.Info().Str("type", string(contentType)).Msg("Image generated")
	return url, nil
}

// buildArticlePrompt assembles the user message: seed keywords, optional
// audience/tone, and the strict-JSON output contract.
func buildArticlePrompt(req *models.GenerateArticleRequest, structure string) string {
	var b strings.Builder

	if req.ExistingContent != "" {
		b.WriteString("Improve and regenerate the following ")
		b.WriteString(string(req.Type))
		b.WriteString(" content while keeping its intent:\n\n")
		b.WriteString(req.ExistingContent)
		b.WriteString("\n\n")
	} else {
		fmt.Fprintf(&b, "Write %s content", req.Type)
		if req.Topic != "" {
			fmt.Fprintf(&b, " about %q", req.Topic)
		}
		b.WriteString(".\n")
	}

	fmt.Fprintf(&b, "Target keywords: %s.\n", strings.Join(req.Keywords, ", "))
	if req.TargetAudience != "" {
		fmt.Fprintf(&b, "Target audience: %s.\n", req.TargetAudience)
	}
	if req.Tone != "" {
		fmt.Fprintf(&b, "Tone: %s.\n", req.Tone)
	}
	fmt.Fprintf(&b, "Respond with strictly valid JSON matching this structure: %s", structure)

	return b.String()
}

// summarizeForImage keeps image prompts short: the first sentences of the
// content, capped well under the provider's prompt limit.
func summarizeForImage(content string) string {
	content = strings.TrimSpace(content)
	if len(content) > 300 {
		return content[:300]
	}
	return content
}
