package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/mocks"
	"github.com/seo-dashboard-api/internal/models"
	"github.com/seo-dashboard-api/internal/service"
)

func TestGenerateArticleFallsBackToDefaultPrompt(t *testing.T) {
	client := &mocks.MockAIClient{ChatResponse: `{"title":"T","content":"C","suggestions":["s1"]}`}
	prompts := &mocks.MockPromptRepository{} // no active prompt configured
	svc := service.NewAIService(client, prompts, zerolog.Nop())

	article, err := svc.GenerateArticle(context.Background(), &models.GenerateArticleRequest{
		Type:     models.TypeBlog,
		Keywords: []string{"local seo"},
	})
	if err != nil {
		t.Fatalf("GenerateArticle must not fail without an active prompt: %v", err)
	}
	if client.LastSystem != service.DefaultSystemPrompt {
		t.Errorf("Expected the hardcoded default instruction, got %q", client.LastSystem)
	}
	if article.Title != "T" || article.Content != "C" || len(article.Suggestions) != 1 {
		t.Errorf("Parsed article mismatch: %+v", article)
	}
}

func TestGenerateArticleFallsBackWhenPromptLookupFails(t *testing.T) {
	client := &mocks.MockAIClient{ChatResponse: `{"title":"T","content":"C"}`}
	prompts := &mocks.MockPromptRepository{Err: errors.New("store unreachable")}
	svc := service.NewAIService(client, prompts, zerolog.Nop())

	_, err := svc.GenerateArticle(context.Background(), &models.GenerateArticleRequest{
		Type:     models.TypeBlog,
		Keywords: []string{"local seo"},
	})
	if err != nil {
		t.Fatalf("Prompt-store failure must not fail generation: %v", err)
	}
	if client.LastSystem != service.DefaultSystemPrompt {
		t.Errorf("Expected default instruction on lookup failure, got %q", client.LastSystem)
	}
}

func TestGenerateArticleUsesActivePromptAndStructure(t *testing.T) {
	client := &mocks.MockAIClient{ChatResponse: `{"title":"T","content":"C"}`}
	prompts := &mocks.MockPromptRepository{Prompts: []*models.SystemPrompt{
		{ID: "p1", Prompt: "You are a bakery storyteller.", OutputStructure: `{"title":"","content":""}`, Active: true},
	}}
	svc := service.NewAIService(client, prompts, zerolog.Nop())

	_, err := svc.GenerateArticle(context.Background(), &models.GenerateArticleRequest{
		Type:           models.TypeNewsletter,
		Keywords:       []string{"sourdough", "artisan"},
		TargetAudience: "regulars",
		Tone:           "warm",
	})
	if err != nil {
		t.Fatalf("GenerateArticle failed: %v", err)
	}
	if client.LastSystem != "You are a bakery storyteller." {
		t.Errorf("Expected the active prompt instruction, got %q", client.LastSystem)
	}
	for _, want := range []string{"sourdough, artisan", "regulars", "warm", `{"title":"","content":""}`} {
		if !strings.Contains(client.LastUser, want) {
			t.Errorf("Expected user prompt to contain %q; got:\n%s", want, client.LastUser)
		}
	}
}

func TestGenerateArticleRegenerateMode(t *testing.T) {
	client := &mocks.MockAIClient{ChatResponse: `{"title":"T","content":"C"}`}
	svc := service.NewAIService(client, &mocks.MockPromptRepository{}, zerolog.Nop())

	_, err := svc.GenerateArticle(context.Background(), &models.GenerateArticleRequest{
		Type:            models.TypeInstagram,
		Keywords:        []string{"promo"},
		ExistingContent: "Old caption that needs work",
	})
	if err != nil {
		t.Fatalf("GenerateArticle failed: %v", err)
	}
	if !strings.Contains(client.LastUser, "Old caption that needs work") {
		t.Error("Expected existing content embedded in the prompt")
	}
	if !strings.Contains(strings.ToLower(client.LastUser), "improve") {
		t.Error("Expected regenerate/improve instruction")
	}
}

func TestGenerateArticleToleratesMalformedModelOutput(t *testing.T) {
	client := &mocks.MockAIClient{ChatResponse: "not json at all"}
	svc := service.NewAIService(client, &mocks.MockPromptRepository{}, zerolog.Nop())

	article, err := svc.GenerateArticle(context.Background(), &models.GenerateArticleRequest{
		Type:     models.TypeBlog,
		Keywords: []string{"seo"},
	})
	if err != nil {
		t.Fatalf("Malformed model output must not fail the call: %v", err)
	}
	if article.Content != "not json at all" {
		t.Errorf("Expected raw text as content fallback, got %q", article.Content)
	}
	if article.Title == "" {
		t.Error("Expected a defaulted title")
	}
	if article.Suggestions == nil {
		t.Error("Expected empty (non-nil) suggestions")
	}
}

func TestGenerateArticlePropagatesCompletionFailure(t *testing.T) {
	client := &mocks.MockAIClient{ChatErr: errors.New("quota exceeded")}
	svc := service.NewAIService(client, &mocks.MockPromptRepository{}, zerolog.Nop())

	_, err := svc.GenerateArticle(context.Background(), &models.GenerateArticleRequest{
		Type:     models.TypeBlog,
		Keywords: []string{"seo"},
	})
	if err == nil {
		t.Fatal("Expected completion failure to surface")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("Expected underlying message attached, got %v", err)
	}
}

func TestSuggestKeywordsSwallowsFailures(t *testing.T) {
	client := &mocks.MockAIClient{ChatErr: errors.New("network down")}
	svc := service.NewAIService(client, &mocks.MockPromptRepository{}, zerolog.Nop())

	keywords, err := svc.SuggestKeywords(context.Background(), "bakery", models.TypeBlog)
	if err != nil {
		t.Fatalf("Keyword suggestion must never propagate errors: %v", err)
	}
	if len(keywords) != 0 {
		t.Errorf("Expected empty list, got %v", keywords)
	}
}

func TestSuggestKeywordsParsesList(t *testing.T) {
	client := &mocks.MockAIClient{ChatResponse: `{"keywords":["a","b","c"]}`}
	svc := service.NewAIService(client, &mocks.MockPromptRepository{}, zerolog.Nop())

	keywords, err := svc.SuggestKeywords(context.Background(), "bakery", models.TypeBlog)
	if err != nil {
		t.Fatalf("SuggestKeywords failed: %v", err)
	}
	if len(keywords) != 3 {
		t.Errorf("Expected 3 keywords, got %v", keywords)
	}
}

func TestGenerateImageRequestsSquare(t *testing.T) {
	client := &mocks.MockAIClient{ImageURL: "https://img.example/out.png"}
	svc := service.NewAIService(client, &mocks.MockPromptRepository{}, zerolog.Nop())

	url, err := svc.GenerateImage(context.Background(), "Fresh croissants every morning", models.TypeInstagram)
	if err != nil {
		t.Fatalf("GenerateImage failed: %v", err)
	}
	if url != "https://img.example/out.png" {
		t.Errorf("URL mismatch: %q", url)
	}
	if client.LastImageSize != "1024x1024" {
		t.Errorf("Expected a square image request, got %q", client.LastImageSize)
	}
}

func TestGenerateImageFailsLoudly(t *testing.T) {
	client := &mocks.MockAIClient{ImageErr: errors.New("no url returned")}
	svc := service.NewAIService(client, &mocks.MockPromptRepository{}, zerolog.Nop())

	if _, err := svc.GenerateImage(context.Background(), "text", models.TypeBlog); err == nil {
		t.Fatal("Expected image generation failure to surface")
	}
}
