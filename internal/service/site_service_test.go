package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/apperr"
	"github.com/seo-dashboard-api/internal/mocks"
	"github.com/seo-dashboard-api/internal/models"
	"github.com/seo-dashboard-api/internal/repository"
	"github.com/seo-dashboard-api/internal/service"
)

func TestCreateSiteBestEffortAnalysis(t *testing.T) {
	webhook := &mocks.MockWebhookService{
		Err: apperr.Webhook("analysis workflow is not activated", "activate it"),
	}
	svc := service.NewSiteService(repository.NewMemorySiteRepo(), webhook, zerolog.Nop())

	site, err := svc.Create(context.Background(), "Boulangerie", "https://boulangerie.example")
	if err != nil {
		t.Fatalf("Site creation must succeed despite analysis failure: %v", err)
	}
	if site.Analysis != nil {
		t.Error("Expected no analysis attached when the fetch fails")
	}
	if webhook.Calls != 1 {
		t.Errorf("Expected one analysis attempt, got %d", webhook.Calls)
	}
}

func TestCreateSiteAttachesAnalysisOnSuccess(t *testing.T) {
	webhook := &mocks.MockWebhookService{Analysis: &models.SEOAnalysis{Score: 71}}
	repo := repository.NewMemorySiteRepo()
	svc := service.NewSiteService(repo, webhook, zerolog.Nop())

	site, err := svc.Create(context.Background(), "Garage", "https://garage.example")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if site.Analysis == nil || site.Analysis.Score != 71 {
		t.Errorf("Expected attached analysis, got %+v", site.Analysis)
	}

	// The analysis must also be persisted, not just returned.
	stored, _ := repo.Get(context.Background(), site.ID)
	if stored.Analysis == nil || stored.Analysis.Score != 71 {
		t.Errorf("Expected persisted analysis, got %+v", stored.Analysis)
	}
}

func TestRefreshAnalysisLatestWins(t *testing.T) {
	repo := repository.NewMemorySiteRepo()
	score := 10
	webhook := &mocks.MockWebhookService{
		AnalysisFunc: func(string) (*models.SEOAnalysis, error) {
			score += 25
			return &models.SEOAnalysis{Score: score}, nil
		},
	}
	svc := service.NewSiteService(repo, webhook, zerolog.Nop())

	site, _ := svc.Create(context.Background(), "Fleuriste", "https://rose.example")

	first, err := svc.RefreshAnalysis(context.Background(), site.ID)
	if err != nil {
		t.Fatalf("First refresh failed: %v", err)
	}
	second, err := svc.RefreshAnalysis(context.Background(), site.ID)
	if err != nil {
		t.Fatalf("Second refresh failed: %v", err)
	}
	if first.Score == second.Score {
		t.Fatal("Test setup broken: refreshes produced identical scores")
	}

	stored, _ := repo.Get(context.Background(), site.ID)
	if stored.Analysis.Score != second.Score {
		t.Errorf("Expected the second refresh to win, stored score %d want %d",
			stored.Analysis.Score, second.Score)
	}
}

func TestRefreshAnalysisUnknownSite(t *testing.T) {
	svc := service.NewSiteService(repository.NewMemorySiteRepo(), &mocks.MockWebhookService{}, zerolog.Nop())
	_, err := svc.RefreshAnalysis(context.Background(), 42)
	if !apperr.IsNotFound(err) {
		t.Errorf("Expected not-found, got %v", err)
	}
}

func TestGetAnalysisWithoutOne(t *testing.T) {
	repo := repository.NewMemorySiteRepo()
	webhook := &mocks.MockWebhookService{Err: apperr.Webhook("down", "")}
	svc := service.NewSiteService(repo, webhook, zerolog.Nop())

	site, _ := svc.Create(context.Background(), "Cafe", "https://cafe.example")
	_, err := svc.GetAnalysis(context.Background(), site.ID)
	if !apperr.IsNotFound(err) {
		t.Errorf("Expected not-found for missing analysis, got %v", err)
	}
}
