package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/apperr"
	"github.com/seo-dashboard-api/internal/config"
	"github.com/seo-dashboard-api/internal/models"
)

func webhookFor(t *testing.T, handler http.HandlerFunc) *webhookService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewWebhookService(&config.WebhookConfig{
		URL:            srv.URL,
		RequestTimeout: 5 * time.Second,
	}, zerolog.Nop())
}

const samplePayload = `{
	"report": {
		"http_status": 200,
		"performance": {
			"mobile":  {"lcp_seconds": 3.0},
			"desktop": {"lcp_seconds": 1.8}
		},
		"domain_metrics": {
			"organic_traffic": 1200,
			"keywords": 85,
			"backlinks": 430
		},
		"action_plan_90d": [
			{"title": "Fix canonical tags", "description": "Duplicate pages detected", "priority": "high"},
			{"title": "Publish monthly article", "description": "Thin content", "priority": "medium"}
		],
		"brand_keywords": [
			{"keyword": "boulangerie martin", "position": 1, "volume": 320}
		],
		"non_brand_top10": [
			{"keyword": "pain artisanal paris", "position": 4, "volume": 900},
			{"keyword": "croissant bio", "position": 9, "volume": 1500}
		]
	}
}`

func TestRequestAnalysisScoreDerivation(t *testing.T) {
	svc := webhookFor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("url") == "" || r.URL.Query().Get("timestamp") == "" {
			t.Error("Expected url and timestamp query parameters")
		}
		w.Write([]byte(samplePayload))
	})

	analysis, err := svc.RequestAnalysis(context.Background(), "https://martin.example")
	if err != nil {
		t.Fatalf("RequestAnalysis failed: %v", err)
	}

	// mobile: max(0, 100-3.0*20)=40; desktop: max(0, 100-1.8*20)=64;
	// overall: round((40+64)/2)=52; page speed reuses the desktop score.
	if analysis.Score != 52 {
		t.Errorf("Expected overall score 52, got %d", analysis.Score)
	}
	if analysis.PageSpeed != 64 {
		t.Errorf("Expected page speed 64, got %d", analysis.PageSpeed)
	}
	if analysis.OrganicTraffic != 1200 || analysis.Keywords != 85 || analysis.Backlinks != 430 {
		t.Errorf("Domain metrics mismatch: %+v", analysis)
	}

	// mobile LCP 3.0 < 4 so mobile-friendly; upstream HTTP 200 so HTTPS fine.
	tech := analysis.TechnicalSEO
	if !tech.MobileFriendly || !tech.HTTPSSecure || !tech.SitemapPresent || !tech.RobotsPresent {
		t.Errorf("Technical checklist mismatch: %+v", tech)
	}

	if len(analysis.Raw) == 0 {
		t.Error("Expected verbatim raw payload to be retained")
	}
	var roundTrip map[string]interface{}
	if err := json.Unmarshal(analysis.Raw, &roundTrip); err != nil {
		t.Errorf("Raw payload is not valid JSON: %v", err)
	}
}

func TestRequestAnalysisRecommendationsAndKeywords(t *testing.T) {
	svc := webhookFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePayload))
	})

	analysis, err := svc.RequestAnalysis(context.Background(), "https://martin.example")
	if err != nil {
		t.Fatalf("RequestAnalysis failed: %v", err)
	}

	if len(analysis.Recommendations) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d", len(analysis.Recommendations))
	}
	if analysis.Recommendations[0].Category != models.CategoryTechnical {
		t.Errorf("High priority should map to %q, got %q", models.CategoryTechnical, analysis.Recommendations[0].Category)
	}
	if analysis.Recommendations[1].Category != models.CategoryContent {
		t.Errorf("Non-high priority should map to %q, got %q", models.CategoryContent, analysis.Recommendations[1].Category)
	}

	// Brand keywords first, always stable; non-brand top-5 trend up.
	kw := analysis.KeywordRankings
	if len(kw) != 3 {
		t.Fatalf("Expected 3 keywords, got %d", len(kw))
	}
	if kw[0].Keyword != "boulangerie martin" || kw[0].Trend != models.TrendStable {
		t.Errorf("Brand keyword mismatch: %+v", kw[0])
	}
	if kw[1].Position != 4 || kw[1].Trend != models.TrendUp {
		t.Errorf("Position 4 should trend up: %+v", kw[1])
	}
	if kw[2].Position != 9 || kw[2].Trend != models.TrendStable {
		t.Errorf("Position 9 should be stable: %+v", kw[2])
	}
}

func TestRequestAnalysisSyntheticTraffic(t *testing.T) {
	svc := webhookFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePayload))
	})

	analysis, err := svc.RequestAnalysis(context.Background(), "https://martin.example")
	if err != nil {
		t.Fatalf("RequestAnalysis failed: %v", err)
	}

	if len(analysis.TrafficHistory) != 30 {
		t.Fatalf("Expected 30 traffic points, got %d", len(analysis.TrafficHistory))
	}
	daily := 1200.0 / 30
	for _, p := range analysis.TrafficHistory {
		// ±20% jitter around the even daily split.
		if float64(p.Visits) < daily*0.8-1 || float64(p.Visits) > daily*1.2+1 {
			t.Errorf("Traffic point %d outside jitter bounds", p.Visits)
		}
	}
}

func TestRequestAnalysisFailureClassification(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		wantHint string
	}{
		{"not activated", http.StatusNotFound, `{"message":"webhook not registered"}`, "activate"},
		{"test mode", http.StatusNotFound, `{"message":"webhook only works in test mode"}`, "production"},
		{"misconfigured", http.StatusInternalServerError, `{"message":"node failed"}`, "execution log"},
		{"generic", http.StatusBadGateway, "bad gateway", "verify"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := webhookFor(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			_, err := svc.RequestAnalysis(context.Background(), "https://x.example")
			if err == nil {
				t.Fatal("Expected an error")
			}
			if apperr.KindOf(err) != apperr.KindWebhook {
				t.Fatalf("Expected webhook-class error, got kind %q", apperr.KindOf(err))
			}
			e := apperr.AsError(err, "")
			if !strings.Contains(strings.ToLower(e.Hint), tc.wantHint) {
				t.Errorf("Expected hint containing %q, got %q", tc.wantHint, e.Hint)
			}
		})
	}
}

func TestRequestAnalysisUnconfigured(t *testing.T) {
	svc := NewWebhookService(&config.WebhookConfig{RequestTimeout: time.Second}, zerolog.Nop())
	_, err := svc.RequestAnalysis(context.Background(), "https://x.example")
	if apperr.KindOf(err) != apperr.KindWebhook {
		t.Errorf("Expected webhook-class error for missing configuration, got %v", err)
	}
}

func TestDiagnosticReportsBothVerbs(t *testing.T) {
	svc := webhookFor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("{}"))
	})

	report := svc.Diagnostic(context.Background())
	if !report.GET.OK {
		t.Errorf("Expected GET probe to succeed: %+v", report.GET)
	}
	if report.POST.OK {
		t.Errorf("Expected POST probe to fail: %+v", report.POST)
	}
}
