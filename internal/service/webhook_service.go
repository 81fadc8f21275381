package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/apperr"
	"github.com/seo-dashboard-api/internal/config"
	"github.com/seo-dashboard-api/internal/models"
)

// webhookService requests an SEO analysis from the workflow-automation
// endpoint and normalizes its nested payload into the flat internal shape.
// The derivation formulas here feed numbers the dashboard displays directly,
// so they must stay stable across providers.
type webhookService struct {
	cfg  *config.WebhookConfig
	http *http.Client
	log  zerolog.Logger
}

// NewWebhookService creates the workflow webhook adapter.
func NewWebhookService(cfg *config.WebhookConfig, log zerolog.Logger) *webhookService {
	return &webhookService{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.RequestTimeout},
		log:  log.With().Str("service", "webhook").Logger(),
	}
}

// webhookPayload is the slice of the upstream shape this system reads. The
// payload is owned by the workflow tool; everything not modeled here is kept
// verbatim in SEOAnalysis.Raw.
type webhookPayload struct {
	Report struct {
		HTTPStatus  int `json:"http_status"`
		Performance struct {
			Mobile  deviceMetrics `json:"mobile"`
			Desktop deviceMetrics `json:"desktop"`
		} `json:"performance"`
		DomainMetrics struct {
			OrganicTraffic int `json:"organic_traffic"`
			Keywords       int `json:"keywords"`
			Backlinks      int `json:"backlinks"`
		} `json:"domain_metrics"`
		ActionPlan90Days []planAction      `json:"action_plan_90d"`
		BrandKeywords    []upstreamKeyword `json:"brand_keywords"`
		NonBrandTop10    []upstreamKeyword `json:"non_brand_top10"`
	} `json:"report"`
}

type deviceMetrics struct {
	LCPSeconds float64 `json:"lcp_seconds"`
}

type planAction struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type upstreamKeyword struct {
	Keyword  string `json:"keyword"`
	Position int    `json:"position"`
	Volume   int    `json:"volume"`
}

// RequestAnalysis round-trips the webhook for websiteURL and returns the
// derived analysis.
func (s *webhookService) RequestAnalysis(ctx context.Context, websiteURL string) (*models.SEOAnalysis, error) {
	if s.cfg.URL == "" {
		return nil, apperr.Webhook(
			"no analysis webhook configured",
			"set SEO_WEBHOOK_URL to the workflow's production webhook URL",
		)
	}

	q := url.Values{}
	q.Set("url", websiteURL)
	q.Set("timestamp", strconv.FormatInt(time.Now().Unix(), 10))
	endpoint := s.cfg.URL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperr.Upstream(err, "failed to build webhook request")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, apperr.Upstream(err, "webhook request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Upstream(err, "failed to read webhook response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, s.classifyFailure(resp.StatusCode, body)
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperr.Upstream(err, "webhook returned unparseable payload")
	}

	analysis := normalizeAnalysis(&payload, body)
	s.log.Info().Str("url", websiteURL).Int("score", analysis.Score).
		Msg("SEO analysis received and normalized")
	return analysis, nil
}

// classifyFailure distinguishes failures the operator can act on from
// generic ones, so the UI can show "configuration needed" instead of
// "something went wrong".
func (s *webhookService) classifyFailure(status int, body []byte) error {
	lower := strings.ToLower(string(body))
	switch {
	case status == http.StatusNotFound && strings.Contains(lower, "test mode"):
		return apperr.Webhook(
			"analysis workflow is running in test mode",
			"execute the workflow once from its editor or switch it to production mode, then retry",
		)
	case status == http.StatusNotFound:
		return apperr.Webhook(
			"analysis workflow is not activated",
			"activate the workflow so its production webhook starts accepting requests",
		)
	case status == http.StatusInternalServerError:
		return apperr.Webhook(
			"analysis workflow is misconfigured",
			"check the workflow's execution log for the failing node",
		)
	default:
		return apperr.Webhook(
			fmt.Sprintf("analysis webhook returned status %d", status),
			"verify the webhook URL and retry",
		)
	}
}

// normalizeAnalysis flattens the upstream payload into the internal analysis
// shape, deriving the display metrics.
func normalizeAnalysis(payload *webhookPayload, raw []byte) *models.SEOAnalysis {
	report := &payload.Report

	// Linear LCP penalty per device: 100 minus 20 points per second of
	// largest contentful paint, floored at 0. Deliberately simple; not a
	// copy of any upstream score.
	mobileScore := lcpScore(report.Performance.Mobile.LCPSeconds)
	desktopScore := lcpScore(report.Performance.Desktop.LCPSeconds)

	analysis := &models.SEOAnalysis{
		Score:          int(math.Round((mobileScore + desktopScore) / 2)),
		OrganicTraffic: report.DomainMetrics.OrganicTraffic,
		Keywords:       report.DomainMetrics.Keywords,
		Backlinks:      report.DomainMetrics.Backlinks,
		PageSpeed:      int(math.Round(desktopScore)),
		TechnicalSEO: models.TechnicalSEO{
			MobileFriendly: report.Performance.Mobile.LCPSeconds < 4,
			HTTPSSecure:    report.HTTPStatus == http.StatusOK,
			// TODO: check the real sitemap.xml and robots.txt once the
			// workflow exposes crawl results for them; until then any
			// successfully crawled site reports both as present.
			SitemapPresent: true,
			RobotsPresent:  true,
		},
		Recommendations: normalizeRecommendations(report.ActionPlan90Days),
		KeywordRankings: normalizeKeywords(report.BrandKeywords, report.NonBrandTop10),
		TrafficHistory:  syntheticTraffic(report.DomainMetrics.OrganicTraffic),
		Raw:             json.RawMessage(raw),
	}
	return analysis
}

func lcpScore(lcpSeconds float64) float64 {
	return math.Max(0, 100-lcpSeconds*20)
}

// normalizeRecommendations maps the upstream 90-day action plan, inferring
// the category from the priority.
func normalizeRecommendations(actions []planAction) []models.Recommendation {
	recs := make([]models.Recommendation, 0, len(actions))
	for i, a := range actions {
		category := models.CategoryContent
		if a.Priority == models.PriorityHigh {
			category = models.CategoryTechnical
		}
		priority := a.Priority
		if priority == "" {
			priority = models.PriorityMedium
		}
		recs = append(recs, models.Recommendation{
			ID:          i + 1,
			Title:       a.Title,
			Description: a.Description,
			Priority:    priority,
			Category:    category,
		})
	}
	return recs
}

// normalizeKeywords concatenates brand keywords and the non-brand top 10.
// Brand terms rank by definition, so their trend is always stable; for
// non-brand terms a top-5 position is read as an upward trend.
func normalizeKeywords(brand, nonBrand []upstreamKeyword) []models.KeywordRanking {
	rankings := make([]models.KeywordRanking, 0, len(brand)+len(nonBrand))
	for _, k := range brand {
		rankings = append(rankings, models.KeywordRanking{
			Keyword:  k.Keyword,
			Position: k.Position,
			Volume:   k.Volume,
			Trend:    models.TrendStable,
		})
	}
	for _, k := range nonBrand {
		trend := models.TrendStable
		if k.Position <= 5 {
			trend = models.TrendUp
		}
		rankings = append(rankings, models.KeywordRanking{
			Keyword:  k.Keyword,
			Position: k.Position,
			Volume:   k.Volume,
			Trend:    trend,
		})
	}
	return rankings
}

// syntheticTraffic spreads the organic-traffic estimate across the last 30
// days with ±20% jitter. Display placeholder until measured daily data is
// available upstream.
func syntheticTraffic(organicTraffic int) []models.TrafficPoint {
	const days = 30
	daily := float64(organicTraffic) / days

	points := make([]models.TrafficPoint, 0, days)
	start := time.Now().AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		jitter := 0.8 + rand.Float64()*0.4
		points = append(points, models.TrafficPoint{
			Date:   start.AddDate(0, 0, i).Format("2006-01-02"),
			Visits: int(daily * jitter),
		})
	}
	return points
}

// DiagnosticReport is the result of probing the webhook with both verbs.
type DiagnosticReport struct {
	WebhookURL string     `json:"webhook_url"`
	GET        VerbResult `json:"get"`
	POST       VerbResult `json:"post"`
}

// VerbResult is the outcome of one probe.
type VerbResult struct {
	OK     bool   `json:"ok"`
	Status int    `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Diagnostic exercises the configured webhook with GET and POST and reports
// which verb the workflow accepts. Operational tool, not a data path.
func (s *webhookService) Diagnostic(ctx context.Context) *DiagnosticReport {
	report := &DiagnosticReport{WebhookURL: s.cfg.URL}
	if s.cfg.URL == "" {
		report.GET.Error = "no webhook URL configured"
		report.POST.Error = "no webhook URL configured"
		return report
	}
	report.GET = s.probe(ctx, http.MethodGet)
	report.POST = s.probe(ctx, http.MethodPost)
	return report
}

func (s *webhookService) probe(ctx context.Context, method string) VerbResult {
	req, err := http.NewRequestWithContext(ctx, method, s.cfg.URL, nil)
	if err != nil {
		return VerbResult{Error: err.Error()}
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return VerbResult{Error: err.Error()}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return VerbResult{OK: resp.StatusCode < 400, Status: resp.StatusCode}
}
