package mocks

import (
	"context"
	"errors"

	"github.com/seo-dashboard-api/internal/models"
	"github.com/seo-dashboard-api/internal/service"
)

// MockAIClient is a mock implementation of ai.Client. It records the last
// system/user messages so tests can assert on the prompt that was built.
type MockAIClient struct {
	ChatResponse  string
	ChatErr       error
	ImageURL      string
	ImageErr      error
	LastSystem    string
	LastUser      string
	LastImageSize string
	ChatCalls     int
	ImageCalls    int
}

func (m *MockAIClient) ChatJSON(ctx context.Context, system, user string) (string, error) {
	m.ChatCalls++
	m.LastSystem = system
	m.LastUser = user
	if m.ChatErr != nil {
		return "", m.ChatErr
	}
	return m.ChatResponse, nil
}

func (m *MockAIClient) GenerateImage(ctx context.Context, prompt, size string) (string, error) {
	m.ImageCalls++
	m.LastImageSize = size
	if m.ImageErr != nil {
		return "", m.ImageErr
	}
	return m.ImageURL, nil
}

// MockWebhookService is a mock implementation of service.WebhookService.
type MockWebhookService struct {
	Analysis *models.SEOAnalysis
	Err      error
	Report   *service.DiagnosticReport
	Calls    int

	// AnalysisFunc overrides the canned response when set.
	AnalysisFunc func(websiteURL string) (*models.SEOAnalysis, error)
}

func (m *MockWebhookService) RequestAnalysis(ctx context.Context, websiteURL string) (*models.SEOAnalysis, error) {
	m.Calls++
	if m.AnalysisFunc != nil {
		return m.AnalysisFunc(websiteURL)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Analysis, nil
}

func (m *MockWebhookService) Diagnostic(ctx context.Context) *service.DiagnosticReport {
	if m.Report != nil {
		return m.Report
	}
	return &service.DiagnosticReport{}
}

// MockPromptRepository is a mock implementation of repository.PromptRepository
// with error injection for the unreachable-store path.
type MockPromptRepository struct {
	Prompts []*models.SystemPrompt
	Err     error
}

func (m *MockPromptRepository) List(ctx context.Context) ([]*models.SystemPrompt, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Prompts, nil
}

func (m *MockPromptRepository) Create(ctx context.Context, in *models.SystemPromptInput) (*models.SystemPrompt, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	p := &models.SystemPrompt{
		ID:              "mock",
		Name:            in.Name,
		Description:     in.Description,
		Prompt:          in.Prompt,
		OutputStructure: in.OutputStructure,
		Active:          in.Active,
	}
	m.Prompts = append(m.Prompts, p)
	return p, nil
}

func (m *MockPromptRepository) Update(ctx context.Context, id string, in *models.SystemPromptInput) (*models.SystemPrompt, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.Prompts {
		if p.ID == id {
			p.Name = in.Name
			p.Description = in.Description
			p.Prompt = in.Prompt
			p.OutputStructure = in.OutputStructure
			p.Active = in.Active
			return p, nil
		}
	}
	return nil, errors.New("prompt not found")
}

func (m *MockPromptRepository) Delete(ctx context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	for i, p := range m.Prompts {
		if p.ID == id {
			m.Prompts = append(m.Prompts[:i], m.Prompts[i+1:]...)
			return nil
		}
	}
	return errors.New("prompt not found")
}

func (m *MockPromptRepository) GetActive(ctx context.Context) (*models.SystemPrompt, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.Prompts {
		if p.Active {
			return p, nil
		}
	}
	return nil, nil
}
