package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type openAI struct {
	endpoint   string
	key        string
	chatModel  string
	imageModel string
	http       *http.Client
	log        zerolog.Logger
}

// NewOpenAI creates a completion/image client against an OpenAI-compatible
// endpoint.
func NewOpenAI(endpoint, key, chatModel, imageModel string, timeout time.Duration, log zerolog.Logger) Client {
	return &openAI{
		endpoint:   strings.TrimRight(endpoint, "/"),
		key:        key,
		chatModel:  chatModel,
		imageModel: imageModel,
		http:       &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "openai").Logger(),
	}
}

func (c *openAI) ChatJSON(ctx context.Context, system, user string) (string, error) {
	reqBody := map[string]interface{}{
		"model": c.chatModel,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"temperature":     0.7,
		"response_format": map[string]string{"type": "json_object"},
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.post(ctx, "/v1/chat/completions", reqBody, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func (c *openAI) GenerateImage(ctx context.Context, prompt, size string) (string, error) {
	reqBody := map[string]interface{}{
		"model":  c.imageModel,
		"prompt": prompt,
		"n":      1,
		"size":   size,
	}

	var out struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := c.post(ctx, "/v1/images/generations", reqBody, &out); err != nil {
		return "", err
	}
	if len(out.Data) == 0 || out.Data[0].URL == "" {
		return "", fmt.Errorf("image generation returned no URL")
	}
	return out.Data[0].URL, nil
}

func (c *openAI) post(ctx context.Context, path string, body, out interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("completion API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).
			Msg("Completion API returned an error")
		return fmt.Errorf("completion API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
