// Package aigen talks to the blog generation service: drafting posts
// from a topic brief, rewriting drafts to read less machine-written,
// and converting the resulting markdown into publishable HTML.
package aigen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 120 * time.Second

// Config configures the generation service client.
type Config struct {
	BaseURL string        `env:"AIGEN_BASE_URL,required"`
	APIKey  string        `env:"AIGEN_API_KEY,required"`
	Timeout time.Duration `env:"AIGEN_TIMEOUT" envDefault:"120s"`
}

// GenerateRequest is a topic brief for a new draft.
type GenerateRequest struct {
	Topic    string   `json:"topic"`
	Country  string   `json:"country,omitempty"`
	Audience string   `json:"audience,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	URLs     []string `json:"urls,omitempty"`
}

// Generator produces a markdown draft from a topic brief.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// HumanizeResult is a rewritten draft with AI-detection scores for the
// original and rewritten text.
type HumanizeResult struct {
	Content        string
	OriginalScore  int
	HumanizedScore int
}

// Humanizer rewrites a draft to lower its AI-detection score.
type Humanizer interface {
	Humanize(ctx context.Context, content string, keywords []string) (*HumanizeResult, error)
}

// Client calls the generation service over HTTP. It implements both
// Generator and Humanizer.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a generation service client.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type generateResponse struct {
	Blog string `json:"blog"`
}

// Generate requests a markdown draft for the given brief.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return "", ErrEmptyTopic
	}

	var resp generateResponse
	if err := c.post(ctx, "/generate", req, &resp); err != nil {
		return "", err
	}
	if resp.Blog == "" {
		return "", ErrGenerationFailed
	}
	return resp.Blog, nil
}

type humanizeRequest struct {
	Content  string   `json:"content"`
	Keywords []string `json:"keywords,omitempty"`
}

type humanizeResponse struct {
	Status            string `json:"status"`
	Message           string `json:"message"`
	HumanizedContent  string `json:"humanized_content"`
	DetectionOriginal int    `json:"ai_detection_original"`
	DetectionRewrite  int    `json:"ai_detection_humanized"`
}

// Humanize rewrites content and reports detection scores. The rewrite
// keeps the original's title and roughly its paragraph structure.
func (c *Client) Humanize(ctx context.Context, content string, keywords []string) (*HumanizeResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	var resp humanizeResponse
	if err := c.post(ctx, "/analyze", humanizeRequest{Content: content, Keywords: keywords}, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" || resp.HumanizedContent == "" {
		if resp.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrHumanizeFailed, resp.Message)
		}
		return nil, ErrHumanizeFailed
	}

	return &HumanizeResult{
		Content:        PreserveFormatting(content, resp.HumanizedContent),
		OriginalScore:  resp.DetectionOriginal,
		HumanizedScore: resp.DetectionRewrite,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("generation API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
