package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/justsurfingit/jobchat/internal/chat"
	"github.com/justsurfingit/jobchat/internal/logger"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenRouterTimeout = 60 * time.Second
	maxResponseBytes         = 10 * 1024 * 1024
	defaultMaxLogLength      = 200
)

// OpenRouterConfig holds configuration for OpenRouterClient.
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// SiteURL and SiteName are sent as HTTP-Referer and X-Title.
	SiteURL  string
	SiteName string
	Timeout  time.Duration

	MaxLogLength int
}

// OpenRouterClient talks to the OpenAI-compatible chat completions
// endpoint of OpenRouter.
type OpenRouterClient struct {
	apiKey     string
	baseURL    string
	model      string
	siteURL    string
	siteName   string
	httpClient *http.Client
	logger     *zap.Logger
	maxLogLen  int
}

type openRouterRequest struct {
	Model       string         `json:"model"`
	Messages    []chat.Message `json:"messages"`
	MaxTokens   int            `json:"max_tokens,omitempty"`
	Temperature *float64       `json:"temperature,omitempty"`
}

type openRouterResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    any    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewOpenRouterClient(cfg OpenRouterConfig, log *zap.Logger) (*OpenRouterClient, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openrouter api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("openrouter model is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultOpenRouterTimeout
	}
	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	return &OpenRouterClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		siteURL:    cfg.SiteURL,
		siteName:   cfg.SiteName,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.WithProvider(log, "openrouter", model),
		maxLogLen:  maxLogLen,
	}, nil
}

// Complete posts the conversation and returns choices[0].message.content.
// Non-2xx statuses, API error bodies and empty choice lists are errors.
func (c *OpenRouterClient) Complete(ctx context.Context, messages []chat.Message, opts chat.CallOptions) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("at least one message is required")
	}

	payload, err := json.Marshal(openRouterRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.siteURL != "" {
		req.Header.Set("HTTP-Referer", c.siteURL)
	}
	if c.siteName != "" {
		req.Header.Set("X-Title", c.siteName)
	}

	last := messages[len(messages)-1].Content
	c.logger.Debug("chat completion request",
		zap.Int("messages", len(messages)),
		zap.Int("max_tokens", opts.MaxTokens),
		zap.String("last_message_preview", logger.TruncateForLog(last, c.maxLogLen)),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("chat completion failed with status %d: %s",
			resp.StatusCode, logger.TruncateForLog(string(body), c.maxLogLen))
	}

	var decoded openRouterResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("api error: %s", decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("no completion returned")
	}

	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	c.logger.Debug("chat completion response",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_length", utf8.RuneCountInString(content)),
		zap.String("response_preview", logger.TruncateForLog(content, c.maxLogLen)),
	)
	return content, nil
}

func (c *OpenRouterClient) Model() string { return c.model }
