package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"

	"github.com/justsurfingit/jobchat/internal/chat"
	"github.com/justsurfingit/jobchat/internal/logger"
)

const defaultGeminiModel = "gemini-2.5-flash"

// LLMService adapts a langchaingo model to chat.Completer.
type LLMService struct {
	// Client is shared by every request so the model is created once.
	Client llms.Model

	model     string
	logger    *zap.Logger
	maxLogLen int
}

type GeminiConfig struct {
	APIKey       string
	Model        string
	MaxLogLength int
}

// NewLLMService wraps an existing langchaingo model.
func NewLLMService(client llms.Model, model string, log *zap.Logger, maxLogLength int) *LLMService {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &LLMService{
		Client:    client,
		model:     model,
		logger:    logger.WithProvider(log, "gemini", model),
		maxLogLen: maxLogLength,
	}
}

// NewGeminiService creates the Gemini client through langchaingo's googleai backend.
func NewGeminiService(ctx context.Context, cfg GeminiConfig, log *zap.Logger) (*LLMService, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultGeminiModel
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return NewLLMService(llm, model, log, cfg.MaxLogLength), nil
}

func (s *LLMService) Complete(ctx context.Context, messages []chat.Message, opts chat.CallOptions) (string, error) {
	if s == nil || s.Client == nil {
		return "", errors.New("llm service is not initialized")
	}
	if len(messages) == 0 {
		return "", errors.New("at least one message is required")
	}

	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.TextParts(messageType(m.Role), m.Content))
	}

	var callOpts []llms.CallOption
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}
	if opts.Temperature != nil {
		callOpts = append(callOpts, llms.WithTemperature(*opts.Temperature))
	}

	s.logger.Debug("generate content request",
		zap.Int("messages", len(messages)),
		zap.String("last_message_preview", logger.TruncateForLog(messages[len(messages)-1].Content, s.maxLogLen)),
	)

	resp, err := s.Client.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", errors.New("llm returned no choices")
	}

	output := strings.TrimSpace(resp.Choices[0].Content)
	s.logger.Debug("generate content response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", logger.TruncateForLog(output, s.maxLogLen)),
	)
	return output, nil
}

func (s *LLMService) Model() string {
	if s == nil {
		return ""
	}
	return s.model
}

func messageType(role chat.Role) llms.ChatMessageType {
	switch role {
	case chat.RoleSystem:
		return llms.ChatMessageTypeSystem
	case chat.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
