package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/justsurfingit/jobchat/internal/chat"
)

// SummaryService asks the completer for a short analysis of a finished
// posting. Failures degrade to the localized placeholder.
type SummaryService struct {
	completer chat.Completer
	maxTokens int
	logger    *zap.Logger
}

func NewSummaryService(completer chat.Completer, maxTokens int, logger *zap.Logger) *SummaryService {
	if maxTokens <= 0 {
		maxTokens = chat.DefaultMaxTokens
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{completer: completer, maxTokens: maxTokens, logger: logger}
}

func (s *SummaryService) Summarize(ctx context.Context, lang chat.Language, fields chat.FieldSet) string {
	messages := []chat.Message{
		{Role: chat.RoleSystem, Content: chat.SystemPrompt(lang, "")},
		{Role: chat.RoleUser, Content: chat.SummaryPrompt(lang, fields)},
	}

	analysis, err := s.completer.Complete(ctx, messages, chat.CallOptions{MaxTokens: s.maxTokens})
	if err != nil {
		s.logger.Warn("summary request failed", zap.Error(err))
		return chat.AnalysisFailed(lang)
	}

	analysis = strings.TrimSpace(analysis)
	if analysis == "" {
		return chat.AnalysisFailed(lang)
	}
	return analysis
}
