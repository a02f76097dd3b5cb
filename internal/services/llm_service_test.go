package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/justsurfingit/jobchat/internal/chat"
)

type fakeModel struct {
	messages []llms.MessageContent
	opts     llms.CallOptions
	resp     *llms.ContentResponse
	err      error
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	for _, opt := range options {
		opt(&m.opts)
	}
	return m.resp, m.err
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestLLMServiceMapsRoles(t *testing.T) {
	model := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: " next question "}}}}
	svc := NewLLMService(model, "gemini-test", zap.NewNop(), 0)

	temp := 0.5
	got, err := svc.Complete(context.Background(), []chat.Message{
		{Role: chat.RoleSystem, Content: "sys"},
		{Role: chat.RoleAssistant, Content: "hello"},
		{Role: chat.RoleUser, Content: "hi"},
	}, chat.CallOptions{MaxTokens: 300, Temperature: &temp})
	require.NoError(t, err)
	assert.Equal(t, "next question", got)

	require.Len(t, model.messages, 3)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, model.messages[1].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[2].Role)
	assert.Equal(t, []llms.ContentPart{llms.TextContent{Text: "hi"}}, model.messages[2].Parts)

	assert.Equal(t, 300, model.opts.MaxTokens)
	assert.InDelta(t, 0.5, model.opts.Temperature, 1e-9)
	assert.Equal(t, "gemini-test", svc.Model())
}

func TestLLMServiceErrors(t *testing.T) {
	msgs := []chat.Message{{Role: chat.RoleUser, Content: "x"}}

	_, err := NewLLMService(&fakeModel{err: errors.New("quota")}, "m", nil, 0).Complete(context.Background(), msgs, chat.CallOptions{})
	assert.ErrorContains(t, err, "quota")

	_, err = NewLLMService(&fakeModel{resp: &llms.ContentResponse{}}, "m", nil, 0).Complete(context.Background(), msgs, chat.CallOptions{})
	assert.ErrorContains(t, err, "no choices")

	var nilSvc *LLMService
	_, err = nilSvc.Complete(context.Background(), msgs, chat.CallOptions{})
	assert.Error(t, err)
}
