package report

import (
	"context"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	lcschema "github.com/tmc/langchaingo/schema"

	dm "github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
)

// fakeLLM 记录收到的消息并返回预设回复
type fakeLLM struct {
	got    []llms.MessageContent
	choice string
	empty  bool
}

func (f *fakeLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.got = messages
	if f.empty {
		return &llms.ContentResponse{}, nil
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.choice}}}, nil
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestLangChainModel_Generate(t *testing.T) {
	llm := &fakeLLM{choice: "# Report"}
	m := &langChainModel{llm: llm}

	out, err := m.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("sys"),
		schema.UserMessage("user"),
	})
	require.NoError(t, err)
	assert.Equal(t, "# Report", out.Content)
	assert.Equal(t, schema.Assistant, out.Role)

	require.Len(t, llm.got, 2)
	assert.Equal(t, lcschema.ChatMessageTypeSystem, llm.got[0].Role)
	assert.Equal(t, lcschema.ChatMessageTypeHuman, llm.got[1].Role)
	assert.Equal(t, llms.TextContent{Text: "user"}, llm.got[1].Parts[0])
}

func TestLangChainModel_EmptyChoicesFallsBack(t *testing.T) {
	s := NewSynthesizer(&langChainModel{llm: &fakeLLM{empty: true}}, nil, time.Second)
	rep := s.Synthesize(context.Background(), &dm.MarketData{Sector: "textiles"})
	assert.Equal(t, dm.SourceFallback, rep.Source)
	assert.ErrorIs(t, rep.Err, ErrEmptyCompletion)
}

func TestNewChatModel_Backends(t *testing.T) {
	cm, err := NewChatModel(context.Background(), LLMConfig{Backend: BackendLangChainGo, APIKey: "k", Model: "m", BaseURL: "http://127.0.0.1:1/v1"})
	require.NoError(t, err)
	assert.IsType(t, &langChainModel{}, cm)

	_, err = NewChatModel(context.Background(), LLMConfig{Backend: "gemini", APIKey: "k"})
	assert.Error(t, err)
}
