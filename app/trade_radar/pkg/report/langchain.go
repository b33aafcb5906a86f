package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
	lcschema "github.com/tmc/langchaingo/schema"
)

// langChainModel 让 langchaingo 的 OpenAI 兼容客户端满足 eino 的 BaseChatModel，
// 用于 eino-ext 无法对接的后端
type langChainModel struct {
	llm llms.Model
}

var _ model.BaseChatModel = (*langChainModel)(nil)

func newLangChainModel(cfg LLMConfig) (model.BaseChatModel, error) {
	opts := []lcopenai.Option{
		lcopenai.WithToken(cfg.APIKey),
		lcopenai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return &langChainModel{llm: llm}, nil
}

func (m *langChainModel) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	msgs := make([]llms.MessageContent, 0, len(input))
	for _, in := range input {
		msgs = append(msgs, llms.TextParts(chatMessageType(in.Role), in.Content))
	}

	resp, err := m.llm.GenerateContent(ctx, msgs)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}
	return schema.AssistantMessage(resp.Choices[0].Content, nil), nil
}

func (m *langChainModel) Stream(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming is not supported by the langchaingo backend")
}

func chatMessageType(role schema.RoleType) lcschema.ChatMessageType {
	switch role {
	case schema.System:
		return lcschema.ChatMessageTypeSystem
	case schema.Assistant:
		return lcschema.ChatMessageTypeAI
	default:
		return lcschema.ChatMessageTypeHuman
	}
}
