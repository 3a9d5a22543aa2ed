package agent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

// ModelFactory creates a chat model authorized with apiKey.
type ModelFactory func(ctx context.Context, apiKey string) (model.ToolCallingChatModel, error)

// OpenAIModelFactory returns a factory for the OpenAI-compatible endpoint in
// cfg (Groq by default) and the fixed model id.
func OpenAIModelFactory(cfg Config) ModelFactory {
	return func(ctx context.Context, apiKey string) (model.ToolCallingChatModel, error) {
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  apiKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return cm, nil
	}
}

func bindTools(ctx context.Context, cm model.ToolCallingChatModel, tools []tool.BaseTool) (model.ToolCallingChatModel, error) {
	var toolsInfo []*schema.ToolInfo
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		toolsInfo = append(toolsInfo, info)
	}
	return cm.WithTools(toolsInfo)
}
