// Package agent builds the eino reasoning agent that answers a chat message,
// calling the web search, Wikipedia and arXiv tools as it sees fit.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Fl0rencess720/SearchChat/chat"
)

const (
	DefaultBaseURL       = "https://api.groq.com/openai/v1"
	DefaultModel         = "llama3-8b-8192"
	DefaultMaxIterations = 15
)

// ErrEmptyAnswer is returned when the model finishes without any text.
var ErrEmptyAnswer = errors.New("model returned an empty answer")

// Config fixes the model and loop budget shared by every turn.
type Config struct {
	BaseURL       string
	Model         string
	MaxIterations int
}

// Builder constructs a fresh reasoning agent for every turn.
type Builder struct {
	cfg      Config
	tools    []tool.BaseTool
	newModel ModelFactory
	logger   *slog.Logger
}

func NewBuilder(cfg Config, ts Toolset, logger *slog.Logger) (*Builder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	tools, err := ts.tools(logger)
	if err != nil {
		return nil, fmt.Errorf("new builder: %w", err)
	}
	return &Builder{
		cfg:      cfg,
		tools:    tools,
		newModel: OpenAIModelFactory(cfg),
		logger:   logger,
	}, nil
}

// Build implements chat.AgentBuilder.
func (b *Builder) Build(ctx context.Context, credential string) (chat.Agent, error) {
	cm, err := b.newModel(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("chat model: %w", err)
	}
	cm, err = bindTools(ctx, cm, b.tools)
	if err != nil {
		return nil, fmt.Errorf("bind tools: %w", err)
	}
	tn, err := compose.NewToolNode(ctx, &compose.ToolsNodeConfig{
		Tools:               b.tools,
		UnknownToolsHandler: unknownToolHandler(b.logger),
	})
	if err != nil {
		return nil, fmt.Errorf("tools node: %w", err)
	}
	g, err := buildReactGraph(newChatTemplate(ctx), cm, tn)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	runnable, err := g.Compile(
		ctx,
		compose.WithGraphName("SearchChat"),
		compose.WithMaxRunSteps(maxRunSteps(b.cfg.MaxIterations)),
	)
	if err != nil {
		return nil, fmt.Errorf("compile graph: %w", err)
	}
	return &reasoningAgent{
		runnable: runnable,
		logger:   b.logger,
	}, nil
}

type reasoningAgent struct {
	runnable compose.Runnable[map[string]any, *schema.Message]
	logger   *slog.Logger
}

// Run streams the final answer and concatenates it into one string.
func (a *reasoningAgent) Run(ctx context.Context, message string) chat.Outcome {
	sr, err := a.runnable.Stream(ctx, map[string]any{
		userInputKey: message,
	})
	if err != nil {
		return chat.Failed(err)
	}
	defer sr.Close()

	var sb strings.Builder
	chunks := 0
	for {
		chunk, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return chat.Failed(err)
		}
		if chunk == nil {
			continue
		}
		sb.WriteString(chunk.Content)
		chunks++
	}
	a.logger.Debug("answer streamed", "chunks", chunks)

	answer := strings.TrimSpace(sb.String())
	if answer == "" {
		return chat.Failed(ErrEmptyAnswer)
	}
	return chat.Succeeded(answer)
}
