package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	jsoniter "github.com/json-iterator/go"

	"github.com/Fl0rencess720/SearchChat/search"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	webSearchTool    = "Search"
	wikipediaTool    = "wikipedia"
	arxivTool        = "arxiv"
	invalidToolInput = "Invalid tool input"
)

type params struct {
	Query string `json:"query" description:"the search query"`
}

type result struct {
	Output string `json:"output" description:"text found for the query"`
}

// Toolset is the fixed set of lookups offered to the model.
type Toolset struct {
	Web          search.Searcher
	Encyclopedia search.Searcher
	Papers       search.Searcher
}

// NewToolset wires the public DuckDuckGo, Wikipedia and arXiv lookups.
func NewToolset(client *http.Client) Toolset {
	return Toolset{
		Web:          search.NewDuckDuckGo(client),
		Encyclopedia: search.NewWikipedia(client),
		Papers:       search.NewArxiv(client),
	}
}

func (ts Toolset) tools(logger *slog.Logger) ([]tool.BaseTool, error) {
	specs := []struct {
		name     string
		desc     string
		searcher search.Searcher
	}{
		{
			name:     webSearchTool,
			desc:     "Searches the web with DuckDuckGo. Useful for current events and anything not covered by the other tools. Input should be a search query.",
			searcher: ts.Web,
		},
		{
			name:     wikipediaTool,
			desc:     "Looks up Wikipedia. Useful for general questions about people, places, companies, facts, historical events, or other subjects. Input should be a search query.",
			searcher: ts.Encyclopedia,
		},
		{
			name:     arxivTool,
			desc:     "Looks up scientific papers on arxiv.org. Useful for questions about physics, mathematics, computer science, quantitative biology, quantitative finance, statistics, electrical engineering, and economics. Input should be a search query.",
			searcher: ts.Papers,
		},
	}

	tools := make([]tool.BaseTool, 0, len(specs))
	for _, spec := range specs {
		if spec.searcher == nil {
			return nil, fmt.Errorf("tool %s: no searcher", spec.name)
		}
		searcher := spec.searcher
		t, err := utils.InferTool(spec.name, spec.desc,
			func(ctx context.Context, p *params) (*result, error) {
				out, err := searcher.Search(ctx, p.Query)
				if err != nil {
					return nil, err
				}
				return &result{Output: out}, nil
			})
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", spec.name, err)
		}
		tools = append(tools, &tolerantTool{InvokableTool: t, name: spec.name, logger: logger})
	}
	return tools, nil
}

// tolerantTool answers malformed arguments with an observation the model can
// correct from, instead of failing the whole turn.
type tolerantTool struct {
	tool.InvokableTool
	name   string
	logger *slog.Logger
}

func (t *tolerantTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	args, err := normalizeArguments(argumentsInJSON)
	if err != nil {
		t.logger.Warn("malformed tool call", "tool", t.name, "error", err)
		return fmt.Sprintf("%s: %v. Call %s again with a JSON object like {\"query\": \"...\"}.", invalidToolInput, err, t.name), nil
	}
	t.logger.Debug("tool call", "tool", t.name)
	return t.InvokableTool.InvokableRun(ctx, args, opts...)
}

// normalizeArguments accepts a {"query": ...} object or a bare JSON string and
// returns the canonical object form.
func normalizeArguments(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	var p params
	if err := json.UnmarshalFromString(raw, &p); err != nil {
		var bare string
		if json.UnmarshalFromString(raw, &bare) != nil {
			return "", errors.New("arguments are not a JSON object")
		}
		p.Query = bare
	}
	if strings.TrimSpace(p.Query) == "" {
		return "", errors.New("query is empty")
	}
	return json.MarshalToString(p)
}

func unknownToolHandler(logger *slog.Logger) func(ctx context.Context, name, input string) (string, error) {
	return func(_ context.Context, name, _ string) (string, error) {
		logger.Warn("unknown tool requested", "tool", name)
		return fmt.Sprintf("%s is not a valid tool, try one of [%s, %s, %s].", name, webSearchTool, wikipediaTool, arxivTool), nil
	}
}
