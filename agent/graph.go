package agent

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

const (
	nodeTemplate = "ChatTemplate"
	nodeModel    = "ChatModel"
	nodeTools    = "ToolsNode"
)

type reactState struct {
	history []*schema.Message
}

// buildReactGraph wires the reason/act loop: the model either answers, which
// ends the run, or asks for tools whose observations are fed back to it.
func buildReactGraph(tpl prompt.ChatTemplate, cm model.ToolCallingChatModel, tn *compose.ToolsNode) (*compose.Graph[map[string]any, *schema.Message], error) {
	g := compose.NewGraph[map[string]any, *schema.Message](
		compose.WithGenLocalState(func(ctx context.Context) *reactState {
			return &reactState{}
		}))
	err := g.AddChatTemplateNode(
		nodeTemplate,
		tpl,
	)
	if err != nil {
		return nil, err
	}
	err = g.AddChatModelNode(
		nodeModel,
		cm,
		compose.WithStatePreHandler(func(ctx context.Context, in []*schema.Message, state *reactState) ([]*schema.Message, error) {
			state.history = append(state.history, in...)
			return state.history, nil
		}),
		compose.WithStatePostHandler(func(ctx context.Context, out *schema.Message, state *reactState) (*schema.Message, error) {
			state.history = append(state.history, out)
			return out, nil
		}),
	)
	if err != nil {
		return nil, err
	}
	err = g.AddToolsNode(nodeTools, tn)
	if err != nil {
		return nil, err
	}
	err = g.AddEdge(compose.START, nodeTemplate)
	if err != nil {
		return nil, err
	}
	err = g.AddEdge(nodeTemplate, nodeModel)
	if err != nil {
		return nil, err
	}
	err = g.AddBranch(nodeModel, compose.NewGraphBranch(func(ctx context.Context, in *schema.Message) (endNode string, err error) {
		if len(in.ToolCalls) > 0 {
			return nodeTools, nil
		}
		return compose.END, nil
	}, map[string]bool{nodeTools: true, compose.END: true}))
	if err != nil {
		return nil, err
	}
	err = g.AddEdge(nodeTools, nodeModel)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// maxRunSteps is the superstep budget for the given number of tool rounds:
// template and final model call, plus a model and a tools step per round.
// Reaching END does not take a step.
func maxRunSteps(iterations int) int {
	return 2*iterations + 2
}
