package agent

import (
	"context"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

const userInputKey = "user_input"

const systemPrompt = `Answer the user's question as well as you can. You have access to web search, Wikipedia and arXiv tools.

Work in steps. First think about what you need to know. If a tool would help, call it with a short search query and read the observation it returns. Repeat until you know enough, then write the final answer for the user in plain prose, describing what you found.

Call only the tools you were given, and pass every tool a JSON object with a single "query" field. If an observation says the tool input was invalid, fix the call and try again. Answer directly without tools when the question does not need them.`

func newChatTemplate(_ context.Context) prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{"+userInputKey+"}"),
	)
}
