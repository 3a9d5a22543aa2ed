package chat

import (
	"context"
	"errors"
)

// Outcome is what an Agent hands back for one message: either the final
// answer text or the reason the turn failed.
type Outcome struct {
	Text string
	Err  error
}

// Succeeded wraps a final answer.
func Succeeded(text string) Outcome {
	return Outcome{Text: text}
}

// Failed wraps a failure. A nil err is replaced with a generic one so a
// failed Outcome can never look successful.
func Failed(err error) Outcome {
	if err == nil {
		err = errors.New("agent failed without a reason")
	}
	return Outcome{Err: err}
}

// OK reports whether the turn produced an answer.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Agent answers one message, possibly consulting tools along the way.
type Agent interface {
	Run(ctx context.Context, message string) Outcome
}

// AgentBuilder constructs a fresh Agent bound to a credential.
type AgentBuilder interface {
	Build(ctx context.Context, credential string) (Agent, error)
}

// AgentBuilderFunc adapts a function to AgentBuilder.
type AgentBuilderFunc func(ctx context.Context, credential string) (Agent, error)

func (f AgentBuilderFunc) Build(ctx context.Context, credential string) (Agent, error) {
	return f(ctx, credential)
}

// AgentFunc adapts a function to Agent.
type AgentFunc func(ctx context.Context, message string) Outcome

func (f AgentFunc) Run(ctx context.Context, message string) Outcome {
	return f(ctx, message)
}
