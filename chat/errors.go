package chat

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is reported when no usable credential remains after
// normalization.
var ErrMissingCredential = errors.New("missing credential")

// Stage names where in a turn an AgentFailure happened.
type Stage string

const (
	StageBuild Stage = "build"
	StageRun   Stage = "run"
)

// AgentFailure wraps any error raised while building or running an agent.
type AgentFailure struct {
	Stage Stage
	Err   error
}

func (e *AgentFailure) Error() string {
	return fmt.Sprintf("agent %s: %v", e.Stage, e.Err)
}

func (e *AgentFailure) Unwrap() error {
	return e.Err
}
