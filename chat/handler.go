// Package chat holds the conversation handler that sits between the chat
// page and the reasoning agent.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	missingCredentialWarning = "Please enter your Groq API key."
	redactedCredential       = "[redacted]"
)

// Notifier delivers transient, non-fatal messages to the user.
type Notifier interface {
	Warn(msg string)
	Error(msg string)
}

// Handler runs one conversational turn at a time. It holds no per-session
// state and is safe for concurrent use by independent sessions.
type Handler struct {
	builder  AgentBuilder
	defaults CredentialSource
	logger   *slog.Logger
}

func NewHandler(builder AgentBuilder, defaults CredentialSource, logger *slog.Logger) (*Handler, error) {
	if builder == nil {
		return nil, errors.New("new handler: nil agent builder")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		builder:  builder,
		defaults: defaults,
		logger:   logger,
	}, nil
}

// HandleTurn answers message and returns the new content of the input box
// (always empty) and the transcript to render. The transcript only grows
// when the agent produced an answer.
func (h *Handler) HandleTurn(ctx context.Context, message string, transcript Transcript, credential string, notify Notifier) (string, Transcript) {
	key := NormalizeCredential(credential, h.defaults)
	if key == "" {
		h.logger.Warn("turn rejected", "error", ErrMissingCredential)
		notify.Warn(missingCredentialWarning)
		return "", transcript
	}

	start := time.Now()
	outcome := h.run(ctx, key, message)
	if !outcome.OK() {
		h.logger.Error("turn failed",
			"error", redact(outcome.Err.Error(), key),
			"message_len", len(message),
			"duration_ms", time.Since(start).Milliseconds())
		notify.Error("An error occurred: " + redact(describe(outcome.Err).Error(), key))
		return "", transcript
	}

	h.logger.Info("turn answered",
		"message_len", len(message),
		"answer_len", len(outcome.Text),
		"duration_ms", time.Since(start).Milliseconds())
	return "", transcript.Append(message, outcome.Text)
}

func (h *Handler) run(ctx context.Context, key, message string) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Failed(&AgentFailure{Stage: StageRun, Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	agent, err := h.builder.Build(ctx, key)
	if err != nil {
		return Failed(&AgentFailure{Stage: StageBuild, Err: err})
	}
	if agent == nil {
		return Failed(&AgentFailure{Stage: StageBuild, Err: errors.New("builder returned no agent")})
	}

	outcome = agent.Run(ctx, message)
	if !outcome.OK() {
		var failure *AgentFailure
		if !errors.As(outcome.Err, &failure) {
			outcome = Failed(&AgentFailure{Stage: StageRun, Err: outcome.Err})
		}
	}
	return outcome
}

func describe(err error) error {
	var failure *AgentFailure
	if errors.As(err, &failure) {
		return failure.Err
	}
	return err
}

// redact removes every occurrence of key from s. Provider errors may echo
// the credential they rejected.
func redact(s, key string) string {
	if key == "" {
		return s
	}
	return strings.ReplaceAll(s, key, redactedCredential)
}
