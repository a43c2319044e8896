// Package llm is the generation client behind the tutor: provider adapters
// for Gemini, OpenAI-compatible gateways and Anthropic, plus the retry and
// event-recording decorators stacked on top of them.
package llm

import (
	"context"
	"encoding/json"
)

// Provider makes one generation attempt per call. Retries belong to
// WithRetry.
type Provider interface {
	// Generate returns the model output for req. With req.Schema set, the
	// Content is fence-stripped JSON that validated against it; anything
	// else fails with *ErrInvalidResponse.
	Generate(ctx context.Context, req Request) (*Response, error)

	ModelID() string
}

type Request struct {
	System string

	// Messages is the conversation so far. Every tutor call is single-turn:
	// one user message holding the rendered prompt.
	Messages []Message

	// Schema requests structured output. Array roots are fine; adapters
	// whose API insists on an object root wrap and unwrap them.
	Schema *Schema

	// Check runs on the decoded Content inside the provider call, so its
	// failures are retried like any other malformed output. Returning an
	// *ErrProviderUnavailable marks the reply as unusable instead.
	Check func(content json.RawMessage) error

	MaxTokens int

	// Temperature in [0,1]. Zero leaves the provider default.
	Temperature float64
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Schema is a JSON Schema document plus the name it is cached and
// reported under, e.g. "quiz-questions".
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	// Content is validated JSON when the request had a Schema, otherwise
	// the model text as returned.
	Content json.RawMessage
	Usage   Usage

	// Model is what upstream reports having served, which for aliases and
	// gateways can differ from ModelID.
	Model string

	// StopReason is "end" for every successful response. Truncation
	// surfaces as ErrMaxTokensExceeded instead.
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
