package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// Stages of decodeResponse at which model output can be rejected.
const (
	StageEnvelope = "envelope"
	StageJSON     = "json"
	StageSchema   = "schema"
	StageContent  = "content"
)

// ErrRateLimit is an HTTP 429 from upstream. RetryAfter is zero when the
// provider gave no hint.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("llm rate limited, retry in %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("llm rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse is model output that did not survive decoding. Content
// holds what was rejected. Callers must surface it rather than substitute
// a default roadmap, lesson or quiz.
type ErrInvalidResponse struct {
	Stage   string
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	stage := e.Stage
	if stage == "" {
		stage = "output"
	}
	return fmt.Sprintf("malformed llm %s: %v", stage, e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers outages, transport failures and replies with
// nothing usable in them.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "llm provider unavailable"
	}
	return "llm provider unavailable: " + e.Err.Error()
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrRequestRejected is a 4xx other than 429: a bad key, an unknown model
// or a request upstream will never accept. It is not retried.
type ErrRequestRejected struct {
	Status int
	Err    error
}

func (e *ErrRequestRejected) Error() string {
	return fmt.Sprintf("llm request rejected with status %d: %v", e.Status, e.Err)
}

func (e *ErrRequestRejected) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means generation stopped at the token cap. Content
// is the partial output.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return fmt.Sprintf("llm output truncated at token limit after %d bytes", len(e.Content))
}
