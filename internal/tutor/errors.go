package tutor

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/pathwise/internal/capability"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/store"
)

// Kind classifies an error for callers that map errors to responses.
type Kind string

const (
	KindInvalidRequest      Kind = "invalid_request"
	KindValidation          Kind = "validation"
	KindNotFound            Kind = "not_found"
	KindMalformedGeneration Kind = "malformed_generation"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindInternal            Kind = "internal"
)

// ErrInvalidRequest is wrapped by errors caused by bad caller input.
var ErrInvalidRequest = errors.New("invalid request")

func invalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// KindOf classifies err. An invalid request that wraps a lower-level
// cause (such as an unknown learner) is still an invalid request.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var (
		valErr  *capability.ValidationError
		invResp *llm.ErrInvalidResponse
		maxTok  *llm.ErrMaxTokensExceeded
		unavail *llm.ErrProviderUnavailable
		rl      *llm.ErrRateLimit
	)

	switch {
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalidRequest
	case errors.As(err, &valErr):
		return KindValidation
	case errors.Is(err, store.ErrNotFound):
		return KindNotFound
	case errors.As(err, &invResp), errors.As(err, &maxTok):
		return KindMalformedGeneration
	case errors.As(err, &unavail), errors.As(err, &rl), errors.Is(err, context.DeadlineExceeded):
		return KindUpstreamUnavailable
	}
	return KindInternal
}
