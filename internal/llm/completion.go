package llm

import (
	"encoding/json"
	"errors"
	"net/http"
)

// completion is what every adapter extracts from its SDK's reply before the
// shared decoding step.
type completion struct {
	text      string
	model     string
	truncated bool
	usage     Usage
}

// response decodes c against the request's schema, then runs req.Check.
// wrapped reports that the adapter sent the object envelope from
// objectRooted instead of the schema itself.
func (c completion) response(req Request, wrapped bool) (*Response, error) {
	if c.truncated {
		return nil, &ErrMaxTokensExceeded{Content: json.RawMessage(c.text)}
	}

	content := json.RawMessage(c.text)
	if schema := req.Schema; schema != nil {
		text := c.text
		if wrapped {
			inner, err := unwrapEnvelope(text)
			if err != nil {
				return nil, err
			}
			text = inner
		}
		var err error
		if content, err = decodeResponse(schema, text); err != nil {
			return nil, err
		}
	}

	if req.Check != nil {
		if err := checkContent(req.Check, content); err != nil {
			return nil, err
		}
	}

	if c.usage.TotalTokens == 0 {
		c.usage.TotalTokens = c.usage.InputTokens + c.usage.OutputTokens
	}
	return &Response{Content: content, Usage: c.usage, Model: c.model, StopReason: "end"}, nil
}

// checkContent runs check on decoded content. An *ErrProviderUnavailable
// from check keeps its kind; anything else rejects the content.
func checkContent(check func(json.RawMessage) error, content json.RawMessage) error {
	err := check(content)
	if err == nil {
		return nil
	}
	var unavailable *ErrProviderUnavailable
	if errors.As(err, &unavailable) {
		return err
	}
	return &ErrInvalidResponse{Stage: StageContent, Content: content, Err: err}
}

// classifyStatus maps an upstream HTTP status onto the error kinds.
// A zero status means the SDK never got a response.
func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case status >= 400 && status < 500:
		return &ErrRequestRejected{Status: status, Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// modelAliases lets config name a model family instead of a dated ID.
// Unknown names are sent to the provider unchanged.
var modelAliases = map[string]map[string]string{
	ProviderAnthropic: {
		"claude-sonnet": "claude-sonnet-4-20250514",
		"claude-haiku":  "claude-haiku-4-5-20251001",
	},
	ProviderGemini: {
		"gemini-flash":      "gemini-2.0-flash",
		"gemini-flash-lite": "gemini-2.0-flash-lite",
		"gemini-pro":        "gemini-2.5-pro",
	},
}

func modelFor(provider, name string) string {
	if id, ok := modelAliases[provider][name]; ok {
		return id
	}
	return name
}
