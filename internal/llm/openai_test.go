package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatStub(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conf := openai.DefaultConfig("test-key")
	conf.BaseURL = srv.URL + "/v1"
	return &OpenAIProvider{client: openai.NewClientWithConfig(conf), model: "gpt-4o-mini"}
}

func chatReply(content, finish string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var sent openai.ChatCompletionRequest
	p := chatStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		writeJSON(w, http.StatusOK, chatReply("Fractions split a whole into equal parts.", "stop"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a patient tutor.",
		Messages:  []Message{{Role: RoleUser, Content: "Explain fractions."}},
		MaxTokens: 256,
	})
	require.NoError(t, err)
	assert.Equal(t, "Fractions split a whole into equal parts.", string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 40, OutputTokens: 25, TotalTokens: 65}, resp.Usage)
	assert.Equal(t, "gpt-4o-mini", resp.Model)

	require.Len(t, sent.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, sent.Messages[0].Role)
	assert.Nil(t, sent.ResponseFormat)
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{"server error", http.StatusInternalServerError, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
		{"bad key", http.StatusUnauthorized, func(err error) bool { var e *ErrRequestRejected; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := chatStub(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, map[string]any{"error": map[string]any{"message": tt.name, "type": "error"}})
			})
			_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
			require.Error(t, err)
			assert.True(t, tt.check(err), "got %T (%v)", err, err)
		})
	}
}

func TestOpenAIProvider_ArraySchemaEnvelope(t *testing.T) {
	var sent struct {
		ResponseFormat struct {
			JSONSchema struct {
				Name   string         `json:"name"`
				Schema map[string]any `json:"schema"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	p := chatStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		writeJSON(w, http.StatusOK, chatReply(`{"items":[{"heading":"a"},{"heading":"b"}]}`, "stop"))
	})

	resp, err := p.Generate(context.Background(), Request{Schema: listSchema()})
	require.NoError(t, err)
	assert.Equal(t, `[{"heading":"a"},{"heading":"b"}]`, string(resp.Content))
	assert.Equal(t, "test-list-envelope", sent.ResponseFormat.JSONSchema.Name)
	assert.Equal(t, "object", sent.ResponseFormat.JSONSchema.Schema["type"])
}

func TestOpenAIProvider_RejectsBadOutput(t *testing.T) {
	t.Run("schema violation", func(t *testing.T) {
		p := chatStub(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, chatReply(`{"items":[{"heading":"a"}]}`, "stop"))
		})
		_, err := p.Generate(context.Background(), Request{Schema: listSchema()})
		var inv *ErrInvalidResponse
		assert.True(t, errors.As(err, &inv), "got %T (%v)", err, err)
	})

	t.Run("truncated", func(t *testing.T) {
		p := chatStub(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, chatReply(`{"items":[{"head`, "length"))
		})
		_, err := p.Generate(context.Background(), Request{Schema: listSchema()})
		var maxTok *ErrMaxTokensExceeded
		assert.True(t, errors.As(err, &maxTok), "got %T (%v)", err, err)
	})
}

func TestNewOpenAIProvider(t *testing.T) {
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o", BaseURL: "https://gateway.example/v1"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", p.ModelID())

	_, err = NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o"})
	assert.Error(t, err)
}
