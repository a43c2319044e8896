package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenAIProvider speaks the chat completions API. OpenRouter and any other
// compatible gateway are reached by pointing the client at another base URL.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a provider for api.openai.com, or cfg.BaseURL
// when set.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	return newChatProvider("openai", cfg.APIKey, cfg.Model, cfg.BaseURL)
}

// NewOpenRouterProvider creates a chat provider against OpenRouter. Model
// IDs are vendor-qualified ("anthropic/claude-3-haiku") and passed through.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenRouterBaseURL
	}
	return newChatProvider("openrouter", cfg.APIKey, cfg.Model, base)
}

func newChatProvider(name, key, model, baseURL string) (*OpenAIProvider, error) {
	if key == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}
	conf := openai.DefaultConfig(key)
	if baseURL != "" {
		conf.BaseURL = baseURL
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(conf), model: model}, nil
}

func (p *OpenAIProvider) ModelID() string { return p.model }

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	// json_schema strict mode rejects array roots.
	wire, wrapped := objectRooted(req.Schema)
	params, err := p.params(req, wire)
	if err != nil {
		return nil, err
	}

	out, err := p.client.CreateChatCompletion(ctx, params)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, classifyStatus(apiErr.HTTPStatusCode, err)
		}
		return nil, classifyStatus(0, err)
	}
	if len(out.Choices) == 0 {
		return nil, &ErrInvalidResponse{Stage: StageContent, Err: errors.New("completion has no choices")}
	}

	first := out.Choices[0]
	return completion{
		text:      first.Message.Content,
		model:     out.Model,
		truncated: first.FinishReason == openai.FinishReasonLength,
		usage: Usage{
			InputTokens:  out.Usage.PromptTokens,
			OutputTokens: out.Usage.CompletionTokens,
			TotalTokens:  out.Usage.TotalTokens,
		},
	}.response(req, wrapped)
}

func (p *OpenAIProvider) params(req Request, wire *Schema) (openai.ChatCompletionRequest, error) {
	params := openai.ChatCompletionRequest{
		Model:               p.model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.System != "" {
		params.Messages = append(params.Messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		params.Messages = append(params.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	if wire == nil {
		return params, nil
	}
	def, err := json.Marshal(wire.Definition)
	if err != nil {
		return params, fmt.Errorf("marshal schema %s: %w", wire.Name, err)
	}
	params.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:   wire.Name,
			Schema: json.RawMessage(def),
			Strict: true,
		},
	}
	return params, nil
}
