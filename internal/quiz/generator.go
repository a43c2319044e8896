package quiz

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/pathwise/internal/llm"
)

// Generator produces quizzes using an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

// Generate produces one quiz. A batch that fails any validator is
// rejected as a whole with *llm.ErrInvalidResponse; it is never trimmed
// or padded. The validators run inside the provider call, so a rejected
// batch is regenerated once before the error reaches the caller.
func (g *Generator) Generate(ctx context.Context, in Input) ([]Question, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuiz)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(in, g.config)},
		},
		Schema:      QuizSchema,
		Check:       func(content json.RawMessage) error { return g.check(content, in) },
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("quiz generation: %w", err)
	}

	var qs []Question
	if err := json.Unmarshal(resp.Content, &qs); err != nil {
		return nil, &llm.ErrInvalidResponse{Stage: llm.StageJSON, Content: resp.Content, Err: err}
	}
	return qs, nil
}

func (g *Generator) check(content json.RawMessage, in Input) error {
	var qs []Question
	if err := json.Unmarshal(content, &qs); err != nil {
		return err
	}
	for _, v := range g.config.Validators {
		if verr := v.Validate(qs, in); verr != nil {
			return verr
		}
	}
	return nil
}

// Score counts the correct answers. Questions without an answer count as
// wrong.
func Score(qs []Question, answers map[int]Label) int {
	n := 0
	for i, q := range qs {
		if a, ok := answers[i]; ok && q.IsCorrect(a) {
			n++
		}
	}
	return n
}
