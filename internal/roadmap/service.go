package roadmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/pathwise/internal/capability"
	"github.com/abhisek/pathwise/internal/llm"
)

// Service generates roadmaps, lesson content and clarifications.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a roadmap generation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Roadmap generates a study roadmap for topic.
func (s *Service) Roadmap(ctx context.Context, topic string, learner capability.Snapshot) (Roadmap, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeRoadmap)

	var out Roadmap
	err := s.generate(ctx, llm.Request{
		System:      roadmapSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildRoadmapUserMessage(topic, learner)}},
		Schema:      RoadmapSchema,
		Check:       checkRoadmap,
		MaxTokens:   s.cfg.RoadmapMaxTokens,
		Temperature: s.cfg.Temperature,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("roadmap generation: %w", err)
	}
	return out, nil
}

func checkRoadmap(content json.RawMessage) error {
	var rm Roadmap
	if err := json.Unmarshal(content, &rm); err != nil {
		return err
	}
	for i, t := range rm {
		if strings.TrimSpace(t.Name) == "" || len(t.Subtopics) == 0 {
			return fmt.Errorf("roadmap topic %d has no name or no subtopics", i)
		}
	}
	return nil
}

// Content generates the lesson for one subtopic. A model that returns no
// sections is treated as unavailable rather than as an empty lesson.
func (s *Service) Content(ctx context.Context, topic, subtopic string, learner capability.Snapshot) ([]ContentBlock, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeContent)

	var out []ContentBlock
	err := s.generate(ctx, llm.Request{
		System:      contentSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildContentUserMessage(topic, subtopic, learner)}},
		Schema:      ContentSchema,
		Check:       checkContent,
		MaxTokens:   s.cfg.ContentMaxTokens,
		Temperature: s.cfg.Temperature,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("content generation: %w", err)
	}
	return out, nil
}

func checkContent(content json.RawMessage) error {
	var blocks []ContentBlock
	if err := json.Unmarshal(content, &blocks); err != nil {
		return err
	}
	if len(blocks) == 0 {
		return &llm.ErrProviderUnavailable{Err: errors.New("model returned no content blocks")}
	}
	return nil
}

// Clarify answers a learner's doubt about a subtopic.
func (s *Service) Clarify(ctx context.Context, topic, subtopic, doubt string) (Clarification, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeClarify)

	var out Clarification
	err := s.generate(ctx, llm.Request{
		System:      clarifySystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildClarifyUserMessage(topic, subtopic, doubt)}},
		Schema:      ClarificationSchema,
		MaxTokens:   s.cfg.ClarifyMaxTokens,
		Temperature: s.cfg.Temperature,
	}, &out)
	if err != nil {
		return Clarification{}, fmt.Errorf("clarification: %w", err)
	}
	return out, nil
}

func (s *Service) generate(ctx context.Context, req llm.Request, out any) error {
	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Content, out); err != nil {
		return &llm.ErrInvalidResponse{Stage: llm.StageJSON, Content: resp.Content, Err: err}
	}
	return nil
}
