package roadmap

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/pathwise/internal/capability"
	"github.com/abhisek/pathwise/internal/llm"
)

func TestRoadmap_PreservesOrder(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("```json\n" + `[
		{"Topic_Name":"Basics","subtopics":["Syntax","Types"]},
		{"Topic_Name":"Concurrency","subtopics":["Goroutines","Channels","Select"]}
	]` + "\n```"))
	svc := NewService(mock, DefaultConfig())

	rm, err := svc.Roadmap(context.Background(), "Go", capability.Snapshot{Grade: "college"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rm) != 2 || rm[0].Name != "Basics" || rm[1].Name != "Concurrency" {
		t.Fatalf("unexpected roadmap: %+v", rm)
	}
	if got := strings.Join(rm[1].Subtopics, ","); got != "Goroutines,Channels,Select" {
		t.Errorf("subtopic order = %s", got)
	}

	req := mock.LastCall()
	if req.Schema != RoadmapSchema {
		t.Error("expected roadmap schema on the request")
	}
	msg := req.Messages[0].Content
	if !strings.Contains(msg, "complete Go") || !strings.Contains(msg, "english_proficiency: beginner") {
		t.Errorf("prompt missing topic or beginner context:\n%s", msg)
	}
}

func TestRoadmap_EmptyIsMalformed(t *testing.T) {
	svc := NewService(llm.NewMockProvider(llm.MockText(`[]`)), DefaultConfig())

	_, err := svc.Roadmap(context.Background(), "Go", capability.Snapshot{})
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestRoadmap_TopicWithoutName(t *testing.T) {
	svc := NewService(llm.NewMockProvider(llm.MockText(`[{"Topic_Name":" ","subtopics":["a"]}]`)), DefaultConfig())

	_, err := svc.Roadmap(context.Background(), "Go", capability.Snapshot{})
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) || inv.Stage != llm.StageContent {
		t.Fatalf("expected content-stage ErrInvalidResponse, got %v", err)
	}
}

func TestContent_Success(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON([]ContentBlock{
		{Heading: "What is a map", Lesson: "A map... Fun fact: maps are hash tables."},
	}))
	svc := NewService(mock, DefaultConfig())

	learner := capability.Snapshot{HasQuizData: true, EnglishProficiency: 9, AvgConfidenceScore: 85}
	blocks, err := svc.Content(context.Background(), "Go", "Maps", learner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Heading != "What is a map" {
		t.Fatalf("unexpected blocks: %+v", blocks)
	}

	msg := mock.LastCall().Messages[0].Content
	if !strings.Contains(msg, "Subtopic: Maps") || !strings.Contains(msg, "avg_confidence_score: 85.00") {
		t.Errorf("prompt missing subtopic or learner scores:\n%s", msg)
	}
}

func TestContent_EmptyIsUnavailable(t *testing.T) {
	svc := NewService(llm.NewMockProvider(llm.MockText(`[]`)), DefaultConfig())

	_, err := svc.Content(context.Background(), "Go", "Maps", capability.Snapshot{})
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func retrying(mock *llm.MockProvider) llm.Provider {
	return llm.WithRetry(mock, llm.RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: time.Millisecond, Multiplier: 1}, nil)
}

func TestContent_EmptyIsRetried(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`[]`), llm.MockJSON([]ContentBlock{{Heading: "Maps", Lesson: "Keys map to values."}}))
	svc := NewService(retrying(mock), DefaultConfig())

	blocks, err := svc.Content(context.Background(), "Go", "Maps", capability.Snapshot{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 || mock.CallCount() != 2 {
		t.Errorf("blocks = %d, calls = %d; want 1 block after 2 calls", len(blocks), mock.CallCount())
	}
}

func TestRoadmap_BlankTopicIsRetriedOnce(t *testing.T) {
	blank := llm.MockText(`[{"Topic_Name":"","subtopics":["a"]}]`)
	mock := llm.NewMockProvider(blank, llm.MockText(`[{"Topic_Name":"Basics","subtopics":["a"]}]`))

	rm, err := NewService(retrying(mock), DefaultConfig()).Roadmap(context.Background(), "Go", capability.Snapshot{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rm) != 1 || rm[0].Name != "Basics" {
		t.Errorf("unexpected roadmap: %+v", rm)
	}

	mock = llm.NewMockProvider(blank, blank, llm.MockText(`[{"Topic_Name":"Basics","subtopics":["a"]}]`))
	_, err = NewService(retrying(mock), DefaultConfig()).Roadmap(context.Background(), "Go", capability.Snapshot{})
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) || inv.Stage != llm.StageContent {
		t.Fatalf("expected content-stage ErrInvalidResponse, got %v", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("calls = %d, want 2", mock.CallCount())
	}
}

func TestContent_ProviderError(t *testing.T) {
	svc := NewService(llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}}), DefaultConfig())

	_, err := svc.Content(context.Background(), "Go", "Maps", capability.Snapshot{})
	var rl *llm.ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %v", err)
	}
}

func TestClarify(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"answer":"A nil map panics on write."}`))
	svc := NewService(mock, DefaultConfig())

	got, err := svc.Clarify(context.Background(), "Go", "Maps", "why does my map panic?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Answer != "A nil map panics on write." {
		t.Errorf("answer = %q", got.Answer)
	}
	if !strings.Contains(mock.LastCall().Messages[0].Content, "I have a doubt on this: why does my map panic?") {
		t.Error("doubt not included in prompt")
	}
}

func TestRoadmapSubtopic(t *testing.T) {
	rm := Roadmap{{Name: "A", Subtopics: []string{"a1", "a2"}}, {Name: "B", Subtopics: []string{"b1"}}}

	if s, ok := rm.Subtopic(0, 1); !ok || s != "a2" {
		t.Errorf("Subtopic(0,1) = %q, %v", s, ok)
	}
	if _, ok := rm.Subtopic(1, 1); ok {
		t.Error("Subtopic(1,1) should not exist")
	}
	if _, ok := rm.Subtopic(2, 0); ok {
		t.Error("Subtopic(2,0) should not exist")
	}
}
