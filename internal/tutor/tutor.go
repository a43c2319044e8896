// Package tutor is the entry point for roadmap, content and quiz
// generation and for learner profile updates. It validates requests,
// bounds every generation call with a timeout and leaves classification
// of failures to KindOf.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/capability"
	"github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/roadmap"
	"github.com/abhisek/pathwise/internal/store"
)

// DefaultTimeout bounds one generation request.
const DefaultTimeout = 30 * time.Second

// Deps are the services a Tutor delegates to.
type Deps struct {
	Roadmaps *roadmap.Service
	Quizzes  *quiz.Generator
	Learners *capability.Service
	Timeout  time.Duration
	Logger   *zap.Logger
}

// Tutor orchestrates generation and scoring.
type Tutor struct {
	roadmaps *roadmap.Service
	quizzes  *quiz.Generator
	learners *capability.Service
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates a Tutor.
func New(d Deps) *Tutor {
	if d.Timeout <= 0 {
		d.Timeout = DefaultTimeout
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Tutor{
		roadmaps: d.Roadmaps,
		quizzes:  d.Quizzes,
		learners: d.Learners,
		timeout:  d.Timeout,
		logger:   d.Logger,
	}
}

// GetRoadmap generates a roadmap for topic adapted to the learner.
func (t *Tutor) GetRoadmap(ctx context.Context, topic string, learner capability.Snapshot) (roadmap.Roadmap, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, invalidRequest("topic is required")
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	rm, err := t.roadmaps.Roadmap(ctx, topic, learner)
	if err != nil {
		t.logFailure("roadmap", topic, "", err)
		return nil, err
	}
	return rm, nil
}

// GetContent generates the lesson for one subtopic.
func (t *Tutor) GetContent(ctx context.Context, topic, subtopic string, learner capability.Snapshot) ([]roadmap.ContentBlock, error) {
	topic, subtopic = strings.TrimSpace(topic), strings.TrimSpace(subtopic)
	if topic == "" || subtopic == "" {
		return nil, invalidRequest("topic and subtopic are required")
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	blocks, err := t.roadmaps.Content(ctx, topic, subtopic, learner)
	if err != nil {
		t.logFailure("content", topic, subtopic, err)
		return nil, err
	}
	return blocks, nil
}

// GetQuiz generates a quiz for a stored learner, weighting part of it
// toward the learner's weak topics.
func (t *Tutor) GetQuiz(ctx context.Context, topic, subtopic, learnerID string) ([]quiz.Question, error) {
	topic, subtopic = strings.TrimSpace(topic), strings.TrimSpace(subtopic)
	if topic == "" || subtopic == "" {
		return nil, invalidRequest("topic and subtopic are required")
	}
	if learnerID == "" {
		return nil, invalidRequest("learnerId is required")
	}

	profile, err := t.learners.Get(ctx, learnerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	qs, err := t.quizzes.Generate(ctx, quiz.Input{
		Topic:      topic,
		Subtopic:   subtopic,
		WeakTopics: profile.WeakTopics,
	})
	if err != nil {
		t.logFailure("quiz", topic, subtopic, err)
		return nil, err
	}
	return qs, nil
}

// Clarify answers a learner's doubt about a subtopic.
func (t *Tutor) Clarify(ctx context.Context, topic, subtopic, doubt string) (roadmap.Clarification, error) {
	topic, doubt = strings.TrimSpace(topic), strings.TrimSpace(doubt)
	if topic == "" || doubt == "" {
		return roadmap.Clarification{}, invalidRequest("topic and text are required")
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	c, err := t.roadmaps.Clarify(ctx, topic, strings.TrimSpace(subtopic), doubt)
	if err != nil {
		t.logFailure("clarify", topic, subtopic, err)
		return roadmap.Clarification{}, err
	}
	return c, nil
}

// SubmitQuiz scores a completed quiz against the stored profile.
func (t *Tutor) SubmitQuiz(ctx context.Context, learnerID string, tel capability.Telemetry) (capability.Profile, error) {
	if learnerID == "" {
		return capability.Profile{}, invalidRequest("learnerId is required")
	}
	return t.learners.Submit(ctx, learnerID, tel)
}

// Profile returns the stored profile of a learner.
func (t *Tutor) Profile(ctx context.Context, learnerID string) (capability.Profile, error) {
	return t.learners.Get(ctx, learnerID)
}

// Snapshot returns the prompt view of a stored learner.
func (t *Tutor) Snapshot(ctx context.Context, learnerID string) (capability.Snapshot, error) {
	p, err := t.learners.Get(ctx, learnerID)
	if err != nil {
		return capability.Snapshot{}, err
	}
	return p.Snapshot(), nil
}

// CreateLearner registers a new learner.
func (t *Tutor) CreateLearner(ctx context.Context, in capability.NewLearner) (capability.Profile, error) {
	return t.learners.Create(ctx, in)
}

// UpdateTopics marks topics weak or strong for a learner.
func (t *Tutor) UpdateTopics(ctx context.Context, learnerID string, weak, strong []string) (capability.Profile, error) {
	if learnerID == "" {
		return capability.Profile{}, invalidRequest("learnerId is required")
	}
	return t.learners.UpdateTopics(ctx, learnerID, weak, strong)
}

// ListLearners returns the most recently active learners.
func (t *Tutor) ListLearners(ctx context.Context, limit int) ([]capability.Profile, error) {
	return t.learners.List(ctx, limit)
}

func (t *Tutor) logFailure(op, topic, subtopic string, err error) {
	t.logger.Warn("generation failed",
		zap.String("op", op),
		zap.String("topic", topic),
		zap.String("subtopic", subtopic),
		zap.String("kind", string(KindOf(err))),
		zap.Error(err),
	)
}
