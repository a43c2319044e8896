package tutor

import (
	"context"

	"github.com/abhisek/pathwise/internal/capability"
	"github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/roadmap"
)

// LearnerBackend binds a Tutor to one learner. It re-reads the stored
// profile before each generation so a freshly scored quiz shapes the next
// roadmap or lesson.
type LearnerBackend struct {
	tutor     *Tutor
	learnerID string
}

// ForLearner returns a backend for a learning session of learnerID.
func (t *Tutor) ForLearner(learnerID string) *LearnerBackend {
	return &LearnerBackend{tutor: t, learnerID: learnerID}
}

func (b *LearnerBackend) Roadmap(ctx context.Context, topic string) (roadmap.Roadmap, error) {
	snap, err := b.tutor.Snapshot(ctx, b.learnerID)
	if err != nil {
		return nil, err
	}
	return b.tutor.GetRoadmap(ctx, topic, snap)
}

func (b *LearnerBackend) Content(ctx context.Context, topic, subtopic string) ([]roadmap.ContentBlock, error) {
	snap, err := b.tutor.Snapshot(ctx, b.learnerID)
	if err != nil {
		return nil, err
	}
	return b.tutor.GetContent(ctx, topic, subtopic, snap)
}

func (b *LearnerBackend) Quiz(ctx context.Context, topic, subtopic string) ([]quiz.Question, error) {
	return b.tutor.GetQuiz(ctx, topic, subtopic, b.learnerID)
}

func (b *LearnerBackend) Clarify(ctx context.Context, topic, subtopic, doubt string) (string, error) {
	c, err := b.tutor.Clarify(ctx, topic, subtopic, doubt)
	if err != nil {
		return "", err
	}
	return c.Answer, nil
}

func (b *LearnerBackend) SubmitQuiz(ctx context.Context, tel capability.Telemetry) (capability.Profile, error) {
	return b.tutor.SubmitQuiz(ctx, b.learnerID, tel)
}
