package capability

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/store"
)

// NewLearner holds the fields supplied when registering a learner.
type NewLearner struct {
	Name                   string `json:"name"`
	Grade                  string `json:"grade"`
	PreferredLearningStyle string `json:"preferredLearningStyle"`
}

// Service scores quizzes and manages stored profiles.
type Service struct {
	learners store.LearnerRepo
	events   store.EventRepo
	logger   *zap.Logger
}

// NewService creates a capability service. events may be nil, in which
// case quiz events are not recorded.
func NewService(learners store.LearnerRepo, events store.EventRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{learners: learners, events: events, logger: logger}
}

// Submit applies one completed quiz to the learner's stored profile. The
// read-modify-write runs in a single store transaction, so concurrent
// submissions for the same learner each count once.
func (s *Service) Submit(ctx context.Context, learnerID string, t Telemetry) (Profile, error) {
	if err := Validate(t); err != nil {
		return Profile{}, err
	}

	var next Profile
	_, err := s.learners.Update(ctx, learnerID, func(l *store.Learner) error {
		updated, err := UpdateProfile(FromLearner(l), t)
		if err != nil {
			return err
		}
		next = updated
		applyToLearner(l, updated)
		return nil
	})
	if err != nil {
		return Profile{}, fmt.Errorf("submit quiz for %s: %w", learnerID, err)
	}

	s.recordQuiz(ctx, learnerID, t)

	s.logger.Info("quiz scored",
		zap.String("learner_id", learnerID),
		zap.String("subtopic", t.Subtopic),
		zap.Int("score", t.TotalScore),
		zap.Int("questions", t.QuestionCount),
		zap.Int("total_quizzes", next.TotalQuizzesPlayed),
	)
	return next, nil
}

// recordQuiz appends the quiz to the event log. Failures are logged and
// do not undo the profile update.
func (s *Service) recordQuiz(ctx context.Context, learnerID string, t Telemetry) {
	if s.events == nil {
		return
	}
	err := s.events.AppendQuizEvent(context.WithoutCancel(ctx), store.QuizEventData{
		LearnerID:           learnerID,
		Topic:               t.Topic,
		Subtopic:            t.Subtopic,
		QuestionCount:       t.QuestionCount,
		TotalScore:          t.TotalScore,
		TotalQuestionTimeMs: t.TotalQuestionTimeMs,
		SubtopicDurationMs:  t.SubtopicDurationMs,
		ConfidencePct:       t.ConfidencePct(),
	})
	if err != nil {
		s.logger.Warn("failed to record quiz event", zap.String("learner_id", learnerID), zap.Error(err))
	}
}

// UpdateTopics marks topics weak or strong without scoring a quiz.
func (s *Service) UpdateTopics(ctx context.Context, learnerID string, weak, strong []string) (Profile, error) {
	l, err := s.learners.Update(ctx, learnerID, func(l *store.Learner) error {
		p := FromLearner(l)
		p.ApplyTopics(weak, strong)
		l.WeakTopics = p.WeakTopics
		l.StrongTopics = p.StrongTopics
		return nil
	})
	if err != nil {
		return Profile{}, fmt.Errorf("update topics for %s: %w", learnerID, err)
	}
	return FromLearner(l), nil
}

// Get returns the stored profile or an error wrapping store.ErrNotFound.
func (s *Service) Get(ctx context.Context, learnerID string) (Profile, error) {
	l, err := s.learners.Get(ctx, learnerID)
	if err != nil {
		return Profile{}, err
	}
	return FromLearner(l), nil
}

// Create registers a learner with an empty quiz history.
func (s *Service) Create(ctx context.Context, in NewLearner) (Profile, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Profile{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	l := &store.Learner{
		Name:               name,
		Grade:              strings.TrimSpace(in.Grade),
		LearningStyle:      strings.TrimSpace(in.PreferredLearningStyle),
		EnglishProficiency: EnglishBasic,
	}
	if err := s.learners.Create(ctx, l); err != nil {
		return Profile{}, fmt.Errorf("create learner: %w", err)
	}

	s.logger.Info("learner created", zap.String("learner_id", l.ID))
	return FromLearner(l), nil
}

// List returns the most recently active learners.
func (s *Service) List(ctx context.Context, limit int) ([]Profile, error) {
	ls, err := s.learners.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Profile, len(ls))
	for i, l := range ls {
		out[i] = FromLearner(l)
	}
	return out, nil
}

// FromLearner converts a stored learner into a Profile.
func FromLearner(l *store.Learner) Profile {
	return Profile{
		LearnerID:              l.ID,
		Name:                   l.Name,
		Grade:                  l.Grade,
		PreferredLearningStyle: l.LearningStyle,
		AvgTimeSpent:           l.AvgTimeSpent,
		AvgQuizScore:           l.AvgQuizScore,
		AvgConfidenceScore:     l.AvgConfidenceScore,
		AdaptabilityScore:      l.AdaptabilityScore,
		EnglishProficiency:     l.EnglishProficiency,
		TotalQuizzesPlayed:     l.TotalQuizzesPlayed,
		WeakTopics:             nonNil(l.WeakTopics),
		StrongTopics:           nonNil(l.StrongTopics),
		CreatedAt:              l.CreatedAt,
		UpdatedAt:              l.UpdatedAt,
	}
}

func applyToLearner(l *store.Learner, p Profile) {
	l.AvgTimeSpent = p.AvgTimeSpent
	l.AvgQuizScore = p.AvgQuizScore
	l.AvgConfidenceScore = p.AvgConfidenceScore
	l.AdaptabilityScore = p.AdaptabilityScore
	l.EnglishProficiency = p.EnglishProficiency
	l.TotalQuizzesPlayed = p.TotalQuizzesPlayed
	l.WeakTopics = p.WeakTopics
	l.StrongTopics = p.StrongTopics
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
