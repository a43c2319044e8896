package capability

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	s, err := store.OpenSQLite(t.Context(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewService(s.LearnerRepo(), s.EventRepo(), zap.NewNop()), s
}

func TestService_CreateAndGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, NewLearner{Name: " Asha ", Grade: "grade 10"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.LearnerID)
	assert.Equal(t, "Asha", p.Name)
	assert.Equal(t, EnglishBasic, p.EnglishProficiency)
	assert.False(t, p.HasQuizData())

	got, err := svc.Get(ctx, p.LearnerID)
	require.NoError(t, err)
	assert.Equal(t, "grade 10", got.Grade)
	assert.Equal(t, []string{}, got.WeakTopics)
}

func TestService_CreateRequiresName(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), NewLearner{Name: "  "})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
}

func TestService_Submit(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, NewLearner{Name: "Ravi"})
	require.NoError(t, err)

	got, err := svc.Submit(ctx, p.LearnerID, Telemetry{
		Topic:               "Go",
		Subtopic:            "Maps",
		QuestionCount:       10,
		TotalScore:          9,
		TotalQuestionTimeMs: 30_000,
		SubtopicDurationMs:  90_000,
		WeakTopics:          []string{"hashing"},
		StrongTopics:        []string{"Maps"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalQuizzesPlayed)
	assert.Equal(t, EnglishAdvanced, got.EnglishProficiency)
	assert.InDelta(t, 3, got.AdaptabilityScore, 1e-9)

	stored, err := svc.Get(ctx, p.LearnerID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TotalQuizzesPlayed)
	assert.InDelta(t, 90, stored.AvgConfidenceScore, 1e-9)
	assert.Equal(t, []string{"hashing"}, stored.WeakTopics)
	assert.Equal(t, []string{"Maps"}, stored.StrongTopics)

	events, err := s.EventRepo().QueryQuizEvents(ctx, p.LearnerID, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Maps", events[0].Subtopic)
	assert.InDelta(t, 90, events[0].ConfidencePct, 1e-9)
}

func TestService_SubmitInvalidLeavesProfile(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, NewLearner{Name: "Meera"})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, p.LearnerID, Telemetry{QuestionCount: 10, TotalScore: 12})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	stored, err := svc.Get(ctx, p.LearnerID)
	require.NoError(t, err)
	assert.Zero(t, stored.TotalQuizzesPlayed)

	events, err := s.EventRepo().QueryQuizEvents(ctx, p.LearnerID, store.QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestService_SubmitUnknownLearner(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Submit(context.Background(), "missing", Telemetry{QuestionCount: 10})
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
}

func TestService_ConcurrentSubmitsCountOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, NewLearner{Name: "Kiran"})
	require.NoError(t, err)

	const n = 10
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(ctx, p.LearnerID, Telemetry{QuestionCount: 10, TotalScore: i})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := svc.Get(ctx, p.LearnerID)
	require.NoError(t, err)
	assert.Equal(t, n, stored.TotalQuizzesPlayed)
	// Mean of 0..9 regardless of arrival order.
	assert.InDelta(t, 4.5, stored.AvgQuizScore, 1e-9)
}

func TestService_UpdateTopics(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, NewLearner{Name: "Dev"})
	require.NoError(t, err)

	_, err = svc.UpdateTopics(ctx, p.LearnerID, []string{"Calculus", "Linear Algebra"}, nil)
	require.NoError(t, err)

	got, err := svc.UpdateTopics(ctx, p.LearnerID, nil, []string{"Calculus"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Linear Algebra"}, got.WeakTopics)
	assert.Equal(t, []string{"Calculus"}, got.StrongTopics)
	assert.Zero(t, got.TotalQuizzesPlayed)
}

func TestService_List(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b"} {
		_, err := svc.Create(ctx, NewLearner{Name: name})
		require.NoError(t, err)
	}
	all, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
