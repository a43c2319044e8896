package tutor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/capability"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/roadmap"
	"github.com/abhisek/pathwise/internal/store"
)

type fixture struct {
	tutor *Tutor
	mock  *llm.MockProvider
	svc   *capability.Service
}

func newFixture(t *testing.T, responses ...llm.MockResponse) *fixture {
	t.Helper()
	s, err := store.OpenSQLite(t.Context(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	mock := llm.NewMockProvider(responses...)
	svc := capability.NewService(s.LearnerRepo(), s.EventRepo(), nil)
	return &fixture{
		tutor: New(Deps{
			Roadmaps: roadmap.NewService(mock, roadmap.DefaultConfig()),
			Quizzes:  quiz.New(mock, quiz.DefaultConfig()),
			Learners: svc,
		}),
		mock: mock,
		svc:  svc,
	}
}

func quizJSON(n int) llm.MockResponse {
	qs := make([]map[string]any, n)
	for i := range qs {
		qs[i] = map[string]any{
			"question":       fmt.Sprintf("Q%d", i),
			"options":        []map[string]string{{"A": "a", "B": "b", "C": "c", "D": "d"}},
			"correctAnswer":  "A",
			"explanation":    "a",
			"subTopicLayer1": "s",
			"subTopicLayer2": "s",
		}
	}
	return llm.MockJSON(qs)
}

func TestGetRoadmap_RequiresTopic(t *testing.T) {
	f := newFixture(t)
	_, err := f.tutor.GetRoadmap(context.Background(), "  ", capability.Snapshot{})
	assert.Equal(t, KindInvalidRequest, KindOf(err))
	assert.Zero(t, f.mock.CallCount(), "no generation for invalid input")
}

func TestGetRoadmap(t *testing.T) {
	f := newFixture(t, llm.MockText(`[{"Topic_Name":"T","subtopics":["s1","s2"]}]`))
	rm, err := f.tutor.GetRoadmap(context.Background(), "Physics", capability.Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, roadmap.Roadmap{{Name: "T", Subtopics: []string{"s1", "s2"}}}, rm)
}

func TestGetContent_RequiresSubtopic(t *testing.T) {
	f := newFixture(t)
	_, err := f.tutor.GetContent(context.Background(), "Physics", "", capability.Snapshot{})
	assert.Equal(t, KindInvalidRequest, KindOf(err))
}

func TestGetContent_EmptyIsUpstream(t *testing.T) {
	f := newFixture(t, llm.MockText(`[]`))
	_, err := f.tutor.GetContent(context.Background(), "Physics", "Heat", capability.Snapshot{})
	assert.Equal(t, KindUpstreamUnavailable, KindOf(err))
}

func TestGetQuiz_RequiresSubtopic(t *testing.T) {
	f := newFixture(t, quizJSON(quiz.QuestionCount))
	p, err := f.svc.Create(context.Background(), capability.NewLearner{Name: "Asha"})
	require.NoError(t, err)

	_, err = f.tutor.GetQuiz(context.Background(), "Thermodynamics", " ", p.LearnerID)
	assert.Equal(t, KindInvalidRequest, KindOf(err))
	assert.Zero(t, f.mock.CallCount())
}

func TestGetQuiz_UsesStoredWeakTopics(t *testing.T) {
	f := newFixture(t, quizJSON(quiz.QuestionCount))
	ctx := context.Background()

	p, err := f.svc.Create(ctx, capability.NewLearner{Name: "Asha"})
	require.NoError(t, err)
	_, err = f.svc.UpdateTopics(ctx, p.LearnerID, []string{"Entropy"}, nil)
	require.NoError(t, err)

	qs, err := f.tutor.GetQuiz(ctx, "Thermodynamics", "Laws", p.LearnerID)
	require.NoError(t, err)
	assert.Len(t, qs, quiz.QuestionCount)
	assert.Contains(t, f.mock.LastCall().Messages[0].Content, "- Entropy")
}

func TestGetQuiz_UnknownLearner(t *testing.T) {
	f := newFixture(t, quizJSON(quiz.QuestionCount))

	_, err := f.tutor.GetQuiz(context.Background(), "Thermodynamics", "Laws", "nobody")
	assert.Equal(t, KindInvalidRequest, KindOf(err))
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.Zero(t, f.mock.CallCount())
}

func TestGetQuiz_NineItemsLeavesProfile(t *testing.T) {
	f := newFixture(t, quizJSON(9))
	ctx := context.Background()

	p, err := f.svc.Create(ctx, capability.NewLearner{Name: "Ravi"})
	require.NoError(t, err)

	_, err = f.tutor.GetQuiz(ctx, "Thermodynamics", "Laws", p.LearnerID)
	assert.Equal(t, KindMalformedGeneration, KindOf(err))

	after, err := f.tutor.Profile(ctx, p.LearnerID)
	require.NoError(t, err)
	assert.Equal(t, p.TotalQuizzesPlayed, after.TotalQuizzesPlayed)
	assert.Equal(t, p.AvgQuizScore, after.AvgQuizScore)
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestGeneration_Timeout(t *testing.T) {
	tu := New(Deps{
		Roadmaps: roadmap.NewService(slowProvider{}, roadmap.DefaultConfig()),
		Timeout:  10 * time.Millisecond,
	})

	_, err := tu.GetRoadmap(context.Background(), "Go", capability.Snapshot{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, KindUpstreamUnavailable, KindOf(err))
}

func TestSubmitQuiz(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tutor.SubmitQuiz(ctx, "", capability.Telemetry{QuestionCount: 10})
	assert.Equal(t, KindInvalidRequest, KindOf(err))

	_, err = f.tutor.SubmitQuiz(ctx, "missing", capability.Telemetry{QuestionCount: 10})
	assert.Equal(t, KindNotFound, KindOf(err))

	p, err := f.tutor.CreateLearner(ctx, capability.NewLearner{Name: "Meera"})
	require.NoError(t, err)

	_, err = f.tutor.SubmitQuiz(ctx, p.LearnerID, capability.Telemetry{QuestionCount: 0})
	assert.Equal(t, KindValidation, KindOf(err))

	got, err := f.tutor.SubmitQuiz(ctx, p.LearnerID, capability.Telemetry{QuestionCount: 10, TotalScore: 8})
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalQuizzesPlayed)
}

func TestLearnerBackend_UsesUpdatedProfile(t *testing.T) {
	f := newFixture(t,
		llm.MockText(`[{"heading":"h","lesson":"l"}]`),
		llm.MockText(`[{"heading":"h","lesson":"l"}]`),
	)
	ctx := context.Background()

	p, err := f.tutor.CreateLearner(ctx, capability.NewLearner{Name: "Kiran", Grade: "grade 8"})
	require.NoError(t, err)
	b := f.tutor.ForLearner(p.LearnerID)

	_, err = b.Content(ctx, "Go", "Maps")
	require.NoError(t, err)
	assert.Contains(t, f.mock.LastCall().Messages[0].Content, "english_proficiency: beginner")

	_, err = b.SubmitQuiz(ctx, capability.Telemetry{QuestionCount: 10, TotalScore: 9, TotalQuestionTimeMs: 1000})
	require.NoError(t, err)

	_, err = b.Content(ctx, "Go", "Slices")
	require.NoError(t, err)
	assert.Contains(t, f.mock.LastCall().Messages[0].Content, "english_proficiency: 9 out of 10")
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, ""},
		{invalidRequest("x"), KindInvalidRequest},
		{&capability.ValidationError{Field: "f"}, KindValidation},
		{fmt.Errorf("get: %w", store.ErrNotFound), KindNotFound},
		{&llm.ErrInvalidResponse{Err: errors.New("bad")}, KindMalformedGeneration},
		{&llm.ErrMaxTokensExceeded{}, KindMalformedGeneration},
		{fmt.Errorf("wrap: %w", &llm.ErrProviderUnavailable{}), KindUpstreamUnavailable},
		{&llm.ErrRateLimit{}, KindUpstreamUnavailable},
		{&llm.ErrRequestRejected{Status: 401}, KindInternal},
		{context.DeadlineExceeded, KindUpstreamUnavailable},
		{errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
