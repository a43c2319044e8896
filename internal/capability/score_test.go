package capability

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/quiz"
)

func TestUpdateProfile_RunningMean(t *testing.T) {
	prior := Profile{AvgQuizScore: 5, TotalQuizzesPlayed: 1}
	got, err := UpdateProfile(prior, Telemetry{TotalScore: 8, QuestionCount: 10, TotalQuestionTimeMs: 1000})
	require.NoError(t, err)

	assert.InDelta(t, 6.5, got.AvgQuizScore, 1e-9)
	assert.Equal(t, 2, got.TotalQuizzesPlayed)
}

func TestUpdateProfile_FirstQuiz(t *testing.T) {
	got, err := UpdateProfile(Profile{}, Telemetry{
		QuestionCount:       10,
		TotalScore:          7,
		TotalQuestionTimeMs: 50_000,
		SubtopicDurationMs:  200_000,
	})
	require.NoError(t, err)

	assert.InDelta(t, 5000, got.AvgTimeSpent, 1e-9)
	assert.InDelta(t, 7, got.AvgQuizScore, 1e-9)
	assert.InDelta(t, 70, got.AvgConfidenceScore, 1e-9)
	assert.InDelta(t, 4, got.AdaptabilityScore, 1e-9)
	assert.Equal(t, EnglishBasic, got.EnglishProficiency)
	assert.Equal(t, 1, got.TotalQuizzesPlayed)
	assert.True(t, got.HasQuizData())
}

func TestUpdateProfile_EnglishThreshold(t *testing.T) {
	tests := []struct {
		name  string
		score int
		count int
		want  int
	}{
		{"82 percent", 41, 50, EnglishAdvanced},
		{"exactly 80", 8, 10, EnglishAdvanced},
		{"79.9 percent", 799, 1000, EnglishBasic},
		{"zero", 0, 10, EnglishBasic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UpdateProfile(Profile{}, Telemetry{TotalScore: tt.score, QuestionCount: tt.count})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.EnglishProficiency)
		})
	}
}

func TestUpdateProfile_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for range 500 {
		prior := Profile{
			AvgQuizScore:       r.Float64() * 10,
			AvgTimeSpent:       r.Float64() * 60_000,
			AvgConfidenceScore: r.Float64() * 100,
			TotalQuizzesPlayed: r.IntN(50),
		}
		count := 1 + r.IntN(20)
		tel := Telemetry{
			QuestionCount:       count,
			TotalScore:          r.IntN(count + 1),
			TotalQuestionTimeMs: float64(r.IntN(3)) * r.Float64() * 100_000,
			SubtopicDurationMs:  r.Float64() * 500_000,
		}

		got, err := UpdateProfile(prior, tel)
		require.NoError(t, err)

		// averaging bound
		lo := math.Min(prior.AvgQuizScore, float64(tel.TotalScore))
		hi := math.Max(prior.AvgQuizScore, float64(tel.TotalScore))
		if got.AvgQuizScore < lo-1e-9 || got.AvgQuizScore > hi+1e-9 {
			t.Fatalf("avg score %v outside [%v, %v]", got.AvgQuizScore, lo, hi)
		}

		// monotonic count
		if got.TotalQuizzesPlayed != prior.TotalQuizzesPlayed+1 {
			t.Fatalf("total = %d, want %d", got.TotalQuizzesPlayed, prior.TotalQuizzesPlayed+1)
		}

		// adaptability bound
		if got.AdaptabilityScore < 0 {
			t.Fatalf("adaptability %v < 0", got.AdaptabilityScore)
		}
		if tel.TotalQuestionTimeMs == 0 && got.AdaptabilityScore != 0 {
			t.Fatalf("adaptability %v with no question time", got.AdaptabilityScore)
		}
		if tel.TotalQuestionTimeMs > 0 && tel.SubtopicDurationMs > 0 && got.AdaptabilityScore == 0 {
			t.Fatal("adaptability should be positive when both durations are")
		}

		// english threshold
		advanced := tel.ConfidencePct() >= 80
		if (got.EnglishProficiency == EnglishAdvanced) != advanced {
			t.Fatalf("english = %d for confidence %v", got.EnglishProficiency, tel.ConfidencePct())
		}
	}
}

func TestUpdateProfile_Invalid(t *testing.T) {
	prior := Profile{AvgQuizScore: 3, TotalQuizzesPlayed: 4, WeakTopics: []string{"loops"}}

	tests := []struct {
		name  string
		tel   Telemetry
		field string
	}{
		{"no questions", Telemetry{}, "questionCount"},
		{"negative count", Telemetry{QuestionCount: -1}, "questionCount"},
		{"negative score", Telemetry{QuestionCount: 10, TotalScore: -1}, "totalScore"},
		{"score above count", Telemetry{QuestionCount: 10, TotalScore: 11}, "totalScore"},
		{"negative time", Telemetry{QuestionCount: 10, TotalQuestionTimeMs: -5}, "totalTimeQuestions"},
		{"negative duration", Telemetry{QuestionCount: 10, SubtopicDurationMs: -1}, "totalDurationInSubtopic"},
		{"NaN time", Telemetry{QuestionCount: 10, TotalQuestionTimeMs: math.NaN()}, "totalTimeQuestions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UpdateProfile(prior, tt.tel)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, prior.TotalQuizzesPlayed, got.TotalQuizzesPlayed)
			assert.Equal(t, prior.AvgQuizScore, got.AvgQuizScore)
		})
	}
}

func TestUpdateProfile_DoesNotAliasPrior(t *testing.T) {
	prior := Profile{WeakTopics: []string{"loops", "maps"}}
	_, err := UpdateProfile(prior, Telemetry{QuestionCount: 1, TotalScore: 1, StrongTopics: []string{"loops"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"loops", "maps"}, prior.WeakTopics)
}

func TestApplyTopics(t *testing.T) {
	p := Profile{WeakTopics: []string{"a", "b"}, StrongTopics: []string{"c"}}

	p.ApplyTopics([]string{"c", "b", " ", "d"}, []string{"a", "e", "e"})

	assert.Equal(t, []string{"b", "c", "d"}, p.WeakTopics)
	assert.Equal(t, []string{"a", "e"}, p.StrongTopics)
}

func TestApplyTopics_SameLabelBothSides(t *testing.T) {
	var p Profile
	p.ApplyTopics([]string{"x"}, []string{"x"})

	// Strong is applied last and wins.
	assert.Empty(t, p.WeakTopics)
	assert.Equal(t, []string{"x"}, p.StrongTopics)
}

func TestReconcileAggregates(t *testing.T) {
	tests := []struct {
		name       string
		tel        Telemetry
		avgTime    float64
		confidence float64
		wantCount  int
		wantField  string
	}{
		{
			name:       "count from average time",
			tel:        Telemetry{TotalQuestionTimeMs: 60_000, TotalScore: 6},
			avgTime:    5000,
			confidence: 50,
			wantCount:  12,
		},
		{
			name:       "count from confidence",
			tel:        Telemetry{TotalScore: 4},
			confidence: 80,
			wantCount:  5,
		},
		{
			name:      "no aggregates falls back to quiz length",
			tel:       Telemetry{TotalScore: 7, TotalQuestionTimeMs: 30_000},
			wantCount: quiz.QuestionCount,
		},
		{
			name:       "rounded client averages are accepted",
			tel:        Telemetry{QuestionCount: 3, TotalScore: 1, TotalQuestionTimeMs: 10_000},
			avgTime:    3333,
			confidence: 33,
			wantCount:  3,
		},
		{
			name:       "explicit count is kept",
			tel:        Telemetry{QuestionCount: 10, TotalScore: 8, TotalQuestionTimeMs: 50_000},
			avgTime:    5000,
			confidence: 80,
			wantCount:  10,
		},
		{
			name:      "average time contradicts count",
			tel:       Telemetry{QuestionCount: 10, TotalScore: 8, TotalQuestionTimeMs: 50_000},
			avgTime:   9000,
			wantField: "avgTimeQuestions",
		},
		{
			name:       "confidence contradicts average time",
			tel:        Telemetry{TotalScore: 8, TotalQuestionTimeMs: 50_000},
			avgTime:    5000,
			confidence: 40,
			wantField:  "confidenceScore",
		},
		{
			name:       "confidence without any correct answer",
			tel:        Telemetry{TotalScore: 0},
			confidence: 60,
			wantField:  "confidenceScore",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReconcileAggregates(tt.tel, tt.avgTime, tt.confidence)
			if tt.wantField != "" {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantField, verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, got.QuestionCount)
		})
	}
}

func TestTelemetryDerived(t *testing.T) {
	tel := Telemetry{QuestionCount: 4, TotalScore: 3, TotalQuestionTimeMs: 10_000}
	assert.InDelta(t, 2500, tel.AvgTimePerQuestion(), 1e-9)
	assert.InDelta(t, 75, tel.ConfidencePct(), 1e-9)

	var zero Telemetry
	assert.Zero(t, zero.AvgTimePerQuestion())
	assert.Zero(t, zero.ConfidencePct())
}
