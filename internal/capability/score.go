package capability

import (
	"math"
	"slices"
	"strings"

	"github.com/abhisek/pathwise/internal/quiz"
)

// UpdateProfile folds one quiz into the prior profile and returns the new
// profile. The averages are running means over all quizzes played so far;
// adaptability and English proficiency reflect the latest quiz only.
//
// It is not idempotent: callers apply it exactly once per completed quiz.
// On error the prior profile is unchanged and no partial result exists.
func UpdateProfile(prior Profile, t Telemetry) (Profile, error) {
	if err := Validate(t); err != nil {
		return prior, err
	}

	n := float64(prior.TotalQuizzesPlayed)
	confidence := t.ConfidencePct()

	next := prior
	next.WeakTopics = slices.Clone(prior.WeakTopics)
	next.StrongTopics = slices.Clone(prior.StrongTopics)

	next.AvgTimeSpent = (n*prior.AvgTimeSpent + t.AvgTimePerQuestion()) / (n + 1)
	next.AvgQuizScore = (n*prior.AvgQuizScore + float64(t.TotalScore)) / (n + 1)
	next.AvgConfidenceScore = (n*prior.AvgConfidenceScore + confidence) / (n + 1)

	next.AdaptabilityScore = 0
	if t.TotalQuestionTimeMs > 0 {
		next.AdaptabilityScore = t.SubtopicDurationMs / t.TotalQuestionTimeMs
	}

	next.EnglishProficiency = EnglishBasic
	if confidence >= advancedConfidence {
		next.EnglishProficiency = EnglishAdvanced
	}

	next.TotalQuizzesPlayed = prior.TotalQuizzesPlayed + 1
	next.ApplyTopics(t.WeakTopics, t.StrongTopics)

	return next, nil
}

// ReconcileAggregates fills in t.QuestionCount from the per-question
// aggregates clients send alongside the totals: the average time per
// question and the confidence percentage. Without a count or any usable
// aggregate the quiz is taken to have quiz.QuestionCount questions. A
// zero aggregate counts as absent. Aggregates that disagree with the
// totals fail with *ValidationError.
func ReconcileAggregates(t Telemetry, avgTimeMs, confidencePct float64) (Telemetry, error) {
	for field, v := range map[string]float64{"avgTimeQuestions": avgTimeMs, "confidenceScore": confidencePct} {
		if err := checkDuration(field, v); err != nil {
			return t, err
		}
	}

	if t.QuestionCount == 0 {
		switch {
		case avgTimeMs > 0 && t.TotalQuestionTimeMs > 0:
			t.QuestionCount = int(math.Round(t.TotalQuestionTimeMs / avgTimeMs))
		case confidencePct > 0 && t.TotalScore > 0:
			t.QuestionCount = int(math.Round(float64(t.TotalScore) * 100 / confidencePct))
		default:
			t.QuestionCount = quiz.QuestionCount
		}
		if t.QuestionCount == 0 {
			return t, &ValidationError{Field: "questionCount", Reason: "cannot be derived from the aggregates"}
		}
	}

	if avgTimeMs > 0 && !roughlyEqual(t.AvgTimePerQuestion(), avgTimeMs) {
		return t, &ValidationError{Field: "avgTimeQuestions", Reason: "does not match totalTimeQuestions"}
	}
	if confidencePct > 0 && !roughlyEqual(t.ConfidencePct(), confidencePct) {
		return t, &ValidationError{Field: "confidenceScore", Reason: "does not match totalScore"}
	}
	return t, nil
}

// roughlyEqual tolerates clients that round the aggregates they send.
func roughlyEqual(got, sent float64) bool {
	return math.Abs(got-sent) <= 0.5+0.01*math.Abs(sent)
}

// Validate checks that telemetry describes a quiz that can be scored.
func Validate(t Telemetry) error {
	switch {
	case t.QuestionCount == 0:
		return &ValidationError{Field: "questionCount", Reason: "must be positive"}
	case t.QuestionCount < 0:
		return &ValidationError{Field: "questionCount", Reason: "must not be negative"}
	case t.TotalScore < 0:
		return &ValidationError{Field: "totalScore", Reason: "must not be negative"}
	case t.TotalScore > t.QuestionCount:
		return &ValidationError{Field: "totalScore", Reason: "exceeds questionCount"}
	}
	if err := checkDuration("totalTimeQuestions", t.TotalQuestionTimeMs); err != nil {
		return err
	}
	return checkDuration("totalDurationInSubtopic", t.SubtopicDurationMs)
}

func checkDuration(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Reason: "must be a finite number"}
	}
	if v < 0 {
		return &ValidationError{Field: field, Reason: "must not be negative"}
	}
	return nil
}

// ApplyTopics marks labels weak, then strong. A label is never in both
// sets: marking it moves it out of the other one. Insertion order is kept
// and blank labels are ignored.
func (p *Profile) ApplyTopics(weak, strong []string) {
	for _, label := range weak {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		p.StrongTopics = remove(p.StrongTopics, label)
		p.WeakTopics = appendUnique(p.WeakTopics, label)
	}
	for _, label := range strong {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		p.WeakTopics = remove(p.WeakTopics, label)
		p.StrongTopics = appendUnique(p.StrongTopics, label)
	}
}

func appendUnique(set []string, label string) []string {
	if slices.Contains(set, label) {
		return set
	}
	return append(set, label)
}

func remove(set []string, label string) []string {
	return slices.DeleteFunc(set, func(s string) bool { return s == label })
}
