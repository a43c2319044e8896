package capability

import (
	"fmt"
	"time"
)

// English proficiency bands.
const (
	EnglishBasic    = 6
	EnglishAdvanced = 9
)

// advancedConfidence is the confidence percentage at or above which a quiz
// counts as advanced English proficiency.
const advancedConfidence = 80.0

// Profile is a learner's capability profile.
type Profile struct {
	LearnerID              string `json:"learnerId"`
	Name                   string `json:"name"`
	Grade                  string `json:"grade"`
	PreferredLearningStyle string `json:"preferredLearningStyle"`

	AvgTimeSpent       float64 `json:"avgTimeSpent"`
	AvgQuizScore       float64 `json:"avgQuizScore"`
	AvgConfidenceScore float64 `json:"avgConfidenceScore"`
	AdaptabilityScore  float64 `json:"adaptabilityScore"`
	EnglishProficiency int     `json:"englishProficiency"`
	TotalQuizzesPlayed int     `json:"totalQuizzesPlayed"`

	WeakTopics   []string `json:"weakTopics"`
	StrongTopics []string `json:"strongTopics"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasQuizData reports whether at least one quiz has been scored.
func (p Profile) HasQuizData() bool {
	return p.TotalQuizzesPlayed > 0
}

// Snapshot returns the prompt-relevant view of the profile.
func (p Profile) Snapshot() Snapshot {
	return Snapshot{
		AdaptabilityScore:      p.AdaptabilityScore,
		AvgConfidenceScore:     p.AvgConfidenceScore,
		AvgTimeSpent:           p.AvgTimeSpent,
		EnglishProficiency:     p.EnglishProficiency,
		Grade:                  p.Grade,
		PreferredLearningStyle: p.PreferredLearningStyle,
		HasQuizData:            p.HasQuizData(),
		WeakTopics:             p.WeakTopics,
	}
}

// Snapshot is the part of a profile that shapes generation prompts. It
// can come from a stored profile or directly from a request.
type Snapshot struct {
	AdaptabilityScore      float64  `json:"adaptabilityScore"`
	AvgConfidenceScore     float64  `json:"avgConfidenceScore"`
	AvgTimeSpent           float64  `json:"avgTimeSpent"`
	EnglishProficiency     int      `json:"englishProficiency"`
	Grade                  string   `json:"grade"`
	PreferredLearningStyle string   `json:"preferredLearningStyle"`
	HasQuizData            bool     `json:"hasQuizData"`
	WeakTopics             []string `json:"weakTopics,omitempty"`
}

// HasScores reports whether any adaptive field is set.
func (s Snapshot) HasScores() bool {
	return s.AdaptabilityScore != 0 || s.AvgConfidenceScore != 0 || s.AvgTimeSpent != 0 || s.EnglishProficiency != 0
}

// Telemetry is the measurement of one completed quiz.
type Telemetry struct {
	Topic               string   `json:"topic,omitempty"`
	Subtopic            string   `json:"subtopic,omitempty"`
	QuestionCount       int      `json:"questionCount"`
	TotalQuestionTimeMs float64  `json:"totalTimeQuestions"`
	TotalScore          int      `json:"totalScore"`
	SubtopicDurationMs  float64  `json:"totalDurationInSubtopic"`
	WeakTopics          []string `json:"weakTopics,omitempty"`
	StrongTopics        []string `json:"strongTopics,omitempty"`
}

// AvgTimePerQuestion returns the mean time per question in milliseconds.
func (t Telemetry) AvgTimePerQuestion() float64 {
	if t.QuestionCount == 0 {
		return 0
	}
	return t.TotalQuestionTimeMs / float64(t.QuestionCount)
}

// ConfidencePct returns the share of correct answers as a percentage.
func (t Telemetry) ConfidencePct() float64 {
	if t.QuestionCount == 0 {
		return 0
	}
	return float64(t.TotalScore) / float64(t.QuestionCount) * 100
}

// ValidationError reports input that cannot be scored or stored.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
