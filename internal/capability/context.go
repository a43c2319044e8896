package capability

import (
	"fmt"
	"strconv"
	"strings"
)

// Defaults used for learners without any quiz history.
const (
	DefaultEnglishLevel  = "beginner"
	DefaultLearningStyle = "mixed: videos, reading, and hands-on practice"
)

// ContextEntry is one key of the learner context sent with prompts.
type ContextEntry struct {
	Key   string
	Value string
}

// Context is an ordered list of learner attributes.
type Context []ContextEntry

// String renders the context one "key: value" pair per line.
func (c Context) String() string {
	var b strings.Builder
	for _, e := range c {
		fmt.Fprintf(&b, "- %s: %s\n", e.Key, e.Value)
	}
	return b.String()
}

// Get returns the value for key.
func (c Context) Get(key string) (string, bool) {
	for _, e := range c {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// LearnerContext describes the learner for a generation prompt. Without
// quiz history the measured scores are meaningless, so a fixed beginner
// context is used instead.
func LearnerContext(s Snapshot) Context {
	if !s.HasQuizData {
		return Context{
			{"english_proficiency", DefaultEnglishLevel},
			{"currently_studying", s.Grade},
			{"preferred_learning_style", DefaultLearningStyle},
		}
	}

	style := s.PreferredLearningStyle
	if style == "" {
		style = DefaultLearningStyle
	}
	return Context{
		{"adaptability_score", formatFloat(s.AdaptabilityScore)},
		{"avg_confidence_score", formatFloat(s.AvgConfidenceScore)},
		{"avg_time_spent", formatFloat(s.AvgTimeSpent)},
		{"english_proficiency", fmt.Sprintf("%d out of 10", s.EnglishProficiency)},
		{"currently_studying", s.Grade},
		{"preferred_learning_style", style},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
