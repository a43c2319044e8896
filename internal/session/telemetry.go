package session

import (
	"slices"
	"strings"
	"time"

	"github.com/abhisek/pathwise/internal/capability"
	"github.com/abhisek/pathwise/internal/quiz"
)

// computeTelemetry summarizes the finished quiz. It must be called with
// s.mu held, after the last question time has been recorded.
func (s *Session) computeTelemetry() capability.Telemetry {
	var total time.Duration
	for _, d := range s.questionTimes {
		total += d
	}

	answers := make(map[int]quiz.Label, len(s.answers))
	for i, a := range s.answers {
		if a != "" {
			answers[i] = a
		}
	}

	weak, strong := classifyTopics(s.questions, s.answers)
	topic, sub := s.names()

	return capability.Telemetry{
		Topic:               topic,
		Subtopic:            sub,
		QuestionCount:       len(s.questions),
		TotalQuestionTimeMs: millis(total),
		TotalScore:          quiz.Score(s.questions, answers),
		SubtopicDurationMs:  millis(s.subtopicWatch.Stop()),
		WeakTopics:          weak,
		StrongTopics:        strong,
	}
}

// classifyTopics groups question subtopics by outcome. A subtopic with any
// wrong answer is weak; one answered correctly every time is strong.
func classifyTopics(qs []quiz.Question, answers []quiz.Label) (weak, strong []string) {
	missed := make(map[string]bool)
	var order []string
	for i, q := range qs {
		label := strings.TrimSpace(q.SubTopicLayer1)
		if label == "" {
			continue
		}
		if _, seen := missed[label]; !seen {
			order = append(order, label)
			missed[label] = false
		}
		if i >= len(answers) || !q.IsCorrect(answers[i]) {
			missed[label] = true
		}
	}

	for _, label := range order {
		if missed[label] {
			weak = append(weak, label)
		} else {
			strong = append(strong, label)
		}
	}
	return slices.Clip(weak), slices.Clip(strong)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
