package session

import (
	"errors"
	"fmt"
)

// Phase is the position of a session in the learning flow.
type Phase int

const (
	PhaseIdle            Phase = iota // Not started
	PhaseRoadmapLoading               // Fetching the roadmap
	PhaseTopicSelected                // Cursor placed, no content yet
	PhaseContentLoading               // Fetching subtopic content
	PhaseContentReady                 // Lesson shown, subtopic clock running
	PhaseFeedbackCapture              // Learner is describing a doubt
	PhaseQuizLoading                  // Fetching the quiz
	PhaseQuestionActive               // Waiting for an answer
	PhaseAnswerRevealed               // Answer locked, explanation shown
	PhaseQuizComplete                 // All questions answered, telemetry pending
	PhaseTopicComplete                // Last subtopic of a topic scored
	PhaseFinished                     // Last subtopic of the roadmap scored
)

var phaseNames = [...]string{
	PhaseIdle:            "idle",
	PhaseRoadmapLoading:  "roadmap-loading",
	PhaseTopicSelected:   "topic-selected",
	PhaseContentLoading:  "content-loading",
	PhaseContentReady:    "content-ready",
	PhaseFeedbackCapture: "feedback-capture",
	PhaseQuizLoading:     "quiz-loading",
	PhaseQuestionActive:  "question-active",
	PhaseAnswerRevealed:  "answer-revealed",
	PhaseQuizComplete:    "quiz-complete",
	PhaseTopicComplete:   "topic-complete",
	PhaseFinished:        "finished",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Cursor is the current position in the roadmap.
type Cursor struct {
	Topic    int
	Subtopic int
}

var (
	// ErrSuperseded is returned by an operation whose result was
	// abandoned because the learner navigated while it was in flight.
	ErrSuperseded = errors.New("superseded by navigation")

	// ErrBusy is returned when a fetch is already in flight.
	ErrBusy = errors.New("another request is in flight")

	// ErrInvalidLabel is returned for an answer that is not A-D.
	ErrInvalidLabel = errors.New("answer must be one of A, B, C or D")

	// ErrEmptyRoadmap is returned when the backend produced no topics.
	ErrEmptyRoadmap = errors.New("roadmap has no topics")

	// ErrEmptyQuiz is returned when the backend produced no questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")
)

// TransitionError is returned when an operation is not allowed in the
// current phase.
type TransitionError struct {
	Op    string
	Phase Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s not allowed in phase %s", e.Op, e.Phase)
}
