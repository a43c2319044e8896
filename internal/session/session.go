// Package session drives a learner through a roadmap: content for each
// subtopic, a quiz once the learner understands it, and scoring of the
// quiz before moving on. A Session is safe for concurrent use; fetches run
// outside the lock and their results are dropped if the learner navigated
// in the meantime.
package session

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/abhisek/pathwise/internal/capability"
	"github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/roadmap"
)

// Backend generates material and scores quizzes for one learner.
type Backend interface {
	Roadmap(ctx context.Context, topic string) (roadmap.Roadmap, error)
	Content(ctx context.Context, topic, subtopic string) ([]roadmap.ContentBlock, error)
	Quiz(ctx context.Context, topic, subtopic string) ([]quiz.Question, error)
	Clarify(ctx context.Context, topic, subtopic, doubt string) (string, error)
	SubmitQuiz(ctx context.Context, t capability.Telemetry) (capability.Profile, error)
}

var errEmptyContent = errors.New("content has no blocks")

// Session is the state machine of one learning session.
type Session struct {
	mu      sync.Mutex
	backend Backend
	clock   Clock

	subject string
	phase   Phase
	roadmap roadmap.Roadmap
	cursor  Cursor

	content       []roadmap.ContentBlock
	clarification string

	questions     []quiz.Question
	current       int
	answers       []quiz.Label
	questionTimes []time.Duration
	telemetry     *capability.Telemetry
	profile       *capability.Profile

	questionWatch *Stopwatch
	subtopicWatch *Stopwatch

	err      error
	epoch    uint64
	inflight bool
	cancel   context.CancelFunc
}

// New creates an idle session. A nil clock uses the system time.
func New(b Backend, clock Clock) *Session {
	if clock == nil {
		clock = RealClock()
	}
	return &Session{
		backend:       b,
		clock:         clock,
		questionWatch: NewStopwatch(clock),
		subtopicWatch: NewStopwatch(clock),
	}
}

// Start fetches the roadmap for subject and places the cursor on the
// first subtopic of the first topic.
func (s *Session) Start(ctx context.Context, subject string) error {
	s.mu.Lock()
	ctx, epoch, err := s.begin(ctx, "start", PhaseRoadmapLoading, PhaseIdle, PhaseRoadmapLoading)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.subject = subject
	s.mu.Unlock()

	rm, err := s.backend.Roadmap(ctx, subject)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.end(epoch, err); err != nil {
		return err
	}
	if len(rm) == 0 || len(rm[0].Subtopics) == 0 {
		s.err = ErrEmptyRoadmap
		return ErrEmptyRoadmap
	}

	s.roadmap = rm
	s.moveTo(Cursor{})
	return nil
}

// LoadContent fetches the lesson for the subtopic under the cursor and
// starts the subtopic clock.
func (s *Session) LoadContent(ctx context.Context) error {
	s.mu.Lock()
	ctx, epoch, err := s.begin(ctx, "load content", PhaseContentLoading, PhaseTopicSelected, PhaseContentLoading)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	topic, sub := s.names()
	s.mu.Unlock()

	blocks, err := s.backend.Content(ctx, topic, sub)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.end(epoch, err); err != nil {
		return err
	}
	if len(blocks) == 0 {
		s.err = errEmptyContent
		return errEmptyContent
	}

	s.content = blocks
	s.clarification = ""
	s.phase = PhaseContentReady
	s.subtopicWatch.Start()
	return nil
}

// NotUnderstood opens the doubt prompt. The cursor does not move.
func (s *Session) NotUnderstood() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseContentReady {
		return &TransitionError{Op: "not understood", Phase: s.phase}
	}
	s.phase = PhaseFeedbackCapture
	return nil
}

// CancelFeedback closes the doubt prompt without asking.
func (s *Session) CancelFeedback() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseFeedbackCapture || s.inflight {
		return &TransitionError{Op: "cancel feedback", Phase: s.phase}
	}
	s.phase = PhaseContentReady
	return nil
}

// SubmitFeedback asks the backend to clarify the learner's doubt and
// returns to the lesson.
func (s *Session) SubmitFeedback(ctx context.Context, doubt string) error {
	s.mu.Lock()
	ctx, epoch, err := s.begin(ctx, "submit feedback", PhaseFeedbackCapture, PhaseFeedbackCapture)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	topic, sub := s.names()
	s.mu.Unlock()

	answer, err := s.backend.Clarify(ctx, topic, sub, doubt)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.end(epoch, err); err != nil {
		return err
	}
	s.clarification = answer
	s.phase = PhaseContentReady
	return nil
}

// Understood fetches the quiz for the current subtopic and shows the
// first question.
func (s *Session) Understood(ctx context.Context) error {
	s.mu.Lock()
	ctx, epoch, err := s.begin(ctx, "understood", PhaseQuizLoading, PhaseContentReady, PhaseQuizLoading)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	topic, sub := s.names()
	s.mu.Unlock()

	qs, err := s.backend.Quiz(ctx, topic, sub)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.end(epoch, err); err != nil {
		return err
	}
	if len(qs) == 0 {
		s.err = ErrEmptyQuiz
		return ErrEmptyQuiz
	}

	s.questions = qs
	s.answers = make([]quiz.Label, len(qs))
	s.questionTimes = s.questionTimes[:0]
	s.current = 0
	s.telemetry = nil
	s.phase = PhaseQuestionActive
	s.questionWatch.Start()
	return nil
}

// SelectAnswer locks in an answer for the current question and reports
// whether it is correct. Only the first answer counts: once revealed,
// further calls return the recorded result and change nothing.
func (s *Session) SelectAnswer(label string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseAnswerRevealed:
		return s.questions[s.current].IsCorrect(s.answers[s.current]), nil
	case PhaseQuestionActive:
	default:
		return false, &TransitionError{Op: "select answer", Phase: s.phase}
	}

	l, ok := quiz.ParseLabel(label)
	if !ok {
		return false, ErrInvalidLabel
	}
	s.answers[s.current] = l
	s.phase = PhaseAnswerRevealed
	return s.questions[s.current].IsCorrect(l), nil
}

// Next records the time spent on the revealed question and moves to the
// next one. After the last question the quiz telemetry is computed once
// and submitted; on success the cursor advances. If submission fails the
// session stays in PhaseQuizComplete and Next retries the same telemetry.
func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()

	switch s.phase {
	case PhaseAnswerRevealed:
		s.questionTimes = append(s.questionTimes, s.questionWatch.Stop())
		if s.current < len(s.questions)-1 {
			s.current++
			s.phase = PhaseQuestionActive
			s.questionWatch.Start()
			s.mu.Unlock()
			return nil
		}
		tel := s.computeTelemetry()
		s.telemetry = &tel
		s.phase = PhaseQuizComplete
	case PhaseQuizComplete:
	default:
		phase := s.phase
		s.mu.Unlock()
		return &TransitionError{Op: "next", Phase: phase}
	}

	ctx, epoch, err := s.begin(ctx, "next", PhaseQuizComplete, PhaseQuizComplete)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	tel := *s.telemetry
	s.mu.Unlock()

	profile, err := s.backend.SubmitQuiz(ctx, tel)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.end(epoch, err); err != nil {
		return err
	}
	s.profile = &profile
	s.advance()
	return nil
}

// NextTopic moves from a completed topic to the first subtopic of the
// following one.
func (s *Session) NextTopic() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseTopicComplete {
		return &TransitionError{Op: "next topic", Phase: s.phase}
	}
	s.moveTo(Cursor{Topic: s.cursor.Topic + 1})
	return nil
}

// SelectTopic moves the cursor to the first subtopic of topic i.
func (s *Session) SelectTopic(i int) error {
	return s.SelectSubtopic(i, 0)
}

// SelectSubtopic moves the cursor to subtopic j of topic i. Any fetch in
// flight is cancelled and its result abandoned; quiz progress is reset.
func (s *Session) SelectSubtopic(i, j int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.roadmap) == 0 {
		return &TransitionError{Op: "select subtopic", Phase: s.phase}
	}
	if _, ok := s.roadmap.Subtopic(i, j); !ok {
		return &TransitionError{Op: "select subtopic", Phase: s.phase}
	}

	s.moveTo(Cursor{Topic: i, Subtopic: j})
	return nil
}

// begin checks that op is allowed, enters the loading phase and marks a
// fetch in flight. It must be called with s.mu held.
func (s *Session) begin(ctx context.Context, op string, loading Phase, allowed ...Phase) (context.Context, uint64, error) {
	if s.inflight {
		return nil, 0, ErrBusy
	}
	if !slices.Contains(allowed, s.phase) {
		return nil, 0, &TransitionError{Op: op, Phase: s.phase}
	}

	ctx, cancel := context.WithCancel(ctx)
	s.phase = loading
	s.inflight = true
	s.cancel = cancel
	s.err = nil
	return ctx, s.epoch, nil
}

// end finishes a fetch started by begin. It must be called with s.mu held.
func (s *Session) end(epoch uint64, err error) error {
	if epoch != s.epoch {
		return ErrSuperseded
	}
	s.inflight = false
	s.cancel()
	s.cancel = nil
	if err != nil {
		s.err = err
		return err
	}
	return nil
}

// moveTo abandons in-flight work and places the cursor. It must be called
// with s.mu held.
func (s *Session) moveTo(c Cursor) {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.epoch++
	s.inflight = false
	s.err = nil

	s.cursor = c
	s.content = nil
	s.clarification = ""
	s.resetQuiz()
	s.subtopicWatch.Stop()
	s.phase = PhaseTopicSelected
}

// advance moves past a scored subtopic.
func (s *Session) advance() {
	subs := s.roadmap[s.cursor.Topic].Subtopics
	switch {
	case s.cursor.Subtopic+1 < len(subs):
		tel := s.telemetry
		s.cursor.Subtopic++
		s.content = nil
		s.clarification = ""
		s.resetQuiz()
		s.telemetry = tel
		s.phase = PhaseContentLoading
	case s.cursor.Topic+1 < len(s.roadmap):
		s.phase = PhaseTopicComplete
	default:
		s.phase = PhaseFinished
	}
}

func (s *Session) resetQuiz() {
	s.questions = nil
	s.answers = nil
	s.questionTimes = nil
	s.current = 0
	s.telemetry = nil
	s.questionWatch.Stop()
}

func (s *Session) names() (string, string) {
	sub, _ := s.roadmap.Subtopic(s.cursor.Topic, s.cursor.Subtopic)
	if s.cursor.Topic < len(s.roadmap) {
		return s.roadmap[s.cursor.Topic].Name, sub
	}
	return s.subject, sub
}
