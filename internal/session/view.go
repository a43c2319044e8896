package session

import (
	"slices"

	"github.com/abhisek/pathwise/internal/capability"
	"github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/roadmap"
)

// View is a consistent copy of the session state for rendering.
type View struct {
	Subject string
	Phase   Phase
	Err     error
	Busy    bool

	Roadmap  roadmap.Roadmap
	Cursor   Cursor
	Topic    string
	Subtopic string

	Content       []roadmap.ContentBlock
	Clarification string

	Question      *quiz.Question
	QuestionIndex int
	QuestionCount int
	Answer        quiz.Label
	Correct       bool
	Score         int

	Telemetry *capability.Telemetry
	Profile   *capability.Profile
}

// View returns the current state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Subject:       s.subject,
		Phase:         s.phase,
		Err:           s.err,
		Busy:          s.inflight,
		Roadmap:       s.roadmap,
		Cursor:        s.cursor,
		Content:       slices.Clone(s.content),
		Clarification: s.clarification,
		QuestionIndex: s.current,
		QuestionCount: len(s.questions),
	}
	if len(s.roadmap) > 0 {
		v.Topic, v.Subtopic = s.names()
	}

	if s.current < len(s.questions) {
		q := s.questions[s.current]
		v.Question = &q
		v.Answer = s.answers[s.current]
		v.Correct = v.Answer != "" && q.IsCorrect(v.Answer)
	}
	for i, a := range s.answers {
		if a != "" && s.questions[i].IsCorrect(a) {
			v.Score++
		}
	}

	if s.telemetry != nil {
		t := *s.telemetry
		v.Telemetry = &t
	}
	if s.profile != nil {
		p := *s.profile
		v.Profile = &p
	}
	return v
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Err returns the error of the last failed fetch, if the session is still
// in the phase that failed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Cursor returns the current position.
func (s *Session) Cursor() Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Telemetry returns the telemetry of the most recently completed quiz
// until the cursor moves on.
func (s *Session) Telemetry() (capability.Telemetry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.telemetry == nil {
		return capability.Telemetry{}, false
	}
	return *s.telemetry, true
}

// Profile returns the profile returned by the last accepted submission.
func (s *Session) Profile() (capability.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return capability.Profile{}, false
	}
	return *s.profile, true
}
