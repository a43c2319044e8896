// Package learn is the main learning screen: roadmap outline, lesson,
// doubt prompt and quiz for one subject.
package learn

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

const maxDoubtLen = 500

// LearnScreen implements screen.Screen on top of a session.Session.
type LearnScreen struct {
	ctx    context.Context
	sess   *session.Session
	topic  string
	status layout.Status

	spinner   spinner.Model
	doubt     components.TextInput
	lastDoubt string

	outline    components.Outline
	outlineFor session.Cursor
	outlineLen int
	sidebar    bool

	choice       components.MultiChoice
	choiceLabels []quiz.Label
	choiceAt     int

	scroll int
	notice string
}

var _ screen.Screen = (*LearnScreen)(nil)
var _ screen.KeyHintProvider = (*LearnScreen)(nil)

// New creates a screen that teaches topic through sess. Session calls
// run with ctx; st seeds the header status.
func New(ctx context.Context, sess *session.Session, topic string, st layout.Status) *LearnScreen {
	if ctx == nil {
		ctx = context.Background()
	}
	return &LearnScreen{
		ctx:      ctx,
		sess:     sess,
		topic:    topic,
		status:   st,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent))),
		doubt:    components.NewTextInput("What is unclear?", maxDoubtLen),
		choiceAt: -1,
	}
}

func (s *LearnScreen) Init() tea.Cmd {
	return tea.Batch(
		s.spinner.Tick,
		s.run(opStart, func(ctx context.Context) error { return s.sess.Start(ctx, s.topic) }),
	)
}

func (s *LearnScreen) Title() string {
	return s.topic
}

func (s *LearnScreen) KeyHints() []layout.KeyHint {
	if s.sidebar {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Enter", Description: "Open subtopic"},
			{Key: "Tab", Description: "Back to lesson"},
		}
	}

	v := s.sess.View()
	var hints []layout.KeyHint
	if v.Err != nil && retryable(v.Phase) && !v.Busy {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Retry"})
	}
	switch {
	case v.Busy:
	case v.Phase == session.PhaseContentReady:
		hints = append(hints,
			layout.KeyHint{Key: "U", Description: "Understood"},
			layout.KeyHint{Key: "N", Description: "Not understood"},
			layout.KeyHint{Key: "↑↓", Description: "Scroll"})
	case v.Phase == session.PhaseFeedbackCapture:
		hints = append(hints,
			layout.KeyHint{Key: "Enter", Description: "Ask"},
			layout.KeyHint{Key: "Esc", Description: "Cancel"})
	case v.Phase == session.PhaseQuestionActive:
		hints = append(hints,
			layout.KeyHint{Key: "A-D", Description: "Answer"},
			layout.KeyHint{Key: "Enter", Description: "Choose"})
	case v.Phase == session.PhaseAnswerRevealed:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next"})
	case v.Phase == session.PhaseTopicComplete:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next topic"})
	case v.Phase == session.PhaseFinished:
		hints = append(hints, layout.KeyHint{Key: "Q", Description: "Quit"})
	}
	if len(v.Roadmap) > 0 {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Roadmap"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (s *LearnScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case opDoneMsg:
		cmd = s.handleDone(msg)
	case spinner.TickMsg:
		s.spinner, cmd = s.spinner.Update(msg)
	case tea.KeyPressMsg:
		cmd = s.handleKey(msg)
	default:
		if s.sess.Phase() == session.PhaseFeedbackCapture {
			s.doubt, cmd = s.doubt.Update(msg)
		}
	}
	s.syncOutline()
	return s, cmd
}

// run calls fn off the UI goroutine and reports back with an opDoneMsg.
func (s *LearnScreen) run(o op, fn func(ctx context.Context) error) tea.Cmd {
	ctx := s.ctx
	return func() tea.Msg {
		return opDoneMsg{Op: o, Err: fn(ctx)}
	}
}

func (s *LearnScreen) handleDone(msg opDoneMsg) tea.Cmd {
	var te *session.TransitionError
	switch {
	case errors.Is(msg.Err, session.ErrSuperseded), errors.Is(msg.Err, session.ErrBusy):
		return nil
	case errors.As(msg.Err, &te):
		s.notice = te.Error()
		return nil
	case msg.Err != nil:
		// Fetch failures are kept by the session and rendered from its view.
		return nil
	}

	s.notice = ""
	var cmds []tea.Cmd
	switch msg.Op {
	case opContent:
		s.scroll = 0
	case opQuiz:
		s.choiceAt = -1
	case opNext:
		if p, ok := s.sess.Profile(); ok && p.TotalQuizzesPlayed != s.status.Quizzes {
			s.status = layout.Status{Learner: p.Name, Quizzes: p.TotalQuizzesPlayed}
			st := s.status
			cmds = append(cmds, func() tea.Msg { return screen.StatusMsg(st) })
		}
	}
	cmds = append(cmds, s.follow())
	return tea.Batch(cmds...)
}

// follow starts the fetch a phase implies on its own: content for a
// freshly placed cursor.
func (s *LearnScreen) follow() tea.Cmd {
	v := s.sess.View()
	if v.Busy || v.Err != nil {
		return nil
	}
	switch v.Phase {
	case session.PhaseTopicSelected, session.PhaseContentLoading:
		s.scroll = 0
		return s.run(opContent, s.sess.LoadContent)
	}
	return nil
}

func retryable(p session.Phase) bool {
	switch p {
	case session.PhaseRoadmapLoading, session.PhaseContentLoading,
		session.PhaseQuizLoading, session.PhaseQuizComplete:
		return true
	}
	return false
}

func (s *LearnScreen) retry(p session.Phase) tea.Cmd {
	switch p {
	case session.PhaseRoadmapLoading:
		return s.run(opStart, func(ctx context.Context) error { return s.sess.Start(ctx, s.topic) })
	case session.PhaseContentLoading:
		return s.run(opContent, s.sess.LoadContent)
	case session.PhaseQuizLoading:
		return s.run(opQuiz, s.sess.Understood)
	case session.PhaseQuizComplete:
		return s.run(opNext, s.sess.Next)
	}
	return nil
}

func (s *LearnScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	v := s.sess.View()

	if key == "tab" && len(v.Roadmap) > 0 && v.Phase != session.PhaseFeedbackCapture {
		s.sidebar = !s.sidebar
		s.outline.Focused = s.sidebar
		return nil
	}
	if s.sidebar {
		return s.handleSidebarKey(msg)
	}
	if v.Busy {
		return nil
	}
	if v.Err != nil && key == "r" && retryable(v.Phase) {
		return s.retry(v.Phase)
	}

	switch v.Phase {
	case session.PhaseContentReady:
		switch key {
		case "up", "k":
			s.scroll = max(s.scroll-1, 0)
		case "down", "j":
			s.scroll++
		case "u":
			return s.run(opQuiz, s.sess.Understood)
		case "n":
			if err := s.sess.NotUnderstood(); err == nil {
				s.doubt.Reset()
				return s.doubt.Init()
			}
		}

	case session.PhaseFeedbackCapture:
		switch key {
		case "esc":
			_ = s.sess.CancelFeedback()
		case "enter":
			d := s.doubt.Value()
			if d == "" {
				return nil
			}
			s.lastDoubt = d
			return s.run(opFeedback, func(ctx context.Context) error { return s.sess.SubmitFeedback(ctx, d) })
		default:
			var cmd tea.Cmd
			s.doubt, cmd = s.doubt.Update(msg)
			return cmd
		}

	case session.PhaseQuestionActive:
		s.syncChoice(v)
		s.choice = s.choice.Update(msg)
		if idx, ok := s.choice.Chosen(); ok {
			if _, err := s.sess.SelectAnswer(string(s.choiceLabels[idx])); err != nil {
				s.notice = err.Error()
				return nil
			}
			s.revealChoice(v.Question.CorrectAnswer)
		}

	case session.PhaseAnswerRevealed:
		if key == "enter" || key == "space" {
			return s.run(opNext, s.sess.Next)
		}

	case session.PhaseTopicComplete:
		if key == "enter" {
			if err := s.sess.NextTopic(); err != nil {
				s.notice = err.Error()
				return nil
			}
			return s.follow()
		}

	case session.PhaseFinished:
		if key == "q" || key == "enter" {
			return tea.Quit
		}
	}
	return nil
}

func (s *LearnScreen) handleSidebarKey(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "esc" {
		s.sidebar = false
		s.outline.Focused = false
		return nil
	}

	var enter bool
	s.outline, enter = s.outline.Update(msg)
	if !enter {
		return nil
	}
	val, ok := s.outline.Chosen()
	if !ok {
		return nil
	}
	c := val.(session.Cursor)
	if err := s.sess.SelectSubtopic(c.Topic, c.Subtopic); err != nil {
		s.notice = err.Error()
		return nil
	}
	s.sidebar = false
	s.choiceAt = -1
	s.notice = ""
	return s.follow()
}

// syncOutline rebuilds the roadmap outline when the roadmap arrives or the
// cursor moves.
func (s *LearnScreen) syncOutline() {
	v := s.sess.View()
	if len(v.Roadmap) == s.outlineLen && v.Cursor == s.outlineFor {
		return
	}

	var items []components.OutlineItem
	for i, t := range v.Roadmap {
		items = append(items, components.OutlineItem{Label: t.Name, Header: true})
		for j, sub := range t.Subtopics {
			c := session.Cursor{Topic: i, Subtopic: j}
			items = append(items, components.OutlineItem{Label: sub, Current: c == v.Cursor, Value: c})
		}
	}
	s.outline = components.NewOutline(items)
	s.outline.Focused = s.sidebar
	s.outlineLen = len(v.Roadmap)
	s.outlineFor = v.Cursor
}

// syncChoice builds the option picker for the current question.
func (s *LearnScreen) syncChoice(v session.View) {
	if v.Question == nil || s.choiceAt == v.QuestionIndex {
		return
	}
	var labels, opts []string
	s.choiceLabels = s.choiceLabels[:0]
	for _, l := range quiz.Labels {
		text, ok := v.Question.Options[l]
		if !ok {
			continue
		}
		s.choiceLabels = append(s.choiceLabels, l)
		labels = append(labels, string(l))
		opts = append(opts, text)
	}
	s.choice = components.NewMultiChoice(v.Question.Text, labels, opts)
	s.choiceAt = v.QuestionIndex
}

func (s *LearnScreen) revealChoice(correct quiz.Label) {
	for i, l := range s.choiceLabels {
		if l == correct {
			s.choice.Reveal(i)
		}
	}
}
