package learn

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

func (s *LearnScreen) View(width, height int) string {
	v := s.sess.View()

	if len(v.Roadmap) == 0 || (layout.IsCompactWidth(width) && !s.sidebar) {
		return s.renderMain(v, width, height)
	}
	if layout.IsCompactWidth(width) {
		return s.outline.View(width)
	}

	side := theme.Sidebar.
		Width(layout.SidebarWidth).
		Height(height).
		Render(s.outline.View(layout.SidebarWidth - 2))
	mainWidth := width - lipgloss.Width(side) - 2
	main := lipgloss.NewStyle().PaddingLeft(2).Render(s.renderMain(v, mainWidth, height))
	return lipgloss.JoinHorizontal(lipgloss.Top, side, main)
}

func (s *LearnScreen) renderMain(v session.View, width, height int) string {
	var b strings.Builder
	if v.Subtopic != "" {
		b.WriteString(theme.Muted.Render(v.Topic + "  ›  "))
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(v.Subtopic))
		b.WriteString("\n\n")
	}
	if s.notice != "" {
		b.WriteString(theme.Muted.Render(s.notice) + "\n\n")
	}

	switch v.Phase {
	case session.PhaseIdle, session.PhaseRoadmapLoading:
		b.WriteString(s.renderLoading(v, "Planning a roadmap for "+v.Subject+"..."))
	case session.PhaseTopicSelected, session.PhaseContentLoading:
		b.WriteString(s.renderLastQuiz(v, width))
		b.WriteString(s.renderLoading(v, "Writing your lesson..."))
	case session.PhaseContentReady:
		b.WriteString(s.renderLastQuiz(v, width))
		b.WriteString(s.renderLesson(v, width, height-lipgloss.Height(b.String())))
	case session.PhaseFeedbackCapture:
		b.WriteString(s.renderDoubt(v, width))
	case session.PhaseQuizLoading:
		b.WriteString(s.renderLoading(v, "Preparing your quiz..."))
	case session.PhaseQuestionActive, session.PhaseAnswerRevealed:
		b.WriteString(s.renderQuestion(v, width))
	case session.PhaseQuizComplete:
		b.WriteString(s.renderLoading(v, "Scoring your quiz..."))
	case session.PhaseTopicComplete:
		b.WriteString(s.renderTopicComplete(v, width))
	case session.PhaseFinished:
		b.WriteString(s.renderFinished(v, width))
	}
	return b.String()
}

func (s *LearnScreen) renderLoading(v session.View, label string) string {
	if v.Err != nil {
		return renderError(v.Err)
	}
	return s.spinner.View() + " " + theme.Hint.Render(label)
}

func renderError(err error) string {
	return theme.Callout.BorderForeground(theme.Error).Render(
		theme.Incorrect.Render("Something went wrong") + "\n" +
			theme.Body.Render(err.Error()) + "\n\n" +
			theme.Hint.Render("Press r to retry."))
}

// renderLesson shows the content blocks and any clarification, scrolled
// by s.scroll lines.
func (s *LearnScreen) renderLesson(v session.View, width, height int) string {
	var b strings.Builder
	body := theme.Body.Width(width)
	for _, blk := range v.Content {
		b.WriteString(theme.Heading.Render(blk.Heading))
		b.WriteString("\n")
		b.WriteString(body.Render(blk.Lesson))
		b.WriteString("\n\n")
	}
	if v.Clarification != "" {
		b.WriteString(theme.Callout.Width(width).Render(
			theme.Heading.Render("Clarification") + "\n" + v.Clarification))
		b.WriteString("\n")
	}

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	s.scroll = min(s.scroll, max(len(lines)-height, 0))
	end := min(s.scroll+max(height, 1), len(lines))
	return strings.Join(lines[s.scroll:end], "\n")
}

func (s *LearnScreen) renderDoubt(v session.View, width int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render("What didn't make sense?"))
	b.WriteString("\n\n")
	s.doubt.SetWidth(max(width-6, 10))
	b.WriteString(theme.Card.Width(width).Render(s.doubt.View()))
	b.WriteString("\n\n")
	switch {
	case v.Busy:
		b.WriteString(s.spinner.View() + " " + theme.Hint.Render("Finding a clearer explanation..."))
	case v.Err != nil:
		b.WriteString(theme.Incorrect.Render(v.Err.Error()) + "\n" + theme.Hint.Render("Press enter to ask again."))
	}
	return b.String()
}

func (s *LearnScreen) renderQuestion(v session.View, width int) string {
	s.syncChoice(v)

	var b strings.Builder
	bar := components.ProgressBar{
		Label: "Quiz",
		Done:  v.QuestionIndex,
		Total: v.QuestionCount,
		Width: min(width, 60),
	}
	if v.Phase == session.PhaseAnswerRevealed {
		bar.Done++
	}
	b.WriteString(bar.View())
	b.WriteString("\n\n")
	b.WriteString(s.choice.View(width))

	if v.Phase == session.PhaseAnswerRevealed && v.Question != nil {
		b.WriteString("\n")
		verdict := theme.Correct.Render("Correct!")
		if !v.Correct {
			verdict = theme.Incorrect.Render(fmt.Sprintf("Not quite. The answer is %s.", v.Question.CorrectAnswer))
		}
		b.WriteString(verdict + "\n")
		if v.Question.Explanation != "" {
			b.WriteString(theme.Body.Width(width).Render(v.Question.Explanation))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderLastQuiz summarizes the quiz of the previous subtopic, if any.
func (s *LearnScreen) renderLastQuiz(v session.View, width int) string {
	if v.Telemetry == nil {
		return ""
	}
	t := v.Telemetry
	line := fmt.Sprintf("Last quiz on %s: %d/%d", t.Subtopic, t.TotalScore, t.QuestionCount)
	if len(t.WeakTopics) > 0 {
		line += "  ·  revisit " + strings.Join(t.WeakTopics, ", ")
	}
	return theme.Muted.Width(width).Render(line) + "\n\n"
}

func (s *LearnScreen) renderTopicComplete(v session.View, width int) string {
	var b strings.Builder
	b.WriteString(theme.Correct.Render(fmt.Sprintf("You finished %s!", v.Topic)))
	b.WriteString("\n\n")
	b.WriteString(s.renderLastQuiz(v, width))
	if next := v.Cursor.Topic + 1; next < len(v.Roadmap) {
		b.WriteString(theme.Body.Render("Up next: " + v.Roadmap[next].Name))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *LearnScreen) renderFinished(v session.View, width int) string {
	var b strings.Builder
	b.WriteString(theme.Correct.Render(fmt.Sprintf("You completed the %s roadmap.", v.Subject)))
	b.WriteString("\n\n")
	b.WriteString(s.renderLastQuiz(v, width))

	if p := v.Profile; p != nil {
		rows := []string{
			fmt.Sprintf("Quizzes played   %d", p.TotalQuizzesPlayed),
			fmt.Sprintf("Average score    %.1f / 10", p.AvgQuizScore),
			fmt.Sprintf("Confidence       %.0f%%", p.AvgConfidenceScore),
			fmt.Sprintf("Adaptability     %.1f / 10", p.AdaptabilityScore),
		}
		if len(p.WeakTopics) > 0 {
			rows = append(rows, "Work on          "+strings.Join(p.WeakTopics, ", "))
		}
		b.WriteString(theme.Card.Render(strings.Join(rows, "\n")))
		b.WriteString("\n")
	}
	return b.String()
}
