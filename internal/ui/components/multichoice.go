package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/ui/theme"
)

// MultiChoice is a labelled option picker. The first choice is final:
// once chosen, further keys are ignored.
type MultiChoice struct {
	Question string
	Labels   []string
	Options  []string

	Selected int
	chosen   int
	correct  int
}

func NewMultiChoice(question string, labels, options []string) MultiChoice {
	return MultiChoice{
		Question: question,
		Labels:   labels,
		Options:  options,
		chosen:   -1,
		correct:  -1,
	}
}

// Update moves the selection with arrow keys and chooses with enter or
// by typing an option's label.
func (m MultiChoice) Update(msg tea.Msg) MultiChoice {
	if m.chosen >= 0 {
		return m
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.chosen = m.Selected
	default:
		for i, l := range m.Labels {
			if strings.EqualFold(key, l) {
				m.Selected = i
				m.chosen = i
			}
		}
	}
	return m
}

// Chosen returns the chosen option index.
func (m MultiChoice) Chosen() (int, bool) {
	return m.chosen, m.chosen >= 0
}

// Reveal marks the correct option so View can color the outcome.
func (m *MultiChoice) Reveal(correct int) {
	m.correct = correct
}

func (m MultiChoice) View(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && m.chosen < 0 {
			prefix = "▸ "
		}
		label := ""
		if i < len(m.Labels) {
			label = m.Labels[i]
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		style := theme.Unselected
		switch {
		case m.correct >= 0 && i == m.correct:
			style = theme.Correct
		case m.chosen >= 0 && i == m.chosen:
			style = theme.Incorrect
			if m.correct < 0 {
				style = theme.Selected
			}
		case m.chosen >= 0:
			style = theme.Muted
		case i == m.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Width(width).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
