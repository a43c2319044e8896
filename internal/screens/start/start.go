// Package start asks the learner what they want to learn.
package start

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

const maxTopicLen = 120

// StartScreen reads a subject and hands it to the learning screen.
type StartScreen struct {
	learnFactory func(topic string) screen.Screen
	greeting     string
	input        components.TextInput
	errMsg       string
	transitioned bool
}

var _ screen.Screen = (*StartScreen)(nil)
var _ screen.KeyHintProvider = (*StartScreen)(nil)

// New creates a StartScreen. learnFactory builds the screen that teaches
// the chosen topic; name, if set, is used to greet the learner.
func New(name string, learnFactory func(topic string) screen.Screen) *StartScreen {
	greeting := "What would you like to learn today?"
	if name != "" {
		greeting = "Hi " + name + ", what would you like to learn today?"
	}
	return &StartScreen{
		learnFactory: learnFactory,
		greeting:     greeting,
		input:        components.NewTextInput("e.g. Photosynthesis, Go channels, Fractions", maxTopicLen),
	}
}

func (s *StartScreen) Title() string {
	return ""
}

func (s *StartScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *StartScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start learning"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *StartScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		return s, s.submit()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if _, ok := msg.(tea.KeyPressMsg); ok {
		s.errMsg = ""
	}
	return s, cmd
}

func (s *StartScreen) submit() tea.Cmd {
	if s.transitioned {
		return nil
	}
	topic := s.input.Value()
	if topic == "" {
		s.errMsg = "Type a topic first."
		return nil
	}
	s.transitioned = true
	next := s.learnFactory(topic)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *StartScreen) View(width, height int) string {
	fieldWidth := min(60, width-8)
	s.input.SetWidth(fieldWidth)

	sections := []string{
		RenderBanner(width),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(s.greeting),
		"",
		theme.Card.Width(fieldWidth + 6).Render(s.input.View()),
	}
	if s.errMsg != "" {
		sections = append(sections, "", theme.Incorrect.Render(s.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
