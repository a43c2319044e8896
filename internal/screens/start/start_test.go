package start

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
)

type stubScreen struct{ topic string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.topic }
func (s *stubScreen) Title() string                           { return "Learn" }

func newTestStart() (*StartScreen, *[]string) {
	var topics []string
	return New("Asha", func(topic string) screen.Screen {
		topics = append(topics, topic)
		return &stubScreen{topic: topic}
	}), &topics
}

func typeText(s *StartScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestEnterWithTopicReplacesScreen(t *testing.T) {
	s, topics := newTestStart()
	typeText(s, "  Fractions ")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command after enter")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen.View(0, 0) != "Fractions" {
		t.Errorf("topic = %q, want trimmed %q", msg.Screen.View(0, 0), "Fractions")
	}
	if len(*topics) != 1 {
		t.Errorf("factory called %d times, want 1", len(*topics))
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("second enter should not transition again")
	}
}

func TestEnterWithoutTopicShowsError(t *testing.T) {
	s, topics := newTestStart()

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("blank topic must not transition")
	}
	if len(*topics) != 0 {
		t.Fatal("factory must not be called")
	}
	if !strings.Contains(s.View(100, 30), "Type a topic first.") {
		t.Error("expected an error hint in the view")
	}

	typeText(s, "x")
	if strings.Contains(s.View(100, 30), "Type a topic first.") {
		t.Error("typing should clear the error")
	}
}

func TestGreetingUsesName(t *testing.T) {
	s, _ := newTestStart()
	if !strings.Contains(s.View(100, 30), "Hi Asha") {
		t.Error("expected greeting with learner name")
	}
}

func TestBannerFallsBackWhenNarrow(t *testing.T) {
	if !strings.Contains(RenderBanner(40), "P A T H W I S E") {
		t.Error("expected compact banner")
	}
}
