package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func TestMultiChoiceFirstChoiceIsFinal(t *testing.T) {
	m := NewMultiChoice("Which?", []string{"A", "B", "C", "D"}, []string{"w", "x", "y", "z"})

	m = m.Update(key("down"))
	m = m.Update(key("enter"))
	idx, ok := m.Chosen()
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	m = m.Update(key("up"))
	m = m.Update(key("d"))
	idx, _ = m.Chosen()
	assert.Equal(t, 1, idx, "later keys must not change the answer")
}

func TestMultiChoiceLabelKey(t *testing.T) {
	m := NewMultiChoice("Which?", []string{"A", "B", "C", "D"}, []string{"w", "x", "y", "z"})
	m = m.Update(key("c"))

	idx, ok := m.Chosen()
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	m.Reveal(0)
	assert.Contains(t, m.View(60), "C)  y")
}

func TestOutlineSkipsHeaders(t *testing.T) {
	o := NewOutline([]OutlineItem{
		{Label: "Basics", Header: true},
		{Label: "Variables", Value: 1},
		{Label: "Functions", Header: true},
		{Label: "Closures", Value: 2, Current: true},
	})
	assert.Equal(t, 3, o.Selected)

	o.Focused = true
	o, _ = o.Update(key("up"))
	assert.Equal(t, 1, o.Selected)

	o, _ = o.Update(key("up"))
	assert.Equal(t, 1, o.Selected)

	o, enter := o.Update(key("enter"))
	assert.True(t, enter)
	v, ok := o.Chosen()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestOutlineIgnoresKeysWhenUnfocused(t *testing.T) {
	o := NewOutline([]OutlineItem{{Label: "a", Value: 0}, {Label: "b", Value: 1}})
	o, enter := o.Update(key("down"))
	assert.False(t, enter)
	assert.Equal(t, 0, o.Selected)
}

func TestProgressBarClamps(t *testing.T) {
	p := ProgressBar{Done: 12, Total: 10, Width: 30}
	assert.InDelta(t, 1, p.fraction(), 1e-9)
	assert.Contains(t, p.View(), "12/10")

	assert.Zero(t, ProgressBar{Total: 0}.fraction())
}
