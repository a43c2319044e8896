package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/ui/theme"
)

// OutlineItem is one row of an Outline. Headers group the items below
// them and cannot be selected.
type OutlineItem struct {
	Label  string
	Header bool
	// Current marks the row the learner is on.
	Current bool
	// Value is returned by Outline.Chosen.
	Value any
}

// Outline is a vertical list with section headers, used for the roadmap.
type Outline struct {
	Items    []OutlineItem
	Selected int
	Focused  bool
}

// NewOutline selects the current item, or the first selectable one.
func NewOutline(items []OutlineItem) Outline {
	o := Outline{Items: items, Selected: -1}
	for i, it := range items {
		if it.Header {
			continue
		}
		if o.Selected < 0 || it.Current {
			o.Selected = i
		}
		if it.Current {
			break
		}
	}
	return o
}

// Update moves the selection over selectable items. It reports whether
// enter was pressed on a selectable item.
func (o Outline) Update(msg tea.Msg) (Outline, bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !o.Focused {
		return o, false
	}

	switch kmsg.String() {
	case "up", "k":
		for i := o.Selected - 1; i >= 0; i-- {
			if !o.Items[i].Header {
				o.Selected = i
				break
			}
		}
	case "down", "j":
		for i := o.Selected + 1; i < len(o.Items); i++ {
			if !o.Items[i].Header {
				o.Selected = i
				break
			}
		}
	case "enter":
		return o, o.Selected >= 0
	}
	return o, false
}

// Chosen returns the value of the selected item.
func (o Outline) Chosen() (any, bool) {
	if o.Selected < 0 || o.Selected >= len(o.Items) {
		return nil, false
	}
	return o.Items[o.Selected].Value, true
}

func (o Outline) View(width int) string {
	var b strings.Builder
	for i, it := range o.Items {
		var line string
		switch {
		case it.Header:
			line = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(it.Label)
		case o.Focused && i == o.Selected:
			line = theme.Selected.Render("▸ " + it.Label)
		case it.Current:
			line = lipgloss.NewStyle().Foreground(theme.Accent).Render("• " + it.Label)
		default:
			line = theme.Unselected.Render("  " + it.Label)
		}
		b.WriteString(lipgloss.NewStyle().MaxWidth(width).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
