// Package theme is the pathwise palette and the lipgloss styles built on it.
package theme

import "charm.land/lipgloss/v2"

// Palette. Teal leads, amber marks things that need the learner's attention.
var (
	Primary   = lipgloss.Color("#14B8A6")
	Secondary = lipgloss.Color("#38BDF8")
	Accent    = lipgloss.Color("#FBBF24")
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#E5E7EB")
	TextDim   = lipgloss.Color("#9CA3AF")
	Border    = lipgloss.Color("#3F4A5A")
)

// Text styles.
var (
	Body    = lipgloss.NewStyle().Foreground(Text)
	Muted   = lipgloss.NewStyle().Foreground(TextDim)
	Hint    = Muted.Italic(true)
	Heading = lipgloss.NewStyle().Foreground(Secondary).Bold(true)

	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = Body
	Correct    = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect  = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// Frames.
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	// Sidebar draws a rule between the roadmap outline and the lesson.
	Sidebar = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(Border).
		PaddingRight(1)

	// Callout frames clarifications and errors.
	Callout = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Padding(0, 1)
)

var (
	ProgressFilled = lipgloss.NewStyle().Background(Primary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)
)
