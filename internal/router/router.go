// Package router holds the screen stack. Pathwise normally runs two deep at
// most: the start prompt, replaced by the learning screen.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/screen"
)

type (
	// PushScreenMsg stacks Screen over the current one.
	PushScreenMsg struct{ Screen screen.Screen }
	// PopScreenMsg returns to the screen below. Ignored on the last one.
	PopScreenMsg struct{}
	// ReplaceScreenMsg swaps the top screen so that back skips it.
	ReplaceScreenMsg struct{ Screen screen.Screen }
)

// Router forwards messages to the top of the stack only.
type Router struct {
	stack []screen.Screen
}

func New(initial screen.Screen) *Router {
	return &Router{stack: []screen.Screen{initial}}
}

func (r *Router) Depth() int { return len(r.stack) }

func (r *Router) top() int { return len(r.stack) - 1 }

func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[r.top()]
}

// Push runs s.Init and returns its command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

func (r *Router) Pop() tea.Cmd {
	if len(r.stack) > 1 {
		r.stack[r.top()] = nil
		r.stack = r.stack[:r.top()]
	}
	return nil
}

// Replace runs s.Init and returns its command.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.stack[r.top()] = s
	return s.Init()
}

func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch nav := msg.(type) {
	case PushScreenMsg:
		return r.Push(nav.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(nav.Screen)
	}

	if len(r.stack) == 0 {
		return nil
	}
	next, cmd := r.stack[r.top()].Update(msg)
	r.stack[r.top()] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if s := r.Active(); s != nil {
		return s.View(width, height)
	}
	return ""
}
